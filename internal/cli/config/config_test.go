package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/coltype/pkg/core"
	"github.com/leapstack-labs/coltype/pkg/dialect"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Register adapters and dialects via init()
	_ "github.com/leapstack-labs/coltype/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/coltype/pkg/adapters/sqlite"
	_ "github.com/leapstack-labs/coltype/pkg/dialects"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coltype.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("dialect", "d", "", "")
	flags.Int("max-depth", 0, "")
	flags.Bool("strict", false, "")
	flags.String("state", "", "")
	flags.String("addr", "", "")
	return flags
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultDialect, cfg.Dialect)
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, DefaultStateFile, cfg.StatePath)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultAddr, cfg.Serve.Addr)
	assert.Equal(t, DefaultShutdown, cfg.Serve.ShutdownTimeout)
	assert.Empty(t, cfg.ConfigFile)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `dialect: Presto
strict: true
max_depth: 32
state_path: state/catalog.db
serve:
  addr: ":9090"
  shutdown_timeout: 2s
target:
  type: postgres
  host: ${COLTYPE_TEST_HOST}
  database: hms
  options:
    dialect: hive
dialects:
  - name: spark
    nested_keywords: [array, map, struct]
`)
	t.Setenv("COLTYPE_TEST_HOST", "hms.internal")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, "presto", cfg.Dialect, "dialect is lowercased")
	assert.True(t, cfg.Strict)
	assert.Equal(t, 32, cfg.MaxDepth)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "state/catalog.db"), cfg.StatePath)
	assert.Equal(t, ":9090", cfg.Serve.Addr)
	assert.Equal(t, 2*time.Second, cfg.Serve.ShutdownTimeout)

	require.NotNil(t, cfg.Target)
	assert.Equal(t, "hms.internal", cfg.Target.Host, "${VAR} is expanded")
	ac := cfg.Target.AdapterConfig()
	assert.Equal(t, "postgres", ac.Type)
	assert.Equal(t, "hive", ac.Options["dialect"])
	assert.NoError(t, cfg.ValidateTarget())

	require.Len(t, cfg.Dialects, 1)
	assert.Equal(t, []string{"array", "map", "struct"}, cfg.Dialects[0].NestedKeywords)
}

func TestLoad_UpwardSearch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "coltype.yaml"), []byte("dialect: presto\n"), 0o600))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "presto", cfg.Dialect)
	assert.Equal(t, "coltype.yaml", filepath.Base(cfg.ConfigFile))
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, "max_depth: 10\ndialect: hive\n")

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("COLTYPE_MAX_DEPTH", "20")
		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, 20, cfg.MaxDepth)
	})

	t.Run("set flag overrides env", func(t *testing.T) {
		t.Setenv("COLTYPE_MAX_DEPTH", "20")
		flags := newFlags()
		require.NoError(t, flags.Set("max-depth", "30"))
		cfg, err := Load(path, flags)
		require.NoError(t, err)
		assert.Equal(t, 30, cfg.MaxDepth)
	})

	t.Run("unset flag keeps env", func(t *testing.T) {
		t.Setenv("COLTYPE_MAX_DEPTH", "20")
		cfg, err := Load(path, newFlags())
		require.NoError(t, err)
		assert.Equal(t, 20, cfg.MaxDepth)
	})

	t.Run("nested env key", func(t *testing.T) {
		t.Setenv("COLTYPE_SERVE__ADDR", ":7000")
		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, ":7000", cfg.Serve.Addr)
	})

	t.Run("mapped flag keys", func(t *testing.T) {
		flags := newFlags()
		require.NoError(t, flags.Set("state", "local.db"))
		require.NoError(t, flags.Set("addr", ":6000"))
		cfg, err := Load(path, flags)
		require.NoError(t, err)
		assert.Equal(t, "local.db", cfg.StatePath, "flag paths stay relative to the working directory")
		assert.Equal(t, ":6000", cfg.Serve.Addr)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{Dialect: "hive", MaxDepth: 8, OutputFormat: "auto", Concurrency: 1}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown dialect", func(c *Config) { c.Dialect = "oracle" }, "unknown dialect"},
		{"missing dialect", func(c *Config) { c.Dialect = "" }, "dialect is required"},
		{"bad output", func(c *Config) { c.OutputFormat = "xml" }, "invalid output mode"},
		{"zero depth", func(c *Config) { c.MaxDepth = 0 }, "max_depth must be positive"},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, "concurrency must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_RegisterDialects(t *testing.T) {
	cfg := &Config{
		Dialect:      "spark_cfg_test",
		MaxDepth:     4,
		Concurrency:  1,
		OutputFormat: "json",
		Dialects: []core.DialectConfig{
			{Name: "spark_cfg_test", NestedKeywords: []string{"struct", "array"}},
		},
	}
	t.Cleanup(func() { dialect.Unregister("spark_cfg_test") })

	require.Error(t, cfg.Validate(), "dialect is unknown before registration")
	require.NoError(t, cfg.RegisterDialects())
	assert.NoError(t, cfg.Validate())

	bad := &Config{Dialects: []core.DialectConfig{{Name: "empty_kw"}}}
	err := bad.RegisterDialects()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dialects[0]")
}

func TestConfig_ValidateTarget(t *testing.T) {
	tests := []struct {
		name   string
		target *TargetConfig
		errMsg string
	}{
		{"nil target", nil, "target type is required"},
		{"empty type", &TargetConfig{}, "target type is required"},
		{"postgres", &TargetConfig{Type: "postgres"}, ""},
		{"sqlite uppercase", &TargetConfig{Type: "SQLite"}, ""},
		{"unknown", &TargetConfig{Type: "oracle"}, "unknown adapter type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Config{Target: tt.target}).ValidateTarget()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("COLTYPE_TEST_SECRET", "s3cret")

	assert.Equal(t, "s3cret", expandEnvVars("${COLTYPE_TEST_SECRET}"))
	assert.Equal(t, "pre-s3cret-post", expandEnvVars("pre-${COLTYPE_TEST_SECRET}-post"))
	assert.Equal(t, "${COLTYPE_TEST_UNSET}", expandEnvVars("${COLTYPE_TEST_UNSET}"), "unset vars are kept")
	assert.Equal(t, "plain", expandEnvVars("plain"))
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "discard fallback")

	logger := GetLogger(WithLogger(context.Background(), nil))
	assert.NotNil(t, logger)

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestFromContext(t *testing.T) {
	def := FromContext(context.Background())
	assert.Equal(t, DefaultDialect, def.Dialect)
	assert.Equal(t, DefaultMaxDepth, def.MaxDepth)

	cfg := &Config{Dialect: "presto"}
	assert.Same(t, cfg, FromContext(WithConfig(context.Background(), cfg)))
}
