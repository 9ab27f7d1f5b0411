package commands

import (
	"fmt"
	"path/filepath"

	"github.com/leapstack-labs/coltype/internal/catalog"
	"github.com/leapstack-labs/coltype/internal/cli/config"
	"github.com/leapstack-labs/coltype/internal/cli/output"
	"github.com/leapstack-labs/coltype/internal/state"
	"github.com/leapstack-labs/coltype/pkg/adapter"
	"github.com/leapstack-labs/coltype/pkg/core"
	"github.com/spf13/cobra"
)

// ImportResult is the JSON output of catalog import and introspect.
type ImportResult struct {
	Import *state.Import  `json:"import"`
	Stats  catalog.Stats  `json:"stats"`
	Failed []FailedColumn `json:"failed,omitempty"`
}

// FailedColumn is a column whose type could not be parsed.
type FailedColumn struct {
	Table  string `json:"table"`
	Column string `json:"column"`
	Type   string `json:"type"`
	Error  string `json:"error"`
}

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Load catalog metadata into the state store",
		Long: `Load table and column metadata into the local state store, either
from a catalog file or from a live metastore.`,
	}
	cmd.AddCommand(newCatalogImportCommand())
	cmd.AddCommand(newCatalogIntrospectCommand())
	return cmd
}

func newCatalogImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a YAML or JSON catalog file",
		Long: `Read a catalog file, parse every column type and save the tables into
the state store. Previously imported tables with the same key are replaced.`,
		Example: `  coltype catalog import catalog.yaml
  coltype catalog import --strict -o json catalog.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			tables, err := catalog.Load(args[0])
			if err != nil {
				return err
			}
			source, err := filepath.Abs(args[0])
			if err != nil {
				source = args[0]
			}
			return importTables(cmd, cmdCtx, source, tables)
		},
	}
}

// IntrospectOptions holds flag overrides for the introspection target.
type IntrospectOptions struct {
	Type     string
	Path     string
	Database string
	Dialect  string
	Layout   string
}

func newCatalogIntrospectCommand() *cobra.Command {
	opts := &IntrospectOptions{}
	cmd := &cobra.Command{
		Use:   "introspect <table>...",
		Short: "Read table metadata from a live metastore",
		Long: `Connect to the target configured in coltype.yaml (or given by flags),
read the column types of each table and save them into the state store.
Tables are named [schema.]table.`,
		Example: `  # Hive metastore kept in SQLite
  coltype catalog introspect --target-type sqlite --target-path metastore.db default.orders

  # Trino information_schema mirrored in Postgres
  coltype catalog introspect --target-type postgres --layout information_schema --target-dialect trino web.events`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntrospect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "target-type", "", "Adapter type (postgres, sqlite)")
	cmd.Flags().StringVar(&opts.Path, "target-path", "", "Database file for file-based adapters")
	cmd.Flags().StringVar(&opts.Database, "target-database", "", "Database name")
	cmd.Flags().StringVar(&opts.Dialect, "target-dialect", "", "Type dialect of the catalog (default hive)")
	cmd.Flags().StringVar(&opts.Layout, "layout", "", "Catalog layout: metastore or information_schema")

	_ = cmd.RegisterFlagCompletionFunc("target-type", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return adapter.ListAdapters(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("layout", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{adapter.LayoutMetastore, adapter.LayoutInformationSchema}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// applyTo overlays explicitly given flags onto the configured target.
func (o *IntrospectOptions) applyTo(cfg *config.Config) {
	if cfg.Target == nil {
		cfg.Target = &config.TargetConfig{}
	}
	t := cfg.Target
	if o.Type != "" {
		t.Type = o.Type
	}
	if o.Path != "" {
		t.Path = o.Path
	}
	if o.Database != "" {
		t.Database = o.Database
	}
	if o.Dialect == "" && o.Layout == "" {
		return
	}
	if t.Options == nil {
		t.Options = make(map[string]string)
	}
	if o.Dialect != "" {
		t.Options["dialect"] = o.Dialect
	}
	if o.Layout != "" {
		t.Options["layout"] = o.Layout
	}
}

func runIntrospect(cmd *cobra.Command, args []string, opts *IntrospectOptions) error {
	ctx := cmd.Context()
	cmdCtx := NewCommandContext(cmd)

	opts.applyTo(cmdCtx.Cfg)
	if err := cmdCtx.Cfg.ValidateTarget(); err != nil {
		return err
	}

	a, err := adapter.Open(ctx, cmdCtx.Cfg.Target.AdapterConfig(), cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	tables := make([]core.TableMetadata, 0, len(args))
	for _, name := range args {
		meta, err := a.GetTableMetadata(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to introspect %s: %w", name, err)
		}
		cmdCtx.Logger.Debug("introspected table", "table", meta.Key(), "columns", len(meta.Columns))
		tables = append(tables, *meta)
	}

	source := cmdCtx.Cfg.Target.Type
	if cmdCtx.Cfg.Target.Database != "" {
		source += ":" + cmdCtx.Cfg.Target.Database
	}
	return importTables(cmd, cmdCtx, source, tables)
}

// importTables annotates tables, saves them and reports the outcome.
func importTables(cmd *cobra.Command, cmdCtx *CommandContext, source string, tables []core.TableMetadata) error {
	ctx := cmd.Context()
	r := cmdCtx.Renderer

	summaries, err := catalog.Annotate(ctx, tables, cmdCtx.AnnotateOptions())
	if err != nil {
		return err
	}
	stats := catalog.Summarize(summaries)

	store, err := cmdCtx.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	imp, err := store.ImportTables(ctx, source, tables)
	if err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}

	var failed []FailedColumn
	for _, s := range summaries {
		if s.Err == nil {
			continue
		}
		failed = append(failed, FailedColumn{
			Table:  s.Table,
			Column: s.Column.Name,
			Type:   s.Column.Type,
			Error:  s.Err.Error(),
		})
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(ImportResult{Import: imp, Stats: stats, Failed: failed})
	}

	for _, f := range failed {
		r.Warning(fmt.Sprintf("%s.%s: %s", f.Table, f.Column, f.Error))
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Header(2, "Catalog Import")
		r.Println(output.FormatKeyValue("Source", imp.Source))
		r.Println(output.FormatKeyValue("Import", imp.ID))
		r.Println(output.FormatKeyValue("Tables", fmt.Sprintf("%d", stats.Tables)))
		r.Println(output.FormatKeyValue("Columns", fmt.Sprintf("%d", stats.Columns)))
		r.Println(output.FormatKeyValue("Nested", fmt.Sprintf("%d", stats.Nested)))
		r.Println(output.FormatKeyValue("Failed", fmt.Sprintf("%d", stats.Failed)))
		return nil
	}

	r.Success(fmt.Sprintf("Imported %d tables from %s", len(tables), imp.Source))
	r.Muted(fmt.Sprintf("  %d columns, %d nested, %d failed (import %s)",
		stats.Columns, stats.Nested, stats.Failed, imp.ID))
	return nil
}
