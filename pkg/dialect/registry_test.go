package dialect

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/coltype/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	d := NewDialect("RegTest").NestedKeywords("struct").Build()
	Register(d)
	t.Cleanup(func() { Unregister("regtest") })

	got, ok := Get("regtest")
	require.True(t, ok)
	assert.Same(t, d, got)

	got, ok = Get("REGTEST")
	require.True(t, ok, "lookup is case insensitive")
	assert.Same(t, d, got)

	assert.Contains(t, List(), "regtest")

	got, ok = GetExact("regtest")
	require.True(t, ok)
	assert.Same(t, d, got)

	_, ok = GetExact("RegTest")
	assert.False(t, ok, "exact lookup only matches the registered key")
}

func TestLookup(t *testing.T) {
	_, err := Lookup("")
	assert.ErrorIs(t, err, ErrDialectRequired)

	_, err = Lookup("nope")
	var unknown *UnknownDialectError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "nope", unknown.Name)
	assert.Contains(t, err.Error(), `unknown dialect "nope"`)
}

func TestRegisterConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *core.DialectConfig
		wantErr string
	}{
		{"nil config", nil, "dialect is required"},
		{"missing name", &core.DialectConfig{NestedKeywords: []string{"struct"}}, "dialect is required"},
		{"missing keywords", &core.DialectConfig{Name: "empty"}, "at least one nested keyword"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RegisterConfig(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	d, err := RegisterConfig(&core.DialectConfig{Name: "spark", NestedKeywords: []string{"struct", "array", "map"}})
	require.NoError(t, err)
	t.Cleanup(func() { Unregister("spark") })

	assert.True(t, d.IsNestedKeyword("struct<a:int>"))
	got, err := Lookup("spark")
	require.NoError(t, err)
	assert.Same(t, d, got)
}

func TestMustGet(t *testing.T) {
	Register(NewDialect("mustget_test").NestedKeywords("array").Build())
	t.Cleanup(func() { Unregister("mustget_test") })

	assert.Equal(t, "mustget_test", MustGet("MUSTGET_TEST").Name)
	assert.Panics(t, func() { MustGet("no_such_dialect") })
}
