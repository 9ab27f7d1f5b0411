package dialects

import (
	"testing"

	"github.com/leapstack-labs/coltype/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinsRegistered(t *testing.T) {
	for _, name := range []string{"hive", "presto", "trino"} {
		t.Run(name, func(t *testing.T) {
			d, ok := dialect.Get(name)
			require.True(t, ok, "dialect %s should be registered", name)
			assert.Equal(t, name, d.GetName())
		})
	}
}

func TestBuiltinKeywords(t *testing.T) {
	tests := []struct {
		dialect      string
		keywords     []string
		stripsQuotes bool
	}{
		{"hive", []string{"array", "map", "struct", "uniontype"}, false},
		{"presto", []string{"array", "map", "row"}, true},
		{"trino", []string{"array", "map", "row"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			d, err := dialect.Lookup(tt.dialect)
			require.NoError(t, err)
			assert.Equal(t, tt.keywords, d.Keywords())
			assert.Equal(t, tt.stripsQuotes, d.StripsQuotes())
			assert.Equal(t, []string{"timestamp"}, d.PrecisionTypes())
		})
	}
}
