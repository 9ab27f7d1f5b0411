// Package trino provides the Trino type dialect definition.
// Trino kept Presto's type syntax, so the keyword table is shared.
package trino

import (
	"github.com/leapstack-labs/coltype/pkg/core"
	"github.com/leapstack-labs/coltype/pkg/dialects/presto"
)

// Config is the Trino dialect configuration.
var Config = &core.DialectConfig{
	Name:           "trino",
	Description:    "Trino types (Presto syntax)",
	NestedKeywords: presto.Config.NestedKeywords,
	StripQuotes:    presto.Config.StripQuotes,
	QuoteChar:      presto.Config.QuoteChar,
	PrecisionTypes: presto.Config.PrecisionTypes,
}
