// Package presto provides the Presto type dialect definition.
// This package is pure data with no database driver dependencies.
package presto

import "github.com/leapstack-labs/coltype/pkg/core"

// Config is the Presto dialect configuration.
// Presto quotes row field names: row("c0" timestamp(3),"c1" varchar).
var Config = &core.DialectConfig{
	Name:           "presto",
	Description:    "Presto types (quoted row fields)",
	NestedKeywords: []string{"array", "map", "row"},
	StripQuotes:    true,
	QuoteChar:      `"`,
	PrecisionTypes: []string{"timestamp"},
}
