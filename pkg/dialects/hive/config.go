// Package hive provides the Hive type dialect definition.
// This package is pure data with no database driver dependencies.
package hive

import "github.com/leapstack-labs/coltype/pkg/core"

// Config is the Hive dialect configuration.
// Hive spells structural types with angle brackets: struct<a:int,b:string>.
var Config = &core.DialectConfig{
	Name:           "hive",
	Description:    "Apache Hive metastore types",
	NestedKeywords: []string{"array", "map", "struct", "uniontype"},
}
