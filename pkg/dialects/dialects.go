// Package dialects registers every built-in type dialect.
//
// Import this package with a blank identifier to register them:
//
//	import _ "github.com/leapstack-labs/coltype/pkg/dialects"
package dialects

import (
	_ "github.com/leapstack-labs/coltype/pkg/dialects/hive"
	_ "github.com/leapstack-labs/coltype/pkg/dialects/presto"
	_ "github.com/leapstack-labs/coltype/pkg/dialects/trino"
)
