package hive

import "github.com/leapstack-labs/coltype/pkg/dialect"

func init() {
	dialect.Register(Hive)
}

// Hive is the Hive type dialect.
var Hive = dialect.New(Config).Build()
