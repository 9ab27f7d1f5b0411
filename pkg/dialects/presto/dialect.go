package presto

import "github.com/leapstack-labs/coltype/pkg/dialect"

func init() {
	dialect.Register(Presto)
}

// Presto is the Presto type dialect.
var Presto = dialect.New(Config).Build()
