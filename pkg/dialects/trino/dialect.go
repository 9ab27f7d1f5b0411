package trino

import "github.com/leapstack-labs/coltype/pkg/dialect"

func init() {
	dialect.Register(Trino)
}

// Trino is the Trino type dialect.
var Trino = dialect.New(Config).Build()
