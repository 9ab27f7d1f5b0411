// Command coltype decomposes nested SQL column types.
package main

import (
	"os"

	"github.com/leapstack-labs/coltype/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
