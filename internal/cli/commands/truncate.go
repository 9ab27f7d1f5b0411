package commands

import (
	"github.com/leapstack-labs/coltype/internal/cli/output"
	"github.com/spf13/cobra"
)

// TruncateResult is the JSON output for one truncated type.
type TruncateResult struct {
	Type   string `json:"type"`
	Label  string `json:"label"`
	Nested bool   `json:"nested"`
}

// NewTruncateCommand creates the truncate command.
func NewTruncateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "truncate <type>...",
		Short: "Print the collapsed label of each type",
		Long: `Print the head...tail label of each nested type, e.g. struct<...>.
Flat types are printed unchanged.`,
		Example: `  coltype truncate 'map<string,int>' 'array<struct<a:int>>' bigint`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    runTruncate,
	}
}

func runTruncate(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	p, err := cmdCtx.Parser()
	if err != nil {
		return err
	}

	results := make([]TruncateResult, 0, len(args))
	for _, typ := range args {
		res := TruncateResult{Type: typ, Label: typ}
		tree, err := p.Parse(typ)
		if err != nil {
			return err
		}
		if tree != nil {
			res.Nested = true
			res.Label = tree.Truncated()
		}
		results = append(results, res)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(results)
	}
	for _, res := range results {
		r.Println(res.Label)
	}
	return nil
}
