package commands

import (
	"fmt"

	"github.com/leapstack-labs/coltype/internal/cli/output"
	"github.com/spf13/cobra"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	FailFlat bool
}

// CheckResult is the JSON output for one checked type.
type CheckResult struct {
	Type   string `json:"type"`
	Nested bool   `json:"nested"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check <type>...",
		Short: "Report whether column types are nested",
		Long: `Classify each type as nested (array, map, struct, row, ...) or flat
according to the selected dialect.`,
		Example: `  # Classify a Hive type
  coltype check 'array<string>'

  # Presto types, failing when any type is flat
  coltype check -d presto --fail-flat 'row("a" int)' varchar`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.FailFlat, "fail-flat", false, "Exit with an error when a flat type is seen")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	p, err := cmdCtx.Parser()
	if err != nil {
		return err
	}

	results := make([]CheckResult, 0, len(args))
	flat := 0
	for _, typ := range args {
		res := CheckResult{Type: typ, Nested: p.IsNested(typ)}
		if !res.Nested {
			flat++
		}
		results = append(results, res)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(results); err != nil {
			return err
		}
	case output.ModeMarkdown:
		rows := make([][]string, len(results))
		for i, res := range results {
			rows[i] = []string{"`" + res.Type + "`", fmt.Sprintf("%t", res.Nested)}
		}
		r.Table([]string{"Type", "Nested"}, rows)
	default:
		styles := r.Styles()
		for _, res := range results {
			mark := styles.Muted.Render("flat  ")
			if res.Nested {
				mark = styles.Success.Render("nested")
			}
			r.Printf("%s  %s\n", mark, res.Type)
		}
	}

	if opts.FailFlat && flat > 0 {
		return fmt.Errorf("%d of %d types are not nested %s types", flat, len(results), p.Dialect().Name)
	}
	return nil
}
