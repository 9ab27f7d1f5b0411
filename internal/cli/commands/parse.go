package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/coltype/internal/cli/output"
	"github.com/leapstack-labs/coltype/pkg/core"
	"github.com/leapstack-labs/coltype/pkg/format"
	"github.com/spf13/cobra"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Depth int
}

// ParseResult is the JSON output of the parse command.
type ParseResult struct {
	Type      string           `json:"type"`
	Dialect   string           `json:"dialect"`
	Nested    bool             `json:"nested"`
	Truncated string           `json:"truncated,omitempty"`
	Tree      *core.NestedType `json:"tree,omitempty"`
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}
	cmd := &cobra.Command{
		Use:   "parse <type>",
		Short: "Decompose a nested type into its expanded tree",
		Long: `Parse a column type descriptor and print its collapsed label followed
by the expanded view, one member per line.`,
		Example: `  # Expand a Hive struct
  coltype parse 'struct<a:int,b:array<string>>'

  # Only expand the first level
  coltype parse --depth 1 'struct<a:int,b:array<string>>'

  # Print the tree as JSON
  coltype parse -o json -d presto 'row("a" integer, "b" array(varchar))'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.Depth, "depth", format.Unlimited, "Levels to expand (negative expands all)")
	return cmd
}

func runParse(cmd *cobra.Command, typ string, opts *ParseOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	p, err := cmdCtx.Parser()
	if err != nil {
		return err
	}

	tree, err := p.Parse(typ)
	if err != nil {
		return fmt.Errorf("failed to parse %q: %w", typ, err)
	}

	res := ParseResult{Type: typ, Dialect: p.Dialect().Name, Nested: tree != nil, Tree: tree}
	if tree != nil {
		res.Truncated = tree.Truncated()
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(res)
	}

	if tree == nil {
		r.Muted(fmt.Sprintf("%s is not a nested %s type", typ, res.Dialect))
		return nil
	}

	expanded := strings.TrimRight(format.ExpandedToDepth(tree, opts.Depth), "\n")
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Header(2, res.Truncated)
		r.Println(output.FormatKeyValue("Dialect", res.Dialect))
		r.Println(output.FormatKeyValue("Depth", fmt.Sprintf("%d", tree.Depth())))
		r.Println()
		r.Println("```")
		r.Println(expanded)
		r.Println("```")
		return nil
	}

	styles := r.Styles()
	r.Println(styles.Header2.Render(res.Truncated))
	r.Println(expanded)
	return nil
}
