package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/coltype/internal/catalog"
	"github.com/leapstack-labs/coltype/internal/cli/output"
	"github.com/leapstack-labs/coltype/internal/state"
	"github.com/spf13/cobra"
)

// ColumnsOptions holds options for the columns command.
type ColumnsOptions struct {
	NestedOnly bool
}

// ColumnInfo is the JSON output for one stored column.
type ColumnInfo struct {
	Table     string `json:"table"`
	Name      string `json:"name"`
	Type      string `json:"col_type"`
	Nested    bool   `json:"nested"`
	Truncated string `json:"truncated,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NewColumnsCommand creates the columns command.
func NewColumnsCommand() *cobra.Command {
	opts := &ColumnsOptions{}
	cmd := &cobra.Command{
		Use:   "columns [table]",
		Short: "List stored columns with their collapsed types",
		Long: `List the columns in the state store with the collapsed label of each
nested type. The table may be given as its full key
(database://cluster.schema/name) or as schema.name.`,
		Example: `  coltype columns
  coltype columns --nested-only default.orders`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runColumns(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.NestedOnly, "nested-only", false, "Only list nested columns")
	return cmd
}

func runColumns(cmd *cobra.Command, args []string, opts *ColumnsOptions) error {
	ctx := cmd.Context()
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	store, err := cmdCtx.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	tables, err := store.ListTables(ctx)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		tables = matchTables(tables, args[0])
		if len(tables) == 0 {
			return fmt.Errorf("%w: %s", state.ErrTableNotFound, args[0])
		}
	}

	annotateOpts := cmdCtx.AnnotateOptions()
	var infos []ColumnInfo
	for _, summary := range tables {
		t, err := store.GetTable(ctx, summary.Key)
		if err != nil {
			if errors.Is(err, state.ErrTableNotFound) {
				continue
			}
			return err
		}
		for _, s := range catalog.AnnotateColumns(*t, annotateOpts) {
			if opts.NestedOnly && !s.Nested {
				continue
			}
			info := ColumnInfo{
				Table:     s.Table,
				Name:      s.Column.Name,
				Type:      s.Column.Type,
				Nested:    s.Nested,
				Truncated: s.Truncated,
			}
			if s.Err != nil {
				info.Error = s.Err.Error()
			}
			infos = append(infos, info)
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		if infos == nil {
			infos = []ColumnInfo{}
		}
		return r.JSON(infos)
	}

	if len(infos) == 0 {
		r.Muted("No columns found. Run 'coltype catalog import' first.")
		return nil
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		label := info.Type
		if info.Truncated != "" {
			label = info.Truncated
		}
		if info.Error != "" {
			label += " (" + info.Error + ")"
		}
		rows = append(rows, []string{info.Table, info.Name, label})
	}
	r.Table([]string{"Table", "Column", "Type"}, rows)
	return nil
}

// matchTables keeps the tables whose key or schema.name equals ref.
func matchTables(tables []state.TableSummary, ref string) []state.TableSummary {
	var out []state.TableSummary
	for _, t := range tables {
		if t.Key == ref || strings.EqualFold(t.Schema+"."+t.Name, ref) || strings.EqualFold(t.Name, ref) {
			out = append(out, t)
		}
	}
	return out
}
