package commands

import (
	"strings"

	"github.com/leapstack-labs/coltype/internal/cli/output"
	"github.com/leapstack-labs/coltype/pkg/dialect"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DialectInfo is the JSON output for one dialect.
type DialectInfo struct {
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Keywords       []string `json:"keywords"`
	StripQuotes    bool     `json:"strip_quotes"`
	PrecisionTypes []string `json:"precision_types"`
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List registered type dialects",
		Long: `List the registered type dialects with their nested keywords.
Dialects declared in coltype.yaml are included.`,
		Args: cobra.NoArgs,
		RunE: runDialects,
	}
}

func runDialects(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	names := dialect.List()
	infos := make([]DialectInfo, 0, len(names))
	for _, name := range names {
		d, ok := dialect.Get(name)
		if !ok {
			continue
		}
		infos = append(infos, DialectInfo{
			Name:           d.Name,
			Description:    d.Description,
			Keywords:       d.Keywords(),
			StripQuotes:    d.StripsQuotes(),
			PrecisionTypes: d.PrecisionTypes(),
		})
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(infos)
	}

	title := cases.Title(language.English)
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		quotes := "no"
		if info.StripQuotes {
			quotes = "yes"
		}
		name := title.String(info.Name)
		if info.Name == cmdCtx.Cfg.Dialect {
			name += " *"
		}
		rows = append(rows, []string{name, strings.Join(info.Keywords, ", "), quotes, info.Description})
	}
	r.Table([]string{"Dialect", "Nested Keywords", "Strips Quotes", "Description"}, rows)
	return nil
}
