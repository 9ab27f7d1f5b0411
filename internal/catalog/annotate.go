package catalog

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/leapstack-labs/coltype/pkg/core"
	"github.com/leapstack-labs/coltype/pkg/dialect"
	"github.com/leapstack-labs/coltype/pkg/nested"
	"golang.org/x/sync/errgroup"
)

// Options control Annotate.
type Options struct {
	// Strict reports malformed types in ColumnSummary.Err.
	Strict bool
	// MaxDepth caps nesting depth; 0 uses nested.DefaultMaxDepth.
	MaxDepth int
	// Concurrency bounds the number of tables parsed at once; 0 uses GOMAXPROCS.
	Concurrency int
	Logger      *slog.Logger
}

// ColumnSummary is a column annotated with its nested-type decomposition.
type ColumnSummary struct {
	Table     string
	Column    core.Column
	Nested    bool
	Truncated string
	Tree      *core.NestedType
	Err       error
}

// Label returns the truncated form for nested columns and the raw type otherwise.
func (c ColumnSummary) Label() string {
	if c.Nested && c.Truncated != "" {
		return c.Truncated
	}
	return c.Column.Type
}

// Annotate parses every column type of tables concurrently. Results keep
// table then column order. Parse failures are recorded per column; the
// returned error is only set when ctx is cancelled.
func Annotate(ctx context.Context, tables []core.TableMetadata, opts Options) ([]ColumnSummary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	parsers := make(map[string]*nested.Parser)
	for _, t := range tables {
		if _, ok := parsers[t.Database]; ok {
			continue
		}
		d, ok := dialect.Get(t.Database)
		if !ok {
			logger.Warn("unknown dialect, columns treated as flat", slog.String("database", t.Database))
			parsers[t.Database] = nil
			continue
		}
		parsers[t.Database] = nested.NewParser(d,
			nested.WithStrictMode(opts.Strict),
			nested.WithMaxDepth(opts.MaxDepth),
			nested.WithLogger(logger))
	}

	results := make([][]ColumnSummary, len(tables))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range tables {
		t := tables[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = annotateTable(t, parsers[t.Database])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []ColumnSummary
	for _, r := range results {
		out = append(out, r...)
	}
	logger.Debug("annotated catalog", slog.Int("tables", len(tables)), slog.Int("columns", len(out)))
	return out, nil
}

// AnnotateColumns annotates the columns of a single table synchronously.
func AnnotateColumns(table core.TableMetadata, opts Options) []ColumnSummary {
	var p *nested.Parser
	if d, ok := dialect.Get(table.Database); ok {
		p = nested.NewParser(d,
			nested.WithStrictMode(opts.Strict),
			nested.WithMaxDepth(opts.MaxDepth),
			nested.WithLogger(opts.Logger))
	}
	return annotateTable(table, p)
}

func annotateTable(t core.TableMetadata, p *nested.Parser) []ColumnSummary {
	key := t.Key()
	out := make([]ColumnSummary, len(t.Columns))
	for i, col := range t.Columns {
		s := ColumnSummary{Table: key, Column: col}
		if p != nil && p.IsNested(col.Type) {
			s.Nested = true
			s.Tree, s.Err = p.Parse(col.Type)
			if s.Tree != nil {
				s.Truncated = s.Tree.Truncated()
			}
		}
		out[i] = s
	}
	return out
}

// Stats counts annotated columns. Tables without columns are not counted.
type Stats struct {
	Tables  int `json:"tables"`
	Columns int `json:"columns"`
	Nested  int `json:"nested"`
	Failed  int `json:"failed"`
}

// Summarize computes Stats over summaries.
func Summarize(summaries []ColumnSummary) Stats {
	var st Stats
	seen := make(map[string]struct{})
	for _, s := range summaries {
		if _, ok := seen[s.Table]; !ok {
			seen[s.Table] = struct{}{}
			st.Tables++
		}
		st.Columns++
		if s.Nested {
			st.Nested++
		}
		if s.Err != nil {
			st.Failed++
		}
	}
	return st
}
