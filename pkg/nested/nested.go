package nested

import (
	"log/slog"

	"github.com/leapstack-labs/coltype/pkg/core"
	"github.com/leapstack-labs/coltype/pkg/dialect"

	// Register the built-in dialects
	_ "github.com/leapstack-labs/coltype/pkg/dialects"
)

// IsNestedType reports whether typ is a structural type in the given
// dialect: it starts with one of the dialect's nested keywords and is longer
// than the bare keyword. Unknown dialects yield false; the database is
// matched exactly against the registered lowercase name.
func IsNestedType(typ, database string) bool {
	d, ok := dialect.GetExact(database)
	if !ok {
		return false
	}
	return d.IsNestedKeyword(typ)
}

// ParseNestedType decomposes typ into its root nested element.
// It returns nil when typ is not a nested type in the given dialect.
// Malformed input yields a best-effort partial tree, or nil when no root
// element could be built.
func ParseNestedType(typ, database string) *core.NestedType {
	n, err := Parse(typ, database)
	if err != nil {
		return nil
	}
	return n
}

// Parse decomposes typ into its root nested element.
//
// It returns (nil, nil) when typ is not a nested type, including for unknown
// dialects. Errors are *ParseError values: always for ErrTooDeep, and for the
// other malformed input kinds only with WithStrict.
func Parse(typ, database string, opts ...Option) (*core.NestedType, error) {
	d, ok := dialect.GetExact(database)
	if !ok {
		return nil, nil
	}
	return NewParser(d, opts...).Parse(typ)
}

// Truncate returns the collapsed label (e.g. "struct<...>") of a nested type.
// The second result is false when typ is not nested.
func Truncate(typ, database string) (string, bool) {
	n := ParseNestedType(typ, database)
	if n == nil {
		return "", false
	}
	return n.Truncated(), true
}

// Parser parses type descriptors of a single dialect.
// A Parser holds no per-call state and is safe for concurrent use.
type Parser struct {
	dialect *dialect.Dialect
	opts    options
}

// NewParser creates a parser for the dialect.
func NewParser(d *dialect.Dialect, opts ...Option) *Parser {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Parser{dialect: d, opts: o}
}

// Dialect returns the parser's dialect.
func (p *Parser) Dialect() *dialect.Dialect {
	return p.dialect
}

// IsNested reports whether typ is nested after dialect pre-processing.
func (p *Parser) IsNested(typ string) bool {
	return p.dialect.IsNestedKeyword(p.dialect.Preprocess(typ))
}

// Parse decomposes typ. See the package-level Parse for the result contract.
func (p *Parser) Parse(typ string) (*core.NestedType, error) {
	text := p.dialect.Preprocess(typ)
	if !p.dialect.IsNestedKeyword(text) {
		return nil, nil
	}

	s := &scanner{
		text:     text,
		dialect:  p.dialect,
		strict:   p.opts.strict,
		maxDepth: p.opts.maxDepth,
	}

	top, err := s.scan(0, 0, -1)
	if err != nil {
		p.opts.logger.Debug("type parse failed",
			slog.String("dialect", p.dialect.Name),
			slog.String("type", text),
			slog.Any("error", err))
		return nil, err
	}

	var root *core.NestedType
	if len(top.children) > 0 {
		root, _ = top.children[0].(*core.NestedType)
	}
	if root == nil {
		if p.opts.strict {
			return nil, s.fail(ErrNoRoot, 0)
		}
		return nil, nil
	}
	if p.opts.strict && root.Closer() != 0 && len(root.Tail) > 1 {
		return nil, s.fail(ErrTrailing, len(text)-1)
	}

	p.opts.logger.Debug("parsed nested type",
		slog.String("dialect", p.dialect.Name),
		slog.String("head", root.Head),
		slog.Int("depth", root.Depth()))
	return root, nil
}
