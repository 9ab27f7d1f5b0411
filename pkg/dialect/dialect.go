// Package dialect provides SQL dialect configuration for type descriptors.
//
// This package contains the public contract for dialect definitions used by the
// nested type parser and the catalog tooling. Concrete dialect data is
// registered from pkg/dialects/*/ packages.
package dialect

import (
	"sort"
	"strings"

	"github.com/leapstack-labs/coltype/pkg/core"
)

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name        string
	Description string

	// Keywords that introduce a structural type (array, map, struct, row, ...)
	nestedKeywords []string

	// Pre-processing
	stripQuotes bool
	quoteChar   string

	// Primitive types whose parenthesized qualifier stays inside a leaf
	precisionTypes []string

	config *core.DialectConfig
}

// Config returns the static dialect configuration the dialect was built from.
// Dialects built with NewDialect get a config synthesized from builder state.
func (d *Dialect) Config() *core.DialectConfig {
	if d.config != nil {
		return d.config
	}
	return &core.DialectConfig{
		Name:           d.Name,
		Description:    d.Description,
		NestedKeywords: d.Keywords(),
		StripQuotes:    d.stripQuotes,
		QuoteChar:      d.quoteChar,
		PrecisionTypes: append([]string(nil), d.precisionTypes...),
	}
}

// GetName returns the dialect name.
func (d *Dialect) GetName() string {
	return d.Name
}

// Keywords returns the nested type keywords (sorted).
func (d *Dialect) Keywords() []string {
	kws := append([]string(nil), d.nestedKeywords...)
	sort.Strings(kws)
	return kws
}

// StripsQuotes reports whether the dialect removes quote characters before parsing.
func (d *Dialect) StripsQuotes() bool {
	return d.stripQuotes
}

// IsNestedKeyword reports whether typ starts with one of the dialect's nested
// type keywords and carries more than the bare keyword. "struct" alone is not
// nested, "struct<a:int>" is.
func (d *Dialect) IsNestedKeyword(typ string) bool {
	for _, kw := range d.nestedKeywords {
		if strings.HasPrefix(typ, kw) && typ != kw {
			return true
		}
	}
	return false
}

// Preprocess applies dialect-specific normalization to a raw type descriptor.
func (d *Dialect) Preprocess(typ string) string {
	if d.stripQuotes && d.quoteChar != "" {
		return strings.ReplaceAll(typ, d.quoteChar, "")
	}
	return typ
}

// IsPrecisionType reports whether the fragment preceding an opening
// delimiter ends with a primitive type that takes a precision qualifier.
func (d *Dialect) IsPrecisionType(prefix string) bool {
	for _, p := range d.precisionTypes {
		if strings.HasSuffix(prefix, p) {
			return true
		}
	}
	return false
}

// PrecisionTypes returns the primitive types that take a parenthesized qualifier.
func (d *Dialect) PrecisionTypes() []string {
	return append([]string(nil), d.precisionTypes...)
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
	config  *core.DialectConfig // Optional config the dialect is built from
}

// NewDialect creates a new dialect builder with the given name.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name:           name,
			precisionTypes: append([]string(nil), core.DefaultPrecisionTypes...),
		},
	}
}

// New creates a dialect builder from a DialectConfig.
// This is the preferred constructor: dialects are data, not code.
func New(cfg *core.DialectConfig) *Builder {
	b := &Builder{
		config: cfg,
		dialect: &Dialect{
			Name:        cfg.Name,
			Description: cfg.Description,
			config:      cfg,
		},
	}
	return b
}

// NestedKeywords adds structural type keywords.
func (b *Builder) NestedKeywords(kws ...string) *Builder {
	b.dialect.nestedKeywords = append(b.dialect.nestedKeywords, kws...)
	return b
}

// StripQuotes makes Preprocess remove every occurrence of quote.
func (b *Builder) StripQuotes(quote string) *Builder {
	b.dialect.stripQuotes = true
	b.dialect.quoteChar = quote
	return b
}

// PrecisionTypes replaces the primitive types treated as precision-qualified.
func (b *Builder) PrecisionTypes(types ...string) *Builder {
	b.dialect.precisionTypes = append([]string(nil), types...)
	return b
}

// Describe sets the human readable description.
func (b *Builder) Describe(desc string) *Builder {
	b.dialect.Description = desc
	return b
}

// Build returns the constructed dialect.
// If the builder was created with New(cfg), the config is applied here.
func (b *Builder) Build() *Dialect {
	cfg := b.config
	if cfg == nil {
		return b.dialect
	}

	b.dialect.nestedKeywords = append(b.dialect.nestedKeywords, cfg.NestedKeywords...)

	if cfg.StripQuotes {
		quote := cfg.QuoteChar
		if quote == "" {
			quote = `"`
		}
		b.dialect.stripQuotes = true
		b.dialect.quoteChar = quote
	}

	if len(cfg.PrecisionTypes) > 0 {
		b.dialect.precisionTypes = append([]string(nil), cfg.PrecisionTypes...)
	} else {
		b.dialect.precisionTypes = append([]string(nil), core.DefaultPrecisionTypes...)
	}

	return b.dialect
}
