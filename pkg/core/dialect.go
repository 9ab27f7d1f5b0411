package core

// DialectConfig holds the static configuration for a SQL dialect.
// This is pure data with no behavior.
//
// The runtime lookup tables live in pkg/dialect.Dialect, which is built
// from this config.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "hive", "presto")
	Name string `koanf:"name" yaml:"name" json:"name"`

	// Description is shown in dialect listings
	Description string `koanf:"description" yaml:"description" json:"description,omitempty"`

	// NestedKeywords are the type names that introduce a structural type
	NestedKeywords []string `koanf:"nested_keywords" yaml:"nested_keywords" json:"nested_keywords"`

	// StripQuotes removes every QuoteChar before parsing (quoted field names)
	StripQuotes bool   `koanf:"strip_quotes" yaml:"strip_quotes" json:"strip_quotes"`
	QuoteChar   string `koanf:"quote_char" yaml:"quote_char" json:"quote_char,omitempty"`

	// PrecisionTypes are primitive types whose parenthesized qualifier
	// (e.g. timestamp(3)) is part of a leaf, not a nested element
	PrecisionTypes []string `koanf:"precision_types" yaml:"precision_types" json:"precision_types,omitempty"`
}

// DefaultPrecisionTypes is used when a dialect does not list its own.
var DefaultPrecisionTypes = []string{"timestamp"}
