package nested

import "log/slog"

// DefaultMaxDepth bounds recursion for adversarial input. Real catalog types
// rarely nest more than a handful of levels.
const DefaultMaxDepth = 256

type options struct {
	strict   bool
	maxDepth int
	logger   *slog.Logger
}

func defaultOptions() options {
	return options{
		maxDepth: DefaultMaxDepth,
		logger:   slog.New(slog.DiscardHandler),
	}
}

// Option configures parsing.
type Option func(*options)

// WithStrict reports malformed input as *ParseError instead of returning a
// best-effort partial tree.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithStrictMode sets strict parsing from a flag value.
func WithStrictMode(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithMaxDepth caps the nesting depth. Values <= 0 keep the default.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
