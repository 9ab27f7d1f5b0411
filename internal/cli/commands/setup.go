// Package commands implements the coltype subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/coltype/internal/catalog"
	"github.com/leapstack-labs/coltype/internal/cli/config"
	"github.com/leapstack-labs/coltype/internal/cli/output"
	"github.com/leapstack-labs/coltype/internal/state"
	"github.com/leapstack-labs/coltype/pkg/dialect"
	"github.com/leapstack-labs/coltype/pkg/nested"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds a CommandContext from the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// Parser returns a parser for the configured dialect.
func (c *CommandContext) Parser() (*nested.Parser, error) {
	d, err := dialect.Lookup(c.Cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return nested.NewParser(d,
		nested.WithStrictMode(c.Cfg.Strict),
		nested.WithMaxDepth(c.Cfg.MaxDepth),
		nested.WithLogger(c.Logger),
	), nil
}

// AnnotateOptions returns catalog annotation options from the config.
func (c *CommandContext) AnnotateOptions() catalog.Options {
	return catalog.Options{
		Strict:      c.Cfg.Strict,
		MaxDepth:    c.Cfg.MaxDepth,
		Concurrency: c.Cfg.Concurrency,
		Logger:      c.Logger,
	}
}

// OpenStore opens the state store, creating its directory when needed.
// The caller must close the store.
func (c *CommandContext) OpenStore(ctx context.Context) (*state.SQLiteStore, error) {
	path := c.Cfg.StatePath
	if path != state.MemoryPath {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
	}
	return state.OpenStore(ctx, path, c.Logger)
}
