package config

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/coltype/internal/cli/output"
	"github.com/leapstack-labs/coltype/pkg/adapter"
	"github.com/leapstack-labs/coltype/pkg/dialect"
)

// RegisterDialects registers the dialects declared in the config file.
// A declared dialect replaces a built-in one of the same name.
func (c *Config) RegisterDialects() error {
	for i := range c.Dialects {
		d := &c.Dialects[i]
		if _, err := dialect.RegisterConfig(d); err != nil {
			return fmt.Errorf("dialects[%d]: %w", i, err)
		}
	}
	return nil
}

// Validate checks if the configuration is valid.
// Call RegisterDialects first so declared dialects are known.
func (c *Config) Validate() error {
	var errs []error

	if _, err := dialect.Lookup(c.Dialect); err != nil {
		errs = append(errs, err)
	}
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		errs = append(errs, err)
	}
	if c.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth))
	}
	if c.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("concurrency must be positive, got %d", c.Concurrency))
	}
	if c.Serve.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("serve.shutdown_timeout must not be negative"))
	}

	return errors.Join(errs...)
}

// ValidateTarget checks the live catalog target used by introspection.
func (c *Config) ValidateTarget() error {
	if c.Target == nil || c.Target.Type == "" {
		return fmt.Errorf("target type is required\nHint: set target.type in coltype.yaml or pass --target-type")
	}
	if !adapter.IsRegistered(c.Target.Type) {
		return &adapter.UnknownAdapterError{Type: c.Target.Type, Available: adapter.ListAdapters()}
	}
	return nil
}
