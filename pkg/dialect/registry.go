package dialect

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/coltype/pkg/core"
)

// Dialect registry
var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]*Dialect)
)

// ErrDialectRequired is returned when a dialect is required but not provided.
var ErrDialectRequired = errors.New("dialect is required")

// Get returns a dialect by name.
func Get(name string) (*Dialect, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[strings.ToLower(name)]
	return d, ok
}

// GetExact returns a dialect only when name is its registered key exactly.
// Registered keys are lowercase, so "HIVE" does not match "hive".
func GetExact(name string) (*Dialect, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[name]
	return d, ok
}

// Lookup returns a dialect by name, or an error naming the registered dialects.
func Lookup(name string) (*Dialect, error) {
	if name == "" {
		return nil, ErrDialectRequired
	}
	d, ok := Get(name)
	if !ok {
		return nil, &UnknownDialectError{Name: name, Available: List()}
	}
	return d, nil
}

// MustGet returns a dialect by name and panics when it is not registered.
func MustGet(name string) *Dialect {
	d, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return d
}

// Register registers a dialect in the global registry.
// Called by dialect implementations in their init() functions.
func Register(d *Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[strings.ToLower(d.Name)] = d
}

// RegisterConfig builds a dialect from pure data and registers it.
// Used for dialects declared in configuration files.
func RegisterConfig(cfg *core.DialectConfig) (*Dialect, error) {
	if cfg == nil || cfg.Name == "" {
		return nil, ErrDialectRequired
	}
	if len(cfg.NestedKeywords) == 0 {
		return nil, fmt.Errorf("dialect %q: at least one nested keyword is required", cfg.Name)
	}
	d := New(cfg).Build()
	Register(d)
	return d, nil
}

// Unregister removes a dialect. Used for testing.
func Unregister(name string) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	delete(dialects, strings.ToLower(name))
}

// List returns all registered dialect names (sorted).
func List() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownDialectError is returned when an unknown dialect is requested.
type UnknownDialectError struct {
	Name      string
	Available []string
}

func (e *UnknownDialectError) Error() string {
	return fmt.Sprintf("unknown dialect %q\nAvailable dialects: %v\nHint: Check the dialect setting in coltype.yaml", e.Name, e.Available)
}
