// Package state persists catalog table and column metadata in SQLite.
// It tracks imported tables, their column types, and import history.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/leapstack-labs/coltype/pkg/core"
)

// ErrTableNotFound is returned when a table key is not in the store.
var ErrTableNotFound = errors.New("table not found")

// Store is the catalog persistence contract used by the CLI and server.
type Store interface {
	// SaveTable upserts a table and replaces its columns.
	SaveTable(ctx context.Context, table core.TableMetadata) error

	// ImportTables saves tables and records the import in one transaction.
	ImportTables(ctx context.Context, source string, tables []core.TableMetadata) (*Import, error)

	// GetTable returns a table with its columns in sort order.
	GetTable(ctx context.Context, key string) (*core.TableMetadata, error)

	// ListTables returns summaries of all stored tables ordered by key.
	ListTables(ctx context.Context) ([]TableSummary, error)

	// ListColumns returns the columns of a table in sort order.
	ListColumns(ctx context.Context, key string) ([]core.Column, error)

	// DeleteTable removes a table and its columns.
	DeleteTable(ctx context.Context, key string) error

	// RecordImport records an import of count tables from source.
	RecordImport(ctx context.Context, source string, count int) (*Import, error)

	// LatestImport returns the most recent import, or nil when there is none.
	LatestImport(ctx context.Context) (*Import, error)

	Close() error
}

// TableSummary is a stored table without its columns.
type TableSummary struct {
	Key         string    `json:"key"`
	Database    string    `json:"database"`
	Cluster     string    `json:"cluster"`
	Schema      string    `json:"schema"`
	Name        string    `json:"name"`
	ColumnCount int       `json:"column_count"`
	ImportID    string    `json:"import_id,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Import records one bulk load into the store.
type Import struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Tables    int       `json:"tables"`
	CreatedAt time.Time `json:"created_at"`
}
