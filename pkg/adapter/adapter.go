// Package adapter provides database adapter interfaces for reading column
// metadata out of live catalogs.
//
// This package contains the public contract that all adapters must implement.
// Concrete adapter implementations are in pkg/adapters/ subdirectories.
package adapter

import (
	"context"

	"github.com/leapstack-labs/coltype/pkg/core"
)

type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Column is an alias for core.Column.
	Column = core.Column

	// Metadata is an alias for core.TableMetadata.
	Metadata = core.TableMetadata
)

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// GetTableMetadata retrieves column metadata for a "schema.table" reference.
	GetTableMetadata(ctx context.Context, table string) (*Metadata, error)

	// DialectName returns the type dialect of the column types this adapter reads.
	DialectName() string
}

// Catalog layouts an adapter can read column types from.
const (
	// LayoutMetastore reads a Hive metastore schema (DBS, TBLS, SDS, COLUMNS_V2).
	LayoutMetastore = "metastore"
	// LayoutInformationSchema reads information_schema.columns.
	LayoutInformationSchema = "information_schema"
)

// OptionValue returns cfg.Options[key] or def when unset.
func OptionValue(cfg Config, key, def string) string {
	if v, ok := cfg.Options[key]; ok && v != "" {
		return v
	}
	return def
}
