package core

import (
	"context"
)

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database.
	Connect(ctx context.Context, cfg AdapterConfig) error

	// Close closes the database connection.
	Close() error

	// GetTableMetadata retrieves metadata for a table.
	GetTableMetadata(ctx context.Context, table string) (*TableMetadata, error)

	// DialectName returns the type dialect used to read column types.
	DialectName() string
}

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type     string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	Options  map[string]string
}

// Column represents a column in a catalog table.
type Column struct {
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"col_type" json:"col_type"`
	Description string `yaml:"description" json:"description,omitempty"`
	Nullable    bool   `yaml:"nullable" json:"nullable"`
	Position    int    `yaml:"sort_order" json:"sort_order"`
}

// TableMetadata holds metadata about a catalog table.
// Database names the type dialect of the source system (e.g. "hive").
type TableMetadata struct {
	Database string   `yaml:"database" json:"database"`
	Cluster  string   `yaml:"cluster" json:"cluster"`
	Schema   string   `yaml:"schema" json:"schema"`
	Name     string   `yaml:"name" json:"name"`
	Columns  []Column `yaml:"columns" json:"columns"`
}

// Key returns the catalog key "database://cluster.schema/name".
func (t *TableMetadata) Key() string {
	return t.Database + "://" + t.Cluster + "." + t.Schema + "/" + t.Name
}
