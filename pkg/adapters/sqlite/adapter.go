// Package sqlite reads column types from a Hive metastore kept in a SQLite
// file, using the pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/coltype/pkg/adapter"
	"github.com/leapstack-labs/coltype/pkg/core"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

const memoryPath = ":memory:"

// Adapter implements the adapter.Adapter interface for SQLite files.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{
			Logger:       logger,
			Placeholders: adapter.PlaceholderQuestion,
		},
	}
}

// DialectName returns the type dialect of the catalog.
func (a *Adapter) DialectName() string {
	return strings.ToLower(adapter.OptionValue(a.Cfg, "dialect", "hive"))
}

// Connect opens the SQLite file at cfg.Path (":memory:" when empty).
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = memoryPath
	}

	a.Logger.Debug("opening sqlite catalog", slog.String("path", path))

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == memoryPath {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if cfg.Database == "" && path != memoryPath {
		cfg.Database = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// GetTableMetadata retrieves the column types of a "schema.table" reference.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	if adapter.OptionValue(a.Cfg, "layout", adapter.LayoutMetastore) == adapter.LayoutInformationSchema {
		meta, err := a.tableInfo(ctx, table)
		if err != nil {
			return nil, err
		}
		meta.Database = a.DialectName()
		meta.Cluster = adapter.OptionValue(a.Cfg, "cluster", a.Cfg.Database)
		return meta, nil
	}

	schema := "default"
	if a.Cfg.Schema != "" {
		schema = a.Cfg.Schema
	}
	return a.GetTableMetadataForLayout(ctx, table, schema, a.DialectName())
}

// tableInfo reads declared column types with pragma_table_info. SQLite has
// no information_schema.
func (a *Adapter) tableInfo(ctx context.Context, table string) (*core.TableMetadata, error) {
	if a.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	schema, name := adapter.ParseQualifiedName(table, "main")
	rows, err := a.DB.QueryContext(ctx,
		`SELECT name, type, "notnull", cid FROM pragma_table_info(?, ?) ORDER BY cid`, name, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query table info: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var col core.Column
		var notNull int
		if err := rows.Scan(&col.Name, &col.Type, &notNull, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan table info: %w", err)
		}
		col.Nullable = notNull == 0
		col.Position++
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating table info: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}

	return &core.TableMetadata{Schema: schema, Name: name, Columns: columns}, nil
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
