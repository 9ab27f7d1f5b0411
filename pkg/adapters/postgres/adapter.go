// Package postgres reads column types from a Hive metastore (or any
// information_schema) hosted in PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/leapstack-labs/coltype/pkg/adapter"
)

// defaultSchema is the metastore database a bare table name resolves to.
const defaultSchema = "default"

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{
			Logger:       logger,
			Placeholders: adapter.PlaceholderDollar,
		},
	}
}

// DialectName returns the type dialect of the catalog, "hive" unless the
// dialect option says otherwise.
func (a *Adapter) DialectName() string {
	return strings.ToLower(adapter.OptionValue(a.Cfg, "dialect", "hive"))
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := buildPostgresDSN(cfg)

	a.Logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("invalid postgres connection settings: %w", err)
	}

	db := stdlib.OpenDB(*connCfg)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildPostgresDSN constructs a PostgreSQL connection string.
func buildPostgresDSN(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := adapter.OptionValue(cfg, "sslmode", "disable")

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, cfg.Database, sslmode)

	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}
	if app := adapter.OptionValue(cfg, "application_name", ""); app != "" {
		dsn += fmt.Sprintf(" application_name=%s", app)
	}

	return dsn
}

// GetTableMetadata retrieves the column types of a "schema.table" reference.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	schema := defaultSchema
	if adapter.OptionValue(a.Cfg, "layout", adapter.LayoutMetastore) == adapter.LayoutInformationSchema {
		schema = "public"
	}
	if a.Cfg.Schema != "" {
		schema = a.Cfg.Schema
	}
	return a.GetTableMetadataForLayout(ctx, table, schema, a.DialectName())
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
