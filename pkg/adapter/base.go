package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/coltype/pkg/core"
)

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (SQLite, MySQL).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
)

// Format returns the placeholder for the 1-based parameter index.
func (p PlaceholderStyle) Format(index int) string {
	if p == PlaceholderDollar {
		return fmt.Sprintf("$%d", index)
	}
	return "?"
}

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close and metadata queries.
type BaseSQLAdapter struct {
	DB           *sql.DB
	Cfg          core.AdapterConfig
	Logger       *slog.Logger
	Placeholders PlaceholderStyle
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// ParseQualifiedName splits a table reference into schema and name.
// Uses defaultSchema if not specified.
func ParseQualifiedName(table, defaultSchema string) (schema, name string) {
	if parts := strings.Split(table, "."); len(parts) == 2 {
		return parts[0], parts[1]
	}
	return defaultSchema, table
}

// GetTableMetadataCommon reads columns from information_schema.columns.
// Engines such as Trino report nested types verbatim in data_type.
func (b *BaseSQLAdapter) GetTableMetadataCommon(ctx context.Context, table, defaultSchema string) (*core.TableMetadata, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	schema, tableName := ParseQualifiedName(table, defaultSchema)

	//nolint:gosec // Placeholders come from PlaceholderStyle and are safe
	query := fmt.Sprintf(`
		SELECT 
			column_name,
			data_type,
			is_nullable,
			ordinal_position
		FROM information_schema.columns 
		WHERE table_schema = %s AND table_name = %s
		ORDER BY ordinal_position
	`, b.Placeholders.Format(1), b.Placeholders.Format(2))

	rows, err := b.DB.QueryContext(ctx, query, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var col core.Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = nullable == "YES"
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}

	return &core.TableMetadata{
		Schema:  schema,
		Name:    tableName,
		Columns: columns,
	}, nil
}

// GetMetastoreTable reads columns of a table registered in a Hive metastore
// database. Metastore column types are stored verbatim in COLUMNS_V2.TYPE_NAME.
func (b *BaseSQLAdapter) GetMetastoreTable(ctx context.Context, table, defaultSchema string) (*core.TableMetadata, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	schema, tableName := ParseQualifiedName(table, defaultSchema)

	//nolint:gosec // Placeholders come from PlaceholderStyle and are safe
	query := fmt.Sprintf(`
		SELECT
			c."COLUMN_NAME",
			c."TYPE_NAME",
			COALESCE(c."COMMENT", ''),
			c."INTEGER_IDX"
		FROM "TBLS" t
		JOIN "DBS" d ON t."DB_ID" = d."DB_ID"
		JOIN "SDS" s ON t."SD_ID" = s."SD_ID"
		JOIN "COLUMNS_V2" c ON s."CD_ID" = c."CD_ID"
		WHERE d."NAME" = %s AND t."TBL_NAME" = %s
		ORDER BY c."INTEGER_IDX"
	`, b.Placeholders.Format(1), b.Placeholders.Format(2))

	rows, err := b.DB.QueryContext(ctx, query, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query metastore columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var col core.Column
		if err := rows.Scan(&col.Name, &col.Type, &col.Description, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan metastore column: %w", err)
		}
		// Metastore columns carry no nullability
		col.Nullable = true
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metastore columns: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found in metastore", table)
	}

	return &core.TableMetadata{
		Schema:  schema,
		Name:    tableName,
		Columns: columns,
	}, nil
}

// GetTableMetadataForLayout dispatches to the reader for the configured
// layout and stamps the result with the adapter's dialect and cluster.
func (b *BaseSQLAdapter) GetTableMetadataForLayout(ctx context.Context, table, defaultSchema, dialectName string) (*core.TableMetadata, error) {
	var (
		meta *core.TableMetadata
		err  error
	)

	layout := OptionValue(b.Cfg, "layout", LayoutMetastore)
	switch layout {
	case LayoutMetastore:
		meta, err = b.GetMetastoreTable(ctx, table, defaultSchema)
	case LayoutInformationSchema:
		meta, err = b.GetTableMetadataCommon(ctx, table, defaultSchema)
	default:
		return nil, fmt.Errorf("unknown catalog layout %q (want %s or %s)", layout, LayoutMetastore, LayoutInformationSchema)
	}
	if err != nil {
		return nil, err
	}

	meta.Database = dialectName
	meta.Cluster = OptionValue(b.Cfg, "cluster", b.Cfg.Database)
	if b.Logger != nil {
		b.Logger.Debug("read table metadata",
			slog.String("layout", layout),
			slog.String("table", meta.Schema+"."+meta.Name),
			slog.Int("columns", len(meta.Columns)))
	}
	return meta, nil
}
