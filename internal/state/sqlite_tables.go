package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/leapstack-labs/coltype/pkg/core"
)

// SaveTable upserts a table and replaces its columns.
func (s *SQLiteStore) SaveTable(ctx context.Context, table core.TableMetadata) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.saveTable(ctx, tx, table, "")
	})
}

// ImportTables saves tables and records the import in one transaction.
func (s *SQLiteStore) ImportTables(ctx context.Context, source string, tables []core.TableMetadata) (*Import, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	imp := &Import{
		ID:        generateID(),
		Source:    source,
		Tables:    len(tables),
		CreatedAt: s.now(),
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertImport(ctx, tx, imp); err != nil {
			return err
		}
		for _, t := range tables {
			if err := s.saveTable(ctx, tx, t, imp.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return imp, nil
}

func (s *SQLiteStore) saveTable(ctx context.Context, tx *sql.Tx, table core.TableMetadata, importID string) error {
	if table.Name == "" {
		return fmt.Errorf("table name is required")
	}
	key := table.Key()

	_, err := tx.ExecContext(ctx, `
		INSERT INTO catalog_tables (table_key, database, cluster, schema_name, name, import_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(table_key) DO UPDATE SET
			import_id = COALESCE(excluded.import_id, catalog_tables.import_id),
			updated_at = excluded.updated_at
	`, key, table.Database, table.Cluster, table.Schema, table.Name, nullableString(importID), formatTime(s.now()))
	if err != nil {
		return fmt.Errorf("failed to save table %s: %w", key, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_columns WHERE table_key = ?`, key); err != nil {
		return fmt.Errorf("failed to clear columns of %s: %w", key, err)
	}

	for _, col := range table.Columns {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO catalog_columns (table_key, name, col_type, description, nullable, sort_order)
			VALUES (?, ?, ?, ?, ?, ?)
		`, key, col.Name, col.Type, col.Description, boolToInt(col.Nullable), col.Position)
		if err != nil {
			return fmt.Errorf("failed to save column %s.%s: %w", key, col.Name, err)
		}
	}

	s.logger.Debug("saved table", "key", key, "columns", len(table.Columns))
	return nil
}

// GetTable returns a table with its columns in sort order.
func (s *SQLiteStore) GetTable(ctx context.Context, key string) (*core.TableMetadata, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	var t core.TableMetadata
	err := s.db.QueryRowContext(ctx, `
		SELECT database, cluster, schema_name, name FROM catalog_tables WHERE table_key = ?
	`, key).Scan(&t.Database, &t.Cluster, &t.Schema, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get table %s: %w", key, err)
	}

	cols, err := s.columns(ctx, key)
	if err != nil {
		return nil, err
	}
	t.Columns = cols
	return &t, nil
}

// ListTables returns summaries of all stored tables ordered by key.
func (s *SQLiteStore) ListTables(ctx context.Context) ([]TableSummary, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.table_key, t.database, t.cluster, t.schema_name, t.name,
			COALESCE(t.import_id, ''), t.updated_at,
			(SELECT COUNT(*) FROM catalog_columns c WHERE c.table_key = t.table_key)
		FROM catalog_tables t
		ORDER BY t.table_key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []TableSummary
	for rows.Next() {
		var ts TableSummary
		var updated string
		if err := rows.Scan(&ts.Key, &ts.Database, &ts.Cluster, &ts.Schema, &ts.Name,
			&ts.ImportID, &updated, &ts.ColumnCount); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		if ts.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		tables = append(tables, ts)
	}
	return tables, rows.Err()
}

// ListColumns returns the columns of a table in sort order.
// Unknown keys return ErrTableNotFound.
func (s *SQLiteStore) ListColumns(ctx context.Context, key string) ([]core.Column, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM catalog_tables WHERE table_key = ?`, key).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up table %s: %w", key, err)
	}

	return s.columns(ctx, key)
}

// DeleteTable removes a table and its columns.
func (s *SQLiteStore) DeleteTable(ctx context.Context, key string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM catalog_tables WHERE table_key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete table %s: %w", key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrTableNotFound, key)
	}
	return nil
}

func (s *SQLiteStore) columns(ctx context.Context, key string) ([]core.Column, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, col_type, description, nullable, sort_order
		FROM catalog_columns
		WHERE table_key = ?
		ORDER BY sort_order, name
	`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", key, err)
	}
	defer func() { _ = rows.Close() }()

	var cols []core.Column
	for rows.Next() {
		var c core.Column
		var nullable int
		if err := rows.Scan(&c.Name, &c.Type, &c.Description, &nullable, &c.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		c.Nullable = nullable != 0
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
