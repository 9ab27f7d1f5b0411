package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// RecordImport records an import of count tables from source.
func (s *SQLiteStore) RecordImport(ctx context.Context, source string, count int) (*Import, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	imp := &Import{
		ID:        generateID(),
		Source:    source,
		Tables:    count,
		CreatedAt: s.now(),
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return insertImport(ctx, tx, imp)
	})
	if err != nil {
		return nil, err
	}
	return imp, nil
}

// LatestImport returns the most recent import, or nil when there is none.
func (s *SQLiteStore) LatestImport(ctx context.Context) (*Import, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	var imp Import
	var created string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, table_count, created_at
		FROM imports
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`).Scan(&imp.ID, &imp.Source, &imp.Tables, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest import: %w", err)
	}

	if imp.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &imp, nil
}

func insertImport(ctx context.Context, tx *sql.Tx, imp *Import) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO imports (id, source, table_count, created_at) VALUES (?, ?, ?, ?)
	`, imp.ID, imp.Source, imp.Tables, formatTime(imp.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}
	return nil
}
