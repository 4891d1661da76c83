package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pulse/internal/core"
)

func (r *SQLiteRepository) GetImport(ctx context.Context, id string) (core.ImportRecord, error) {
	var (
		rec     core.ImportRecord
		source  string
		created string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, source, layout, candidates, inserted, created_at FROM imports WHERE id = ?`, id).
		Scan(&rec.ID, &rec.OwnerID, &source, &rec.Layout, &rec.Candidates, &rec.Inserted, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ImportRecord{}, fmt.Errorf("import %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.ImportRecord{}, fmt.Errorf("get import: %w", err)
	}
	rec.Source = core.ImportSource(source)
	if rec.CreatedAt, err = parseTime(created); err != nil {
		return core.ImportRecord{}, err
	}
	return rec, nil
}
