package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pulse/internal/core"
)

// SaveImport writes the import record and its transactions in one database
// transaction. Rows matching an existing (owner, date, description, amount,
// type) are skipped. The owner row is created if it does not exist yet.
func (r *SQLiteRepository) SaveImport(ctx context.Context, rec core.ImportRecord, txs []core.Transaction) (int, error) {
	inserted := 0
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, created_at) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`,
			rec.OwnerID, formatTime(r.now())); err != nil {
			return fmt.Errorf("ensure user: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO imports (id, user_id, source, layout, candidates, inserted, created_at)
			 VALUES (?, ?, ?, ?, ?, 0, ?)`,
			rec.ID, rec.OwnerID, string(rec.Source), rec.Layout, rec.Candidates, formatTime(rec.CreatedAt)); err != nil {
			return fmt.Errorf("insert import: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT OR IGNORE INTO transactions
			 (id, user_id, import_id, description, amount_cents, type, date, category, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, t := range txs {
			if err := t.Validate(); err != nil {
				return fmt.Errorf("transaction %s: %w", t.ID, err)
			}
			cents, err := core.ToCents(t.Amount)
			if err != nil {
				return fmt.Errorf("transaction %s: %w", t.ID, err)
			}
			res, err := stmt.ExecContext(ctx,
				t.ID, t.OwnerID, rec.ID, t.Description, cents, string(t.Type),
				formatTime(t.Date), t.Category, formatTime(t.CreatedAt))
			if err != nil {
				return fmt.Errorf("insert transaction: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			inserted += int(n)
		}

		if _, err := tx.ExecContext(ctx, `UPDATE imports SET inserted = ? WHERE id = ?`, inserted, rec.ID); err != nil {
			return fmt.Errorf("update import: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.DebugContext(ctx, "Import saved to SQLite",
		"import_id", rec.ID,
		"owner_id", rec.OwnerID,
		"candidates", len(txs),
		"inserted", inserted)
	return inserted, nil
}

func filterClause(f core.TransactionFilter) (string, []any) {
	where := []string{"user_id = ?"}
	args := []any{f.OwnerID}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}
	if !f.Start.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, formatTime(f.Start))
	}
	if !f.End.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, formatTime(f.End))
	}
	return strings.Join(where, " AND "), args
}

const transactionColumns = `id, user_id, COALESCE(import_id, ''), description, amount_cents, type, date, category, created_at`

// ListTransactions returns the owner's transactions matching f, newest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	where, args := filterClause(f)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE `+where+` ORDER BY date DESC, created_at DESC, id`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return scanTransactions(rows)
}

// Summary totals the owner's income and expense matching f.
func (r *SQLiteRepository) Summary(ctx context.Context, f core.TransactionFilter) (core.Summary, error) {
	where, args := filterClause(f)
	var income, expense int64
	err := r.db.QueryRowContext(ctx,
		`SELECT
		   COALESCE(SUM(CASE WHEN type = 'INCOME' THEN amount_cents END), 0),
		   COALESCE(SUM(CASE WHEN type = 'EXPENSE' THEN amount_cents END), 0)
		 FROM transactions WHERE `+where,
		args...).Scan(&income, &expense)
	if err != nil {
		return core.Summary{}, fmt.Errorf("summarize transactions: %w", err)
	}
	return core.SummaryFromCents(income, expense), nil
}

// PendingExport returns transactions not yet exported, oldest first. An empty
// importID selects across all imports.
func (r *SQLiteRepository) PendingExport(ctx context.Context, importID string, limit int) ([]core.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE exported_at IS NULL`
	var args []any
	if importID != "" {
		query += ` AND import_id = ?`
		args = append(args, importID)
	}
	query += ` ORDER BY created_at, date, id LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get pending export: %w", err)
	}
	return scanTransactions(rows)
}

// MarkExported stamps the given transactions as exported at.
func (r *SQLiteRepository) MarkExported(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `UPDATE transactions SET exported_at = ? WHERE id = ?`)
		if err != nil {
			return fmt.Errorf("prepare mark exported: %w", err)
		}
		defer stmt.Close()

		stamp := formatTime(at)
		for _, id := range ids {
			if _, err := stmt.ExecContext(ctx, stamp, id); err != nil {
				return fmt.Errorf("mark transaction %s exported: %w", id, err)
			}
		}
		return nil
	})
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t                 core.Transaction
			cents             int64
			typ, date, create string
		)
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.ImportID, &t.Description, &cents, &typ, &date, &t.Category, &create); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		var err error
		if t.Date, err = parseTime(date); err != nil {
			return nil, err
		}
		if t.CreatedAt, err = parseTime(create); err != nil {
			return nil, err
		}
		t.Amount = core.FromCents(cents)
		t.Type = core.Direction(typ)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}
