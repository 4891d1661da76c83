package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pulse/internal/core"
)

// EnsureUser creates the user on first sight. Email and name are only filled
// in when the stored values are empty.
func (r *SQLiteRepository) EnsureUser(ctx context.Context, u core.User) (core.User, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   email = CASE WHEN users.email = '' THEN excluded.email ELSE users.email END,
		   name = CASE WHEN users.name = '' THEN excluded.name ELSE users.name END`,
		u.ID, u.Email, u.Name, formatTime(r.now()))
	if err != nil {
		return core.User{}, fmt.Errorf("ensure user: %w", err)
	}
	return r.GetUser(ctx, u.ID)
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (core.User, error) {
	var (
		u       core.User
		created string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.Name, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	if u.CreatedAt, err = parseTime(created); err != nil {
		return core.User{}, err
	}
	return u, nil
}

// UpdateUserName sets the display name and returns the updated user.
func (r *SQLiteRepository) UpdateUserName(ctx context.Context, id, name string) (core.User, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return core.User{}, fmt.Errorf("update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return r.GetUser(ctx, id)
}

// DeleteUser removes the user together with their transactions and imports.
func (r *SQLiteRepository) DeleteUser(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = ?`, id); err != nil {
			return fmt.Errorf("delete transactions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM imports WHERE user_id = ?`, id); err != nil {
			return fmt.Errorf("delete imports: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil
	})
}
