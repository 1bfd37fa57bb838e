// Package sqlite contains the SQLite implementation of repository.KVRepository.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/and161185/taskdesk/internal/migrate"
	"github.com/and161185/taskdesk/internal/repository"
)

// FileName is the database name inside the data directory.
const FileName = "state.db"

// KVRepo persists client state in a single kv table.
type KVRepo struct {
	db *sql.DB
}

var _ repository.KVRepository = (*KVRepo)(nil)

// Open opens (or creates) <dir>/state.db and applies migrations.
// The caller is responsible for calling Close.
func Open(ctx context.Context, dir string) (*KVRepo, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, FileName)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // prevent SQLITE_BUSY
	if err := migrate.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return &KVRepo{db: db}, nil
}

// Close releases the underlying database connection.
func (r *KVRepo) Close() error { return r.db.Close() }

// Get implements repository.KVRepository.
func (r *KVRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set implements repository.KVRepository.
func (r *KVRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	return err
}

// Delete implements repository.KVRepository.
func (r *KVRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}
