package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/memozise/memozise/internal/logger"
	"github.com/memozise/memozise/internal/repository"
)

type kvRepository struct {
	db *sql.DB
}

// NewKVRepository creates the local string-keyed persistence primitive used
// by the pending-update overlay.
func NewKVRepository(db *sql.DB) repository.KVRepository {
	return &kvRepository{db: db}
}

func (r *kvRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM local_kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("kv_repo").Error("failed to get key %s: %v", key, err)
		return "", false, err
	}
	return value, true, nil
}

func (r *kvRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO local_kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`, key, value)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("kv_repo").Error("failed to set key %s: %v", key, err)
	}
	return err
}

func (r *kvRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM local_kv WHERE key = ?`, key)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("kv_repo").Error("failed to delete key %s: %v", key, err)
	}
	return err
}
