package profile

import (
	"context"
	"database/sql"
	"errors"
)

// SQLBackend keeps profile values in the profile_kv table.
type SQLBackend struct{ db *sql.DB }

// NewSQLBackend wraps an open, migrated database.
func NewSQLBackend(db *sql.DB) *SQLBackend { return &SQLBackend{db: db} }

// KV returns the key space for playerID.
func (b *SQLBackend) KV(playerID string) KV {
	return &sqlKV{db: b.db, player: playerID}
}

type sqlKV struct {
	db     *sql.DB
	player string
}

func (k *sqlKV) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := k.db.QueryRowContext(ctx,
		`SELECT value FROM profile_kv WHERE player_id=? AND key=?`,
		k.player, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (k *sqlKV) Set(ctx context.Context, key, value string) error {
	_, err := k.db.ExecContext(ctx, `
        INSERT INTO profile_kv (player_id, key, value, updated_at)
        VALUES (?, ?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(player_id, key) DO UPDATE SET
            value=excluded.value,
            updated_at=excluded.updated_at`,
		k.player, key, value,
	)
	return err
}
