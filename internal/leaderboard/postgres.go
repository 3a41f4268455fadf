package leaderboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/defuse/assets"
	"github.com/robalobadob/defuse/internal/score"
)

// Postgres is a Store backed by a pgx connection pool.
type Postgres struct {
	db *pgxpool.Pool
}

// NewPostgres connects to dsn.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}
	return &Postgres{db: pool}, nil
}

// Close releases the pool.
func (p *Postgres) Close() { p.db.Close() }

// Migrate applies the embedded postgres migrations, recording each in _migrations.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY)`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}
	migrations, err := assets.Migrations("postgres")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	for _, m := range migrations {
		err := pgx.BeginFunc(ctx, p.db, func(tx pgx.Tx) error {
			tag, err := tx.Exec(ctx, `INSERT INTO _migrations(name) VALUES ($1) ON CONFLICT DO NOTHING`, m.Name)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return nil
			}
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return err
			}
			log.Info().Str("migration", m.Name).Msg("applied")
			return nil
		})
		if err != nil {
			return fmt.Errorf("apply %s: %w", m.Name, err)
		}
	}
	return nil
}

func (p *Postgres) InsertDaily(ctx context.Context, r score.DailyRecord) error {
	_, err := p.db.Exec(ctx, `
        INSERT INTO daily_scores
            (player_key, display_name, date_key, elapsed_seconds, streak, completed_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (player_key, date_key) DO NOTHING`,
		PlayerKey(r.Identity), r.DisplayName, r.DateKey, r.ElapsedSeconds, r.Streak, r.CompletedAt.UTC(),
	)
	return err
}

func (p *Postgres) InsertEndless(ctx context.Context, r score.EndlessRecord) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO endless_scores (display_name, score) VALUES ($1, $2)`,
		r.DisplayName, r.Score,
	)
	return err
}

func (p *Postgres) TopDaily(ctx context.Context, dateKey string, limit int) ([]DailyRow, error) {
	rows, err := p.db.Query(ctx, `
        SELECT display_name, elapsed_seconds, streak, completed_at
        FROM daily_scores
        WHERE date_key=$1
        ORDER BY elapsed_seconds ASC, streak DESC, completed_at ASC
        LIMIT $2`, dateKey, clampLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DailyRow{}
	for rows.Next() {
		var r DailyRow
		if err := rows.Scan(&r.DisplayName, &r.ElapsedSeconds, &r.Streak, &r.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *Postgres) TopEndless(ctx context.Context, limit int) ([]EndlessRow, error) {
	rows, err := p.db.Query(ctx, `
        SELECT display_name, score
        FROM endless_scores
        ORDER BY score DESC, id ASC
        LIMIT $1`, clampLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []EndlessRow{}
	for rows.Next() {
		var r EndlessRow
		if err := rows.Scan(&r.DisplayName, &r.Score); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
