package leaderboard

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/robalobadob/defuse/internal/score"
)

// SQLite is a Store over database/sql with the go-sqlite3 driver.
type SQLite struct{ db *sql.DB }

// NewSQLite wraps an open, migrated database.
func NewSQLite(db *sql.DB) *SQLite { return &SQLite{db: db} }

func (s *SQLite) InsertDaily(ctx context.Context, r score.DailyRecord) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO daily_scores
            (player_key, display_name, date_key, elapsed_seconds, streak, completed_at)
        VALUES (?, ?, ?, ?, ?, ?)`,
		PlayerKey(r.Identity), r.DisplayName, r.DateKey, r.ElapsedSeconds, r.Streak,
		r.CompletedAt.UTC().Format(timeLayout),
	)
	return err
}

func (s *SQLite) InsertEndless(ctx context.Context, r score.EndlessRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO endless_scores (display_name, score, created_at) VALUES (?, ?, ?)`,
		r.DisplayName, r.Score, time.Now().UTC().Format(timeLayout),
	)
	return err
}

func (s *SQLite) TopDaily(ctx context.Context, dateKey string, limit int) ([]DailyRow, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT display_name, elapsed_seconds, streak, completed_at
        FROM daily_scores
        WHERE date_key=?
        ORDER BY elapsed_seconds ASC, streak DESC, completed_at ASC
        LIMIT ?`, dateKey, clampLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DailyRow{}
	for rows.Next() {
		var r DailyRow
		var completed string
		if err := rows.Scan(&r.DisplayName, &r.ElapsedSeconds, &r.Streak, &completed); err != nil {
			return nil, err
		}
		at, err := time.Parse(timeLayout, completed)
		if err != nil {
			return nil, fmt.Errorf("daily_scores completed_at %q: %w", completed, err)
		}
		r.CompletedAt = at
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) TopEndless(ctx context.Context, limit int) ([]EndlessRow, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT display_name, score
        FROM endless_scores
        ORDER BY score DESC, id ASC
        LIMIT ?`, clampLimit(limit),
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
