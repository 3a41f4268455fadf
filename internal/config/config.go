// internal/config/config.go
//
// Runtime configuration for the Defuse server.
//
// Values come from the environment, optionally seeded from a .env file in
// development. Every key has a default; malformed values fall back to the
// default with a warning so a typo never stops the server. Only an
// unusable board (size or tries ≤ 0) or an unknown lockout policy is an
// error.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/defuse/internal/game"
	"github.com/robalobadob/defuse/internal/streak"
)

// Config is the full server configuration.
type Config struct {
	Port     string
	LogLevel string

	DBPath            string // SQLite file for profiles (and the default leaderboard)
	LeaderboardDriver string // "sqlite" or "postgres"
	DatabaseURL       string // Postgres DSN when LeaderboardDriver is "postgres"

	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Production     bool

	Location            *time.Location // player-local zone for date keys
	Daily               game.Config
	Endless             game.Config
	EndlessUnlockStreak int
	Lockout             streak.Policy
	ShareURL            string
	PublishTimeout      time.Duration

	RateLimitRPS   int
	RateLimitBurst int
}

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() (Config, error) {
	c := Config{
		Port:              getEnv("PORT", "5175"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DBPath:            getEnv("DB_PATH", "./data/defuse.db"),
		LeaderboardDriver: strings.ToLower(getEnv("LEADERBOARD_DRIVER", "sqlite")),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays:    getEnvInt("JWT_EXPIRES_DAYS", 180),
		CookieName:        getEnv("COOKIE_NAME", "defuse_token"),
		ClientOrigin:      getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:        os.Getenv("NODE_ENV") == "production",
		Daily: game.Config{
			GridSize: getEnvInt("DAILY_GRID_SIZE", 5),
			MaxTries: getEnvInt("DAILY_MAX_TRIES", 5),
		},
		Endless: game.Config{
			GridSize: getEnvInt("ENDLESS_GRID_SIZE", 5),
			MaxTries: getEnvInt("ENDLESS_MAX_TRIES", 5),
		},
		EndlessUnlockStreak: getEnvInt("ENDLESS_UNLOCK_STREAK", 3),
		Lockout:             streak.Policy(strings.ToLower(getEnv("LOCKOUT_POLICY", string(streak.LockoutAnyOutcome)))),
		ShareURL:            os.Getenv("SHARE_URL"),
		PublishTimeout:      getEnvDuration("PUBLISH_TIMEOUT", 5*time.Second),
		RateLimitRPS:        getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst:      getEnvInt("RATE_LIMIT_BURST", 10),
	}

	c.Location = time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Warn().Err(err).Str("timezone", tz).Msg("invalid TIMEZONE, using local zone")
		} else {
			c.Location = loc
		}
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	if err := c.Daily.Validate(); err != nil {
		return fmt.Errorf("daily: %w", err)
	}
	if err := c.Endless.Validate(); err != nil {
		return fmt.Errorf("endless: %w", err)
	}
	if !c.Lockout.Valid() {
		return fmt.Errorf("unknown LOCKOUT_POLICY %q", c.Lockout)
	}
	switch c.LeaderboardDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("LEADERBOARD_DRIVER=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown LEADERBOARD_DRIVER %q", c.LeaderboardDriver)
	}
	return nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getEnvInt reads an int from the environment or returns a fallback.
func getEnvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Int("default", def).Msg("invalid int, using default")
		return def
	}
	return n
}

// getEnvDuration reads a time.Duration from the environment or returns a fallback.
func getEnvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Warn().Str("key", k).Str("value", v).Dur("default", def).Msg("invalid duration, using default")
		return def
	}
	return d
}
