package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/defuse/internal/config"
	"github.com/robalobadob/defuse/internal/database"
	"github.com/robalobadob/defuse/internal/httpserver"
	"github.com/robalobadob/defuse/internal/leaderboard"
	"github.com/robalobadob/defuse/internal/play"
	"github.com/robalobadob/defuse/internal/profile"
	"github.com/robalobadob/defuse/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// run owns every resource so deferred closes happen on all exit paths.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.OpenMigrated(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	defer db.Close()

	var board leaderboard.Store = leaderboard.NewSQLite(db)
	if cfg.LeaderboardDriver == database.DialectPostgres {
		pg, err := leaderboard.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect leaderboard: %w", err)
		}
		defer pg.Close()
		if err := pg.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate leaderboard: %w", err)
		}
		board = pg
	}

	svc := play.New(cfg, profile.NewSQLBackend(db), store.NewMemoryStore(), board)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpserver.New(svc, cfg).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("leaderboard", cfg.LeaderboardDriver).Msg("starting defuse server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			svc.Wait()
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("shutdown")
	}
	// let in-flight leaderboard writes land before the stores close
	svc.Wait()
	return nil
}
