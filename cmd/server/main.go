package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"phrasecast/internal/config"
	apphttp "phrasecast/internal/http"
	"phrasecast/internal/llm"
	"phrasecast/internal/logging"
	"phrasecast/internal/objectstore"
	"phrasecast/internal/phrases"
	"phrasecast/internal/storage"
	"phrasecast/internal/tts"
	"phrasecast/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("startup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.New(logging.Options{LogFile: cfg.LogFile})
	if err := run(logger, cfg); err != nil {
		logger.Error("startup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("pgx", cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	// ensure DB is reachable
	if err := pingDB(ctx, db); err != nil {
		return err
	}

	if err := storage.RunMigrations(ctx, db, migrations.Files); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	repo := storage.NewPhraseRepository(db)

	var translator phrases.Translator
	var synthesizer phrases.Synthesizer
	if cfg.OpenAIAPIKey != "" {
		translator = llm.NewOpenAIClient(logger, cfg.OpenAIAPIKey, cfg.ChatModel, nil)
		synthesizer = tts.NewOpenAIClient(logger, cfg.OpenAIAPIKey, cfg.TTSModel, cfg.TTSVoice, nil)
	} else {
		logger.Warn("OPENAI_API_KEY not set, using stub translation and synthesis")
		translator = llm.NewStubClient(logger)
		synthesizer = tts.NewStubClient()
	}

	var store phrases.ObjectStore
	if cfg.SupabaseURL != "" && cfg.SupabaseKey != "" {
		store = objectstore.NewSupabaseClient(logger, cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket, nil)
	} else {
		logger.Warn("SUPABASE_URL not set, storing audio in memory")
		store = objectstore.NewMemory()
	}

	service := phrases.NewService(logger, repo, translator, synthesizer, store)
	handler := apphttp.NewServer(logger, service)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("shutdown server: %w", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}

func pingDB(ctx context.Context, db *sql.DB) error {
	const (
		maxAttempts = 10
		baseDelay   = time.Second
	)

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()

		if err == nil {
			return nil
		}

		// allow caller to abort early
		select {
		case <-ctx.Done():
			return fmt.Errorf("ping db: %w", err)
		case <-time.After(time.Duration(attempt) * baseDelay):
		}
	}

	return fmt.Errorf("ping db: %w", err)
}
