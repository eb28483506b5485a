package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lernwerk/lernwerk/internal/config"
	"github.com/lernwerk/lernwerk/internal/events"
	"github.com/lernwerk/lernwerk/internal/fetch"
	"github.com/lernwerk/lernwerk/internal/offline"
	"github.com/lernwerk/lernwerk/internal/repository"
	"github.com/lernwerk/lernwerk/internal/server"
)

const (
	pidFileName = "lernwerkd.pid"
)

func main() {
	if err := run(); err != nil {
		slog.Error("daemon error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Ensure ~/.lernwerk directory exists
	lernwerkDir, err := config.EnsureLernwerkDir()
	if err != nil {
		return fmt.Errorf("ensure lernwerk dir: %w", err)
	}

	// Load configuration
	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Setup logging
	logLevel := parseLogLevel(cfg.Daemon.LogLevel)
	logFile, err := setupLogging(lernwerkDir, logLevel)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	// Write PID file
	pidPath := filepath.Join(lernwerkDir, pidFileName)
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	ctx := context.Background()

	// Content store (PostgreSQL)
	pool, err := repository.Pool(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect content store: %w", err)
	}
	defer pool.Close()

	lessons := repository.NewLessonRepository(pool)
	questions := repository.NewQuestionRepository(pool)
	vocab := repository.NewVocabularyRepository(pool)

	// Offline cache (SQLite)
	cachePath, err := cfg.CachePath()
	if err != nil {
		return fmt.Errorf("resolve cache path: %w", err)
	}
	cacheDB, err := offline.Open(cachePath)
	if err != nil {
		return fmt.Errorf("open offline cache: %w", err)
	}
	defer cacheDB.Close()
	if err := cacheDB.Migrate(); err != nil {
		return fmt.Errorf("migrate offline cache: %w", err)
	}
	store := offline.NewStore(cacheDB)

	// Resilient question fetch: network first, cache as fallback
	fetcher := fetch.New(questions, store, fetch.Config{
		MaxAttempts:  cfg.Fetch.MaxAttempts,
		InitialDelay: time.Duration(cfg.Fetch.InitialDelayMS) * time.Millisecond,
	})

	// Progress sinks: the offline store always records; the event bus only
	// when configured.
	recorders := []server.ProgressRecorder{store}
	if cfg.Events.Enabled {
		conn, err := events.NewConnection(cfg.Events.URL)
		if err != nil {
			// Progress publishing is best-effort; the daemon still runs.
			slog.Warn("event bus unavailable, progress events disabled", "error", err)
		} else {
			defer conn.Close()
			recorders = append(recorders, events.NewPublisher(conn))
		}
	}

	srv := server.NewServer(cfg, server.Deps{
		Lessons:   lessons,
		Questions: questions,
		Fetcher:   fetcher,
		Vocab:     vocab,
		Progress:  recorders,
	})

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh

		slog.Info("received signal, shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		close(done)
	}()

	// Start server
	if err := srv.Start(); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	slog.Info("daemon stopped")
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setupLogging(lernwerkDir string, level slog.Level) (*os.File, error) {
	logPath := filepath.Join(lernwerkDir, "logs", "lernwerkd.log")

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	handler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: level,
	})

	// Also log to stderr for foreground mode
	multiHandler := &multiHandler{
		handlers: []slog.Handler{
			handler,
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}),
		},
	}

	slog.SetDefault(slog.New(multiHandler))

	return logFile, nil
}

func writePIDFile(path string) error {
	pid := os.Getpid()
	return os.WriteFile(path, []byte(fmt.Sprintf("%d\n", pid)), 0644)
}

// multiHandler logs to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}
