// Package cli implements the coachd server command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/gilhq/coach"
	"github.com/gilhq/coach/completion"
	"github.com/gilhq/coach/completion/anthropic"
	"github.com/gilhq/coach/completion/openai"
	"github.com/gilhq/coach/logging"
	"github.com/gilhq/coach/store"
)

var (
	addr      string
	dbPath    string
	provider  string
	modelName string
	logFormat string
	logLevel  string
)

// RootCmd is the top-level command; running it starts the HTTP server.
var RootCmd = &cobra.Command{
	Use:          "coachd",
	Short:        "Health-coach chat backend",
	Long:         "Backend for the health-coach app: chat turns, categorized memories and LLM-driven memory extraction over a JSON HTTP API.",
	RunE:         run,
	SilenceUsage: true,
}

func init() {
	RootCmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default: $COACH_ADDR or :3000)")
	RootCmd.Flags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $COACH_DB or ~/.coach/coach.db)")
	RootCmd.Flags().StringVarP(&provider, "provider", "p", "openai", "Completion provider: openai, anthropic or mock")
	RootCmd.Flags().StringVarP(&modelName, "model", "m", "", "Model id override for the chosen provider")
	RootCmd.Flags().StringVar(&logFormat, "log-format", "json", "Log format: json or text")
	RootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
}

func getAddr() string {
	if addr != "" {
		return addr
	}
	if env := os.Getenv("COACH_ADDR"); env != "" {
		return env
	}
	return ":3000"
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("COACH_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".coach", "coach.db")
}

func parseLevel(s string) slog.Level {
	switch s {
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

func buildCompleter() (completion.Completer, error) {
	switch provider {
	case "openai":
		return openai.New(func(o *openai.Options) {
			if modelName != "" {
				o.Model = modelName
			}
		}), nil
	case "anthropic":
		return anthropic.New(func(o *anthropic.Options) {
			if modelName != "" {
				o.Model = anthropicsdk.Model(modelName)
			}
		}), nil
	case "mock":
		return completion.NewMockCompleter(), nil
	}
	return nil, fmt.Errorf("unknown provider %q (must be openai, anthropic or mock)", provider)
}

func run(cmd *cobra.Command, _ []string) error {
	logger := logging.New(os.Stderr, parseLevel(logLevel), logFormat)

	st, err := store.NewSQLite(getDBPath())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	completer, err := buildCompleter()
	if err != nil {
		return err
	}

	c := coach.New(func(o *coach.Options) {
		o.MemoryStore = st
		o.MessageStore = st
		o.Completer = completer
		o.Logger = logger
	})

	srv := &http.Server{
		Addr:              getAddr(),
		Handler:           c.Server().Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info := completer.Info()
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			"addr", srv.Addr, "db", getDBPath(), "provider", info.Provider, "model", info.Name)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
