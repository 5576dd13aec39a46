package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/kaba-chine/kaba-admin/internal/appstate"
	"github.com/kaba-chine/kaba-admin/internal/backend"
	"github.com/kaba-chine/kaba-admin/internal/cli"
	"github.com/kaba-chine/kaba-admin/internal/common"
	"github.com/kaba-chine/kaba-admin/internal/config"
	"github.com/kaba-chine/kaba-admin/internal/engine"
	"github.com/kaba-chine/kaba-admin/internal/normalize"
	"github.com/kaba-chine/kaba-admin/internal/service"
	"github.com/kaba-chine/kaba-admin/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// initStorage opens the local settings database and brings its schema up to date.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newBackendClient builds the KABA API client from backend.* settings.
func newBackendClient() (*backend.Client, *config.BackendConfig, error) {
	cfg, err := config.LoadBackendConfig()
	if err != nil {
		return nil, nil, err
	}
	client := backend.NewClient(cfg.URL, cfg.Timeout, backend.WithRetryAttempts(cfg.RetryAttempts))
	return client, cfg, nil
}

// newEngine wires the normalization layer on top of the client.
func newEngine(client engine.Backend, cfg *config.BackendConfig, reportCfg *config.ReportConfig) *engine.Engine {
	adapter := normalize.NewAdapter(normalize.NewImageResolver(cfg.URL, cfg.PlaceholderHosts))
	engineCfg := engine.DefaultConfig()
	engineCfg.ProfitRate = reportCfg.ProfitRate
	return engine.NewWithConfig(client, adapter, engineCfg)
}

// loadState reads the administrator session from the settings store.
func loadState(ctx context.Context, store service.Storage) (*appstate.State, error) {
	authCfg, err := config.LoadAuthConfig()
	if err != nil {
		return nil, err
	}
	return appstate.Load(ctx, store, appstate.Credentials{
		Password:     authCfg.Password,
		PasswordHash: authCfg.PasswordHash,
	})
}

// session bundles everything a command needs to talk to KABA.
type session struct {
	store  service.Storage
	client *backend.Client
	engine *engine.Engine
	state  *appstate.State
	report *config.ReportConfig
}

// openSession opens storage, loads the state and builds the client. Unless
// anonymous is set, it fails when no administrator is logged in.
func openSession(ctx context.Context, anonymous bool) (*session, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}

	s, err := buildSession(ctx, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	if !anonymous {
		if err := s.state.RequireAuth(); err != nil {
			_ = store.Close()
			return nil, err
		}
	}
	return s, nil
}

func buildSession(ctx context.Context, store service.Storage) (*session, error) {
	state, err := loadState(ctx, store)
	if err != nil {
		return nil, err
	}
	client, backendCfg, err := newBackendClient()
	if err != nil {
		return nil, err
	}
	reportCfg, err := config.LoadReportConfig()
	if err != nil {
		return nil, err
	}

	slog.Debug("Session ready", "backend", client.BaseURL(), "authenticated", state.Authenticated())

	return &session{
		store:  store,
		client: client,
		engine: newEngine(client, backendCfg, reportCfg),
		state:  state,
		report: reportCfg,
	}, nil
}

// Close releases the settings database.
func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		slog.Warn("Failed to close storage", "error", err)
	}
}

// withSession runs fn with an authenticated session.
func withSession(fn func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd, args, s)
	}
}

// readPassword reads a secret without echo on a terminal, or one line otherwise.
func readPassword(cmd *cobra.Command, label string) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.OutOrStdout(), cli.FormatPrompt(label))
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}
	return newPrompter(cmd).AskRequired(cmd.Context(), label)
}

func newPrompter(cmd *cobra.Command) *cli.Prompter {
	return cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
}

// flagParams collects string flags into the parameter map the filter parsers take.
// keys maps flag names to parameter keys.
func flagParams(cmd *cobra.Command, keys map[string]string) map[string]string {
	params := make(map[string]string, len(keys))
	for flag, key := range keys {
		if v, err := cmd.Flags().GetString(flag); err == nil && v != "" {
			params[key] = v
		}
	}
	return params
}

// invalidInput marks a bad flag or argument value.
func invalidInput(name, value string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s %q: %w", common.ErrInvalidInput, name, value, err)
	}
	return fmt.Errorf("%w: %s %q", common.ErrInvalidInput, name, value)
}

// decimalFlag parses a money flag, or returns nil when it was not given.
func decimalFlag(cmd *cobra.Command, name string) (*decimal.Decimal, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	raw, _ := cmd.Flags().GetString(name)
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."))
	if err != nil {
		return nil, invalidInput("--"+name, raw, err)
	}
	return &d, nil
}

// floatFlag returns a pointer to a float flag value, or nil when it was not given.
func floatFlag(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return &v
}

func printf(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		slog.Debug("Failed to write output", "error", err)
	}
}

func printLine(w io.Writer, args ...any) {
	if _, err := fmt.Fprintln(w, args...); err != nil {
		slog.Debug("Failed to write output", "error", err)
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
