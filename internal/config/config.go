package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kaba-chine/kaba-admin/internal/common"
	"github.com/kaba-chine/kaba-admin/internal/normalize"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Defaults for the KABA console.
const (
	DefaultBackendURL     = "http://localhost:3000/api"
	DefaultBackendTimeout = 30 * time.Second
	DefaultRetryAttempts  = 1
	DefaultProfitRate     = "0.3"
	DefaultCurrency       = "XOF"
	DefaultServerAddr     = "127.0.0.1:8080"
)

// SetDefaults registers default values for every known key.
func SetDefaults() {
	viper.SetDefault("backend.url", DefaultBackendURL)
	viper.SetDefault("backend.timeout", DefaultBackendTimeout)
	viper.SetDefault("backend.retry_attempts", DefaultRetryAttempts)
	viper.SetDefault("backend.placeholder_hosts", normalize.DefaultPlaceholderHosts)
	viper.SetDefault("database.path", DefaultDatabasePath())
	viper.SetDefault("report.profit_rate", DefaultProfitRate)
	viper.SetDefault("report.currency", DefaultCurrency)
	viper.SetDefault("server.addr", DefaultServerAddr)
	viper.SetDefault("tui.theme", "default")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
}

// BackendConfig locates and tunes access to the KABA REST API.
type BackendConfig struct {
	URL              string
	PlaceholderHosts []string
	Timeout          time.Duration
	RetryAttempts    int
}

// LoadBackendConfig reads backend.* keys.
func LoadBackendConfig() (*BackendConfig, error) {
	cfg := &BackendConfig{
		URL:              strings.TrimSuffix(viper.GetString("backend.url"), "/"),
		Timeout:          viper.GetDuration("backend.timeout"),
		RetryAttempts:    viper.GetInt("backend.retry_attempts"),
		PlaceholderHosts: viper.GetStringSlice("backend.placeholder_hosts"),
	}
	if cfg.URL == "" {
		cfg.URL = DefaultBackendURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultBackendTimeout
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = DefaultRetryAttempts
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the backend URL is absolute.
func (c *BackendConfig) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("%w: backend.url: %w", common.ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: backend.url must be an http(s) URL, got %q", common.ErrInvalidConfig, c.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: backend.url has no host", common.ErrInvalidConfig)
	}
	return nil
}

// AuthConfig holds the shared administrator password.
type AuthConfig struct {
	Password     string
	PasswordHash string
}

// LoadAuthConfig reads auth.* keys. One of the two must be set.
func LoadAuthConfig() (*AuthConfig, error) {
	cfg := &AuthConfig{
		Password:     viper.GetString("auth.password"),
		PasswordHash: viper.GetString("auth.password_hash"),
	}
	if cfg.Password == "" && cfg.PasswordHash == "" {
		return nil, fmt.Errorf("%w: set auth.password_hash or auth.password", common.ErrMissingConfig)
	}
	return cfg, nil
}

// ReportConfig holds reporting constants.
type ReportConfig struct {
	ProfitRate decimal.Decimal
	Currency   string
}

// LoadReportConfig reads report.* keys. The profit rate must lie in [0, 1].
func LoadReportConfig() (*ReportConfig, error) {
	raw := viper.GetString("report.profit_rate")
	if raw == "" {
		raw = DefaultProfitRate
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: report.profit_rate %q: %w", common.ErrInvalidConfig, raw, err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: report.profit_rate must be between 0 and 1, got %s", common.ErrInvalidConfig, rate)
	}

	currency := viper.GetString("report.currency")
	if currency == "" {
		currency = DefaultCurrency
	}
	return &ReportConfig{ProfitRate: rate, Currency: currency}, nil
}
