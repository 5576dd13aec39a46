// Package appstate holds the administrator session and the user-editable commission
// rate, persisted through an injected settings store.
package appstate

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/kaba-chine/kaba-admin/internal/common"
	"github.com/kaba-chine/kaba-admin/internal/service"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Store persists the state between runs.
type Store interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
}

var (
	// DefaultCommissionRate is the fraction of collected payments KABA keeps.
	DefaultCommissionRate = decimal.RequireFromString("0.10")

	hundred = decimal.NewFromInt(100)
)

// Credentials is the shared administrator secret. A bcrypt hash takes precedence
// over a plain password.
type Credentials struct {
	Password     string
	PasswordHash string
}

// State is the session of the console. It is safe for concurrent use.
type State struct {
	store          Store
	credentials    Credentials
	commissionRate decimal.Decimal
	mu             sync.RWMutex
	authenticated  bool
}

// Load reads the persisted state. Missing or unreadable values fall back to defaults.
func Load(ctx context.Context, store Store, credentials Credentials) (*State, error) {
	s := &State{
		store:          store,
		credentials:    credentials,
		commissionRate: DefaultCommissionRate,
	}

	raw, err := store.GetSetting(ctx, service.SettingAuthenticated)
	switch {
	case err == nil:
		s.authenticated, _ = strconv.ParseBool(raw)
	case !errors.Is(err, common.ErrNotFound):
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	raw, err = store.GetSetting(ctx, service.SettingCommissionRate)
	switch {
	case err == nil:
		rate, perr := decimal.NewFromString(raw)
		if perr != nil || !validFraction(rate) {
			slog.Warn("Ignoring stored commission rate", "value", raw)
		} else {
			s.commissionRate = rate
		}
	case !errors.Is(err, common.ErrNotFound):
		return nil, fmt.Errorf("failed to read commission rate: %w", err)
	}

	return s, nil
}

// Authenticated reports whether an administrator is logged in.
func (s *State) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// CheckPassword compares password with the configured secret without touching the session.
func (s *State) CheckPassword(password string) error {
	return s.credentials.Verify(password)
}

// Login opens the session when password matches.
func (s *State) Login(ctx context.Context, password string) error {
	if err := s.credentials.Verify(password); err != nil {
		return err
	}
	if err := s.store.SetSetting(ctx, service.SettingAuthenticated, "true"); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.mu.Lock()
	s.authenticated = true
	s.mu.Unlock()
	slog.Info("Administrator logged in")
	return nil
}

// Logout closes the session.
func (s *State) Logout(ctx context.Context) error {
	if err := s.store.DeleteSetting(ctx, service.SettingAuthenticated); err != nil && !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.mu.Lock()
	s.authenticated = false
	s.mu.Unlock()
	return nil
}

// RequireAuth fails with common.ErrUnauthorized when nobody is logged in.
func (s *State) RequireAuth() error {
	if !s.Authenticated() {
		return common.NewUserError("Veuillez vous connecter (kaba auth login)", common.ErrUnauthorized)
	}
	return nil
}

// CommissionRate returns the commission as a fraction, for example 0.1.
func (s *State) CommissionRate() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commissionRate
}

// CommissionPercent returns the commission as a percentage, for example 10.
func (s *State) CommissionPercent() decimal.Decimal {
	return s.CommissionRate().Mul(hundred)
}

// SetCommissionPercent stores a new commission given as a percentage in (0, 100].
func (s *State) SetCommissionPercent(ctx context.Context, percent decimal.Decimal) error {
	if !percent.IsPositive() || percent.GreaterThan(hundred) {
		return fmt.Errorf("%w: %s%% is outside (0, 100]", common.ErrInvalidRate, percent)
	}
	rate := percent.Div(hundred)
	if err := s.store.SetSetting(ctx, service.SettingCommissionRate, rate.String()); err != nil {
		return fmt.Errorf("failed to save commission rate: %w", err)
	}
	s.mu.Lock()
	s.commissionRate = rate
	s.mu.Unlock()
	slog.Info("Commission rate updated", "percent", percent.String())
	return nil
}

// ParsePercent parses user input such as "12.5" or "12,5 %".
func ParsePercent(input string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(input), "%"))
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	percent, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", common.ErrInvalidRate, input)
	}
	return percent, nil
}

// Verify checks password against the configured secret.
func (c Credentials) Verify(password string) error {
	switch {
	case c.PasswordHash != "":
		if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
			return common.NewUserError("Mot de passe incorrect", common.ErrUnauthorized)
		}
		return nil
	case c.Password != "":
		if subtle.ConstantTimeCompare([]byte(c.Password), []byte(password)) != 1 {
			return common.NewUserError("Mot de passe incorrect", common.ErrUnauthorized)
		}
		return nil
	default:
		return fmt.Errorf("%w: no administrator password configured", common.ErrMissingConfig)
	}
}

// HashPassword returns a bcrypt hash suitable for auth.password_hash.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: empty password", common.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func validFraction(rate decimal.Decimal) bool {
	return rate.IsPositive() && rate.LessThanOrEqual(decimal.NewFromInt(1))
}
