// Package settings serves merchant configuration: the WhatsApp order number,
// storefront navigation and the bank transfer reference table. Values come
// from an optional settings file layered over built-in defaults, so a fresh
// deployment works with zero configuration.
package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jrmart12/nayos/internal/domain"
	"github.com/spf13/viper"
)

// Service implements domain.SettingsProvider on a viper instance.
type Service struct {
	mu       sync.RWMutex
	settings *domain.Settings
}

var _ domain.SettingsProvider = (*Service)(nil)

// New loads settings from the optional config file at path (viper format,
// e.g. settings.yaml). A missing file is fine; defaults apply. A present
// but unreadable file is an error so typos do not silently ship defaults.
func New(path string) (*Service, error) {
	v := viper.New()
	applyDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !isMissingFile(err) {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	var s domain.Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	if err := validate.Struct(&s); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return &Service{settings: &s}, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// isMissingFile covers both viper's own not-found error and the os error it
// wraps when SetConfigFile points at an explicit path.
func isMissingFile(err error) bool {
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return true
	}
	return errors.Is(err, fs.ErrNotExist)
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("phone", "50433025597")
	v.SetDefault("navigation", []map[string]any{
		{"label": "Inicio", "href": "/"},
		{"label": "Menú", "href": "/#menu"},
		{"label": "Contacto", "href": "/#contacto"},
	})
	v.SetDefault("banks", []map[string]any{
		{
			"bank":           "BAC",
			"account_number": "727269691",
			"holder":         "JHOEL JONES VELASQUEZ",
			"holder_id":      "0101199500756",
		},
		{
			"bank":           "FICOHSA",
			"account_number": "200015920881",
			"holder":         "JHOEL JONES VELASQUEZ",
			"holder_id":      "0101199500756",
		},
		{
			"bank":           "BANPAIS",
			"account_number": "216170056146",
			"holder":         "JHOEL JONES VELASQUEZ",
			"holder_id":      "0101199500756",
		},
		{
			"bank":           "ATLANTIDA",
			"account_number": "2020653689",
			"holder":         "JHOEL VELASQUEZ GOUGH",
			"holder_id":      "0101199500756",
		},
	})
}

// Get returns the current settings.
func (s *Service) Get(ctx context.Context) (*domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

// BankAccount looks up transfer metadata by bank name, case-insensitively.
func (s *Service) BankAccount(name string) (domain.BankAccount, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.settings.Banks {
		if strings.EqualFold(b.Bank, name) {
			return b, true
		}
	}
	return domain.BankAccount{}, false
}
