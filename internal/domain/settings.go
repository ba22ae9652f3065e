package domain

import "context"

// NavLink is one storefront navigation entry.
type NavLink struct {
	Label string `json:"label" mapstructure:"label"`
	Href  string `json:"href" mapstructure:"href"`
}

// Settings is merchant-facing configuration: the WhatsApp number orders are
// sent to, storefront navigation, and the bank transfer reference table.
type Settings struct {
	Phone      string        `json:"phone" mapstructure:"phone" validate:"required,numeric"`
	Navigation []NavLink     `json:"navigation" mapstructure:"navigation"`
	Banks      []BankAccount `json:"banks" mapstructure:"banks" validate:"dive"`
}

// SettingsProvider serves merchant settings. Implementations may back onto
// the CMS, a file, or environment overrides; the core only reads.
type SettingsProvider interface {
	// Get returns the current settings.
	Get(ctx context.Context) (*Settings, error)

	// BankAccount looks up transfer metadata for a bank by name.
	BankAccount(name string) (BankAccount, bool)
}
