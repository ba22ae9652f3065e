package domain

// DeliveryMethod selects how the order reaches the customer.
type DeliveryMethod string

const (
	DeliveryToAddress DeliveryMethod = "delivery"
	DeliveryPickup    DeliveryMethod = "pickup"
)

// PaymentMethod identifies how the customer intends to pay.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCardLink PaymentMethod = "bac_compra_click"
)

// Valid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentCardLink:
		return true
	}
	return false
}

// Coordinates is a delivery destination in decimal degrees.
// The exact pair (0, 0) is a sentinel meaning "no geolocation available":
// it is emitted by the manual address entry path and must never be treated
// as a real destination.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsManualEntry reports whether the coordinates are the manual-entry sentinel.
func (c Coordinates) IsManualEntry() bool {
	return c.Lat == 0 && c.Lng == 0
}

// Customer is the durable part of the order draft: name and phone survive
// across sessions, everything else is re-entered per checkout.
type Customer struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

// OrderDraft accumulates checkout form state for one session. Only Name and
// Phone are persisted; address, coordinates and payment state are wiped
// whenever the checkout view closes.
type OrderDraft struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`

	Address     string       `json:"address,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Notes       string       `json:"notes,omitempty"`

	DeliveryMethod     DeliveryMethod `json:"delivery_method"`
	DeliveryPriceCents int64          `json:"delivery_price_cents"`

	PaymentMethod PaymentMethod `json:"payment_method,omitempty"`
	SelectedBank  string        `json:"selected_bank,omitempty"`
	CashChange    string        `json:"cash_change,omitempty"`
	ReceiptURL    string        `json:"receipt_url,omitempty"`
}

// BankAccount is static reference metadata for one bank transfer target.
// The values are opaque configuration sourced from the settings provider.
type BankAccount struct {
	Bank          string `json:"bank" mapstructure:"bank" validate:"required"`
	AccountNumber string `json:"account_number" mapstructure:"account_number" validate:"required"`
	Holder        string `json:"holder" mapstructure:"holder"`
	HolderID      string `json:"holder_id" mapstructure:"holder_id"`
}

// Order is a fully validated order ready for fulfillment handoff.
type Order struct {
	Customer Customer
	Address  string
	Notes    string

	Lines []Line

	DeliveryMethod DeliveryMethod
	SubtotalCents  int64
	DeliveryCents  int64
	TotalCents     int64

	PaymentMethod PaymentMethod
	CashChange    string
	Bank          *BankAccount
	ReceiptURL    string
}
