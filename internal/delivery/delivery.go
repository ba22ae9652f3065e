// Package delivery computes the delivery surcharge for an order destination.
package delivery

import "github.com/jrmart12/nayos/internal/domain"

// Quoter returns the delivery surcharge in centavos for a destination.
// Quoting is a total function: every coordinate pair gets a price.
type Quoter interface {
	Quote(coords domain.Coordinates) int64
}

// PriceConfig carries the three flat surcharges the zone rule selects from.
type PriceConfig struct {
	// InsideCents is charged for destinations inside the serviced corridor.
	InsideCents int64

	// OutsideCents is charged for destinations beyond the corridor.
	OutsideCents int64

	// ManualCents is charged when no geolocation is available and the
	// customer typed an address by hand (the (0,0) sentinel).
	ManualCents int64
}

// DefaultPrices are the current La Ceiba rates in centavos.
var DefaultPrices = PriceConfig{
	InsideCents:  5000,
	OutsideCents: 12000,
	ManualCents:  12000,
}
