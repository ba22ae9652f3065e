package delivery_test

import (
	"testing"

	"github.com/jrmart12/nayos/internal/delivery"
	"github.com/jrmart12/nayos/internal/domain"
	"github.com/stretchr/testify/assert"
)

func newQuoter(prices delivery.PriceConfig) *delivery.BridgeZoneQuoter {
	return delivery.NewBridgeZoneQuoter(delivery.LaCeibaBridges, prices)
}

func TestQuote_InsideZone(t *testing.T) {
	q := newQuoter(delivery.DefaultPrices)

	// Between Puente Danto (-86.8149412) and Puente Reino de Suecia (-86.7797647).
	got := q.Quote(domain.Coordinates{Lat: 15.76, Lng: -86.80})
	assert.Equal(t, int64(5000), got)
}

func TestQuote_OutsideZone(t *testing.T) {
	q := newQuoter(delivery.DefaultPrices)

	tests := []struct {
		name string
		lng  float64
	}{
		{"west of Danto", -86.90},
		{"east of Reino de Suecia", -86.70},
		{"far away", -87.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := q.Quote(domain.Coordinates{Lat: 15.76, Lng: tt.lng})
			assert.Equal(t, int64(12000), got)
		})
	}
}

func TestQuote_BoundsAreStrict(t *testing.T) {
	q := newQuoter(delivery.DefaultPrices)

	// A destination exactly on a bridge longitude is outside the band.
	assert.Equal(t, int64(12000), q.Quote(domain.Coordinates{Lat: 15.7594158, Lng: -86.8149412}))
	assert.Equal(t, int64(12000), q.Quote(domain.Coordinates{Lat: 15.7729232, Lng: -86.7797647}))
}

func TestQuote_LatitudeIgnored(t *testing.T) {
	q := newQuoter(delivery.DefaultPrices)

	for _, lat := range []float64{-40.0, 0.0001, 15.76, 89.0} {
		got := q.Quote(domain.Coordinates{Lat: lat, Lng: -86.80})
		assert.Equal(t, int64(5000), got, "lat %v must not affect the quote", lat)
	}
}

func TestQuote_ManualEntrySentinel(t *testing.T) {
	// Distinct manual price proves the sentinel path is taken deliberately,
	// not because (0,0) happens to fall outside the band.
	q := newQuoter(delivery.PriceConfig{
		InsideCents:  5000,
		OutsideCents: 12000,
		ManualCents:  99900,
	})

	got := q.Quote(domain.Coordinates{Lat: 0, Lng: 0})
	assert.Equal(t, int64(99900), got)
}

func TestQuote_NearSentinelIsNotSentinel(t *testing.T) {
	q := newQuoter(delivery.PriceConfig{
		InsideCents:  5000,
		OutsideCents: 12000,
		ManualCents:  99900,
	})

	// Only the exact (0,0) pair is the sentinel.
	assert.Equal(t, int64(12000), q.Quote(domain.Coordinates{Lat: 0, Lng: 0.0001}))
	assert.Equal(t, int64(12000), q.Quote(domain.Coordinates{Lat: 0.0001, Lng: 0}))
}

func TestQuote_DefaultPricesManualMatchesOutside(t *testing.T) {
	q := newQuoter(delivery.DefaultPrices)
	assert.Equal(t, int64(12000), q.Quote(domain.Coordinates{}))
}

func TestNewBridgeZoneQuoter_PicksOuterBounds(t *testing.T) {
	// Bridge order must not matter; the quoter picks the outermost longitudes.
	shuffled := []delivery.Bridge{
		delivery.LaCeibaBridges[2],
		delivery.LaCeibaBridges[0],
		delivery.LaCeibaBridges[1],
	}
	q := delivery.NewBridgeZoneQuoter(shuffled, delivery.DefaultPrices)

	assert.Equal(t, int64(5000), q.Quote(domain.Coordinates{Lat: 15.76, Lng: -86.80}))
	assert.Equal(t, int64(12000), q.Quote(domain.Coordinates{Lat: 15.76, Lng: -86.82}))
}

func TestMockQuoter(t *testing.T) {
	m := &delivery.MockQuoter{}
	assert.Equal(t, int64(0), m.Quote(domain.Coordinates{}))

	m.QuoteFunc = func(domain.Coordinates) int64 { return 777 }
	assert.Equal(t, int64(777), m.Quote(domain.Coordinates{Lat: 1, Lng: 2}))
}
