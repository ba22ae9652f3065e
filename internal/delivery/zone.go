package delivery

import "github.com/jrmart12/nayos/internal/domain"

// Bridge is a named reference coordinate. The three La Ceiba bridges define
// a west-to-east corridor along the coast; the outermost two bound the
// low-cost delivery zone.
type Bridge struct {
	Name string
	Lat  float64
	Lng  float64
}

// LaCeibaBridges are the reference points for the current service area.
var LaCeibaBridges = []Bridge{
	{Name: "Puente Danto", Lat: 15.7594158, Lng: -86.8149412},
	{Name: "Puente Saopin", Lat: 15.7621218, Lng: -86.783392},
	{Name: "Puente Reino de Suecia", Lat: 15.7729232, Lng: -86.7797647},
}

// BridgeZoneQuoter prices deliveries with a longitude band check: strictly
// between the westernmost and easternmost bridge longitudes is the low-cost
// zone, anywhere else the high-cost zone. Latitude is accepted but unused;
// the rule is a one-dimensional band, not a polygon test.
type BridgeZoneQuoter struct {
	west   float64
	east   float64
	prices PriceConfig
}

// NewBridgeZoneQuoter builds a quoter from reference bridges and prices.
// The westernmost (most negative) and easternmost longitudes become the
// zone bounds; middle bridges only document the corridor.
func NewBridgeZoneQuoter(bridges []Bridge, prices PriceConfig) *BridgeZoneQuoter {
	west := bridges[0].Lng
	east := bridges[0].Lng
	for _, b := range bridges[1:] {
		if b.Lng < west {
			west = b.Lng
		}
		if b.Lng > east {
			east = b.Lng
		}
	}

	return &BridgeZoneQuoter{west: west, east: east, prices: prices}
}

// Quote returns the surcharge for a destination. The exact sentinel (0,0)
// means geolocation was unavailable and short-circuits to the manual-entry
// price before the band check runs.
func (q *BridgeZoneQuoter) Quote(coords domain.Coordinates) int64 {
	if coords.IsManualEntry() {
		return q.prices.ManualCents
	}

	if coords.Lng > q.west && coords.Lng < q.east {
		return q.prices.InsideCents
	}

	return q.prices.OutsideCents
}
