package delivery

import "github.com/jrmart12/nayos/internal/domain"

// MockQuoter implements Quoter for testing.
type MockQuoter struct {
	QuoteFunc func(coords domain.Coordinates) int64
}

// Quote calls QuoteFunc if set, otherwise returns 0.
func (m *MockQuoter) Quote(coords domain.Coordinates) int64 {
	if m.QuoteFunc != nil {
		return m.QuoteFunc(coords)
	}
	return 0
}
