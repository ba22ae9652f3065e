package geo

import "context"

// MockSource implements Source for testing. Each call pops the next result;
// the last result repeats once the queue drains.
type MockSource struct {
	Results []func(ctx context.Context, opts Options) (Fix, error)
	Calls   []Options
}

func (m *MockSource) Locate(ctx context.Context, opts Options) (Fix, error) {
	m.Calls = append(m.Calls, opts)

	idx := len(m.Calls) - 1
	if idx >= len(m.Results) {
		idx = len(m.Results) - 1
	}
	return m.Results[idx](ctx, opts)
}
