package checkout

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jrmart12/nayos/internal/cart"
	"github.com/jrmart12/nayos/internal/delivery"
	"github.com/jrmart12/nayos/internal/domain"
	"github.com/jrmart12/nayos/internal/snapshot"
)

// Config tunes checkout behavior.
type Config struct {
	// ClearCartOnHandoff empties the cart once the order message is handed
	// off. Off by default: the channel is fire-and-forget, and keeping the
	// cart lets a customer resend an order that never arrived.
	ClearCartOnHandoff bool
}

// Manager hands out checkout sessions by session ID. Sessions are kept in
// memory for the life of the process; their durable parts (cart, customer)
// live in the snapshot store and are reloaded on first touch.
type Manager struct {
	carts    *cart.Service
	store    snapshot.Store
	settings domain.SettingsProvider
	quoter   delivery.Quoter
	logger   *slog.Logger
	cfg      Config

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a checkout session manager.
func NewManager(carts *cart.Service, store snapshot.Store, settings domain.SettingsProvider, quoter delivery.Quoter, logger *slog.Logger, cfg Config) *Manager {
	return &Manager{
		carts:    carts,
		store:    store,
		settings: settings,
		quoter:   quoter,
		logger:   logger,
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Session returns the checkout session for a session ID, creating and
// hydrating it on first use.
func (m *Manager) Session(ctx context.Context, sessionID string) (*Session, error) {
	m.mu.Lock()
	if s, ok := m.sessions[sessionID]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	// Hydrate outside the lock; the store may be remote.
	c, err := m.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s := &Session{
		sessionID:          sessionID,
		cart:               c,
		store:              m.store,
		settings:           m.settings,
		quoter:             m.quoter,
		logger:             m.logger,
		clearCartOnHandoff: m.cfg.ClearCartOnHandoff,
	}
	s.draft.DeliveryMethod = domain.DeliveryToAddress
	s.loadCustomer(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[sessionID]; ok {
		// Another request hydrated the same session first.
		return existing, nil
	}
	m.sessions[sessionID] = s
	return s, nil
}

// Drop forgets an in-memory session. Durable state is untouched.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}
