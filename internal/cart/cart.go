// Package cart holds the per-session cart aggregate. Totals are always
// derived from the lines, never stored, so they cannot drift; every mutation
// persists a snapshot before returning.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jrmart12/nayos/internal/domain"
	"github.com/jrmart12/nayos/internal/snapshot"
)

// Service loads and saves carts by session ID. Each session gets exactly one
// live Cart instance, so every holder of a session's cart sees the same
// lines; Load for an uncached session restores from the snapshot store.
type Service struct {
	store  snapshot.Store
	logger *slog.Logger

	mu    sync.Mutex
	carts map[string]*Cart
}

// NewService creates a cart service backed by a snapshot store.
func NewService(store snapshot.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		carts:  make(map[string]*Cart),
	}
}

// Drop evicts a session's cart from the in-memory cache. The snapshot is
// untouched; the next Load restores it.
func (s *Service) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

func storeKey(sessionID string) string {
	return "cart:" + sessionID
}

// cartSnapshot is the persisted shape of a cart.
type cartSnapshot struct {
	Lines []domain.Line `json:"lines"`
}

// Load restores the cart for a session. A missing snapshot yields an empty
// cart. A corrupt snapshot also yields an empty cart: losing a cart is
// recoverable, refusing to serve the session is not. The corruption is
// logged.
func (s *Service) Load(ctx context.Context, sessionID string) (*Cart, error) {
	s.mu.Lock()
	if c, ok := s.carts[sessionID]; ok {
		s.mu.Unlock()
		return c, nil
	}
	s.mu.Unlock()

	c := &Cart{
		sessionID: sessionID,
		store:     s.store,
		logger:    s.logger,
	}

	data, err := s.store.Load(ctx, storeKey(sessionID))
	switch {
	case err == nil:
		var snap cartSnapshot
		if jsonErr := json.Unmarshal(data, &snap); jsonErr != nil {
			s.logger.Warn("discarding corrupt cart snapshot",
				"session_id", sessionID,
				"error", jsonErr)
		} else {
			c.lines = snap.Lines
		}
	case errors.Is(err, snapshot.ErrNotFound) || domain.ErrorCode(err) == domain.ENOTFOUND:
		// New session.
	default:
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.carts[sessionID]; ok {
		return existing, nil
	}
	s.carts[sessionID] = c
	return c, nil
}

// Cart is the mutable per-session aggregate. Safe for concurrent use; each
// mutation holds the lock through its persistence write so snapshots are
// written in mutation order.
type Cart struct {
	mu        sync.Mutex
	sessionID string
	store     snapshot.Store
	logger    *slog.Logger
	lines     []domain.Line
}

// AddLine inserts a configured line, assigning its canonical key. When an
// existing line has the same key the quantities are summed instead.
func (c *Cart) AddLine(ctx context.Context, line domain.Line) error {
	if line.Quantity < 1 {
		return domain.ErrInvalidQuantity
	}

	line.Key = LineKey(line)

	c.mu.Lock()
	defer c.mu.Unlock()

	merged := false
	for i := range c.lines {
		if c.lines[i].Key == line.Key {
			c.lines[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		c.lines = append(c.lines, line)
	}

	return c.persist(ctx)
}

// UpdateQuantity sets a line's quantity. Anything below one removes the
// line; there is no zero-quantity resting state.
func (c *Cart) UpdateQuantity(ctx context.Context, key string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Key != key {
			continue
		}
		if quantity < 1 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity = quantity
		}
		return c.persist(ctx)
	}

	return domain.ErrLineNotFound
}

// RemoveLine deletes a line by key. Removing an absent key is a no-op so
// double-taps and replayed requests stay harmless.
func (c *Cart) RemoveLine(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Key == key {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return c.persist(ctx)
		}
	}

	return nil
}

// Clear empties the cart and removes its snapshot.
func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	return c.persist(ctx)
}

// persist writes the snapshot, or deletes it when the cart is empty so
// abandoned sessions do not accumulate empty rows. Caller holds the lock.
func (c *Cart) persist(ctx context.Context) error {
	key := storeKey(c.sessionID)

	if len(c.lines) == 0 {
		if err := c.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete cart snapshot: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(cartSnapshot{Lines: c.lines})
	if err != nil {
		return fmt.Errorf("failed to encode cart snapshot: %w", err)
	}
	if err := c.store.Save(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	return nil
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []domain.Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]domain.Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// Line returns the line with the given key.
func (c *Cart) Line(key string) (domain.Line, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range c.lines {
		if l.Key == key {
			return l, true
		}
	}
	return domain.Line{}, false
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// ItemCount sums quantities across all lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// SubtotalCents sums line subtotals. Delivery is not included; it belongs
// to checkout.
func (c *Cart) SubtotalCents() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, l := range c.lines {
		total += l.SubtotalCents()
	}
	return total
}
