// Package checkout collects the order draft for one session, validates it
// and renders the fulfillment handoff. The draft lives server-side; only the
// customer's name and phone survive past the checkout view.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jrmart12/nayos/internal/cart"
	"github.com/jrmart12/nayos/internal/delivery"
	"github.com/jrmart12/nayos/internal/domain"
	"github.com/jrmart12/nayos/internal/snapshot"
)

// UploadStatus tracks the receipt image upload lifecycle. Submission is
// blocked while an upload is in flight.
type UploadStatus int

const (
	UploadNone UploadStatus = iota
	UploadInProgress
	UploadSucceeded
	UploadFailed
)

// String returns the wire name of the status.
func (s UploadStatus) String() string {
	switch s {
	case UploadInProgress:
		return "in_progress"
	case UploadSucceeded:
		return "succeeded"
	case UploadFailed:
		return "failed"
	default:
		return "none"
	}
}

// Checkout domain errors.
var (
	ErrEmptyCart        = &domain.Error{Code: domain.EINVALID, Message: "El carrito está vacío"}
	ErrUploadInFlight   = &domain.Error{Code: domain.EUNAVAILABLE, Message: "Subiendo comprobante, por favor espere"}
	ErrUploadInProgress = &domain.Error{Code: domain.ECONFLICT, Message: "Ya hay una subida en progreso"}
)

// Session is one shopper's checkout flow. Mutations lock so a shopper with
// two tabs open cannot tear the draft; the flow itself is sequential.
type Session struct {
	mu        sync.Mutex
	sessionID string
	cart      *cart.Cart
	store     snapshot.Store
	settings  domain.SettingsProvider
	quoter    delivery.Quoter
	logger    *slog.Logger

	clearCartOnHandoff bool

	open         bool
	draft        domain.OrderDraft
	uploadStatus UploadStatus

	// generation increments on Close. Upload completions carrying a stale
	// generation are discarded so a receipt from an abandoned checkout can
	// never attach to the next order.
	generation uint64
}

func customerKey(sessionID string) string {
	return "customer:" + sessionID
}

// Cart returns the cart this checkout drains.
func (s *Session) Cart() *cart.Cart {
	return s.cart
}

// Draft returns a copy of the current order draft.
func (s *Session) Draft() domain.OrderDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Status returns the receipt upload status.
func (s *Session) Status() UploadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploadStatus
}

// Open enters the checkout step. An empty cart cannot check out.
func (s *Session) Open(ctx context.Context) error {
	if s.cart.IsEmpty() {
		return ErrEmptyCart
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
	return nil
}

// Close leaves the checkout view and purges everything that must not leak
// into the next order: address, coordinates, payment state and receipt.
// The delivery method resets to home delivery with a zero surcharge. Name
// and phone are kept; they identify the customer, not the order.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.Address = ""
	s.draft.Coordinates = nil
	s.draft.Notes = ""
	s.draft.DeliveryMethod = domain.DeliveryToAddress
	s.draft.DeliveryPriceCents = 0
	s.draft.PaymentMethod = ""
	s.draft.SelectedBank = ""
	s.draft.CashChange = ""
	s.draft.ReceiptURL = ""

	s.uploadStatus = UploadNone
	s.generation++
	s.open = false
}

// SetName records the customer name and persists it for future sessions.
func (s *Session) SetName(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Name = name
	return s.persistCustomer(ctx)
}

// SetPhone records the customer phone and persists it for future sessions.
func (s *Session) SetPhone(ctx context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Phone = phone
	return s.persistCustomer(ctx)
}

// persistCustomer snapshots name and phone. Caller holds the lock.
func (s *Session) persistCustomer(ctx context.Context) error {
	data, err := json.Marshal(domain.Customer{Name: s.draft.Name, Phone: s.draft.Phone})
	if err != nil {
		return fmt.Errorf("failed to encode customer: %w", err)
	}
	if err := s.store.Save(ctx, customerKey(s.sessionID), data); err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

// SetNotes records the order-level free-text note.
func (s *Session) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Notes = notes
}

// SetDeliveryMethod switches between home delivery and pickup. Pickup zeroes
// the surcharge; switching back to delivery re-quotes from the stored
// coordinates when a destination was already captured.
func (s *Session) SetDeliveryMethod(method domain.DeliveryMethod) error {
	if method != domain.DeliveryToAddress && method != domain.DeliveryPickup {
		return domain.Errorf(domain.EINVALID, "checkout.delivery", "unknown delivery method %q", method)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.DeliveryMethod = method
	if method == domain.DeliveryPickup {
		s.draft.DeliveryPriceCents = 0
	} else if s.draft.Coordinates != nil {
		s.draft.DeliveryPriceCents = s.quoter.Quote(*s.draft.Coordinates)
	}
	return nil
}

// SetDestination records the captured address and coordinates and quotes the
// delivery surcharge. Manual entry arrives with the (0,0) sentinel and is
// quoted at the manual-entry rate by the quoter.
func (s *Session) SetDestination(address string, coords domain.Coordinates) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.Address = address
	s.draft.Coordinates = &coords
	if s.draft.DeliveryMethod == domain.DeliveryToAddress {
		s.draft.DeliveryPriceCents = s.quoter.Quote(coords)
	}
}

// SetPaymentMethod selects how the customer pays.
func (s *Session) SetPaymentMethod(method domain.PaymentMethod) error {
	if !method.Valid() {
		return domain.Errorf(domain.EINVALID, "checkout.payment", "unknown payment method %q", method)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.PaymentMethod = method
	return nil
}

// SetBank selects the transfer target bank from the configured table.
func (s *Session) SetBank(name string) error {
	if _, ok := s.settings.BankAccount(name); !ok {
		return domain.NotFound("checkout.bank", "bank", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.SelectedBank = name
	return nil
}

// SetCashChange records the optional change-needed note. Carried through
// unvalidated; it is free text for the courier.
func (s *Session) SetCashChange(note string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.CashChange = note
}

// BeginUpload marks a receipt upload as in flight and returns the token the
// uploader must present on completion. A second upload cannot start while
// one is pending.
func (s *Session) BeginUpload() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uploadStatus == UploadInProgress {
		return 0, ErrUploadInProgress
	}

	s.uploadStatus = UploadInProgress
	s.draft.ReceiptURL = ""
	return s.generation, nil
}

// FinishUpload records the outcome of a receipt upload. Completions from a
// closed checkout (stale token) are discarded and logged; a failure clears
// the pending state so the customer re-selects a file to retry.
func (s *Session) FinishUpload(token uint64, url string, uploadErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.generation {
		s.logger.Info("discarding receipt upload from closed checkout",
			"session_id", s.sessionID,
			"url", url)
		return
	}

	if uploadErr != nil {
		s.uploadStatus = UploadFailed
		s.draft.ReceiptURL = ""
		s.logger.Warn("receipt upload failed",
			"session_id", s.sessionID,
			"error", uploadErr)
		return
	}

	s.uploadStatus = UploadSucceeded
	s.draft.ReceiptURL = url
}

// Validate runs every submit-time check and reports all violations together.
// Returns nil when the draft is submittable, otherwise a ValidationError.
func (s *Session) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validate()
}

// validate is Validate without the lock. Caller holds it.
func (s *Session) validate() error {
	var err error

	if strings.TrimSpace(s.draft.Name) == "" {
		err = domain.AddFieldError(err, "name", "El nombre completo es requerido")
	}
	if strings.TrimSpace(s.draft.Phone) == "" {
		err = domain.AddFieldError(err, "phone", "El teléfono es requerido")
	}
	if s.draft.DeliveryMethod == domain.DeliveryToAddress && strings.TrimSpace(s.draft.Address) == "" {
		err = domain.AddFieldError(err, "address", "La dirección es requerida")
	}
	if s.draft.PaymentMethod == "" {
		err = domain.AddFieldError(err, "payment_method", "Por favor seleccione un método de pago")
	}
	if s.draft.PaymentMethod == domain.PaymentTransfer && s.draft.ReceiptURL == "" {
		err = domain.AddFieldError(err, "transfer_image", "Por favor suba el comprobante de transferencia")
	}

	return err
}

// Submit validates the draft, assembles the final order and renders the
// handoff deep link. The order is considered placed the moment the link is
// produced; no confirmation is read back from the channel.
func (s *Session) Submit(ctx context.Context) (*domain.Order, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uploadStatus == UploadInProgress {
		return nil, "", ErrUploadInFlight
	}
	if s.cart.IsEmpty() {
		return nil, "", ErrEmptyCart
	}
	if err := s.validate(); err != nil {
		return nil, "", err
	}

	subtotal := s.cart.SubtotalCents()
	deliveryCents := int64(0)
	if s.draft.DeliveryMethod == domain.DeliveryToAddress {
		deliveryCents = s.draft.DeliveryPriceCents
	}

	order := &domain.Order{
		Customer: domain.Customer{Name: s.draft.Name, Phone: s.draft.Phone},
		Address:  s.draft.Address,
		Notes:    s.draft.Notes,

		Lines: s.cart.Lines(),

		DeliveryMethod: s.draft.DeliveryMethod,
		SubtotalCents:  subtotal,
		DeliveryCents:  deliveryCents,
		TotalCents:     subtotal + deliveryCents,

		PaymentMethod: s.draft.PaymentMethod,
		CashChange:    s.draft.CashChange,
		ReceiptURL:    s.draft.ReceiptURL,
	}

	if s.draft.PaymentMethod == domain.PaymentTransfer && s.draft.SelectedBank != "" {
		if bank, ok := s.settings.BankAccount(s.draft.SelectedBank); ok {
			order.Bank = &bank
		}
	}

	merchant, err := s.settings.Get(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load merchant settings: %w", err)
	}

	message := RenderOrderMessage(order)
	handoff := HandoffURL(merchant.Phone, message)

	if s.clearCartOnHandoff {
		if err := s.cart.Clear(ctx); err != nil {
			// The order already went out; losing the clear is the lesser harm.
			s.logger.Warn("failed to clear cart after handoff",
				"session_id", s.sessionID,
				"error", err)
		}
	}

	return order, handoff, nil
}

// loadCustomer restores the persisted name and phone, if any.
func (s *Session) loadCustomer(ctx context.Context) {
	data, err := s.store.Load(ctx, customerKey(s.sessionID))
	if err != nil {
		if !errors.Is(err, snapshot.ErrNotFound) {
			s.logger.Warn("failed to load customer snapshot",
				"session_id", s.sessionID,
				"error", err)
		}
		return
	}

	var c domain.Customer
	if err := json.Unmarshal(data, &c); err != nil {
		s.logger.Warn("discarding corrupt customer snapshot",
			"session_id", s.sessionID,
			"error", err)
		return
	}

	s.draft.Name = c.Name
	s.draft.Phone = c.Phone
}
