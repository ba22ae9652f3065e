package storefront

import (
	"encoding/json"
	"net/http"

	"github.com/jrmart12/nayos/internal/checkout"
	"github.com/jrmart12/nayos/internal/domain"
	"github.com/jrmart12/nayos/internal/handler"
	"github.com/jrmart12/nayos/internal/pricing"
)

// draftRequest is a partial update to the checkout draft. Only fields that
// are present in the body are applied.
type draftRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`

	DeliveryMethod *domain.DeliveryMethod `json:"delivery_method"`
	Address        *string                `json:"address"`
	Coordinates    *domain.Coordinates    `json:"coordinates"`

	PaymentMethod *domain.PaymentMethod `json:"payment_method"`
	Bank          *string               `json:"bank"`
	CashChange    *string               `json:"cash_change"`
}

// checkoutView is the checkout state response shape.
type checkoutView struct {
	Draft             domain.OrderDraft `json:"draft"`
	UploadStatus      string            `json:"upload_status"`
	SubtotalCents     int64             `json:"subtotal_cents"`
	DeliveryCents     int64             `json:"delivery_cents"`
	TotalCents        int64             `json:"total_cents"`
	TotalFormatted    string            `json:"total_formatted"`
	DeliveryFormatted string            `json:"delivery_formatted"`
}

// submitResponse carries the assembled order and the WhatsApp handoff link.
type submitResponse struct {
	WhatsAppURL    string `json:"whatsapp_url"`
	TotalCents     int64  `json:"total_cents"`
	TotalFormatted string `json:"total_formatted"`
}

// OpenCheckout starts the checkout flow for the session's cart.
func (h *Handler) OpenCheckout(w http.ResponseWriter, r *http.Request) {
	s, err := h.checkouts.Session(r.Context(), h.sessionID(w, r))
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	if err := s.Open(r.Context()); err != nil {
		handler.Error(w, r, err)
		return
	}

	h.metrics.RecordCheckoutOpened()
	handler.JSON(w, http.StatusOK, viewOfCheckout(s))
}

// GetCheckout returns the current draft and totals.
func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	s, err := h.checkouts.Session(r.Context(), h.sessionID(w, r))
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, viewOfCheckout(s))
}

// CloseCheckout abandons the flow, wiping everything but name and phone.
func (h *Handler) CloseCheckout(w http.ResponseWriter, r *http.Request) {
	s, err := h.checkouts.Session(r.Context(), h.sessionID(w, r))
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	s.Close(r.Context())
	h.metrics.RecordCheckoutAbandoned()
	handler.JSON(w, http.StatusOK, viewOfCheckout(s))
}

// UpdateDraft applies the fields present in the body to the draft.
func (h *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.Error(w, r, domain.Invalid("checkout.draft", "Invalid request body"))
		return
	}

	s, err := h.checkouts.Session(r.Context(), h.sessionID(w, r))
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	if req.Name != nil {
		if err := s.SetName(r.Context(), *req.Name); err != nil {
			handler.Error(w, r, err)
			return
		}
	}
	if req.Phone != nil {
		if err := s.SetPhone(r.Context(), *req.Phone); err != nil {
			handler.Error(w, r, err)
			return
		}
	}
	if req.Notes != nil {
		s.SetNotes(*req.Notes)
	}
	if req.DeliveryMethod != nil {
		if err := s.SetDeliveryMethod(*req.DeliveryMethod); err != nil {
			handler.Error(w, r, err)
			return
		}
	}
	if req.Address != nil {
		coords := domain.Coordinates{}
		if req.Coordinates != nil {
			coords = *req.Coordinates
		}
		s.SetDestination(*req.Address, coords)
	}
	if req.PaymentMethod != nil {
		if err := s.SetPaymentMethod(*req.PaymentMethod); err != nil {
			handler.Error(w, r, err)
			return
		}
	}
	if req.Bank != nil {
		if err := s.SetBank(*req.Bank); err != nil {
			handler.Error(w, r, err)
			return
		}
	}
	if req.CashChange != nil {
		s.SetCashChange(*req.CashChange)
	}

	handler.JSON(w, http.StatusOK, viewOfCheckout(s))
}

// Submit validates the draft, assembles the order and returns the WhatsApp
// handoff link.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	s, err := h.checkouts.Session(r.Context(), h.sessionID(w, r))
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	order, url, err := s.Submit(r.Context())
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	h.metrics.RecordOrderSubmitted(string(order.PaymentMethod), string(order.DeliveryMethod), order.TotalCents)
	handler.JSON(w, http.StatusOK, submitResponse{
		WhatsAppURL:    url,
		TotalCents:     order.TotalCents,
		TotalFormatted: pricing.Lempira(order.TotalCents),
	})
}

func viewOfCheckout(s *checkout.Session) checkoutView {
	draft := s.Draft()
	subtotal := s.Cart().SubtotalCents()

	deliveryCents := draft.DeliveryPriceCents
	if draft.DeliveryMethod == domain.DeliveryPickup {
		deliveryCents = 0
	}
	total := subtotal + deliveryCents

	return checkoutView{
		Draft:             draft,
		UploadStatus:      s.Status().String(),
		SubtotalCents:     subtotal,
		DeliveryCents:     deliveryCents,
		TotalCents:        total,
		TotalFormatted:    pricing.Lempira(total),
		DeliveryFormatted: pricing.Lempira(deliveryCents),
	}
}
