package storefront

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jrmart12/nayos/internal/cart"
	"github.com/jrmart12/nayos/internal/domain"
	"github.com/jrmart12/nayos/internal/handler"
	"github.com/jrmart12/nayos/internal/pricing"
	"github.com/jrmart12/nayos/internal/selection"
)

// cartView is the cart response shape.
type cartView struct {
	Lines             []domain.Line `json:"lines"`
	ItemCount         int           `json:"item_count"`
	SubtotalCents     int64         `json:"subtotal_cents"`
	SubtotalFormatted string        `json:"subtotal_formatted"`
}

// addLineRequest is a complete product configuration plus quantity.
type addLineRequest struct {
	Slug                string                 `json:"slug"`
	CutWeight           string                 `json:"cut_weight"`
	Options             []domain.SelectedGroup `json:"options"`
	SpecialInstructions string                 `json:"special_instructions"`
	Quantity            int                    `json:"quantity"`
}

// updateLineRequest changes a line's quantity.
type updateLineRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart returns the session's cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Load(r.Context(), h.sessionID(w, r))
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, viewOf(c))
}

// AddLine validates a product configuration and adds it to the cart.
// Identical configurations merge into one line.
func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req addLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.Error(w, r, domain.Invalid("cart.add", "Invalid request body"))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.catalog.GetProduct(r.Context(), req.Slug)
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	line, err := buildLine(product, req)
	if err != nil {
		h.metrics.RecordCartRejected(rejectionReason(err))
		handler.Error(w, r, err)
		return
	}

	c, err := h.carts.Load(r.Context(), h.sessionID(w, r))
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	if err := c.AddLine(r.Context(), line); err != nil {
		handler.Error(w, r, err)
		return
	}

	h.metrics.RecordCartAdd()
	handler.JSON(w, http.StatusCreated, viewOf(c))
}

// UpdateLine sets a line's quantity. A quantity below one removes the line.
func (h *Handler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	var req updateLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.Error(w, r, domain.Invalid("cart.update", "Invalid request body"))
		return
	}

	c, err := h.carts.Load(r.Context(), h.sessionID(w, r))
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	if err := c.UpdateQuantity(r.Context(), r.PathValue("key"), req.Quantity); err != nil {
		handler.Error(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, viewOf(c))
}

// RemoveLine deletes a line. Removing an absent line is a no-op.
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Load(r.Context(), h.sessionID(w, r))
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	if err := c.RemoveLine(r.Context(), r.PathValue("key")); err != nil {
		handler.Error(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, viewOf(c))
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Load(r.Context(), h.sessionID(w, r))
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	if err := c.Clear(r.Context()); err != nil {
		handler.Error(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, viewOf(c))
}

// rejectionReason buckets add-to-cart failures for the funnel metrics.
func rejectionReason(err error) string {
	var limitErr *selection.SauceLimitError
	switch {
	case errors.As(err, &limitErr):
		return "sauce_limit"
	case errors.Is(err, selection.ErrCutRequired):
		return "cut_required"
	case errors.Is(err, selection.ErrOptionsRequired):
		return "options_required"
	default:
		return "invalid"
	}
}

// buildLine replays the submitted configuration through the selection state
// machine so every server-side rule (stock, required groups, sauce caps)
// applies regardless of what the client sent.
func buildLine(product *domain.Product, req addLineRequest) (domain.Line, error) {
	st := selection.New(product)

	if req.CutWeight != "" {
		if err := st.SelectCut(req.CutWeight); err != nil {
			return domain.Line{}, err
		}
	}

	for _, g := range req.Options {
		for _, label := range g.Labels {
			if err := st.Select(g.Group, label); err != nil {
				var limitErr *selection.SauceLimitError
				if errors.As(err, &limitErr) {
					return domain.Line{}, &domain.Error{
						Code:    domain.EINVALID,
						Op:      "cart.add",
						Message: limitErr.Error(),
						Err:     limitErr,
					}
				}
				return domain.Line{}, err
			}
		}
	}

	st.SetSpecialInstructions(req.SpecialInstructions)

	line, err := st.Line()
	if err != nil {
		return domain.Line{}, err
	}
	line.Quantity = req.Quantity
	return line, nil
}

func viewOf(c *cart.Cart) cartView {
	subtotal := c.SubtotalCents()
	return cartView{
		Lines:             c.Lines(),
		ItemCount:         c.ItemCount(),
		SubtotalCents:     subtotal,
		SubtotalFormatted: pricing.Lempira(subtotal),
	}
}
