package storefront

import (
	"net/http"

	"github.com/jrmart12/nayos/internal/handler"
)

// ListProducts returns the full menu in display order.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
	})
}

// GetProduct returns a single product template by slug.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	product, err := h.catalog.GetProduct(r.Context(), slug)
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	h.metrics.RecordProductView(product.Slug)
	handler.JSON(w, http.StatusOK, product)
}

// GetSettings returns merchant settings: WhatsApp number, navigation, and
// the bank transfer reference table.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, settings)
}
