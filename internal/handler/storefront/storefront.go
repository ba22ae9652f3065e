// Package storefront exposes the shopper-facing JSON API: catalog browsing,
// cart manipulation, and the checkout flow ending in a WhatsApp handoff.
package storefront

import (
	"log/slog"

	"github.com/jrmart12/nayos/internal/cart"
	"github.com/jrmart12/nayos/internal/checkout"
	"github.com/jrmart12/nayos/internal/domain"
	"github.com/jrmart12/nayos/internal/receipt"
	"github.com/jrmart12/nayos/internal/router"
	"github.com/jrmart12/nayos/internal/telemetry"
)

// Handler serves the storefront API.
type Handler struct {
	catalog   domain.CatalogProvider
	carts     *cart.Service
	checkouts *checkout.Manager
	uploader  *receipt.Uploader
	settings  domain.SettingsProvider
	logger    *slog.Logger
	metrics   *telemetry.BusinessMetrics

	secureCookies bool
}

// Config carries handler construction options.
type Config struct {
	// SecureCookies marks the session cookie Secure. Enable in production
	// behind TLS.
	SecureCookies bool

	// Metrics receives funnel events. May be nil.
	Metrics *telemetry.BusinessMetrics
}

// NewHandler creates a storefront handler.
func NewHandler(
	catalog domain.CatalogProvider,
	carts *cart.Service,
	checkouts *checkout.Manager,
	uploader *receipt.Uploader,
	settings domain.SettingsProvider,
	logger *slog.Logger,
	cfg Config,
) *Handler {
	return &Handler{
		catalog:       catalog,
		carts:         carts,
		checkouts:     checkouts,
		uploader:      uploader,
		settings:      settings,
		logger:        logger,
		metrics:       cfg.Metrics,
		secureCookies: cfg.SecureCookies,
	}
}

// RegisterRoutes mounts the storefront API on the router.
func (h *Handler) RegisterRoutes(r *router.Router) {
	r.Get("/api/products", h.ListProducts)
	r.Get("/api/products/{slug}", h.GetProduct)

	r.Get("/api/cart", h.GetCart)
	r.Delete("/api/cart", h.ClearCart)
	r.Post("/api/cart/lines", h.AddLine)
	r.Put("/api/cart/lines/{key}", h.UpdateLine)
	r.Delete("/api/cart/lines/{key}", h.RemoveLine)

	r.Get("/api/settings", h.GetSettings)

	r.Post("/api/checkout", h.OpenCheckout)
	r.Get("/api/checkout", h.GetCheckout)
	r.Delete("/api/checkout", h.CloseCheckout)
	r.Put("/api/checkout/draft", h.UpdateDraft)
	r.Post("/api/checkout/receipt", h.UploadReceipt)
	r.Post("/api/checkout/submit", h.Submit)
}
