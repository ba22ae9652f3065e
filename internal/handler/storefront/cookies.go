package storefront

import (
	"net/http"

	"github.com/google/uuid"
)

// sessionCookieName identifies the anonymous shopper session.
const sessionCookieName = "nayos_session"

// sessionMaxAge keeps carts around for 30 days of inactivity.
const sessionMaxAge = 30 * 24 * 60 * 60

// sessionID returns the shopper's session identifier, minting and setting a
// new one when the request carries none.
func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
