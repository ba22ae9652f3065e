package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/jrmart12/nayos/internal/domain"
)

// Recovery converts handler panics into 500 responses with a stack trace in
// the log, keeping a single bad request from taking the process down.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				GetLogger(r.Context()).Error("panic recovered",
					"panic", rec,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				respondWithError(w, r, domain.Errorf(domain.EINTERNAL, "", "An unexpected error occurred"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
