// Package geo acquires a delivery destination from a positioning source.
// Acquisition is best effort: when it fails the checkout falls back to
// manual address entry with sentinel coordinates, never to a hard error.
package geo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jrmart12/nayos/internal/domain"
)

// Positioning errors.
var (
	ErrPermissionDenied = &domain.Error{Code: domain.EUNAVAILABLE, Message: "No pudimos obtener tu ubicación: permiso denegado"}
	ErrUnavailable      = &domain.Error{Code: domain.EUNAVAILABLE, Message: "No pudimos obtener tu ubicación. Por favor, intenta de nuevo o ingresa manualmente."}
)

// Options tune a single positioning attempt.
type Options struct {
	// HighAccuracy requests the most precise fix the source can produce.
	HighAccuracy bool

	// MaxAge allows a cached fix no older than this. Zero forces a fresh fix.
	MaxAge time.Duration
}

// Fix is one positioning result.
type Fix struct {
	Coords         domain.Coordinates
	AccuracyMeters float64
}

// Source produces position fixes. Implementations wrap whatever positioning
// capability the client exposes; the context deadline bounds the attempt.
type Source interface {
	Locate(ctx context.Context, opts Options) (Fix, error)
}

// Default attempt budgets.
const (
	DefaultFirstTimeout  = 10 * time.Second
	DefaultSecondTimeout = 15 * time.Second
	relaxedMaxAge        = time.Minute
)

// Acquirer runs the two-stage acquisition policy: a precise attempt with a
// short budget, then, only if that attempt timed out, a relaxed attempt with
// a longer budget that also accepts a recent cached fix. Permission denials
// and other failures are not retried; a second prompt would not change the
// answer.
type Acquirer struct {
	source        Source
	firstTimeout  time.Duration
	secondTimeout time.Duration
	logger        *slog.Logger
}

// NewAcquirer creates an Acquirer with the default attempt budgets.
func NewAcquirer(source Source, logger *slog.Logger) *Acquirer {
	return &Acquirer{
		source:        source,
		firstTimeout:  DefaultFirstTimeout,
		secondTimeout: DefaultSecondTimeout,
		logger:        logger,
	}
}

// Acquire obtains a destination fix or reports why it could not.
func (a *Acquirer) Acquire(ctx context.Context) (Fix, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, a.firstTimeout)
	fix, err := a.source.Locate(attemptCtx, Options{HighAccuracy: true})
	cancel()
	if err == nil {
		return fix, nil
	}
	if !isTimeout(err) {
		return Fix{}, err
	}

	a.logger.Debug("precise positioning timed out, retrying relaxed")

	attemptCtx, cancel = context.WithTimeout(ctx, a.secondTimeout)
	defer cancel()
	fix, err = a.source.Locate(attemptCtx, Options{HighAccuracy: false, MaxAge: relaxedMaxAge})
	if err != nil {
		if isTimeout(err) {
			return Fix{}, ErrUnavailable
		}
		return Fix{}, err
	}
	return fix, nil
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// ManualFix represents a hand-typed address: the sentinel coordinates tell
// the delivery quoter no geolocation was available.
func ManualFix() Fix {
	return Fix{Coords: domain.Coordinates{Lat: 0, Lng: 0}}
}

// MapsLink renders a fix as a Google Maps URL. Captured destinations use
// this link as the address text so the courier can open it directly.
func MapsLink(coords domain.Coordinates) string {
	return fmt.Sprintf("https://maps.google.com/?q=%v,%v", coords.Lat, coords.Lng)
}
