package geo_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jrmart12/nayos/internal/domain"
	"github.com/jrmart12/nayos/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixAt(lat, lng float64) func(context.Context, geo.Options) (geo.Fix, error) {
	return func(context.Context, geo.Options) (geo.Fix, error) {
		return geo.Fix{Coords: domain.Coordinates{Lat: lat, Lng: lng}}, nil
	}
}

func failWith(err error) func(context.Context, geo.Options) (geo.Fix, error) {
	return func(context.Context, geo.Options) (geo.Fix, error) {
		return geo.Fix{}, err
	}
}

func TestAcquire_FirstAttemptSucceeds(t *testing.T) {
	src := &geo.MockSource{Results: []func(context.Context, geo.Options) (geo.Fix, error){
		fixAt(15.76, -86.80),
	}}

	fix, err := geo.NewAcquirer(src, testLogger()).Acquire(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.Coordinates{Lat: 15.76, Lng: -86.80}, fix.Coords)
	require.Len(t, src.Calls, 1)
	assert.True(t, src.Calls[0].HighAccuracy)
	assert.Zero(t, src.Calls[0].MaxAge)
}

func TestAcquire_TimeoutFallsBackRelaxed(t *testing.T) {
	src := &geo.MockSource{Results: []func(context.Context, geo.Options) (geo.Fix, error){
		failWith(context.DeadlineExceeded),
		fixAt(15.77, -86.78),
	}}

	fix, err := geo.NewAcquirer(src, testLogger()).Acquire(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.Coordinates{Lat: 15.77, Lng: -86.78}, fix.Coords)
	require.Len(t, src.Calls, 2)
	assert.False(t, src.Calls[1].HighAccuracy)
	assert.Equal(t, time.Minute, src.Calls[1].MaxAge)
}

func TestAcquire_PermissionDeniedNotRetried(t *testing.T) {
	src := &geo.MockSource{Results: []func(context.Context, geo.Options) (geo.Fix, error){
		failWith(geo.ErrPermissionDenied),
	}}

	_, err := geo.NewAcquirer(src, testLogger()).Acquire(context.Background())
	assert.ErrorIs(t, err, geo.ErrPermissionDenied)
	assert.Len(t, src.Calls, 1)
}

func TestAcquire_BothAttemptsTimeOut(t *testing.T) {
	src := &geo.MockSource{Results: []func(context.Context, geo.Options) (geo.Fix, error){
		failWith(context.DeadlineExceeded),
		failWith(context.DeadlineExceeded),
	}}

	_, err := geo.NewAcquirer(src, testLogger()).Acquire(context.Background())
	assert.ErrorIs(t, err, geo.ErrUnavailable)
	assert.Len(t, src.Calls, 2)
}

func TestManualFix_IsSentinel(t *testing.T) {
	assert.True(t, geo.ManualFix().Coords.IsManualEntry())
}

func TestMapsLink(t *testing.T) {
	link := geo.MapsLink(domain.Coordinates{Lat: 15.7594158, Lng: -86.8149412})
	assert.Equal(t, "https://maps.google.com/?q=15.7594158,-86.8149412", link)
}
