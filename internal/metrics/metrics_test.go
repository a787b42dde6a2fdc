package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	// Register should be safe to call multiple times
	Register()
	Register()

	before := testutil.ToFloat64(bookingDecisions.WithLabelValues("APPROVED"))
	IncBookingDecision("APPROVED")
	assert.Equal(t, before+1, testutil.ToFloat64(bookingDecisions.WithLabelValues("APPROVED")))

	created := testutil.ToFloat64(bookingsCreated)
	IncBookingCreated()
	assert.Equal(t, created+1, testutil.ToFloat64(bookingsCreated))

	assert.NotPanics(t, func() {
		ObserveHTTP("/bookings/:id", "GET", "200", 0.01)
		IncRateLimited()
		IncCacheLookup("hit")
	})
}
