package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCheckoutMetricsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.IncSubmission("success")
	m.IncSubmission("success")
	m.IncSubmission("empty_cart")
	m.IncVerification("")
	m.ObserveGatewayCall("request", 120*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.submissions.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.submissions.WithLabelValues("empty_cart")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.verifications.WithLabelValues("unknown")))
}

func TestNilRegistererIsSafe(t *testing.T) {
	m := NewCheckoutMetrics(nil)
	m.IncSubmission("success")
	m.IncVerification("confirmed")
	m.ObserveGatewayCall("verify", time.Second)

	var empty *CheckoutMetrics
	empty.IncSubmission("success")
}
