package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecorders(t *testing.T) {
	m := NewMetrics()
	m.RecordTransition("TECHNICIAN", "APPROVED")
	m.RecordTransition("TECHNICIAN", "APPROVED")
	m.RecordRegistration()
	m.RecordNotification("approval", "sent")
	m.RecordRequest("/technicians", "GET", 200, 10*time.Millisecond)
	m.SetQueueDepth(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("TECHNICIAN", "APPROVED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.registrations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("approval", "sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/technicians", "GET", "200")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.queueDepth))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordTransition("REVIEW", "REJECTED")
		m.RecordRequest("/", "GET", 200, time.Second)
		m.RecordError("/", "GET", "X")
		m.SetQueueDepth(1)
	})
}
