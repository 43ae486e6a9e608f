package httpd

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mailhaven/webserve/core/gate"
)

// requestMetrics exposes the dispatcher's request counters to Prometheus.
type requestMetrics struct {
	responses *prometheus.CounterVec
}

// newRequestMetrics registers an in-flight gauge backed by the gate's
// counter and a responses-by-status-class counter.
func newRequestMetrics(reg prometheus.Registerer, g *gate.Gate) *requestMetrics {
	inFlight := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "webserve",
		Name:      "in_flight_requests",
		Help:      "Requests currently counted by the concurrency gate.",
	}, func() float64 {
		return float64(g.InFlight())
	})

	responses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "webserve",
		Name:      "responses_total",
		Help:      "Responses written, by status class.",
	}, []string{"class"})

	reg.MustRegister(inFlight, responses)
	return &requestMetrics{responses: responses}
}

// observe counts a finished response. Nil-safe so the dispatcher can call it
// unconditionally.
func (m *requestMetrics) observe(code int) {
	if m == nil {
		return
	}
	m.responses.WithLabelValues(strconv.Itoa(code/100) + "xx").Inc()
}

// record is the dispatcher-side hook for response accounting.
func (d *Dispatcher) record(code int) {
	d.metrics.observe(code)
}
