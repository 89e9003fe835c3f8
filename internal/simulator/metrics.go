package simulator

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// knownEndpoints bounds the endpoint label; anything else is counted as "other".
var knownEndpoints = map[string]bool{
	"slider_up":    true,
	"slider_down":  true,
	"opentime_get": true,
	"opentime_set": true,
	"systime_get":  true,
	"systime_set":  true,
	"battery_get":  true,
	"dcf_info":     true,
}

// Metrics counts the requests a simulated device has served.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	noAnswer prometheus.Counter
}

// NewMetrics creates the simulator metrics on their own registry, so several
// devices can run in one process.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "coopdoor_sim",
				Name:      "requests_total",
				Help:      "Requests served by the simulated controller, by endpoint.",
			},
			[]string{"endpoint"},
		),
		noAnswer: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coopdoor_sim",
			Name:      "no_answer_total",
			Help:      "Commands answered with the AVR no-answer message.",
		}),
	}
	m.registry.MustRegister(m.requests, m.noAnswer)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observe(endpoint string) {
	if !knownEndpoints[endpoint] {
		endpoint = "other"
	}
	m.requests.WithLabelValues(endpoint).Inc()
}

// AttachMetrics makes the device count its requests in m.
func (d *Device) AttachMetrics(m *Metrics) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.metrics = m
}
