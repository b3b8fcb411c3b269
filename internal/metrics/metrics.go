package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the application.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	OTPEventsTotal     *prometheus.CounterVec
	IDAllocationsTotal *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Get returns the process-wide metrics, registering them on first use.
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "route", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
				},
				[]string{"method", "route", "status"},
			),
			OTPEventsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "otp_events_total",
					Help: "OTP lifecycle events by outcome",
				},
				[]string{"event"},
			),
			IDAllocationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "id_allocations_total",
					Help: "Primary keys handed out by the lowest-available-id allocator",
				},
				[]string{"table"},
			),
		}
	})
	return instance
}

// RecordOTPEvent counts one OTP lifecycle event (sent, send_failed, verified, rejected).
func RecordOTPEvent(event string) {
	Get().OTPEventsTotal.WithLabelValues(event).Inc()
}

// RecordIDAllocation counts one allocated id for the given table.
func RecordIDAllocation(table string) {
	Get().IDAllocationsTotal.WithLabelValues(table).Inc()
}
