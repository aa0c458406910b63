// Package metrics holds the storefront's Prometheus collectors. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

type Metrics struct {
	cartOperations  *prometheus.CounterVec
	checkouts       prometheus.Counter
	bulkItems       *prometheus.CounterVec
	bookings        *prometheus.CounterVec
	catalogRefresh  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registers the collectors with registerer, the default registerer when nil.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		cartOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_cart_operations_total",
			Help: "Cart mutations by operation.",
		}, []string{"op"}),
		checkouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_checkouts_total",
			Help: "Orders recorded through checkout.",
		}),
		bulkItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_bulk_items_total",
			Help: "Items processed by admin bulk operations.",
		}, []string{"action", "result"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_bookings_total",
			Help: "Service bookings submitted by type.",
		}, []string{"service_type"}),
		catalogRefresh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_catalog_refresh_total",
			Help: "Catalog snapshot reloads by result.",
		}, []string{"result"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	registerer.MustRegister(
		m.cartOperations,
		m.checkouts,
		m.bulkItems,
		m.bookings,
		m.catalogRefresh,
		m.requestDuration,
	)
	return m
}

func (m *Metrics) CartOperation(op string) {
	if m == nil {
		return
	}
	m.cartOperations.WithLabelValues(op).Inc()
}

func (m *Metrics) Checkout() {
	if m == nil {
		return
	}
	m.checkouts.Inc()
}

func (m *Metrics) BulkItems(action string, succeeded, failed int) {
	if m == nil {
		return
	}
	m.bulkItems.WithLabelValues(action, ResultSuccess).Add(float64(succeeded))
	m.bulkItems.WithLabelValues(action, ResultFailure).Add(float64(failed))
}

func (m *Metrics) Booking(serviceType string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(serviceType).Inc()
}

func (m *Metrics) CatalogRefresh(err error) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.catalogRefresh.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
