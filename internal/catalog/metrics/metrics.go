package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the catalog session.
// Tracks store mutations, rejected input and transfer outcomes.
type Metrics struct {
	ProductsCreated    prometheus.Counter
	ProductsUpdated    prometheus.Counter
	ProductsDeleted    prometheus.Counter
	ValidationFailures prometheus.Counter
	Imports            *prometheus.CounterVec
	Exports            *prometheus.CounterVec
	StoreSize          prometheus.Gauge
}

// New creates catalog metrics registered against reg. Pass
// prometheus.DefaultRegisterer in the binary and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ProductsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "beautylist_products_created_total",
			Help: "Total number of products added through the form",
		}),
		ProductsUpdated: f.NewCounter(prometheus.CounterOpts{
			Name: "beautylist_products_updated_total",
			Help: "Total number of products replaced through the edit form",
		}),
		ProductsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "beautylist_products_deleted_total",
			Help: "Total number of confirmed product deletions",
		}),
		ValidationFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "beautylist_form_validation_failures_total",
			Help: "Total number of rejected form submissions",
		}),
		Imports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "beautylist_imports_total",
			Help: "Import attempts by format and result",
		}, []string{"format", "result"}),
		Exports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "beautylist_exports_total",
			Help: "Exports by format",
		}, []string{"format"}),
		StoreSize: f.NewGauge(prometheus.GaugeOpts{
			Name: "beautylist_store_products",
			Help: "Current number of products in the store",
		}),
	}
}

func (m *Metrics) IncrementCreated() {
	m.ProductsCreated.Inc()
}

func (m *Metrics) IncrementUpdated() {
	m.ProductsUpdated.Inc()
}

func (m *Metrics) IncrementDeleted() {
	m.ProductsDeleted.Inc()
}

func (m *Metrics) IncrementValidationFailures() {
	m.ValidationFailures.Inc()
}

// ObserveImport records an import attempt; result is "success" or "failure".
func (m *Metrics) ObserveImport(format, result string) {
	m.Imports.WithLabelValues(format, result).Inc()
}

func (m *Metrics) ObserveExport(format string) {
	m.Exports.WithLabelValues(format).Inc()
}

func (m *Metrics) SetStoreSize(n int) {
	m.StoreSize.Set(float64(n))
}
