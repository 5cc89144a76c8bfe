package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Purchase outcomes recorded against the vending backend.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// KioskMetrics records purchase attempts and session churn.
type KioskMetrics struct {
	purchaseDuration *prometheus.HistogramVec
	purchases        *prometheus.CounterVec
	tenderInserted   *prometheus.CounterVec
	activeSessions   prometheus.Gauge
}

// NewKioskMetrics registers the kiosk metrics on the provided registerer.
func NewKioskMetrics(reg prometheus.Registerer) *KioskMetrics {
	if reg == nil {
		return &KioskMetrics{}
	}
	purchaseDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "purchase_duration_seconds",
		Help:    "Duration of purchase calls to the vending backend in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	purchases := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "purchases_total",
		Help: "Purchase attempts by outcome.",
	}, []string{"outcome"})
	tenderInserted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tender_inserted_total",
		Help: "Denomination units inserted, by face value.",
	}, []string{"denomination"})
	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "kiosk_sessions_active",
		Help: "Kiosk sessions currently held in memory.",
	})
	reg.MustRegister(purchaseDuration, purchases, tenderInserted, activeSessions)
	return &KioskMetrics{
		purchaseDuration: purchaseDuration,
		purchases:        purchases,
		tenderInserted:   tenderInserted,
		activeSessions:   activeSessions,
	}
}

// ObservePurchase records one purchase attempt with its duration.
func (k *KioskMetrics) ObservePurchase(outcome string, duration time.Duration) {
	if k == nil {
		return
	}
	if k.purchases != nil {
		k.purchases.WithLabelValues(normalizeLabel(outcome)).Inc()
	}
	if k.purchaseDuration != nil {
		k.purchaseDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
	}
}

// AddTender counts inserted denomination units for the given face value.
func (k *KioskMetrics) AddTender(denomination string, count int) {
	if k == nil || k.tenderInserted == nil || count <= 0 {
		return
	}
	k.tenderInserted.WithLabelValues(normalizeLabel(denomination)).Add(float64(count))
}

// SessionOpened bumps the active session gauge.
func (k *KioskMetrics) SessionOpened() {
	if k == nil || k.activeSessions == nil {
		return
	}
	k.activeSessions.Inc()
}

// SessionClosed lowers the active session gauge.
func (k *KioskMetrics) SessionClosed() {
	if k == nil || k.activeSessions == nil {
		return
	}
	k.activeSessions.Dec()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
