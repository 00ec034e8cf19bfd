// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records webhook, draft, and submission outcomes.
type Collector struct {
	eventsReceived      *prometheus.CounterVec
	signatureRejections prometheus.Counter
	draftsGenerated     *prometheus.CounterVec
	draftLatency        prometheus.Histogram
	submissions         *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		eventsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "disputedesk_webhook_events_total",
			Help: "Verified webhook events received, by event type.",
		}, []string{"type"}),
		signatureRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "disputedesk_webhook_signature_rejections_total",
			Help: "Webhook requests rejected for a bad or missing signature.",
		}),
		draftsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "disputedesk_drafts_generated_total",
			Help: "Draft generations, by mode (openai, fallback, unavailable).",
		}, []string{"mode"}),
		draftLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "disputedesk_draft_latency_seconds",
			Help:    "Draft generation latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "disputedesk_evidence_submissions_total",
			Help: "Evidence submission attempts, by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.eventsReceived,
		c.signatureRejections,
		c.draftsGenerated,
		c.draftLatency,
		c.submissions,
	)

	return c
}

// RecordEvent counts one verified webhook event.
func (c *Collector) RecordEvent(eventType string) {
	c.eventsReceived.WithLabelValues(eventType).Inc()
}

// RecordSignatureRejection counts one rejected webhook request.
func (c *Collector) RecordSignatureRejection() {
	c.signatureRejections.Inc()
}

// RecordDraft counts one draft generation and observes its latency.
func (c *Collector) RecordDraft(mode string, duration time.Duration) {
	c.draftsGenerated.WithLabelValues(mode).Inc()
	c.draftLatency.Observe(duration.Seconds())
}

// RecordSubmission counts one evidence submission attempt.
func (c *Collector) RecordSubmission(outcome string) {
	c.submissions.WithLabelValues(outcome).Inc()
}

// Handler returns the Prometheus scrape handler for the gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
