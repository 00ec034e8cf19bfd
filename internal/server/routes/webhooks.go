package routes

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/karolisr/disputedesk/internal/app/ports"
	"github.com/karolisr/disputedesk/internal/disputes"
	"github.com/karolisr/disputedesk/internal/metrics"
)

// SignatureHeader carries the provider's HMAC signature.
const SignatureHeader = "Stripe-Signature"

const maxEventBytes = 1 << 20

// WebhookRoutes registers the dispute webhook endpoint.
type WebhookRoutes struct {
	provider ports.DisputeProvider
	intake   *disputes.Intake
	metrics  *metrics.Collector
	log      *slog.Logger
}

// NewWebhookRoutes constructs webhook routes.
func NewWebhookRoutes(provider ports.DisputeProvider, intake *disputes.Intake, collector *metrics.Collector, log *slog.Logger) *WebhookRoutes {
	if log == nil {
		log = slog.Default()
	}
	return &WebhookRoutes{provider: provider, intake: intake, metrics: collector, log: log}
}

// RegisterRoutes registers the webhook endpoint.
func (w *WebhookRoutes) RegisterRoutes(s *echo.Echo) {
	s.POST("/webhooks/stripe", w.handleStripeWebhook)
}

// handleStripeWebhook verifies the signature before touching anything
// else, then dispatches the event to intake. Responses carry only generic
// messages; detail goes to the log.
func (w *WebhookRoutes) handleStripeWebhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxEventBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	event, err := w.provider.VerifyEvent(body, c.Request().Header.Get(SignatureHeader))
	if err != nil {
		w.metrics.RecordSignatureRejection()
		w.log.Warn("webhook rejected", "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid signature"})
	}

	w.metrics.RecordEvent(event.Type)
	if err := w.intake.HandleEvent(c.Request().Context(), event); err != nil {
		w.log.Error("webhook processing failed",
			"type", event.Type,
			"dispute_id", event.DisputeID,
			"account_id", event.AccountID,
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "event processing failed"})
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
