// Package draft produces natural-language dispute response text.
//
// The generator degrades instead of failing: without an API credential it
// returns a deterministic fallback draft, and any provider or decoding
// error yields a fixed unavailable marker.
package draft

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/karolisr/disputedesk/internal/app/ports"
)

const (
	draftUnavailable = "Draft unavailable."
	temperature      = 0.2
)

var evidenceChecklist = []string{
	"Order details",
	"Delivery or usage logs",
	"Customer communications",
	"Policy documents",
}

// Recorder receives draft-generation outcomes for metrics.
type Recorder interface {
	RecordDraft(mode string, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordDraft(string, time.Duration) {}

// Generator produces dispute response drafts, via the completion API when
// a credential is configured and via the fallback text otherwise.
type Generator struct {
	client *completionClient
	rec    Recorder
}

// NewGenerator constructs a Generator. An empty apiKey disables the
// completion client entirely; model and baseURL fall back to package
// defaults when empty.
func NewGenerator(apiKey, model, baseURL string, rec Recorder) *Generator {
	if rec == nil {
		rec = nopRecorder{}
	}
	g := &Generator{rec: rec}
	if apiKey != "" {
		g.client = newCompletionClient(apiKey, model, baseURL)
	}
	return g
}

// Generate returns response text for the dispute. It never fails.
func (g *Generator) Generate(ctx context.Context, dispute ports.DisputeData) string {
	start := time.Now()

	if g.client == nil {
		g.rec.RecordDraft("fallback", time.Since(start))
		return fallbackDraft(dispute)
	}

	text, err := g.client.Complete(ctx, systemPrompt, userPrompt(dispute), temperature)
	if err != nil || strings.TrimSpace(text) == "" {
		slog.Warn("draft generation failed", "dispute_id", dispute.ID, "error", err)
		g.rec.RecordDraft("unavailable", time.Since(start))
		return draftUnavailable
	}

	g.rec.RecordDraft("openai", time.Since(start))
	return text
}

var _ ports.DraftGenerator = (*Generator)(nil)

const systemPrompt = "You are a professional chargeback analyst. Write a persuasive, " +
	"well-structured dispute response of roughly 250-350 words. Use only the " +
	"facts provided; do not fabricate order details, communications, or evidence."

func userPrompt(d ports.DisputeData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Draft a dispute response for case %s.\n\n", d.ID)
	fmt.Fprintf(&b, "Reason: %s\n", valueOr(d.Reason, "unknown"))
	fmt.Fprintf(&b, "Amount: %s\n", formatAmount(d.Amount, d.Currency))
	fmt.Fprintf(&b, "Created: %s\n", formatTime(d.CreatedAt))
	fmt.Fprintf(&b, "Evidence due: %s\n", formatTime(d.EvidenceDueBy))
	fmt.Fprintf(&b, "Transaction: %s\n\n", valueOr(d.ChargeID, "unknown"))
	b.WriteString("Evidence the merchant will attach (placeholders for the operator):\n")
	for _, item := range evidenceChecklist {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	return b.String()
}

func fallbackDraft(d ports.DisputeData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dispute response draft for case %s.\n\n", d.ID)
	b.WriteString("We are contesting this dispute. The following records support the charge:\n")
	for _, item := range evidenceChecklist {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	b.WriteString("\nAttach the listed records before submitting this response.")
	return b.String()
}

func formatAmount(amount int64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = "UNKNOWN"
	}
	return fmt.Sprintf("%.2f %s", float64(amount)/100, code)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.UTC().Format(time.RFC3339)
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
