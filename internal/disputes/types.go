// Package disputes holds the dispute-case domain: listing projections and
// the webhook intake orchestration.
package disputes

import (
	"time"

	"github.com/karolisr/disputedesk/internal/app/ports"
)

// AccountPlatform marks a case that has no linked merchant account.
const AccountPlatform = "platform"

const draftPreviewLimit = 400

// Provider event types dispatched by the intake service.
const (
	EventDisputeCreated = "charge.dispute.created"
	EventDisputeClosed  = "charge.dispute.closed"
)

// CaseSummary is the listing projection of a stored case.
type CaseSummary struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"account_id"`
	Status       string    `json:"status"`
	Amount       int64     `json:"amount"`
	Currency     string    `json:"currency"`
	Reason       string    `json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
	DraftPreview string    `json:"draft_preview"`
}

// Summarize projects a stored case for listing. The draft preview is
// truncated to draftPreviewLimit runes with an ellipsis appended when
// truncation occurred.
func Summarize(record ports.Case) CaseSummary {
	return CaseSummary{
		ID:           record.ID,
		AccountID:    record.AccountID,
		Status:       record.Status,
		Amount:       record.Amount,
		Currency:     record.Currency,
		Reason:       record.Reason,
		CreatedAt:    record.CreatedAt,
		DraftPreview: previewDraft(record.Draft),
	}
}

func previewDraft(draft string) string {
	runes := []rune(draft)
	if len(runes) <= draftPreviewLimit {
		return draft
	}
	return string(runes[:draftPreviewLimit]) + "..."
}
