package ports

import (
	"context"
	"encoding/json"
	"time"
)

// DisputeEvent is one signature-verified webhook event from the payment
// provider. AccountID is empty for platform-level events.
type DisputeEvent struct {
	Type      string
	AccountID string
	DisputeID string
	Raw       json.RawMessage
}

// DisputeData is the full dispute record fetched from the payment provider.
type DisputeData struct {
	ID            string
	Amount        int64
	Currency      string
	Reason        string
	Status        string
	ChargeID      string
	CreatedAt     time.Time
	EvidenceDueBy time.Time
	RawJSON       []byte
}

// DisputeProvider is the payment-provider contract used by webhook intake
// and evidence submission. VerifyEvent must reject a bad signature before
// any other work happens.
type DisputeProvider interface {
	VerifyEvent(payload []byte, signatureHeader string) (DisputeEvent, error)
	FetchDispute(ctx context.Context, disputeID, accountID string) (DisputeData, error)
	SubmitEvidence(ctx context.Context, disputeID, accountID, text string) (json.RawMessage, error)
}

// DraftGenerator produces dispute response text. It never fails: degraded
// paths return a usable string instead of an error.
type DraftGenerator interface {
	Generate(ctx context.Context, dispute DisputeData) string
}
