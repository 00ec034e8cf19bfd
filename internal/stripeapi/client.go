// Package stripeapi adapts the Stripe SDK to the provider ports used by
// webhook intake and evidence submission.
package stripeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/karolisr/disputedesk/internal/app/ports"
	"github.com/karolisr/disputedesk/internal/disputes"
)

// Client wraps the Stripe API for webhook verification, dispute retrieval,
// and evidence submission.
type Client struct {
	api           *client.API
	webhookSecret string
}

// New constructs a Client with the platform secret key and the webhook
// signing secret.
func New(secretKey, webhookSecret string) *Client {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Client{api: api, webhookSecret: webhookSecret}
}

// VerifyEvent checks the signature header against the signing secret and
// decodes the event envelope. No data is touched before verification.
// API version mismatches are tolerated: connected accounts sign events
// with their own pinned Stripe version, and the fields read here are
// stable across versions.
func (c *Client) VerifyEvent(payload []byte, signatureHeader string) (ports.DisputeEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, c.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return ports.DisputeEvent{}, fmt.Errorf("verify webhook signature: %w", err)
	}

	var object struct {
		ID string `json:"id"`
	}
	var raw json.RawMessage
	if event.Data != nil && len(event.Data.Raw) > 0 {
		if err := json.Unmarshal(event.Data.Raw, &object); err != nil {
			return ports.DisputeEvent{}, fmt.Errorf("decode event object: %w", err)
		}
		raw = json.RawMessage(event.Data.Raw)
	}

	return ports.DisputeEvent{
		Type:      string(event.Type),
		AccountID: event.Account,
		DisputeID: object.ID,
		Raw:       raw,
	}, nil
}

// FetchDispute retrieves the full dispute, scoped to the connected account
// unless the account id is empty or the platform sentinel.
func (c *Client) FetchDispute(ctx context.Context, disputeID, accountID string) (ports.DisputeData, error) {
	params := &stripe.DisputeParams{}
	params.Context = ctx
	if scoped(accountID) {
		params.SetStripeAccount(accountID)
	}

	dispute, err := c.api.Disputes.Get(disputeID, params)
	if err != nil {
		return ports.DisputeData{}, fmt.Errorf("fetch dispute %s: %w", disputeID, err)
	}
	return disputeData(dispute), nil
}

// SubmitEvidence attaches text as uncategorized evidence on the dispute
// and returns the provider's response payload. The caller truncates text
// to the provider limit beforehand.
func (c *Client) SubmitEvidence(ctx context.Context, disputeID, accountID, text string) (json.RawMessage, error) {
	params := &stripe.DisputeParams{
		Evidence: &stripe.DisputeEvidenceParams{
			UncategorizedText: stripe.String(text),
		},
	}
	params.Context = ctx
	if scoped(accountID) {
		params.SetStripeAccount(accountID)
	}

	dispute, err := c.api.Disputes.Update(disputeID, params)
	if err != nil {
		return nil, fmt.Errorf("submit evidence for dispute %s: %w", disputeID, err)
	}

	raw, err := json.Marshal(dispute)
	if err != nil {
		return nil, fmt.Errorf("encode dispute %s: %w", disputeID, err)
	}
	return raw, nil
}

var _ ports.DisputeProvider = (*Client)(nil)

func scoped(accountID string) bool {
	return accountID != "" && accountID != disputes.AccountPlatform
}

func disputeData(d *stripe.Dispute) ports.DisputeData {
	data := ports.DisputeData{
		ID:       d.ID,
		Amount:   d.Amount,
		Currency: string(d.Currency),
		Reason:   string(d.Reason),
		Status:   string(d.Status),
	}
	if d.Created > 0 {
		data.CreatedAt = time.Unix(d.Created, 0).UTC()
	}
	if d.EvidenceDetails != nil && d.EvidenceDetails.DueBy > 0 {
		data.EvidenceDueBy = time.Unix(d.EvidenceDetails.DueBy, 0).UTC()
	}
	if d.Charge != nil {
		data.ChargeID = d.Charge.ID
	}
	if raw, err := json.Marshal(d); err == nil {
		data.RawJSON = raw
	}
	return data
}
