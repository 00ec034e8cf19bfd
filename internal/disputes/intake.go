package disputes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/karolisr/disputedesk/internal/app/ports"
)

// Intake processes verified provider events. Creation events fetch the
// full dispute, generate a draft, and upsert the case store; closure
// events are logged only; everything else is acknowledged without work.
type Intake struct {
	provider ports.DisputeProvider
	cases    ports.CaseStore
	drafts   ports.DraftGenerator
	log      *slog.Logger
}

// NewIntake constructs the intake service.
func NewIntake(provider ports.DisputeProvider, cases ports.CaseStore, drafts ports.DraftGenerator, log *slog.Logger) *Intake {
	if log == nil {
		log = slog.Default()
	}
	return &Intake{provider: provider, cases: cases, drafts: drafts, log: log}
}

// HandleEvent dispatches one verified event by type.
func (i *Intake) HandleEvent(ctx context.Context, event ports.DisputeEvent) error {
	switch event.Type {
	case EventDisputeCreated:
		return i.handleCreated(ctx, event)
	case EventDisputeClosed:
		i.log.Info("dispute closed", "dispute_id", event.DisputeID, "account_id", event.AccountID)
		return nil
	default:
		i.log.Debug("ignoring event", "type", event.Type)
		return nil
	}
}

func (i *Intake) handleCreated(ctx context.Context, event ports.DisputeEvent) error {
	data, err := i.provider.FetchDispute(ctx, event.DisputeID, event.AccountID)
	if err != nil {
		return fmt.Errorf("fetch dispute %s: %w", event.DisputeID, err)
	}

	draft := i.drafts.Generate(ctx, data)

	owner := event.AccountID
	if owner == "" {
		owner = AccountPlatform
	}

	// The record is keyed by the event's dispute id, not whatever id the
	// fetched document carries.
	record := ports.Case{
		ID:            event.DisputeID,
		AccountID:     owner,
		Amount:        data.Amount,
		Currency:      data.Currency,
		Reason:        data.Reason,
		Status:        data.Status,
		ChargeID:      data.ChargeID,
		CreatedAt:     data.CreatedAt,
		EvidenceDueBy: data.EvidenceDueBy,
		Draft:         draft,
		ReceivedAt:    time.Now().UTC(),
		RawJSON:       data.RawJSON,
	}
	if err := i.cases.UpsertCase(ctx, record); err != nil {
		return fmt.Errorf("store case %s: %w", record.ID, err)
	}

	i.log.Info("dispute case stored",
		"case_id", record.ID,
		"account_id", record.AccountID,
		"amount", record.Amount,
		"currency", record.Currency,
		"reason", record.Reason,
	)
	return nil
}
