package ports

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when a lookup misses.
var ErrNotFound = errors.New("not found")

// Account is one linked merchant account credential.
type Account struct {
	ID          string
	AccessToken string
	Scope       string
	LinkedAt    time.Time
}

// Case is one stored dispute case together with its generated draft.
type Case struct {
	ID            string
	AccountID     string
	Amount        int64
	Currency      string
	Reason        string
	Status        string
	ChargeID      string
	CreatedAt     time.Time
	EvidenceDueBy time.Time
	Draft         string
	ReceivedAt    time.Time
	RawJSON       []byte
}

// AccountStore persists linked account credentials.
// It is intentionally backend-agnostic: the in-memory adapter serves tests
// and credential-free local runs, the SQLite adapter serves everything else.
type AccountStore interface {
	UpsertAccount(ctx context.Context, account Account) error
	GetAccount(ctx context.Context, id string) (Account, error)
}

// CaseStore persists dispute cases. ListCases returns records in insertion
// order.
type CaseStore interface {
	UpsertCase(ctx context.Context, record Case) error
	GetCase(ctx context.Context, id string) (Case, error)
	ListCases(ctx context.Context) ([]Case, error)
}
