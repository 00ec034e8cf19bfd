package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/karolisr/disputedesk/internal/app/ports"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "disputedesk-test"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Errorf("close database: %v", err)
		}
	})
	return database
}

func TestAccountUpsertOverwrites(t *testing.T) {
	database := newTestDatabase(t)
	ctx := context.Background()
	linked := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	if err := database.UpsertAccount(ctx, ports.Account{ID: "acct_1", AccessToken: "old", Scope: "read_write", LinkedAt: linked}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := database.UpsertAccount(ctx, ports.Account{ID: "acct_1", AccessToken: "new", Scope: "read_write", LinkedAt: linked}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	account, err := database.GetAccount(ctx, "acct_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if account.AccessToken != "new" {
		t.Fatalf("expected overwritten token, got %q", account.AccessToken)
	}
	if !account.LinkedAt.Equal(linked) {
		t.Fatalf("expected linked time %v, got %v", linked, account.LinkedAt)
	}
}

func TestGetAccountMissingReturnsNotFound(t *testing.T) {
	database := newTestDatabase(t)

	_, err := database.GetAccount(context.Background(), "acct_missing")
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCaseRoundTrip(t *testing.T) {
	database := newTestDatabase(t)
	ctx := context.Background()

	record := ports.Case{
		ID:            "dp_1",
		AccountID:     "acct_1",
		Amount:        2500,
		Currency:      "usd",
		Reason:        "fraudulent",
		Status:        "needs_response",
		ChargeID:      "ch_77",
		CreatedAt:     time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
		EvidenceDueBy: time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC),
		Draft:         "A persuasive draft.",
		ReceivedAt:    time.Date(2026, 7, 1, 9, 0, 5, 0, time.UTC),
		RawJSON:       []byte(`{"id":"dp_1"}`),
	}
	if err := database.UpsertCase(ctx, record); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := database.GetCase(ctx, "dp_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AccountID != record.AccountID || got.Amount != record.Amount || got.Currency != record.Currency {
		t.Fatalf("unexpected case fields: %+v", got)
	}
	if !got.CreatedAt.Equal(record.CreatedAt) || !got.EvidenceDueBy.Equal(record.EvidenceDueBy) {
		t.Fatalf("unexpected timestamps: %+v", got)
	}
	if got.Draft != record.Draft {
		t.Fatalf("expected draft %q, got %q", record.Draft, got.Draft)
	}
	if string(got.RawJSON) != `{"id":"dp_1"}` {
		t.Fatalf("unexpected raw payload %q", got.RawJSON)
	}
}

func TestCaseNullTimestamps(t *testing.T) {
	database := newTestDatabase(t)
	ctx := context.Background()

	record := ports.Case{ID: "dp_2", AccountID: "platform", ReceivedAt: time.Now().UTC()}
	if err := database.UpsertCase(ctx, record); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := database.GetCase(ctx, "dp_2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.CreatedAt.IsZero() || !got.EvidenceDueBy.IsZero() {
		t.Fatalf("expected zero optional timestamps, got %+v", got)
	}
}

func TestGetCaseMissingReturnsNotFound(t *testing.T) {
	database := newTestDatabase(t)

	_, err := database.GetCase(context.Background(), "dp_missing")
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListCasesPreservesInsertionOrder(t *testing.T) {
	database := newTestDatabase(t)
	ctx := context.Background()

	for _, id := range []string{"dp_3", "dp_1", "dp_2"} {
		if err := database.UpsertCase(ctx, ports.Case{ID: id, ReceivedAt: time.Now().UTC()}); err != nil {
			t.Fatalf("upsert %s: %v", id, err)
		}
	}
	// An update must not move the row.
	if err := database.UpsertCase(ctx, ports.Case{ID: "dp_3", Draft: "updated", ReceivedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	records, err := database.ListCases(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 cases, got %d", len(records))
	}
	want := []string{"dp_3", "dp_1", "dp_2"}
	for i, record := range records {
		if record.ID != want[i] {
			t.Fatalf("expected %s at position %d, got %s", want[i], i, record.ID)
		}
	}
	if records[0].Draft != "updated" {
		t.Fatalf("expected updated draft, got %q", records[0].Draft)
	}
}
