package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/karolisr/disputedesk/internal/adapters/memory"
	"github.com/karolisr/disputedesk/internal/app/ports"
	"github.com/karolisr/disputedesk/internal/disputes"
	"github.com/karolisr/disputedesk/internal/metrics"
)

var errTestUpstream = errors.New("upstream rejected the evidence")

func newCaseApp(t *testing.T, provider *providerFake) (*echo.Echo, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	collector := metrics.NewCollector(prometheus.NewRegistry())

	e := echo.New()
	NewCaseRoutes(store, provider, collector, nil, 100, 100).RegisterRoutes(e)
	return e, store
}

func TestListCasesReturnsSummaries(t *testing.T) {
	e, store := newCaseApp(t, &providerFake{})
	ctx := context.Background()

	longDraft := strings.Repeat("x", 1000)
	if err := store.UpsertCase(ctx, ports.Case{ID: "dp_1", AccountID: "acct_42", Amount: 2500, Currency: "usd", Draft: longDraft, ReceivedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.UpsertCase(ctx, ports.Case{ID: "dp_2", AccountID: disputes.AccountPlatform, Draft: "Short.", ReceivedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/cases", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var summaries []disputes.CaseSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].ID != "dp_1" || summaries[1].ID != "dp_2" {
		t.Fatalf("unexpected order: %s, %s", summaries[0].ID, summaries[1].ID)
	}
	if !strings.HasSuffix(summaries[0].DraftPreview, "...") {
		t.Fatalf("expected truncated preview, got %q", summaries[0].DraftPreview)
	}
	if summaries[1].DraftPreview != "Short." {
		t.Fatalf("expected short draft unchanged, got %q", summaries[1].DraftPreview)
	}
}

func TestSubmitCasePassesDraftVerbatim(t *testing.T) {
	provider := &providerFake{response: json.RawMessage(`{"id":"dp_1","status":"under_review"}`)}
	e, store := newCaseApp(t, provider)

	if err := store.UpsertCase(context.Background(), ports.Case{ID: "dp_1", AccountID: "acct_42", Draft: "Hello world", ReceivedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/cases/dp_1/submit", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if provider.submitCalls != 1 {
		t.Fatalf("expected 1 submission, got %d", provider.submitCalls)
	}
	if provider.submitted != "Hello world" {
		t.Fatalf("expected draft passed verbatim, got %q", provider.submitted)
	}
	if provider.submittedAs != "acct_42" {
		t.Fatalf("expected submission scoped to acct_42, got %q", provider.submittedAs)
	}
	if rec.Body.String() != `{"id":"dp_1","status":"under_review"}` {
		t.Fatalf("expected provider response relayed, got %s", rec.Body.String())
	}
}

func TestSubmitCaseUnknownIDReturnsNotFound(t *testing.T) {
	provider := &providerFake{}
	e, _ := newCaseApp(t, provider)

	req := httptest.NewRequest(http.MethodPost, "/cases/dp_missing/submit", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if provider.submitCalls != 0 {
		t.Fatalf("expected no provider call for unknown case, got %d", provider.submitCalls)
	}
}

func TestSubmitCaseUsesPlaceholderForEmptyDraft(t *testing.T) {
	provider := &providerFake{}
	e, store := newCaseApp(t, provider)

	if err := store.UpsertCase(context.Background(), ports.Case{ID: "dp_1", AccountID: disputes.AccountPlatform, ReceivedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/cases/dp_1/submit", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if provider.submitted != missingDraftText {
		t.Fatalf("expected placeholder evidence, got %q", provider.submitted)
	}
}

func TestSubmitCaseTruncatesLongDraft(t *testing.T) {
	provider := &providerFake{}
	e, store := newCaseApp(t, provider)

	if err := store.UpsertCase(context.Background(), ports.Case{ID: "dp_1", Draft: strings.Repeat("a", maxEvidenceChars+500), ReceivedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/cases/dp_1/submit", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := len([]rune(provider.submitted)); got != maxEvidenceChars {
		t.Fatalf("expected evidence truncated to %d runes, got %d", maxEvidenceChars, got)
	}
}

func TestSubmitCaseRelaysProviderFailure(t *testing.T) {
	provider := &providerFake{submitErr: errTestUpstream}
	e, store := newCaseApp(t, provider)

	if err := store.UpsertCase(context.Background(), ports.Case{ID: "dp_1", Draft: "draft", ReceivedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/cases/dp_1/submit", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "evidence submission failed" {
		t.Fatalf("unexpected error message %q", body["error"])
	}
	if !strings.Contains(body["detail"], "upstream rejected") {
		t.Fatalf("expected upstream detail, got %q", body["detail"])
	}
}
