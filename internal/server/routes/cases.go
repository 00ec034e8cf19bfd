package routes

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/karolisr/disputedesk/internal/app/ports"
	"github.com/karolisr/disputedesk/internal/disputes"
	"github.com/karolisr/disputedesk/internal/metrics"
)

const (
	// maxEvidenceChars is the provider's limit for uncategorized evidence
	// text; longer drafts are truncated before submission.
	maxEvidenceChars = 8000
	missingDraftText = "No draft is available for this dispute."
)

// CaseRoutes registers the operator-facing case endpoints.
type CaseRoutes struct {
	cases         ports.CaseStore
	provider      ports.DisputeProvider
	metrics       *metrics.Collector
	log           *slog.Logger
	ratePerSecond float64
	rateBurst     int
}

// NewCaseRoutes constructs case routes. ratePerSecond and burst bound
// operator traffic per client IP; the webhook path is not rate limited.
func NewCaseRoutes(cases ports.CaseStore, provider ports.DisputeProvider, collector *metrics.Collector, log *slog.Logger, ratePerSecond float64, burst int) *CaseRoutes {
	if log == nil {
		log = slog.Default()
	}
	return &CaseRoutes{cases: cases, provider: provider, metrics: collector, log: log, ratePerSecond: ratePerSecond, rateBurst: burst}
}

// RegisterRoutes registers the case endpoints behind a per-IP rate limit.
func (r *CaseRoutes) RegisterRoutes(s *echo.Echo) {
	group := s.Group("/cases", middleware.RateLimiter(
		middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(r.ratePerSecond),
			Burst: r.rateBurst,
		}),
	))
	group.GET("", r.handleListCases)
	group.POST("/:id/submit", r.handleSubmitCase)
}

func (r *CaseRoutes) handleListCases(c echo.Context) error {
	records, err := r.cases.ListCases(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list cases").SetInternal(err)
	}

	summaries := make([]disputes.CaseSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, disputes.Summarize(record))
	}
	return c.JSON(http.StatusOK, summaries)
}

func (r *CaseRoutes) handleSubmitCase(c echo.Context) error {
	id := c.Param("id")
	record, err := r.cases.GetCase(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "case not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load case").SetInternal(err)
	}

	text := record.Draft
	if strings.TrimSpace(text) == "" {
		text = missingDraftText
	}
	text = truncateEvidence(text)

	response, err := r.provider.SubmitEvidence(c.Request().Context(), record.ID, record.AccountID, text)
	if err != nil {
		r.metrics.RecordSubmission("error")
		r.log.Error("evidence submission failed", "case_id", record.ID, "account_id", record.AccountID, "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error":  "evidence submission failed",
			"detail": err.Error(),
		})
	}

	r.metrics.RecordSubmission("success")
	return c.JSONBlob(http.StatusOK, response)
}

func truncateEvidence(text string) string {
	runes := []rune(text)
	if len(runes) <= maxEvidenceChars {
		return text
	}
	return string(runes[:maxEvidenceChars])
}
