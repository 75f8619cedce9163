package collections

import (
	"context"
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"itbudget/internal/apperr"
	"itbudget/internal/logging"
	"itbudget/selection"
	"itbudget/submission"
)

// SubmissionRecorder stores receipts in the submissions collection.
type SubmissionRecorder struct {
	app    core.App
	logger *zap.Logger
}

var _ submission.Recorder = (*SubmissionRecorder)(nil)

func NewSubmissionRecorder(app core.App, logger *zap.Logger) *SubmissionRecorder {
	return &SubmissionRecorder{app: app, logger: logging.OrNop(logger)}
}

// Record saves one audit row per receipt, including the full selection
// snapshot as JSON.
func (s *SubmissionRecorder) Record(ctx context.Context, r *submission.Receipt, snap selection.Snapshot) error {
	col, err := s.app.FindCollectionByNameOrId(Submissions)
	if err != nil {
		return fmt.Errorf("find %s collection: %w", Submissions, err)
	}

	rec := core.NewRecord(col)
	rec.Set("reference_id", r.ReferenceID)
	rec.Set("session_id", snap.SessionID)
	rec.Set("company_code", r.Company.CompanyCode)
	rec.Set("company_name", r.Company.CompanyName)
	rec.Set("department", r.Company.Department)
	rec.Set("business_unit", r.Company.BusinessUnit)
	rec.Set("contact_name", r.Company.ContactName)
	rec.Set("contact_email", r.Company.ContactEmail)
	rec.Set("currency", r.Currency)
	rec.Set("operational", r.Totals.Operational.InexactFloat64())
	rec.Set("support", r.Totals.Support.InexactFloat64())
	rec.Set("implementation", r.Totals.Implementation.InexactFloat64())
	rec.Set("grand_total", r.Totals.Grand.InexactFloat64())
	rec.Set("service_count", r.ServiceCount)
	rec.Set("custom_service_count", r.CustomServiceCount)
	rec.Set("project_count", r.ProjectCount)
	rec.Set("support_tier", r.SupportTier)
	rec.Set("monthly", r.Totals.Monthly)
	rec.Set("warnings", r.Totals.Warnings)
	rec.Set("selection", snap)
	rec.Set("submitted_at", r.SubmittedAt)

	if err := s.app.SaveWithContext(ctx, rec); err != nil {
		return fmt.Errorf("save submission %s: %w", r.ReferenceID, err)
	}
	s.logger.Debug("collections: submission recorded",
		zap.String("reference", r.ReferenceID),
		zap.String("id", rec.Id),
	)
	return nil
}

// SubmissionSummary is one row of the submissions listing.
type SubmissionSummary struct {
	ReferenceID string    `json:"reference_id"`
	CompanyCode string    `json:"company_code"`
	CompanyName string    `json:"company_name"`
	Department  string    `json:"department"`
	ContactName string    `json:"contact_name"`
	Currency    string    `json:"currency"`
	GrandTotal  float64   `json:"grand_total"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ListSubmissions returns the newest submissions first. A non-empty
// department restricts the listing to that department.
func ListSubmissions(app core.App, department string, limit int) ([]SubmissionSummary, error) {
	filter := ""
	params := map[string]any{}
	if department != "" {
		filter = "department = {:department}"
		params["department"] = department
	}

	records, err := app.FindRecordsByFilter(Submissions, filter, "-submitted_at", limit, 0, params)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	out := make([]SubmissionSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, summaryFromRecord(rec))
	}
	return out, nil
}

// FindSubmission looks up a stored submission by reference ID.
func FindSubmission(app core.App, referenceID string) (SubmissionSummary, error) {
	rec, err := app.FindFirstRecordByData(Submissions, "reference_id", referenceID)
	if err != nil {
		return SubmissionSummary{}, apperr.Wrap(apperr.TypeNotFound, "submission "+referenceID+" not found", err)
	}
	return summaryFromRecord(rec), nil
}

func summaryFromRecord(rec *core.Record) SubmissionSummary {
	return SubmissionSummary{
		ReferenceID: rec.GetString("reference_id"),
		CompanyCode: rec.GetString("company_code"),
		CompanyName: rec.GetString("company_name"),
		Department:  rec.GetString("department"),
		ContactName: rec.GetString("contact_name"),
		Currency:    rec.GetString("currency"),
		GrandTotal:  rec.GetFloat("grand_total"),
		SubmittedAt: rec.GetDateTime("submitted_at").Time(),
	}
}
