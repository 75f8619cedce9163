package submission

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.uber.org/zap"

	"itbudget/budget"
	"itbudget/internal/apperr"
	"itbudget/internal/logging"
	"itbudget/selection"
)

// Receipt is the confirmation returned after a submit.
type Receipt struct {
	ReferenceID        string                `json:"reference_id"`
	SubmittedAt        time.Time             `json:"submitted_at"`
	Company            selection.CompanyInfo `json:"company"`
	Currency           string                `json:"currency"`
	Totals             budget.Totals         `json:"totals"`
	ServiceCount       int                   `json:"service_count"`
	CustomServiceCount int                   `json:"custom_service_count"`
	ProjectCount       int                   `json:"project_count"`
	SupportTier        string                `json:"support_tier,omitempty"`
	Message            string                `json:"message"`
}

// DraftResult reports a draft save. Drafts are not persisted.
type DraftResult struct {
	Saved   bool      `json:"saved"`
	SavedAt time.Time `json:"saved_at"`
	Message string    `json:"message"`
}

// Recorder stores submitted receipts for audit.
type Recorder interface {
	Record(ctx context.Context, r *Receipt, snap selection.Snapshot) error
}

// Submitter issues receipts. Clock and randomness are injectable so
// reference IDs are reproducible in tests.
type Submitter struct {
	now      func() time.Time
	rand     io.Reader
	recorder Recorder
	currency string
	logger   *zap.Logger
}

type Option func(*Submitter)

func WithClock(now func() time.Time) Option { return func(s *Submitter) { s.now = now } }

func WithRandom(r io.Reader) Option { return func(s *Submitter) { s.rand = r } }

// WithRecorder enables audit recording; nil leaves it disabled.
func WithRecorder(r Recorder) Option { return func(s *Submitter) { s.recorder = r } }

func WithCurrency(currency string) Option { return func(s *Submitter) { s.currency = currency } }

func NewSubmitter(logger *zap.Logger, opts ...Option) *Submitter {
	s := &Submitter{
		now:      time.Now,
		rand:     rand.Reader,
		currency: "SAR",
		logger:   logging.OrNop(logger),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Submitter) Currency() string { return s.currency }

// ValidateCompany checks the details required before a submit.
func ValidateCompany(c selection.CompanyInfo) error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.CompanyCode, validation.Required),
		validation.Field(&c.ContactName, validation.Required),
		validation.Field(&c.ContactEmail, is.EmailFormat),
	)
	if err != nil {
		return apperr.InvalidInput("company", err.Error())
	}
	return nil
}

// Submit validates the company details and issues a receipt for snap.
func (s *Submitter) Submit(ctx context.Context, snap selection.Snapshot, totals budget.Totals) (*Receipt, error) {
	if err := ValidateCompany(snap.Company); err != nil {
		return nil, err
	}

	at := s.now()
	ref, err := ReferenceID(snap.Company.CompanyCode, snap.Company.Department, at, s.rand)
	if err != nil {
		return nil, err
	}

	r := &Receipt{
		ReferenceID:        ref,
		SubmittedAt:        at,
		Company:            snap.Company,
		Currency:           s.currency,
		Totals:             totals,
		ServiceCount:       len(snap.Services),
		CustomServiceCount: len(snap.CustomServices),
		ProjectCount:       len(snap.Projects),
		SupportTier:        snap.Support.Tier,
	}
	r.Message = fmt.Sprintf("Budget request %s submitted for %s. Total annual budget %s. The IT team will review your request and contact %s.",
		ref, companyLabel(snap.Company), budget.FormatAmount(s.currency, totals.Grand), snap.Company.ContactName)

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, r, snap); err != nil {
			s.logger.Error("submission: record failed", zap.String("reference", ref), zap.Error(err))
			return nil, fmt.Errorf("record submission: %w", err)
		}
	}

	s.logger.Info("submission: submitted",
		zap.String("reference", ref),
		zap.String("session", snap.SessionID),
		zap.String("company", snap.Company.CompanyCode),
		zap.String("grand_total", totals.Grand.String()),
	)
	return r, nil
}

// SaveDraft acknowledges a draft save. Nothing is stored.
func (s *Submitter) SaveDraft(snap selection.Snapshot) DraftResult {
	at := s.now()
	s.logger.Debug("submission: draft saved", zap.String("session", snap.SessionID))
	return DraftResult{
		Saved:   true,
		SavedAt: at,
		Message: "Draft saved at " + at.Format("15:04") + ".",
	}
}

func companyLabel(c selection.CompanyInfo) string {
	if c.CompanyName != "" {
		return c.CompanyName + " (" + c.CompanyCode + ")"
	}
	return c.CompanyCode
}
