package admin

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"itbudget/catalog"
	"itbudget/internal/apperr"
)

// ServiceInput describes a new priced service.
type ServiceInput struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	UnitPrice   decimal.Decimal      `json:"unit_price"`
	SetupCost   decimal.Decimal      `json:"setup_cost"`
	Model       catalog.PricingModel `json:"pricing_model"`
}

func (in ServiceInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&in.UnitPrice, validation.By(nonNegative)),
		validation.Field(&in.SetupCost, validation.By(nonNegative)),
		validation.Field(&in.Model, validation.By(knownModel)),
	)
}

// ServiceUpdate changes only the fields that are set.
type ServiceUpdate struct {
	Description *string               `json:"description"`
	UnitPrice   *decimal.Decimal      `json:"unit_price"`
	SetupCost   *decimal.Decimal      `json:"setup_cost"`
	Model       *catalog.PricingModel `json:"pricing_model"`
}

func (up ServiceUpdate) Validate() error {
	return validation.ValidateStruct(&up,
		validation.Field(&up.UnitPrice, validation.By(nonNegative)),
		validation.Field(&up.SetupCost, validation.By(nonNegative)),
		validation.Field(&up.Model, validation.By(knownModel)),
	)
}

// TierInput describes a support tier. On update the name is taken from the
// path and Name is ignored.
type TierInput struct {
	Name         string               `json:"name"`
	AnnualPrice  decimal.Decimal      `json:"annual_price"`
	Entitlements catalog.Entitlements `json:"entitlements"`
	Description  string               `json:"description"`
	Departments  []string             `json:"departments"`
}

func (in TierInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.AnnualPrice, validation.By(nonNegative)),
		validation.Field(&in.Entitlements, validation.By(nonNegativeEntitlements)),
		validation.Field(&in.Departments, validation.Each(validation.Required)),
	)
}

// PackageInput carries every cost component of an automation package.
// Year 1 is never supplied; it is derived from the four components.
type PackageInput struct {
	Name                   string          `json:"name"`
	Discovery              decimal.Decimal `json:"discovery"`
	Build                  decimal.Decimal `json:"build"`
	ProjectManagement      decimal.Decimal `json:"project_management"`
	Infrastructure         decimal.Decimal `json:"infrastructure"`
	Year2                  decimal.Decimal `json:"year2"`
	Year3                  decimal.Decimal `json:"year3"`
	ProcessCoverage        string          `json:"process_coverage"`
	ImplementationCoverage string          `json:"implementation_coverage"`
}

func (in PackageInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Discovery, validation.By(nonNegative)),
		validation.Field(&in.Build, validation.By(nonNegative)),
		validation.Field(&in.ProjectManagement, validation.By(nonNegative)),
		validation.Field(&in.Infrastructure, validation.By(nonNegative)),
		validation.Field(&in.Year2, validation.By(nonNegative)),
		validation.Field(&in.Year3, validation.By(nonNegative)),
	)
}

func (in PackageInput) toPackage(name string) catalog.AutomationPackage {
	return catalog.AutomationPackage{
		Name:                   name,
		Discovery:              in.Discovery,
		Build:                  in.Build,
		ProjectManagement:      in.ProjectManagement,
		Infrastructure:         in.Infrastructure,
		Year2:                  in.Year2,
		Year3:                  in.Year3,
		ProcessCoverage:        in.ProcessCoverage,
		ImplementationCoverage: in.ImplementationCoverage,
	}
}

func nonNegative(value interface{}) error {
	var d decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		d = v
	case *decimal.Decimal:
		if v == nil {
			return nil
		}
		d = *v
	default:
		return nil
	}
	if d.IsNegative() {
		return errors.New("must not be negative")
	}
	return nil
}

func knownModel(value interface{}) error {
	var m catalog.PricingModel
	switch v := value.(type) {
	case catalog.PricingModel:
		m = v
	case *catalog.PricingModel:
		if v == nil {
			return nil
		}
		m = *v
	default:
		return nil
	}
	if !m.Valid() {
		return errors.New("unknown pricing model")
	}
	return nil
}

func nonNegativeEntitlements(value interface{}) error {
	e, _ := value.(catalog.Entitlements)
	for _, n := range []int{e.StandardRequests, e.PriorityRequests, e.PremiumRequests,
		e.ImprovementHours, e.TrainingRequests, e.ReportRequests} {
		if n < 0 {
			return errors.New("request counts must not be negative")
		}
	}
	return nil
}

// invalid converts an ozzo validation failure into an InvalidInput error.
func invalid(kind string, err error) error {
	if err == nil {
		return nil
	}
	return apperr.InvalidInput(kind, err.Error())
}

// ParseAmount parses a money value typed into a form. Thousands separators
// are accepted; negatives and non-numbers are rejected.
func ParseAmount(field, raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperr.InvalidInput(field, "not a number: "+raw)
	}
	if d.IsNegative() {
		return decimal.Zero, apperr.InvalidInput(field, "must not be negative")
	}
	return d, nil
}

// ParseProjectTypes splits a newline-delimited block into project types.
// Blank lines and repeats are dropped; order is kept.
func ParseProjectTypes(text string) []string {
	seen := make(map[string]bool)
	var types []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		types = append(types, line)
	}
	return types
}
