// Package budget computes annual totals and the 12-month cash-flow curve for
// a session's selections.
package budget

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"itbudget/catalog"
	"itbudget/selection"
)

// Contract rates for support requests bought on top of a tier.
var (
	ExtraSupportRate  = decimal.NewFromInt(1800)
	ExtraTrainingRate = decimal.NewFromInt(5399)
	ExtraReportRate   = decimal.NewFromInt(5399)
)

var (
	twelve  = decimal.NewFromInt(12)
	eleven  = decimal.NewFromInt(11)
	decZero = decimal.Zero
)

// Catalog is the lookup surface the aggregator needs. Both *catalog.Catalog
// and *catalog.Store satisfy it.
type Catalog interface {
	Service(section, name string) (catalog.PricedService, bool)
	SupportTier(name string) (catalog.SupportTier, bool)
	AutomationPackage(name string) (catalog.AutomationPackage, bool)
}

// Distribution controls how operational and support costs are placed on the
// cash-flow curve.
type Distribution string

const (
	// YearEnd bills operational and support costs in December.
	YearEnd Distribution = "year_end"
	// Even spreads them over the twelve months.
	Even Distribution = "even"
)

// ParseDistribution maps a config value to a Distribution, defaulting to
// YearEnd.
func ParseDistribution(s string) Distribution {
	if Distribution(strings.ToLower(strings.TrimSpace(s))) == Even {
		return Even
	}
	return YearEnd
}

type Options struct {
	Distribution Distribution
}

// Line item categories.
const (
	CategoryOperational    = "operational"
	CategoryCustom         = "custom"
	CategorySupport        = "support"
	CategoryImplementation = "implementation"
)

// LineItem is one costed row of the budget.
type LineItem struct {
	Category string          `json:"category"`
	Group    string          `json:"group"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Unit     string          `json:"unit,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
}

// Totals is the full result of Compute. Monthly always sums to Grand.
type Totals struct {
	Operational         decimal.Decimal     `json:"operational"`
	Support             decimal.Decimal     `json:"support"`
	Implementation      decimal.Decimal     `json:"implementation"`
	Grand               decimal.Decimal     `json:"grand"`
	Items               []LineItem          `json:"items"`
	Monthly             [12]decimal.Decimal `json:"monthly"`
	AutomationThreeYear decimal.Decimal     `json:"automation_three_year"`
	Warnings            []string            `json:"warnings,omitempty"`
}

// ServiceAnnualCost prices one service line: monthly models are charged for
// twelve months, annual models once, and the setup cost is added only for a
// new implementation.
func ServiceAnnualCost(unitPrice, setupCost decimal.Decimal, model catalog.PricingModel, quantity int, newImplementation bool) decimal.Decimal {
	if quantity <= 0 {
		return decZero
	}
	cost := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	if model.Monthly() {
		cost = cost.Mul(twelve)
	}
	if newImplementation {
		cost = cost.Add(setupCost)
	}
	return cost
}

// SupportCost is the tier's annual price plus extra requests at contract rates.
func SupportCost(tierPrice decimal.Decimal, s selection.SupportSelection) decimal.Decimal {
	return tierPrice.
		Add(ExtraSupportRate.Mul(decimal.NewFromInt(int64(max(s.ExtraSupport, 0))))).
		Add(ExtraTrainingRate.Mul(decimal.NewFromInt(int64(max(s.ExtraTraining, 0))))).
		Add(ExtraReportRate.Mul(decimal.NewFromInt(int64(max(s.ExtraReports, 0)))))
}

// Compute prices every selection in snap against cat. Missing catalog
// entries cost nothing and are reported in Totals.Warnings.
func Compute(snap selection.Snapshot, cat Catalog, opts Options) Totals {
	var t Totals
	warn := func(format string, args ...any) {
		t.Warnings = append(t.Warnings, fmt.Sprintf(format, args...))
	}

	for _, sel := range snap.Services {
		if sel.Quantity <= 0 {
			continue
		}
		svc, ok := cat.Service(sel.Section, sel.Service)
		if !ok {
			warn("service %q not found in section %q", sel.Service, sel.Section)
			continue
		}
		amount := ServiceAnnualCost(svc.UnitPrice, svc.SetupCost, svc.Model, sel.Quantity, sel.NewImplementation)
		t.Operational = t.Operational.Add(amount)
		t.Items = append(t.Items, LineItem{
			Category: CategoryOperational,
			Group:    sel.Section,
			Name:     sel.Service,
			Quantity: sel.Quantity,
			Unit:     svc.Model.UnitLabel(),
			Amount:   amount,
		})
	}

	for _, cs := range snap.CustomServices {
		if cs.Quantity <= 0 {
			continue
		}
		if !cs.Model.Valid() {
			warn("custom service %q has unknown pricing model %q, costed as annual", cs.Name, cs.Model)
		}
		amount := ServiceAnnualCost(cs.UnitPrice, cs.SetupCost, cs.Model, cs.Quantity, cs.NewImplementation)
		t.Operational = t.Operational.Add(amount)
		t.Items = append(t.Items, LineItem{
			Category: CategoryCustom,
			Group:    "custom",
			Name:     cs.Name,
			Quantity: cs.Quantity,
			Unit:     cs.Model.UnitLabel(),
			Amount:   amount,
		})
	}

	tierPrice := decZero
	if name := snap.Support.Tier; name != "" {
		if tier, ok := cat.SupportTier(name); ok {
			tierPrice = tier.AnnualPrice
			if !tier.AllowedFor(snap.Company.Department) {
				warn("support tier %q is not offered to department %q", name, snap.Company.Department)
			}
			t.Items = append(t.Items, LineItem{Category: CategorySupport, Group: "tier", Name: name, Quantity: 1, Amount: tierPrice})
		} else {
			warn("support tier %q not found", name)
		}
	}
	t.Support = SupportCost(tierPrice, snap.Support)
	for _, extra := range []struct {
		name  string
		count int
		rate  decimal.Decimal
	}{
		{"Extra support requests", snap.Support.ExtraSupport, ExtraSupportRate},
		{"Extra training requests", snap.Support.ExtraTraining, ExtraTrainingRate},
		{"Extra report requests", snap.Support.ExtraReports, ExtraReportRate},
	} {
		if extra.count > 0 {
			t.Items = append(t.Items, LineItem{
				Category: CategorySupport,
				Group:    "extras",
				Name:     extra.name,
				Quantity: extra.count,
				Amount:   extra.rate.Mul(decimal.NewFromInt(int64(extra.count))),
			})
		}
	}

	recurring := t.Operational.Add(t.Support)
	if opts.Distribution == Even {
		addSpread(&t.Monthly, recurring)
	} else {
		t.Monthly[11] = t.Monthly[11].Add(recurring)
	}

	for _, p := range snap.Projects {
		amount, spread := projectBudget(p, cat, &t, warn)
		t.Implementation = t.Implementation.Add(amount)
		t.Items = append(t.Items, LineItem{
			Category: CategoryImplementation,
			Group:    p.Category,
			Name:     p.Name,
			Quantity: 1,
			Amount:   amount,
		})
		if spread {
			addSpread(&t.Monthly, amount)
			continue
		}
		month, _ := p.Timeline.QuarterEndMonth()
		t.Monthly[month] = t.Monthly[month].Add(amount)
	}

	t.Grand = t.Operational.Add(t.Support).Add(t.Implementation)
	return t
}

// projectBudget returns the project's effective budget and whether it is
// spread over the year rather than billed at quarter end.
func projectBudget(p selection.ProjectSelection, cat Catalog, t *Totals, warn func(string, ...any)) (decimal.Decimal, bool) {
	if p.AutomationPackage != "" {
		pkg, ok := cat.AutomationPackage(p.AutomationPackage)
		if !ok {
			warn("automation package %q for project %q not found", p.AutomationPackage, p.Name)
			return decZero, true
		}
		t.AutomationThreeYear = t.AutomationThreeYear.Add(pkg.ThreeYearTotal())
		return pkg.Year1(), true
	}

	budget := p.Budget
	if budget.IsNegative() {
		warn("project %q has a negative budget, costed at zero", p.Name)
		budget = decZero
	}
	if _, ok := p.Timeline.QuarterEndMonth(); ok {
		return budget, false
	}
	if p.Timeline != selection.TimelineMultiQuarter && p.Timeline != selection.TimelineMultiYear {
		warn("project %q has unknown timeline %q, spread over the year", p.Name, p.Timeline)
	}
	return budget, true
}

// addSpread spreads amount over the twelve months. Each month gets the
// amount divided by twelve rounded down to cents; December takes the
// remainder so the months sum to amount exactly.
func addSpread(months *[12]decimal.Decimal, amount decimal.Decimal) {
	if amount.IsZero() {
		return
	}
	share := amount.Div(twelve).RoundFloor(2)
	for i := 0; i < 11; i++ {
		months[i] = months[i].Add(share)
	}
	months[11] = months[11].Add(amount.Sub(share.Mul(eleven)))
}

// MonthlySum adds up a cash-flow curve.
func MonthlySum(months [12]decimal.Decimal) decimal.Decimal {
	sum := decZero
	for _, m := range months {
		sum = sum.Add(m)
	}
	return sum
}
