// Package catalog holds the purchasable items offered by the budget
// questionnaire: priced services grouped in sections, support tiers,
// implementation project categories and automation packages.
package catalog

import (
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// PricingModel tells how a service's unit price turns into an annual cost.
type PricingModel string

const (
	PerUserMonthly       PricingModel = "per_user_monthly"
	PerTransactionAnnual PricingModel = "per_transaction_annual"
	PerEmployeeAnnual    PricingModel = "per_employee_annual"
	PerAssetAnnual       PricingModel = "per_asset_annual"
	PerVehicleAnnual     PricingModel = "per_vehicle_annual"
	PerUnitAnnual        PricingModel = "per_unit_annual"
)

// PricingModels lists every supported model in display order.
var PricingModels = []PricingModel{
	PerUserMonthly,
	PerTransactionAnnual,
	PerEmployeeAnnual,
	PerAssetAnnual,
	PerVehicleAnnual,
	PerUnitAnnual,
}

var unitLabels = map[PricingModel]string{
	PerUserMonthly:       "user/month",
	PerTransactionAnnual: "transaction/year",
	PerEmployeeAnnual:    "employee/year",
	PerAssetAnnual:       "asset/year",
	PerVehicleAnnual:     "vehicle/year",
	PerUnitAnnual:        "unit/year",
}

// Valid reports whether m is a known pricing model.
func (m PricingModel) Valid() bool {
	_, ok := unitLabels[m]
	return ok
}

// Monthly reports whether the unit price is charged per month.
func (m PricingModel) Monthly() bool {
	return m == PerUserMonthly
}

// UnitLabel returns the short billing unit, e.g. "user/month".
func (m PricingModel) UnitLabel() string {
	return unitLabels[m]
}

// ParsePricingModel accepts either the model value or its unit label.
func ParsePricingModel(s string) (PricingModel, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range PricingModels {
		if string(m) == s || unitLabels[m] == s {
			return m, true
		}
	}
	return "", false
}

// DepartmentIT owns support tiers, project categories and automation packages.
const DepartmentIT = "IT"

// Departments is the list of department tags offered for projects and tiers.
var Departments = []string{
	"Finance",
	"HR",
	"Operations",
	"Sales",
	"Marketing",
	"IT",
	"Customer Service",
	"Supply Chain",
	"Procurement",
}

// PricedService is a catalog entry billed per user, transaction, asset, etc.
type PricedService struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	SetupCost   decimal.Decimal `json:"setup_cost"`
	Model       PricingModel    `json:"pricing_model"`
	Department  string          `json:"department"`
}

// Section groups priced services owned by one department.
type Section struct {
	Key        string                   `json:"key"`
	Title      string                   `json:"title"`
	Department string                   `json:"department"`
	Order      int                      `json:"order"`
	Services   map[string]PricedService `json:"services"`
}

func (s Section) clone() Section {
	s.Services = maps.Clone(s.Services)
	if s.Services == nil {
		s.Services = make(map[string]PricedService)
	}
	return s
}

// ServiceNames returns the section's service names sorted alphabetically.
func (s Section) ServiceNames() []string {
	return slices.Sorted(maps.Keys(s.Services))
}

// Entitlements are the request quotas bundled with a support tier.
type Entitlements struct {
	StandardRequests int `json:"standard_requests"`
	PriorityRequests int `json:"priority_requests"`
	PremiumRequests  int `json:"premium_requests"`
	ImprovementHours int `json:"improvement_hours"`
	TrainingRequests int `json:"training_requests"`
	ReportRequests   int `json:"report_requests"`
}

// SupportTier is a flat-priced annual support package.
type SupportTier struct {
	Name         string          `json:"name"`
	AnnualPrice  decimal.Decimal `json:"annual_price"`
	Entitlements Entitlements    `json:"entitlements"`
	Description  string          `json:"description"`
	// Departments allowed to select the tier; empty means every department.
	Departments []string `json:"departments,omitempty"`
}

// AllowedFor reports whether department may select the tier.
func (t SupportTier) AllowedFor(department string) bool {
	if len(t.Departments) == 0 || department == "" {
		return true
	}
	return slices.Contains(t.Departments, department)
}

// AutomationPackage is a fixed multi-year RPA bundle.
type AutomationPackage struct {
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

// Year1 is always derived from the four cost components.
func (p AutomationPackage) Year1() decimal.Decimal {
	return p.Discovery.Add(p.Build).Add(p.ProjectManagement).Add(p.Infrastructure)
}

// ThreeYearTotal returns year 1 + year 2 + year 3.
func (p AutomationPackage) ThreeYearTotal() decimal.Decimal {
	return p.Year1().Add(p.Year2).Add(p.Year3)
}

// Company is a requesting entity offered in the template's company list.
type Company struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// BudgetRange is the typical spend shown as guidance for a project type.
// It never constrains the budget a requester enters.
type BudgetRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Catalog is one complete, independently owned copy of the catalog data.
type Catalog struct {
	Sections           map[string]Section           `json:"sections"`
	SupportTiers       map[string]SupportTier       `json:"support_tiers"`
	ProjectCategories  map[string][]string          `json:"project_categories"`
	BudgetRanges       map[string]BudgetRange       `json:"budget_ranges"`
	AutomationPackages map[string]AutomationPackage `json:"automation_packages"`
	Companies          []Company                    `json:"companies"`
}

// Clone returns a deep copy that shares no mutable state with c.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{
		Sections:           make(map[string]Section, len(c.Sections)),
		SupportTiers:       make(map[string]SupportTier, len(c.SupportTiers)),
		ProjectCategories:  make(map[string][]string, len(c.ProjectCategories)),
		BudgetRanges:       maps.Clone(c.BudgetRanges),
		AutomationPackages: maps.Clone(c.AutomationPackages),
		Companies:          slices.Clone(c.Companies),
	}
	for k, s := range c.Sections {
		out.Sections[k] = s.clone()
	}
	for k, t := range c.SupportTiers {
		t.Departments = slices.Clone(t.Departments)
		out.SupportTiers[k] = t
	}
	for k, types := range c.ProjectCategories {
		out.ProjectCategories[k] = slices.Clone(types)
	}
	if out.AutomationPackages == nil {
		out.AutomationPackages = make(map[string]AutomationPackage)
	}
	if out.BudgetRanges == nil {
		out.BudgetRanges = make(map[string]BudgetRange)
	}
	return out
}

// Service looks up a priced service by section key and name.
func (c *Catalog) Service(section, name string) (PricedService, bool) {
	s, ok := c.Sections[section]
	if !ok {
		return PricedService{}, false
	}
	svc, ok := s.Services[name]
	return svc, ok
}

// SupportTier looks up a support tier by name.
func (c *Catalog) SupportTier(name string) (SupportTier, bool) {
	t, ok := c.SupportTiers[name]
	return t, ok
}

// AutomationPackage looks up an automation package by name.
func (c *Catalog) AutomationPackage(name string) (AutomationPackage, bool) {
	p, ok := c.AutomationPackages[name]
	return p, ok
}

// OrderedSections returns sections sorted by Order, then key.
func (c *Catalog) OrderedSections() []Section {
	out := make([]Section, 0, len(c.Sections))
	for _, s := range c.Sections {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// ServiceNames returns every service name, grouped by section order.
func (c *Catalog) ServiceNames() []string {
	var names []string
	for _, s := range c.OrderedSections() {
		names = append(names, s.ServiceNames()...)
	}
	return names
}

// TierNames returns support tier names from cheapest to most expensive.
func (c *Catalog) TierNames() []string {
	names := slices.Collect(maps.Keys(c.SupportTiers))
	sort.Slice(names, func(i, j int) bool {
		a, b := c.SupportTiers[names[i]], c.SupportTiers[names[j]]
		if cmp := a.AnnualPrice.Cmp(b.AnnualPrice); cmp != 0 {
			return cmp < 0
		}
		return names[i] < names[j]
	})
	return names
}

// CategoryNames returns project category labels sorted alphabetically.
func (c *Catalog) CategoryNames() []string {
	return slices.Sorted(maps.Keys(c.ProjectCategories))
}

// ProjectTypes returns every project type across categories.
func (c *Catalog) ProjectTypes() []string {
	var types []string
	for _, cat := range c.CategoryNames() {
		types = append(types, c.ProjectCategories[cat]...)
	}
	return types
}

// PackageNames returns automation package names ordered by year-1 cost.
func (c *Catalog) PackageNames() []string {
	names := slices.Collect(maps.Keys(c.AutomationPackages))
	sort.Slice(names, func(i, j int) bool {
		a, b := c.AutomationPackages[names[i]], c.AutomationPackages[names[j]]
		if cmp := a.Year1().Cmp(b.Year1()); cmp != 0 {
			return cmp < 0
		}
		return names[i] < names[j]
	})
	return names
}
