// Package selection holds one questionnaire session's choices: included
// services, custom services, the support tier, implementation projects and
// the requesting company's details.
package selection

import (
	"regexp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"itbudget/catalog"
)

// Timeline is when an implementation project is expected to be billed.
type Timeline string

const (
	TimelineQ1           Timeline = "Q1 2025"
	TimelineQ2           Timeline = "Q2 2025"
	TimelineQ3           Timeline = "Q3 2025"
	TimelineQ4           Timeline = "Q4 2025"
	TimelineMultiQuarter Timeline = "Multi-quarter"
	TimelineMultiYear    Timeline = "2+ years"
)

var Timelines = []Timeline{TimelineQ1, TimelineQ2, TimelineQ3, TimelineQ4, TimelineMultiQuarter, TimelineMultiYear}

// QuarterEndMonth returns the zero-based index of the quarter's last month
// (Q1 -> 2, Q4 -> 11). ok is false for multi-period or unknown timelines.
func (t Timeline) QuarterEndMonth() (int, bool) {
	switch t {
	case TimelineQ1:
		return 2, true
	case TimelineQ2:
		return 5, true
	case TimelineQ3:
		return 8, true
	case TimelineQ4:
		return 11, true
	}
	return 0, false
}

type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// ServiceSelection is an included catalog service. Excluded services are
// never stored.
type ServiceSelection struct {
	Key               string `json:"key"`
	Section           string `json:"section"`
	Service           string `json:"service"`
	Quantity          int    `json:"quantity"`
	NewImplementation bool   `json:"new_implementation"`
}

// CustomService is an ad-hoc service priced by the requester.
type CustomService struct {
	Key               string               `json:"key"`
	Name              string               `json:"name"`
	Description       string               `json:"description"`
	Model             catalog.PricingModel `json:"pricing_model"`
	UnitPrice         decimal.Decimal      `json:"unit_price"`
	SetupCost         decimal.Decimal      `json:"setup_cost"`
	Quantity          int                  `json:"quantity"`
	NewImplementation bool                 `json:"new_implementation"`
}

// SupportSelection is the chosen tier plus extra request counts.
type SupportSelection struct {
	Tier          string `json:"tier"`
	ExtraSupport  int    `json:"extra_support"`
	ExtraTraining int    `json:"extra_training"`
	ExtraReports  int    `json:"extra_reports"`
}

// ProjectSelection is a requested implementation project. When
// AutomationPackage is set, Budget is ignored in favour of the package's
// year-1 cost.
type ProjectSelection struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	ProjectType       string          `json:"project_type"`
	Budget            decimal.Decimal `json:"budget"`
	Timeline          Timeline        `json:"timeline"`
	Priority          Priority        `json:"priority"`
	Departments       []string        `json:"departments"`
	AutomationPackage string          `json:"automation_package,omitempty"`
	Description       string          `json:"description"`
}

// CompanyInfo identifies who is submitting the questionnaire.
type CompanyInfo struct {
	CompanyCode  string            `json:"company_code"`
	CompanyName  string            `json:"company_name"`
	Department   string            `json:"department"`
	ContactName  string            `json:"contact_name"`
	ContactEmail string            `json:"contact_email"`
	BusinessUnit string            `json:"business_unit"`
	Automation   CurrentAutomation `json:"current_automation"`
}

// CurrentAutomation describes the RPA package the company runs today. It is
// context for reviewers and carries no cost.
type CurrentAutomation struct {
	Package     string `json:"package"`
	Utilization int    `json:"utilization_pct"`
	Processes   string `json:"processes"`
}

// Snapshot is an immutable copy of a session's selections.
type Snapshot struct {
	SessionID      string             `json:"session_id"`
	Company        CompanyInfo        `json:"company"`
	Services       []ServiceSelection `json:"services"`
	CustomServices []CustomService    `json:"custom_services"`
	Support        SupportSelection   `json:"support"`
	Projects       []ProjectSelection `json:"projects"`
}

// Empty reports whether nothing at all has been selected.
func (s Snapshot) Empty() bool {
	return len(s.Services) == 0 && len(s.CustomServices) == 0 &&
		len(s.Projects) == 0 && s.Support == (SupportSelection{})
}

// Import is the result of parsing an uploaded questionnaire workbook.
type Import struct {
	Company        CompanyInfo
	Services       []ServiceSelection
	CustomServices []CustomService
	Support        SupportSelection
	Projects       []ProjectSelection
}

// Empty reports whether the workbook carried no selections. Company details
// alone do not count.
func (im *Import) Empty() bool {
	return len(im.Services) == 0 && len(im.CustomServices) == 0 &&
		len(im.Projects) == 0 && im.Support == (SupportSelection{})
}

var nonKeyChars = regexp.MustCompile(`[^a-z0-9]+`)

// ServiceKey builds the synthetic selection key for a catalog service,
// e.g. ("oracle", "ERP - Procurement") -> "oracle_erp_procurement".
func ServiceKey(section, name string) string {
	slug := strings.Trim(nonKeyChars.ReplaceAllString(strings.ToLower(name), "_"), "_")
	return section + "_" + slug
}

func cloneProject(p ProjectSelection) ProjectSelection {
	p.Departments = slices.Clone(p.Departments)
	return p
}
