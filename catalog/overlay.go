package catalog

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"itbudget/internal/apperr"
)

// Overlay is the YAML shape used to add or replace catalog entries at startup.
type Overlay struct {
	Sections           []OverlaySection        `yaml:"sections"`
	SupportTiers       []OverlayTier           `yaml:"support_tiers"`
	ProjectCategories  map[string][]string     `yaml:"project_categories"`
	BudgetRanges       map[string]OverlayRange `yaml:"budget_ranges"`
	AutomationPackages []OverlayPackage        `yaml:"automation_packages"`
	Companies          []OverlayCompany        `yaml:"companies"`
}

// OverlayRange sets the typical budget hint for a project type.
type OverlayRange struct {
	Min decimal.Decimal `yaml:"min"`
	Max decimal.Decimal `yaml:"max"`
}

type OverlaySection struct {
	Key        string           `yaml:"key"`
	Title      string           `yaml:"title"`
	Department string           `yaml:"department"`
	Services   []OverlayService `yaml:"services"`
}

type OverlayService struct {
	Name         string          `yaml:"name"`
	Description  string          `yaml:"description"`
	UnitPrice    decimal.Decimal `yaml:"unit_price"`
	SetupCost    decimal.Decimal `yaml:"setup_cost"`
	PricingModel string          `yaml:"pricing_model"`
}

type OverlayTier struct {
	Name             string          `yaml:"name"`
	AnnualPrice      decimal.Decimal `yaml:"annual_price"`
	Description      string          `yaml:"description"`
	Departments      []string        `yaml:"departments"`
	StandardRequests int             `yaml:"standard_requests"`
	PriorityRequests int             `yaml:"priority_requests"`
	PremiumRequests  int             `yaml:"premium_requests"`
	ImprovementHours int             `yaml:"improvement_hours"`
	TrainingRequests int             `yaml:"training_requests"`
	ReportRequests   int             `yaml:"report_requests"`
}

type OverlayPackage struct {
	Name                   string          `yaml:"name"`
	Discovery              decimal.Decimal `yaml:"discovery"`
	Build                  decimal.Decimal `yaml:"build"`
	ProjectManagement      decimal.Decimal `yaml:"project_management"`
	Infrastructure         decimal.Decimal `yaml:"infrastructure"`
	Year2                  decimal.Decimal `yaml:"year2"`
	Year3                  decimal.Decimal `yaml:"year3"`
	ProcessCoverage        string          `yaml:"process_coverage"`
	ImplementationCoverage string          `yaml:"implementation_coverage"`
}

type OverlayCompany struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// LoadOverlay reads and decodes a YAML overlay file.
func LoadOverlay(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog overlay: %w", err)
	}
	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, apperr.Wrap(apperr.TypeInvalidInput, "decode catalog overlay", err)
	}
	return &o, nil
}

// ApplyOverlay merges o into c. Entries with an existing name are replaced.
// The overlay is validated in full before c is modified.
func (c *Catalog) ApplyOverlay(o *Overlay) error {
	if err := o.validate(c); err != nil {
		return err
	}

	for _, sec := range o.Sections {
		section, ok := c.Sections[sec.Key]
		if !ok {
			section = Section{Key: sec.Key, Order: len(c.Sections), Services: make(map[string]PricedService)}
		}
		if sec.Title != "" {
			section.Title = sec.Title
		}
		if sec.Department != "" {
			section.Department = sec.Department
		}
		for _, svc := range sec.Services {
			model, _ := ParsePricingModel(svc.PricingModel)
			section.Services[svc.Name] = PricedService{
				Name:        svc.Name,
				Description: svc.Description,
				UnitPrice:   svc.UnitPrice,
				SetupCost:   svc.SetupCost,
				Model:       model,
				Department:  section.Department,
			}
		}
		c.Sections[sec.Key] = section
	}

	for _, t := range o.SupportTiers {
		c.SupportTiers[t.Name] = SupportTier{
			Name:        t.Name,
			AnnualPrice: t.AnnualPrice,
			Description: t.Description,
			Departments: append([]string(nil), t.Departments...),
			Entitlements: Entitlements{
				StandardRequests: t.StandardRequests,
				PriorityRequests: t.PriorityRequests,
				PremiumRequests:  t.PremiumRequests,
				ImprovementHours: t.ImprovementHours,
				TrainingRequests: t.TrainingRequests,
				ReportRequests:   t.ReportRequests,
			},
		}
	}

	for name, types := range o.ProjectCategories {
		c.ProjectCategories[name] = append([]string(nil), types...)
	}

	if c.BudgetRanges == nil {
		c.BudgetRanges = make(map[string]BudgetRange, len(o.BudgetRanges))
	}
	for projectType, r := range o.BudgetRanges {
		c.BudgetRanges[projectType] = BudgetRange{Min: r.Min, Max: r.Max}
	}

	for _, p := range o.AutomationPackages {
		c.AutomationPackages[p.Name] = AutomationPackage{
			Name:                   p.Name,
			Discovery:              p.Discovery,
			Build:                  p.Build,
			ProjectManagement:      p.ProjectManagement,
			Infrastructure:         p.Infrastructure,
			Year2:                  p.Year2,
			Year3:                  p.Year3,
			ProcessCoverage:        p.ProcessCoverage,
			ImplementationCoverage: p.ImplementationCoverage,
		}
	}

	for _, co := range o.Companies {
		replaced := false
		for i := range c.Companies {
			if c.Companies[i].Code == co.Code {
				c.Companies[i].Name = co.Name
				replaced = true
			}
		}
		if !replaced {
			c.Companies = append(c.Companies, Company{Code: co.Code, Name: co.Name})
		}
	}
	return nil
}

func (o *Overlay) validate(c *Catalog) error {
	for _, s := range o.Sections {
		if s.Key == "" {
			return apperr.InvalidInput("sections.key", "must not be empty")
		}
		if _, exists := c.Sections[s.Key]; !exists && s.Department == "" {
			return apperr.InvalidInput("sections."+s.Key+".department", "required for a new section")
		}
		for _, svc := range s.Services {
			field := "sections." + s.Key + ".services." + svc.Name
			if svc.Name == "" {
				return apperr.InvalidInput("sections."+s.Key+".services.name", "must not be empty")
			}
			if _, ok := ParsePricingModel(svc.PricingModel); !ok {
				return apperr.InvalidInput(field+".pricing_model", fmt.Sprintf("unknown pricing model %q", svc.PricingModel))
			}
			if svc.UnitPrice.IsNegative() || svc.SetupCost.IsNegative() {
				return apperr.InvalidInput(field, "prices must not be negative")
			}
		}
	}
	for _, t := range o.SupportTiers {
		if t.Name == "" {
			return apperr.InvalidInput("support_tiers.name", "must not be empty")
		}
		if t.AnnualPrice.IsNegative() {
			return apperr.InvalidInput("support_tiers."+t.Name+".annual_price", "must not be negative")
		}
		for _, n := range []int{t.StandardRequests, t.PriorityRequests, t.PremiumRequests,
			t.ImprovementHours, t.TrainingRequests, t.ReportRequests} {
			if n < 0 {
				return apperr.InvalidInput("support_tiers."+t.Name, "entitlements must not be negative")
			}
		}
	}
	for projectType, r := range o.BudgetRanges {
		if r.Min.IsNegative() || r.Max.LessThan(r.Min) {
			return apperr.InvalidInput("budget_ranges."+projectType, "needs 0 <= min <= max")
		}
	}
	for _, p := range o.AutomationPackages {
		if p.Name == "" {
			return apperr.InvalidInput("automation_packages.name", "must not be empty")
		}
		for _, v := range []decimal.Decimal{p.Discovery, p.Build, p.ProjectManagement, p.Infrastructure, p.Year2, p.Year3} {
			if v.IsNegative() {
				return apperr.InvalidInput("automation_packages."+p.Name, "costs must not be negative")
			}
		}
	}
	for _, co := range o.Companies {
		if co.Code == "" {
			return apperr.InvalidInput("companies.code", "must not be empty")
		}
	}
	return nil
}
