package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itbudget/internal/apperr"
)

func TestDefaults(t *testing.T) {
	c := Defaults()

	for _, key := range []string{"oracle", "microsoft", "hr_shared", "procurement_shared", "fleet"} {
		if _, ok := c.Sections[key]; !ok {
			t.Errorf("default section %q missing", key)
		}
	}
	if got := len(c.SupportTiers); got != 4 {
		t.Errorf("len(SupportTiers) = %d, want 4", got)
	}
	if got := len(c.AutomationPackages); got != 4 {
		t.Errorf("len(AutomationPackages) = %d, want 4", got)
	}

	svc, ok := c.Service("oracle", "ERP - Procurement")
	require.True(t, ok)
	assert.Equal(t, PerUserMonthly, svc.Model)
	assert.Equal(t, DepartmentIT, svc.Department)
	assert.True(t, svc.UnitPrice.Equal(decimal.NewFromInt(95)))

	// Every default project type carries a typical budget hint.
	for _, pt := range c.ProjectTypes() {
		r, ok := c.BudgetRanges[pt]
		if assert.True(t, ok, pt) {
			assert.True(t, r.Min.LessThan(r.Max), pt)
		}
	}

	fleet, ok := c.Service("fleet", "Fleet Tracking")
	require.True(t, ok)
	assert.Equal(t, "Operations", fleet.Department)
	assert.False(t, fleet.Model.Monthly())
}

func TestDefaultsReturnsIndependentCopies(t *testing.T) {
	a := Defaults()
	b := Defaults()

	delete(a.Sections["oracle"].Services, "ERP - Procurement")
	a.ProjectCategories["Digital Initiatives"][0] = "changed"

	if _, ok := b.Service("oracle", "ERP - Procurement"); !ok {
		t.Error("deleting from one Defaults() copy affected another")
	}
	if b.ProjectCategories["Digital Initiatives"][0] == "changed" {
		t.Error("category slices are shared between Defaults() copies")
	}

	c := a.Clone()
	delete(c.BudgetRanges, "IoT")
	if _, ok := a.BudgetRanges["IoT"]; !ok {
		t.Error("budget ranges are shared between clones")
	}
}

func TestAutomationPackageYear1(t *testing.T) {
	p := AutomationPackage{
		Discovery:         decimal.NewFromInt(1000),
		Build:             decimal.NewFromInt(200),
		ProjectManagement: decimal.NewFromInt(30),
		Infrastructure:    decimal.NewFromInt(4),
		Year2:             decimal.NewFromInt(500),
		Year3:             decimal.NewFromInt(600),
	}

	assert.True(t, p.Year1().Equal(decimal.NewFromInt(1234)), "Year1 = %s", p.Year1())
	assert.True(t, p.ThreeYearTotal().Equal(decimal.NewFromInt(2334)), "ThreeYearTotal = %s", p.ThreeYearTotal())

	bronze, ok := Defaults().AutomationPackage("Bronze (1 Credit)")
	require.True(t, ok)
	assert.True(t, bronze.Year1().Equal(decimal.NewFromInt(45540)), "bronze Year1 = %s", bronze.Year1())
}

func TestParsePricingModel(t *testing.T) {
	tests := []struct {
		in     string
		want   PricingModel
		wantOK bool
	}{
		{"per_user_monthly", PerUserMonthly, true},
		{"user/month", PerUserMonthly, true},
		{" Vehicle/Year ", PerVehicleAnnual, true},
		{"per_asset_annual", PerAssetAnnual, true},
		{"per_seat", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParsePricingModel(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParsePricingModel(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSupportTierAllowedFor(t *testing.T) {
	tiers := Defaults().SupportTiers
	platinum := tiers["Platinum Package"]
	bronze := tiers["Bronze Package"]

	tests := []struct {
		tier SupportTier
		dept string
		want bool
	}{
		{platinum, "IT", true},
		{platinum, "Supply Chain", true},
		{platinum, "Marketing", false},
		{platinum, "", true},
		{bronze, "Marketing", true},
	}
	for _, tt := range tests {
		if got := tt.tier.AllowedFor(tt.dept); got != tt.want {
			t.Errorf("%s.AllowedFor(%q) = %v, want %v", tt.tier.Name, tt.dept, got, tt.want)
		}
	}
}

func TestOrderedNames(t *testing.T) {
	c := Defaults()

	sections := c.OrderedSections()
	require.Len(t, sections, 5)
	assert.Equal(t, "oracle", sections[0].Key)
	assert.Equal(t, "fleet", sections[4].Key)

	assert.Equal(t, []string{"Bronze Package", "Silver Package", "Gold Package", "Platinum Package"}, c.TierNames())
	assert.Equal(t, "Bronze (1 Credit)", c.PackageNames()[0])
	assert.Equal(t, "Platinum (10 Credits)", c.PackageNames()[3])
	assert.Equal(t, []string{"AI, ML & LLM Initiatives", "Digital Initiatives", "Network & Infrastructure"}, c.CategoryNames())
	assert.Contains(t, c.ProjectTypes(), "Automation / RPA")
}

func TestStoreCopiesDefaults(t *testing.T) {
	defaults := Defaults()
	s := NewStore(defaults)

	delete(defaults.Sections["oracle"].Services, "HCM - Payroll")
	if _, ok := s.Service("oracle", "HCM - Payroll"); !ok {
		t.Error("mutating the caller's defaults changed the store")
	}

	services, err := s.Services("oracle")
	require.NoError(t, err)
	delete(services, "HCM - Core HR")
	if _, ok := s.Service("oracle", "HCM - Core HR"); !ok {
		t.Error("mutating a Services() result changed the store")
	}

	snap := s.Snapshot()
	snap.SupportTiers["Gold Package"] = SupportTier{Name: "Gold Package"}
	tier, _ := s.SupportTier("Gold Package")
	if !tier.AnnualPrice.Equal(decimal.NewFromInt(300000)) {
		t.Error("mutating a Snapshot() changed the store")
	}
}

func TestStoreServicesUnknownSection(t *testing.T) {
	s := NewDefaultStore()
	_, err := s.Services("sap")
	if !apperr.IsType(err, apperr.TypeNotFound) {
		t.Errorf("Services(sap) error = %v, want NOT_FOUND", err)
	}
}

func TestStoreUpdateVersion(t *testing.T) {
	s := NewDefaultStore()
	if s.Version() != 0 {
		t.Fatalf("initial version = %d", s.Version())
	}

	boom := errors.New("boom")
	err := s.Update(func(c *Catalog) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("Update error = %v, want boom", err)
	}
	if s.Version() != 0 {
		t.Errorf("failed Update bumped version to %d", s.Version())
	}

	err = s.Update(func(c *Catalog) error {
		delete(c.SupportTiers, "Bronze Package")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), s.Version())
	_, ok := s.SupportTier("Bronze Package")
	assert.False(t, ok)
}

func TestStoreReset(t *testing.T) {
	s := NewDefaultStore()
	require.NoError(t, s.Update(func(c *Catalog) error {
		delete(c.Sections, "fleet")
		c.AutomationPackages["Bronze (1 Credit)"] = AutomationPackage{Name: "Bronze (1 Credit)"}
		return nil
	}))

	s.Reset()

	_, err := s.Services("fleet")
	assert.NoError(t, err)
	p, _ := s.AutomationPackage("Bronze (1 Credit)")
	assert.True(t, p.Year1().Equal(decimal.NewFromInt(45540)))
	assert.Equal(t, uint64(2), s.Version())

	// A second round of edits must not leak into the saved defaults.
	require.NoError(t, s.Update(func(c *Catalog) error {
		delete(c.Sections, "oracle")
		return nil
	}))
	s.Reset()
	_, err = s.Services("oracle")
	assert.NoError(t, err)
}

const overlayYAML = `
sections:
  - key: oracle
    services:
      - name: ERP - Procurement
        unit_price: 99.5
        setup_cost: 9000
        pricing_model: user/month
  - key: finance_shared
    title: Finance Shared Services
    department: Finance
    services:
      - name: Accounts Payable
        unit_price: 12
        pricing_model: per_transaction_annual
support_tiers:
  - name: Diamond Package
    annual_price: 600000
    standard_requests: 9000
    departments: [IT]
project_categories:
  Security:
    - SOC Onboarding
budget_ranges:
  SOC Onboarding:
    min: 40000
    max: 90000
automation_packages:
  - name: Starter
    discovery: 1000
    project_management: 100
    infrastructure: 50
companies:
  - code: PS
    name: Power Systems Co.
  - code: NEW
    name: New Entity
`

func TestLoadAndApplyOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(overlayYAML), 0o644))

	o, err := LoadOverlay(path)
	require.NoError(t, err)

	c := Defaults()
	require.NoError(t, c.ApplyOverlay(o))

	svc, ok := c.Service("oracle", "ERP - Procurement")
	require.True(t, ok)
	assert.True(t, svc.UnitPrice.Equal(decimal.NewFromFloat(99.5)))
	assert.Equal(t, "Oracle Fusion Licensing", c.Sections["oracle"].Title)

	ap, ok := c.Service("finance_shared", "Accounts Payable")
	require.True(t, ok)
	assert.Equal(t, "Finance", ap.Department)
	assert.Equal(t, PerTransactionAnnual, ap.Model)
	assert.Equal(t, "finance_shared", c.OrderedSections()[5].Key)

	assert.Equal(t, []string{"IT"}, c.SupportTiers["Diamond Package"].Departments)
	assert.Equal(t, []string{"SOC Onboarding"}, c.ProjectCategories["Security"])
	assert.Equal(t, "90000", c.BudgetRanges["SOC Onboarding"].Max.String())
	assert.Equal(t, "50000", c.BudgetRanges["Automation / RPA"].Min.String(), "defaults kept")
	assert.True(t, c.AutomationPackages["Starter"].Year1().Equal(decimal.NewFromInt(1150)))

	require.Len(t, c.Companies, 4)
	assert.Equal(t, "Power Systems Co.", c.Companies[2].Name)
	assert.Equal(t, "NEW", c.Companies[3].Code)
}

func TestApplyOverlayValidation(t *testing.T) {
	tests := []struct {
		name    string
		overlay Overlay
	}{
		{"empty section key", Overlay{Sections: []OverlaySection{{Title: "x"}}}},
		{"new section without department", Overlay{Sections: []OverlaySection{{Key: "sap"}}}},
		{"unknown pricing model", Overlay{Sections: []OverlaySection{{Key: "oracle", Services: []OverlayService{{Name: "X", PricingModel: "per_seat"}}}}}},
		{"negative price", Overlay{Sections: []OverlaySection{{Key: "oracle", Services: []OverlayService{{Name: "X", UnitPrice: decimal.NewFromInt(-1), PricingModel: "user/month"}}}}}},
		{"negative tier price", Overlay{SupportTiers: []OverlayTier{{Name: "T", AnnualPrice: decimal.NewFromInt(-5)}}}},
		{"negative package cost", Overlay{AutomationPackages: []OverlayPackage{{Name: "P", Year3: decimal.NewFromInt(-1)}}}},
		{"inverted budget range", Overlay{BudgetRanges: map[string]OverlayRange{"IoT": {Min: decimal.NewFromInt(10), Max: decimal.NewFromInt(5)}}}},
		{"negative entitlement", Overlay{SupportTiers: []OverlayTier{{Name: "T", ImprovementHours: -2}}}},
		{"empty company code", Overlay{Companies: []OverlayCompany{{Name: "x"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			before := len(c.Sections)
			err := c.ApplyOverlay(&tt.overlay)
			if !apperr.IsType(err, apperr.TypeInvalidInput) {
				t.Fatalf("ApplyOverlay error = %v, want INVALID_INPUT", err)
			}
			if len(c.Sections) != before {
				t.Error("rejected overlay modified the catalog")
			}
		})
	}
}

func TestLoadOverlayKeepsExactAmounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	yml := `
support_tiers:
  - name: Enterprise
    annual_price: 12345678901234567.89
automation_packages:
  - name: Precise
    discovery: "0.1"
    build: 0.2
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	o, err := LoadOverlay(path)
	require.NoError(t, err)
	c := Defaults()
	require.NoError(t, c.ApplyOverlay(o))

	assert.Equal(t, "12345678901234567.89", c.SupportTiers["Enterprise"].AnnualPrice.String())
	assert.Equal(t, "0.3", c.AutomationPackages["Precise"].Year1().String())
}

func TestLoadOverlayErrors(t *testing.T) {
	_, err := LoadOverlay(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sections: [unterminated"), 0o644))
	_, err = LoadOverlay(path)
	assert.True(t, apperr.IsType(err, apperr.TypeInvalidInput), "err = %v", err)
}
