package catalog

import "github.com/shopspring/decimal"

// Prices are in SAR.

type serviceSeed struct {
	name        string
	description string
	unitPrice   int64
	setupCost   int64
	model       PricingModel
}

type sectionSeed struct {
	key        string
	title      string
	department string
	services   []serviceSeed
}

var defaultSections = []sectionSeed{
	{
		key:        "oracle",
		title:      "Oracle Fusion Licensing",
		department: DepartmentIT,
		services: []serviceSeed{
			{"Oracle Demand Management", "Provides comprehensive capabilities to predict demand using advanced algorithms, enabling better forecasting and inventory management.", 45, 5000, PerUserMonthly},
			{"ERP - Financial & PPM", "Supports financial management including accounting, project portfolio management, and real-time financial reporting.", 180, 15000, PerUserMonthly},
			{"HCM - Learning Management", "Facilitates the creation, delivery, and management of learning programs for employees, tracking progress and compliance.", 25, 8000, PerUserMonthly},
			{"ERP - Order Management", "Manages order processing from creation to fulfillment with integrated workflows.", 120, 12000, PerUserMonthly},
			{"ERP - Procurement", "Manages the full procurement process, from supplier engagement to purchase orders and supplier performance tracking.", 95, 10000, PerUserMonthly},
			{"ERP - Purchase Requisition", "Allows employees to create and submit purchase requests for approval, with seamless integration into procurement processes.", 35, 3000, PerUserMonthly},
			{"ERP - Product Management", "Comprehensive product lifecycle management with inventory and catalog features.", 85, 7000, PerUserMonthly},
			{"ERP - Inventory, Maintenance, and Costing", "Integrates the management of inventory, maintenance, and cost tracking for efficient operational workflows.", 110, 12000, PerUserMonthly},
			{"ERP Supply Planning", "Optimizes supply chain planning with advanced algorithms to align inventory and supply with demand forecasts.", 75, 8000, PerUserMonthly},
			{"HCM - Talent Management", "Manages the entire talent lifecycle including recruitment, development, performance evaluation, and succession planning.", 65, 10000, PerUserMonthly},
			{"HCM - Core HR", "Centralized management of employee data, organizational structures, and HR processes.", 55, 8000, PerUserMonthly},
			{"HCM - Payroll", "Processes payroll efficiently and accurately, integrating with HR functions like time tracking, benefits, and taxation.", 40, 6000, PerUserMonthly},
			{"ERP - Self Service", "Enables employees and managers to manage expense reports, purchase requisitions, and time entry themselves.", 25, 2000, PerUserMonthly},
			{"ERP - Planning & Budgeting", "Plan and manage budgets with advanced forecasting and scenario analysis tools.", 90, 9000, PerUserMonthly},
		},
	},
	{
		key:        "microsoft",
		title:      "Microsoft Software & Subscriptions",
		department: DepartmentIT,
		services: []serviceSeed{
			{"Exchange Online (Plan 1)", "Business-class email with 50 GB mailbox and Outlook support for web, desktop, and mobile devices.", 18, 1000, PerUserMonthly},
			{"Enterprise Mobility + Security E3", "Identity and access management, device protection, and security analytics.", 32, 2000, PerUserMonthly},
			{"Office 365 E3 Original", "Core productivity suite with Word, Excel, PowerPoint, and Teams, along with cloud services.", 82, 3000, PerUserMonthly},
			{"Office 365 E3 Unified", "Unified version of Office 365 E3 offering collaboration tools and additional enterprise services.", 90, 3000, PerUserMonthly},
			{"Microsoft Teams Phone Standard", "Calling within Microsoft Teams, including PSTN calling and audio conferencing.", 28, 1500, PerUserMonthly},
			{"Project Plan 3", "Project management with planning, resource management, and collaboration.", 120, 2000, PerUserMonthly},
			{"Project Plan 5", "Advanced project management with portfolio management, resource optimization, and scheduling.", 210, 3000, PerUserMonthly},
			{"Visio Plan 2", "Diagramming for professional diagrams, flowcharts, and organizational charts.", 56, 1000, PerUserMonthly},
			{"M365 Copilot Sub Add-on", "AI assistance for tasks and workflows within Microsoft 365.", 112, 2500, PerUserMonthly},
			{"Power BI Pro Per User", "Self-service business intelligence tools and report sharing.", 38, 1500, PerUserMonthly},
			{"Power BI Premium Per User", "Advanced analytics features and larger dataset capacity.", 75, 2500, PerUserMonthly},
			{"Microsoft 365 F1", "Entry-level Microsoft 365 plan with core productivity tools for frontline workers.", 15, 800, PerUserMonthly},
		},
	},
	{
		key:        "hr_shared",
		title:      "HR Shared Services",
		department: "HR",
		services: []serviceSeed{
			{"Payroll Processing", "Monthly payroll run, payslips and statutory reporting handled by the shared-services center.", 420, 15000, PerEmployeeAnnual},
			{"Recruitment Administration", "Job posting, candidate screening coordination and offer letter preparation.", 260, 5000, PerEmployeeAnnual},
			{"Government Relations", "Visa, iqama and labor office transactions processed on behalf of the entity.", 350, 0, PerTransactionAnnual},
		},
	},
	{
		key:        "procurement_shared",
		title:      "Procurement Shared Services",
		department: "Procurement",
		services: []serviceSeed{
			{"Purchase Order Processing", "Sourcing, PO issuance and supplier follow-up per processed purchase order.", 85, 0, PerTransactionAnnual},
			{"Supplier Onboarding", "Supplier qualification, documentation checks and vendor master setup.", 600, 2000, PerTransactionAnnual},
			{"Contract Management", "Drafting, renewal tracking and compliance review of supplier contracts.", 1200, 5000, PerUnitAnnual},
		},
	},
	{
		key:        "fleet",
		title:      "Fleet & Asset Services",
		department: "Operations",
		services: []serviceSeed{
			{"Fleet Tracking", "GPS tracking, fuel monitoring and driver behaviour reporting per vehicle.", 900, 1500, PerVehicleAnnual},
			{"Fleet Maintenance Coordination", "Scheduled maintenance planning and workshop coordination per vehicle.", 1800, 0, PerVehicleAnnual},
			{"Asset Tagging & Audit", "Fixed asset tagging, annual physical verification and register reconciliation.", 45, 10000, PerAssetAnnual},
		},
	},
}

type tierSeed struct {
	name        string
	annual      int64
	ent         Entitlements
	description string
	departments []string
}

var defaultTiers = []tierSeed{
	{"Bronze Package", 96000, Entitlements{StandardRequests: 600, TrainingRequests: 2, ReportRequests: 2},
		"Business hours help desk, 8 hour response time, up to 50 tickets per month.", nil},
	{"Silver Package", 180000, Entitlements{StandardRequests: 1200, PriorityRequests: 120, ImprovementHours: 40, TrainingRequests: 4, ReportRequests: 4},
		"Business hours help desk and application support, 4 hour response time, up to 100 tickets per month.", nil},
	{"Gold Package", 300000, Entitlements{StandardRequests: 2400, PriorityRequests: 240, PremiumRequests: 60, ImprovementHours: 120, TrainingRequests: 8, ReportRequests: 8},
		"24x7 support with a dedicated account manager, 2 hour response time, up to 200 tickets per month.", nil},
	{"Platinum Package", 480000, Entitlements{StandardRequests: 6000, PriorityRequests: 600, PremiumRequests: 180, ImprovementHours: 300, TrainingRequests: 12, ReportRequests: 12},
		"24x7 support with a dedicated account manager, 1 hour response time, up to 500 tickets per month.",
		[]string{"IT", "Operations", "Finance", "Supply Chain"}},
}

type packageSeed struct {
	name           string
	discovery      int64
	build          int64
	pm             int64
	infrastructure int64
	year2, year3   int64
	processes      string
	implementation string
}

var defaultPackages = []packageSeed{
	{"Bronze (1 Credit)", 33110, 0, 3080, 9350, 10098, 10906, "Covers up to 2 processes", "Covers 1 process"},
	{"Silver (3 Credits)", 94364, 0, 8778, 57310, 30294, 32718, "Covers up to 5 processes", "Covers up to 3 processes"},
	{"Gold (5 Credits)", 148995, 0, 13860, 92950, 50490, 54529, "Covers up to 10 processes", "Covers up to 5 processes"},
	{"Platinum (10 Credits)", 281435, 0, 26180, 180766, 100980, 109058, "Covers up to 20 processes", "Covers up to 10 processes"},
}

var defaultCategories = map[string][]string{
	"Digital Initiatives": {
		"Automation / RPA",
		"IoT",
		"eCommerce",
		"Data Analytics & BI",
		"Customer Experience & Digital Channels",
		"Custom System & App Development",
		"SharePoint Development",
	},
	"AI, ML & LLM Initiatives": {
		"AI Use Cases",
		"Predictive Analytics",
		"Large Language Models (LLM)",
		"General AI Exploration",
	},
	"Network & Infrastructure": {
		"Existing Branch Infrastructure Expansion",
		"New Branch Infrastructure Implementation",
		"Enterprise Telephony Expansion",
	},
}

// defaultBudgetRanges are the typical SAR spends per project type.
var defaultBudgetRanges = map[string][2]int64{
	"Automation / RPA":                         {50000, 200000},
	"IoT":                                      {75000, 300000},
	"eCommerce":                                {100000, 500000},
	"Data Analytics & BI":                      {80000, 250000},
	"Customer Experience & Digital Channels":   {120000, 400000},
	"Custom System & App Development":          {100000, 600000},
	"SharePoint Development":                   {30000, 150000},
	"AI Use Cases":                             {75000, 400000},
	"Predictive Analytics":                     {60000, 250000},
	"Large Language Models (LLM)":              {40000, 200000},
	"General AI Exploration":                   {25000, 100000},
	"Existing Branch Infrastructure Expansion": {20000, 100000},
	"New Branch Infrastructure Implementation": {50000, 300000},
	"Enterprise Telephony Expansion":           {15000, 75000},
}

var defaultCompanies = []Company{
	{Code: "AIC", Name: "AIC & Power Systems"},
	{Code: "ACC", Name: "ACC Power Systems"},
	{Code: "PS", Name: "Power Systems"},
}

// Defaults builds a fresh copy of the compiled-in catalog.
func Defaults() *Catalog {
	c := &Catalog{
		Sections:           make(map[string]Section, len(defaultSections)),
		SupportTiers:       make(map[string]SupportTier, len(defaultTiers)),
		ProjectCategories:  make(map[string][]string, len(defaultCategories)),
		BudgetRanges:       make(map[string]BudgetRange, len(defaultBudgetRanges)),
		AutomationPackages: make(map[string]AutomationPackage, len(defaultPackages)),
		Companies:          append([]Company(nil), defaultCompanies...),
	}

	for i, seed := range defaultSections {
		section := Section{
			Key:        seed.key,
			Title:      seed.title,
			Department: seed.department,
			Order:      i,
			Services:   make(map[string]PricedService, len(seed.services)),
		}
		for _, s := range seed.services {
			section.Services[s.name] = PricedService{
				Name:        s.name,
				Description: s.description,
				UnitPrice:   decimal.NewFromInt(s.unitPrice),
				SetupCost:   decimal.NewFromInt(s.setupCost),
				Model:       s.model,
				Department:  seed.department,
			}
		}
		c.Sections[seed.key] = section
	}

	for _, t := range defaultTiers {
		c.SupportTiers[t.name] = SupportTier{
			Name:         t.name,
			AnnualPrice:  decimal.NewFromInt(t.annual),
			Entitlements: t.ent,
			Description:  t.description,
			Departments:  append([]string(nil), t.departments...),
		}
	}

	for _, p := range defaultPackages {
		c.AutomationPackages[p.name] = AutomationPackage{
			Name:                   p.name,
			Discovery:              decimal.NewFromInt(p.discovery),
			Build:                  decimal.NewFromInt(p.build),
			ProjectManagement:      decimal.NewFromInt(p.pm),
			Infrastructure:         decimal.NewFromInt(p.infrastructure),
			Year2:                  decimal.NewFromInt(p.year2),
			Year3:                  decimal.NewFromInt(p.year3),
			ProcessCoverage:        p.processes,
			ImplementationCoverage: p.implementation,
		}
	}

	for name, types := range defaultCategories {
		c.ProjectCategories[name] = append([]string(nil), types...)
	}
	for projectType, r := range defaultBudgetRanges {
		c.BudgetRanges[projectType] = BudgetRange{Min: decimal.NewFromInt(r[0]), Max: decimal.NewFromInt(r[1])}
	}

	return c
}
