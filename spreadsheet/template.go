package spreadsheet

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"itbudget/budget"
	"itbudget/catalog"
	"itbudget/selection"
)

// lists holds the Lists sheet references feeding the template dropdowns.
type lists struct {
	companies, departments, services, models, yesNo string
	tiers, categories, projectTypes, timelines     string
	priorities, packages, currentPackages          string
}

// GenerateTemplate builds the questionnaire workbook for cat. Operational
// rows are pre-filled with the catalog's services; every selection cell is
// left blank so an untouched template imports as no selections.
func GenerateTemplate(cat *catalog.Catalog) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetInstructions); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	for _, name := range []string{SheetOperational, SheetCustom, SheetSupport, SheetProjects, SheetLists} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	l := writeLists(f, cat)

	steps := []struct {
		name string
		fn   func() error
	}{
		{"instructions", func() error { return writeInstructions(f, st, l, cat) }},
		{"operational services", func() error { return writeOperational(f, st, l, cat) }},
		{"custom services", func() error { return writeCustom(f, st, l) }},
		{"support package", func() error { return writeSupport(f, st, l, cat) }},
		{"implementation projects", func() error { return writeProjects(f, st, l) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return nil, fmt.Errorf("write %s sheet: %w", step.name, err)
		}
	}

	if err := f.SetSheetVisible(SheetLists, false); err != nil {
		return nil, fmt.Errorf("hide lists sheet: %w", err)
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

func writeLists(f *excelize.File, cat *catalog.Catalog) lists {
	var codes []string
	for _, c := range cat.Companies {
		codes = append(codes, c.Code)
	}
	var models []string
	for _, m := range catalog.PricingModels {
		models = append(models, m.UnitLabel())
	}
	var timelines []string
	for _, t := range selection.Timelines {
		timelines = append(timelines, string(t))
	}
	var priorities []string
	for _, p := range selection.Priorities {
		priorities = append(priorities, string(p))
	}

	col := 0
	add := func(header string, values []string) string {
		defer func() { col++ }()
		f.SetCellValue(SheetLists, cellName(col, 1), header)
		for i, v := range values {
			f.SetCellValue(SheetLists, cellName(col, i+2), sanitizeExcelCell(v))
		}
		if len(values) == 0 {
			return ""
		}
		c := colName(col)
		return fmt.Sprintf("'%s'!$%s$2:$%s$%d", SheetLists, c, c, len(values)+1)
	}

	return lists{
		companies:    add("Company Codes", codes),
		departments:  add("Departments", catalog.Departments),
		services:     add("Services", cat.ServiceNames()),
		models:       add("Pricing Models", models),
		yesNo:        add("Y/N", []string{"Y", "N"}),
		tiers:        add("Support Tiers", cat.TierNames()),
		categories:   add("Project Categories", cat.CategoryNames()),
		projectTypes: add("Project Types", cat.ProjectTypes()),
		timelines:    add("Timelines", timelines),
		priorities:   add("Priorities", priorities),
		packages:     add("Automation Packages", cat.PackageNames()),
		currentPackages: add("Current RPA Package",
			append([]string{noPackage}, cat.PackageNames()...)),
	}
}

// addDropdown attaches a list validation to sqref. An empty list is skipped.
// No error alert is set, so the list suggests values without rejecting
// free text.
func addDropdown(f *excelize.File, sheet, sqref, listRef string) error {
	if listRef == "" {
		return nil
	}
	dv := excelize.NewDataValidation(true)
	dv.Sqref = sqref
	dv.SetSqrefDropList(listRef)
	return f.AddDataValidation(sheet, dv)
}

func writeHeaderRow(f *excelize.File, st *styles, sheet string, headers []string, widths []float64) error {
	for i, h := range headers {
		cell := cellName(i, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, st.header); err != nil {
			return err
		}
		if i < len(widths) {
			if err := f.SetColWidth(sheet, colName(i), colName(i), widths[i]); err != nil {
				return err
			}
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

var instructionLines = []string{
	"1. Fill in your company information below (yellow cells).",
	"2. On '2. Operational Services' mark Include = Y and enter a quantity for each service you need. Set New Implementation = Y to add the one-time setup cost.",
	"3. Add services that are not in the catalog on '3. Custom Services'.",
	"4. Choose a support tier and any extra requests on '4. Support Package'.",
	"5. List implementation projects on '5. Implementation Projects'. Choosing an automation package replaces the typed budget with the package's year-1 cost.",
	"Do not rename sheets or move columns; the upload reads cells by position.",
}

func writeInstructions(f *excelize.File, st *styles, l lists, cat *catalog.Catalog) error {
	sheet := SheetInstructions
	f.SetCellValue(sheet, "A1", "IT & Shared Services Budget Questionnaire")
	f.SetCellStyle(sheet, "A1", "A1", st.title)
	for i, line := range instructionLines {
		f.SetCellValue(sheet, cellName(0, i+3), line)
	}

	f.SetCellValue(sheet, "A10", "Company Information")
	f.SetCellStyle(sheet, "A10", "B10", st.section)

	labels := map[int]string{
		rowCompanyCode:  "Company Code",
		rowCompanyName:  "Company Name",
		rowDepartment:   "Department",
		rowContactName:  "Contact Name",
		rowContactEmail: "Contact Email",
		rowBusinessUnit: "Business Unit",
	}
	for row := rowCompanyCode; row <= rowBusinessUnit; row++ {
		f.SetCellValue(sheet, cellName(0, row), labels[row])
		f.SetCellStyle(sheet, cellName(0, row), cellName(0, row), st.label)
		f.SetCellStyle(sheet, cellName(1, row), cellName(1, row), st.input)
	}
	f.SetColWidth(sheet, "A", "A", 22)
	f.SetColWidth(sheet, "B", "B", 40)

	f.SetCellValue(sheet, cellName(0, rowAutomationTitle), "Current RPA Utilization")
	f.SetCellStyle(sheet, cellName(0, rowAutomationTitle), cellName(1, rowAutomationTitle), st.section)
	for row, label := range map[int]string{
		rowCurrentPackage:     "2024 Package",
		rowCurrentUtilization: "Package Utilization (%)",
		rowCurrentProcesses:   "Current RPA Processes",
	} {
		f.SetCellValue(sheet, cellName(0, row), label)
		f.SetCellStyle(sheet, cellName(0, row), cellName(0, row), st.label)
		f.SetCellStyle(sheet, cellName(1, row), cellName(1, row), st.input)
	}

	writeBudgetRanges(f, st, cat)

	for _, dd := range []struct {
		row int
		ref string
	}{
		{rowCompanyCode, l.companies},
		{rowDepartment, l.departments},
		{rowCurrentPackage, l.currentPackages},
	} {
		if err := addDropdown(f, sheet, cellName(1, dd.row), dd.ref); err != nil {
			return err
		}
	}
	return nil
}

// writeBudgetRanges lists the typical spend per project type as guidance
// for the projects sheet.
func writeBudgetRanges(f *excelize.File, st *styles, cat *catalog.Catalog) {
	sheet := SheetInstructions
	f.SetCellValue(sheet, cellName(0, rowBudgetRangesTitle), "Typical Budget Ranges")
	f.SetCellStyle(sheet, cellName(0, rowBudgetRangesTitle), cellName(1, rowBudgetRangesTitle), st.section)

	row := rowBudgetRangesFirstItem
	for _, pt := range cat.ProjectTypes() {
		r, ok := cat.BudgetRanges[pt]
		if !ok {
			continue
		}
		f.SetCellValue(sheet, cellName(0, row), sanitizeExcelCell(pt))
		f.SetCellValue(sheet, cellName(1, row), budget.FormatRange("SAR", r.Min, r.Max))
		row++
	}
}

func writeOperational(f *excelize.File, st *styles, l lists, cat *catalog.Catalog) error {
	sheet := SheetOperational
	if err := writeHeaderRow(f, st, sheet, operationalHeaders, []float64{22, 44, 18, 14, 14, 14, 12, 24}); err != nil {
		return err
	}

	row := 2
	for _, sec := range cat.OrderedSections() {
		title := sec.Title
		if title == "" {
			title = sec.Key
		}
		f.SetCellValue(sheet, cellName(opColSection, row), fmt.Sprintf("%s (%s)", title, sec.Department))
		f.SetCellStyle(sheet, cellName(0, row), cellName(opColNewImpl, row), st.section)
		row++

		for _, name := range sec.ServiceNames() {
			svc := sec.Services[name]
			f.SetCellValue(sheet, cellName(opColSection, row), sec.Key)
			f.SetCellValue(sheet, cellName(opColService, row), sanitizeExcelCell(name))
			f.SetCellValue(sheet, cellName(opColModel, row), svc.Model.UnitLabel())
			f.SetCellValue(sheet, cellName(opColUnitPrice, row), svc.UnitPrice.InexactFloat64())
			f.SetCellValue(sheet, cellName(opColSetup, row), svc.SetupCost.InexactFloat64())
			f.SetCellStyle(sheet, cellName(0, row), cellName(opColModel, row), st.locked)
			f.SetCellStyle(sheet, cellName(opColUnitPrice, row), cellName(opColSetup, row), st.money)
			f.SetCellStyle(sheet, cellName(opColInclude, row), cellName(opColNewImpl, row), st.input)
			row++
		}
	}

	last := max(row-1, 2)
	if err := addDropdown(f, sheet, columnRange(opColInclude, 2, last), l.yesNo); err != nil {
		return err
	}
	return addDropdown(f, sheet, columnRange(opColNewImpl, 2, last), l.yesNo)
}

func writeCustom(f *excelize.File, st *styles, l lists) error {
	sheet := SheetCustom
	if err := writeHeaderRow(f, st, sheet, customHeaders, []float64{14, 32, 40, 18, 14, 14, 12, 24}); err != nil {
		return err
	}
	last := customRows + 1
	f.SetCellStyle(sheet, cellName(0, 2), cellName(csColNewImpl, last), st.input)

	for _, dd := range []dropdown{
		{csColInclude, l.yesNo},
		{csColName, l.services},
		{csColModel, l.models},
		{csColNewImpl, l.yesNo},
	} {
		if err := addDropdown(f, sheet, columnRange(dd.col, 2, last), dd.ref); err != nil {
			return err
		}
	}
	return nil
}

func writeSupport(f *excelize.File, st *styles, l lists, cat *catalog.Catalog) error {
	sheet := SheetSupport
	f.SetCellValue(sheet, "A1", "Support Package")
	f.SetCellStyle(sheet, "A1", "A1", st.title)
	f.SetCellValue(sheet, "A3", "Selection")
	f.SetCellStyle(sheet, "A3", "B3", st.section)

	rows := []struct {
		row   int
		label string
	}{
		{rowSupportTier, "Support Tier"},
		{rowExtraSupport, fmt.Sprintf("Extra Support Requests (%s each)", budget.FormatAmount("", budget.ExtraSupportRate))},
		{rowExtraTraining, fmt.Sprintf("Extra Training Requests (%s each)", budget.FormatAmount("", budget.ExtraTrainingRate))},
		{rowExtraReports, fmt.Sprintf("Extra Report Requests (%s each)", budget.FormatAmount("", budget.ExtraReportRate))},
	}
	for _, r := range rows {
		f.SetCellValue(sheet, cellName(0, r.row), r.label)
		f.SetCellStyle(sheet, cellName(0, r.row), cellName(0, r.row), st.label)
		f.SetCellStyle(sheet, cellName(1, r.row), cellName(1, r.row), st.input)
	}
	f.SetColWidth(sheet, "A", "A", 36)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "H", 14)
	f.SetColWidth(sheet, "I", "I", 60)
	f.SetColWidth(sheet, "J", "J", 30)

	headers := []string{"Tier", "Annual Price", "Standard", "Priority", "Premium", "Improvement Hours",
		"Training", "Reports", "Description", "Departments"}
	for i, h := range headers {
		cell := cellName(i, rowTierTableHeader)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, st.header)
	}
	for i, name := range cat.TierNames() {
		t := cat.SupportTiers[name]
		row := rowTierTableHeader + 1 + i
		e := t.Entitlements
		values := []any{name, t.AnnualPrice.InexactFloat64(), e.StandardRequests, e.PriorityRequests,
			e.PremiumRequests, e.ImprovementHours, e.TrainingRequests, e.ReportRequests, t.Description}
		for col, v := range values {
			f.SetCellValue(sheet, cellName(col, row), v)
		}
		depts := "All"
		if len(t.Departments) > 0 {
			depts = strings.Join(t.Departments, ", ")
		}
		f.SetCellValue(sheet, cellName(len(values), row), depts)
		f.SetCellStyle(sheet, cellName(1, row), cellName(1, row), st.money)
	}

	return addDropdown(f, sheet, cellName(1, rowSupportTier), l.tiers)
}

func writeProjects(f *excelize.File, st *styles, l lists) error {
	sheet := SheetProjects
	if err := writeHeaderRow(f, st, sheet, projectHeaders, []float64{30, 26, 34, 14, 16, 12, 30, 24, 50}); err != nil {
		return err
	}
	last := projectRows + 1
	f.SetCellStyle(sheet, cellName(0, 2), cellName(prColDescription, last), st.input)

	for _, dd := range []dropdown{
		{prColCategory, l.categories},
		{prColType, l.projectTypes},
		{prColTimeline, l.timelines},
		{prColPriority, l.priorities},
		{prColPackage, l.packages},
	} {
		if err := addDropdown(f, sheet, columnRange(dd.col, 2, last), dd.ref); err != nil {
			return err
		}
	}
	return nil
}

type dropdown struct {
	col int
	ref string
}
