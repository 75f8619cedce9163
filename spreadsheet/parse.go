package spreadsheet

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"itbudget/catalog"
	"itbudget/internal/apperr"
	"itbudget/selection"
)

// ParseUpload reads a filled-in questionnaire workbook. Cells are read by
// position; header rows, section rows and rows without a name are skipped.
// Any structural problem or malformed number fails the whole import.
func ParseUpload(r io.Reader) (*selection.Import, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperr.Parse("file is not a readable xlsx workbook", err)
	}
	defer f.Close()

	present := f.GetSheetList()
	for _, name := range RequiredSheets {
		if !slices.Contains(present, name) {
			return nil, apperr.Parse(fmt.Sprintf("missing sheet %q", name), nil).WithContext("sheet", name)
		}
	}

	p := &parser{f: f}
	im := &selection.Import{}
	im.Company = p.company()
	im.Services = p.services()
	im.CustomServices = p.customServices()
	im.Support = p.support()
	im.Projects = p.projects()
	if p.err != nil {
		return nil, p.err
	}
	return im, nil
}

// parser keeps the first error so each sheet reader can stay linear.
type parser struct {
	f   *excelize.File
	err error
}

func (p *parser) fail(sheet, cell, msg string) {
	if p.err == nil {
		p.err = apperr.Parse(fmt.Sprintf("%s!%s: %s", sheet, cell, msg), nil).
			WithContext("sheet", sheet).
			WithContext("cell", cell)
	}
}

func (p *parser) rows(sheet string) [][]string {
	if p.err != nil {
		return nil
	}
	rows, err := p.f.GetRows(sheet)
	if err != nil {
		p.err = apperr.Parse(fmt.Sprintf("read sheet %q", sheet), err)
		return nil
	}
	return rows
}

func (p *parser) value(sheet, cell string) string {
	if p.err != nil {
		return ""
	}
	v, err := p.f.GetCellValue(sheet, cell)
	if err != nil {
		p.err = apperr.Parse(fmt.Sprintf("read %s!%s", sheet, cell), err)
		return ""
	}
	return unsanitizeExcelCell(strings.TrimSpace(v))
}

func (p *parser) company() selection.CompanyInfo {
	s := SheetInstructions
	at := func(row int) string { return p.value(s, cellName(1, row)) }
	return selection.CompanyInfo{
		CompanyCode:  at(rowCompanyCode),
		CompanyName:  at(rowCompanyName),
		Department:   at(rowDepartment),
		ContactName:  at(rowContactName),
		ContactEmail: at(rowContactEmail),
		BusinessUnit: at(rowBusinessUnit),
		Automation:   p.currentAutomation(),
	}
}

func (p *parser) currentAutomation() selection.CurrentAutomation {
	s := SheetInstructions
	pkg := p.value(s, cellName(1, rowCurrentPackage))
	if strings.EqualFold(pkg, noPackage) {
		pkg = ""
	}
	util := p.count(s, 1, rowCurrentUtilization, strings.TrimSuffix(p.value(s, cellName(1, rowCurrentUtilization)), "%"))
	if util > 100 {
		p.fail(s, cellName(1, rowCurrentUtilization), fmt.Sprintf("utilization %d%% is over 100", util))
	}
	return selection.CurrentAutomation{
		Package:     pkg,
		Utilization: util,
		Processes:   p.value(s, cellName(1, rowCurrentProcesses)),
	}
}

func (p *parser) services() []selection.ServiceSelection {
	var out []selection.ServiceSelection
	for i, row := range p.rows(SheetOperational) {
		rowNum := i + 1
		if rowNum == 1 || cellAt(row, opColService) == "" {
			continue
		}
		include := p.flag(SheetOperational, opColInclude, rowNum, cellAt(row, opColInclude))
		if !include {
			continue
		}
		section := cellAt(row, opColSection)
		name := cellAt(row, opColService)
		out = append(out, selection.ServiceSelection{
			Key:               selection.ServiceKey(section, name),
			Section:           section,
			Service:           name,
			Quantity:          p.count(SheetOperational, opColQuantity, rowNum, cellAt(row, opColQuantity)),
			NewImplementation: p.flag(SheetOperational, opColNewImpl, rowNum, cellAt(row, opColNewImpl)),
		})
	}
	return out
}

func (p *parser) customServices() []selection.CustomService {
	var out []selection.CustomService
	for i, row := range p.rows(SheetCustom) {
		rowNum := i + 1
		name := cellAt(row, csColName)
		if rowNum == 1 || name == "" {
			continue
		}
		// A named row counts unless it is explicitly excluded.
		if inc := cellAt(row, csColInclude); inc != "" && !p.flag(SheetCustom, csColInclude, rowNum, inc) {
			continue
		}

		model := catalog.PerUnitAnnual
		if raw := cellAt(row, csColModel); raw != "" {
			m, ok := catalog.ParsePricingModel(raw)
			if !ok {
				p.fail(SheetCustom, cellName(csColModel, rowNum), fmt.Sprintf("unknown pricing model %q", raw))
				continue
			}
			model = m
		}

		out = append(out, selection.CustomService{
			Key:               fmt.Sprintf("custom_%02d", rowNum-1),
			Name:              name,
			Description:       cellAt(row, csColDescription),
			Model:             model,
			UnitPrice:         p.amount(SheetCustom, csColUnitPrice, rowNum, cellAt(row, csColUnitPrice)),
			SetupCost:         p.amount(SheetCustom, csColSetup, rowNum, cellAt(row, csColSetup)),
			Quantity:          p.count(SheetCustom, csColQuantity, rowNum, cellAt(row, csColQuantity)),
			NewImplementation: p.flag(SheetCustom, csColNewImpl, rowNum, cellAt(row, csColNewImpl)),
		})
	}
	return out
}

func (p *parser) support() selection.SupportSelection {
	s := SheetSupport
	at := func(row int) string { return p.value(s, cellName(1, row)) }
	return selection.SupportSelection{
		Tier:          at(rowSupportTier),
		ExtraSupport:  p.count(s, 1, rowExtraSupport, at(rowExtraSupport)),
		ExtraTraining: p.count(s, 1, rowExtraTraining, at(rowExtraTraining)),
		ExtraReports:  p.count(s, 1, rowExtraReports, at(rowExtraReports)),
	}
}

func (p *parser) projects() []selection.ProjectSelection {
	var out []selection.ProjectSelection
	for i, row := range p.rows(SheetProjects) {
		rowNum := i + 1
		name := cellAt(row, prColName)
		if rowNum == 1 || name == "" {
			continue
		}
		var depts []string
		for _, d := range strings.Split(cellAt(row, prColDepartments), ",") {
			if d = strings.TrimSpace(d); d != "" {
				depts = append(depts, d)
			}
		}
		out = append(out, selection.ProjectSelection{
			Name:              name,
			Category:          cellAt(row, prColCategory),
			ProjectType:       cellAt(row, prColType),
			Budget:            p.amount(SheetProjects, prColBudget, rowNum, cellAt(row, prColBudget)),
			Timeline:          oneOf(p, selection.Timelines, prColTimeline, rowNum, cellAt(row, prColTimeline)),
			Priority:          oneOf(p, selection.Priorities, prColPriority, rowNum, cellAt(row, prColPriority)),
			Departments:       depts,
			AutomationPackage: cellAt(row, prColPackage),
			Description:       cellAt(row, prColDescription),
		})
	}
	return out
}

// oneOf checks a projects cell against a fixed list. Blank is allowed.
func oneOf[T ~string](p *parser, allowed []T, col, row int, raw string) T {
	v := T(raw)
	if raw == "" || slices.Contains(allowed, v) {
		return v
	}
	p.fail(SheetProjects, cellName(col, row), fmt.Sprintf("%q is not one of %v", raw, allowed))
	return ""
}

// flag parses a Y/N cell. Blank is N.
func (p *parser) flag(sheet string, col, row int, raw string) bool {
	switch strings.ToUpper(raw) {
	case "", "N", "NO", "FALSE", "0":
		return false
	case "Y", "YES", "TRUE", "1":
		return true
	}
	p.fail(sheet, cellName(col, row), fmt.Sprintf("expected Y or N, got %q", raw))
	return false
}

// amount parses a non-negative money cell. Blank is zero.
func (p *parser) amount(sheet string, col, row int, raw string) decimal.Decimal {
	d, ok := parseNumber(raw)
	if !ok || d.IsNegative() {
		p.fail(sheet, cellName(col, row), fmt.Sprintf("%q is not a valid amount", raw))
		return decimal.Zero
	}
	return d
}

// count parses a non-negative whole-number cell. Blank is zero.
func (p *parser) count(sheet string, col, row int, raw string) int {
	d, ok := parseNumber(raw)
	if !ok || d.IsNegative() || !d.Equal(d.Truncate(0)) {
		p.fail(sheet, cellName(col, row), fmt.Sprintf("%q is not a valid count", raw))
		return 0
	}
	return int(d.IntPart())
}

func parseNumber(raw string) (decimal.Decimal, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return unsanitizeExcelCell(strings.TrimSpace(row[col]))
}
