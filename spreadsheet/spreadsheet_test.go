package spreadsheet

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"itbudget/budget"
	"itbudget/catalog"
	"itbudget/internal/apperr"
	"itbudget/selection"
)

func template(t *testing.T) []byte {
	t.Helper()
	data, err := GenerateTemplate(catalog.Defaults())
	require.NoError(t, err)
	return data
}

// edit opens a workbook, applies fn and returns the re-serialized bytes.
func edit(t *testing.T, data []byte, fn func(f *excelize.File)) []byte {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	fn(f)
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func findServiceRow(t *testing.T, f *excelize.File, section, name string) int {
	t.Helper()
	rows, err := f.GetRows(SheetOperational)
	require.NoError(t, err)
	for i, row := range rows {
		if cellAt(row, opColSection) == section && cellAt(row, opColService) == name {
			return i + 1
		}
	}
	t.Fatalf("service %s/%s not in template", section, name)
	return 0
}

func TestGenerateTemplateSheets(t *testing.T) {
	f, err := excelize.OpenReader(bytes.NewReader(template(t)))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetInstructions, SheetOperational, SheetCustom, SheetSupport, SheetProjects, SheetLists}, f.GetSheetList())

	visible, err := f.GetSheetVisible(SheetLists)
	require.NoError(t, err)
	assert.False(t, visible, "Lists sheet should be hidden")

	label, _ := f.GetCellValue(SheetInstructions, "A11")
	assert.Equal(t, "Company Code", label)

	header, _ := f.GetCellValue(SheetProjects, "H1")
	assert.Equal(t, "Automation Package", header)

	rows, err := f.GetRows(SheetOperational)
	require.NoError(t, err)
	var services int
	for _, row := range rows[1:] {
		if cellAt(row, opColService) != "" {
			services++
			assert.Empty(t, cellAt(row, opColInclude))
			assert.Empty(t, cellAt(row, opColQuantity))
		}
	}
	assert.Equal(t, len(catalog.Defaults().ServiceNames()), services)
}

func TestTemplateDropdowns(t *testing.T) {
	f, err := excelize.OpenReader(bytes.NewReader(template(t)))
	require.NoError(t, err)
	defer f.Close()

	tests := []struct {
		sheet, sqref, list string
	}{
		{SheetCustom, columnRange(csColName, 2, customRows+1), "Services"},
		{SheetCustom, columnRange(csColModel, 2, customRows+1), "Pricing Models"},
		{SheetProjects, columnRange(prColTimeline, 2, projectRows+1), "Timelines"},
		{SheetProjects, columnRange(prColPriority, 2, projectRows+1), "Priorities"},
		{SheetInstructions, cellName(1, rowCurrentPackage), "Current RPA Package"},
	}
	for _, tt := range tests {
		dvs, err := f.GetDataValidations(tt.sheet)
		require.NoError(t, err)

		var formula string
		for _, dv := range dvs {
			if dv.Sqref == tt.sqref {
				formula = dv.Formula1
			}
		}
		require.NotEmpty(t, formula, "%s %s has no dropdown", tt.sheet, tt.sqref)

		// The formula points at the Lists column whose header is tt.list.
		col := strings.Split(strings.TrimPrefix(formula, "'"+SheetLists+"'!$"), "$")[0]
		header, _ := f.GetCellValue(SheetLists, col+"1")
		assert.Equal(t, tt.list, header, tt.sqref)
	}
}

func TestUneditedTemplateRoundTripsToEmptyImport(t *testing.T) {
	im, err := ParseUpload(bytes.NewReader(template(t)))
	require.NoError(t, err)
	assert.True(t, im.Empty(), "import = %+v", im)
	assert.Equal(t, selection.CompanyInfo{}, im.Company)
}

func TestTemplateBudgetRanges(t *testing.T) {
	f, err := excelize.OpenReader(bytes.NewReader(template(t)))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetInstructions)
	require.NoError(t, err)
	hints := map[string]string{}
	for _, row := range rows[rowBudgetRangesFirstItem-1:] {
		hints[cellAt(row, 0)] = cellAt(row, 1)
	}
	assert.Equal(t, "SAR 50,000 - 200,000", hints["Automation / RPA"])
	assert.Equal(t, "SAR 15,000 - 75,000", hints["Enterprise Telephony Expansion"])
}

func TestParseCurrentAutomation(t *testing.T) {
	data := edit(t, template(t), func(f *excelize.File) {
		f.SetCellValue(SheetInstructions, cellName(1, rowCurrentPackage), "Silver (3 Credits)")
		f.SetCellValue(SheetInstructions, cellName(1, rowCurrentUtilization), 70)
		f.SetCellValue(SheetInstructions, cellName(1, rowCurrentProcesses), "Invoice matching")
	})
	im, err := ParseUpload(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, selection.CurrentAutomation{Package: "Silver (3 Credits)", Utilization: 70, Processes: "Invoice matching"},
		im.Company.Automation)

	data = edit(t, template(t), func(f *excelize.File) {
		f.SetCellValue(SheetInstructions, cellName(1, rowCurrentPackage), "None")
	})
	im, err = ParseUpload(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, im.Company.Automation.Package)

	data = edit(t, template(t), func(f *excelize.File) {
		f.SetCellValue(SheetInstructions, cellName(1, rowCurrentUtilization), 140)
	})
	_, err = ParseUpload(bytes.NewReader(data))
	assert.True(t, apperr.IsType(err, apperr.TypeParse), "err = %v", err)
}

func TestParseFilledTemplate(t *testing.T) {
	data := edit(t, template(t), func(f *excelize.File) {
		f.SetCellValue(SheetInstructions, "B11", "AIC")
		f.SetCellValue(SheetInstructions, "B13", "Finance")
		f.SetCellValue(SheetInstructions, "B14", "Sara Ali")
		f.SetCellValue(SheetInstructions, "B15", "sara@example.com")

		row := findServiceRow(t, f, "oracle", "ERP - Procurement")
		f.SetCellValue(SheetOperational, cellName(opColInclude, row), "Y")
		f.SetCellValue(SheetOperational, cellName(opColQuantity, row), 10)
		f.SetCellValue(SheetOperational, cellName(opColNewImpl, row), "Y")

		// Quantity without Include is ignored.
		row = findServiceRow(t, f, "microsoft", "Visio Plan 2")
		f.SetCellValue(SheetOperational, cellName(opColQuantity, row), 4)

		f.SetCellValue(SheetCustom, "B2", "Translation Services")
		f.SetCellValue(SheetCustom, "D2", "unit/year")
		f.SetCellValue(SheetCustom, "E2", "1,250.50")
		f.SetCellValue(SheetCustom, "G2", 2)
		f.SetCellValue(SheetCustom, "A3", "N")
		f.SetCellValue(SheetCustom, "B3", "Excluded")

		f.SetCellValue(SheetSupport, "B4", "Gold Package")
		f.SetCellValue(SheetSupport, "B5", 2)
		f.SetCellValue(SheetSupport, "B6", 1)

		f.SetCellValue(SheetProjects, "A2", "Vendor Portal")
		f.SetCellValue(SheetProjects, "B2", "Digital Initiatives")
		f.SetCellValue(SheetProjects, "D2", 150000)
		f.SetCellValue(SheetProjects, "E2", "Q2 2025")
		f.SetCellValue(SheetProjects, "F2", "High")
		f.SetCellValue(SheetProjects, "G2", "IT, Finance ,")
		f.SetCellValue(SheetProjects, "A4", "Invoice Bots")
		f.SetCellValue(SheetProjects, "H4", "Bronze (1 Credit)")
	})

	im, err := ParseUpload(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "AIC", im.Company.CompanyCode)
	assert.Equal(t, "Finance", im.Company.Department)
	assert.Equal(t, "sara@example.com", im.Company.ContactEmail)

	require.Len(t, im.Services, 1)
	assert.Equal(t, selection.ServiceSelection{
		Key: "oracle_erp_procurement", Section: "oracle", Service: "ERP - Procurement", Quantity: 10, NewImplementation: true,
	}, im.Services[0])

	require.Len(t, im.CustomServices, 1)
	cs := im.CustomServices[0]
	assert.Equal(t, "Translation Services", cs.Name)
	assert.Equal(t, catalog.PerUnitAnnual, cs.Model)
	assert.True(t, cs.UnitPrice.Equal(decimal.RequireFromString("1250.50")))
	assert.Equal(t, 2, cs.Quantity)

	assert.Equal(t, selection.SupportSelection{Tier: "Gold Package", ExtraSupport: 2, ExtraTraining: 1}, im.Support)

	require.Len(t, im.Projects, 2)
	assert.Equal(t, selection.TimelineQ2, im.Projects[0].Timeline)
	assert.True(t, im.Projects[0].Budget.Equal(decimal.NewFromInt(150000)))
	assert.Equal(t, []string{"IT", "Finance"}, im.Projects[0].Departments)
	assert.Equal(t, "Bronze (1 Credit)", im.Projects[1].AutomationPackage)
}

func TestParseUploadErrors(t *testing.T) {
	base := template(t)

	tests := []struct {
		name string
		data []byte
	}{
		{"not a workbook", []byte("hello")},
		{"missing sheet", edit(t, base, func(f *excelize.File) {
			require.NoError(t, f.DeleteSheet(SheetProjects))
		})},
		{"malformed quantity", edit(t, base, func(f *excelize.File) {
			row := findServiceRow(t, f, "oracle", "HCM - Payroll")
			f.SetCellValue(SheetOperational, cellName(opColInclude, row), "Y")
			f.SetCellValue(SheetOperational, cellName(opColQuantity, row), "ten")
		})},
		{"fractional quantity", edit(t, base, func(f *excelize.File) {
			row := findServiceRow(t, f, "oracle", "HCM - Payroll")
			f.SetCellValue(SheetOperational, cellName(opColInclude, row), "Y")
			f.SetCellValue(SheetOperational, cellName(opColQuantity, row), "2.5")
		})},
		{"malformed budget", edit(t, base, func(f *excelize.File) {
			f.SetCellValue(SheetProjects, "A2", "X")
			f.SetCellValue(SheetProjects, "D2", "lots")
		})},
		{"negative extras", edit(t, base, func(f *excelize.File) {
			f.SetCellValue(SheetSupport, "B5", -1)
		})},
		{"bad flag", edit(t, base, func(f *excelize.File) {
			row := findServiceRow(t, f, "oracle", "HCM - Payroll")
			f.SetCellValue(SheetOperational, cellName(opColInclude, row), "maybe")
		})},
		{"unknown timeline", edit(t, base, func(f *excelize.File) {
			f.SetCellValue(SheetProjects, "A2", "X")
			f.SetCellValue(SheetProjects, "E2", "Q7 2031")
		})},
		{"unknown priority", edit(t, base, func(f *excelize.File) {
			f.SetCellValue(SheetProjects, "A2", "X")
			f.SetCellValue(SheetProjects, "F2", "Urgent")
		})},
		{"unknown custom model", edit(t, base, func(f *excelize.File) {
			f.SetCellValue(SheetCustom, "B2", "X")
			f.SetCellValue(SheetCustom, "D2", "per fortnight")
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im, err := ParseUpload(bytes.NewReader(tt.data))
			assert.Nil(t, im)
			if !apperr.IsType(err, apperr.TypeParse) {
				t.Fatalf("err = %v, want PARSE_ERROR", err)
			}
		})
	}
}

func TestSanitizeRoundTrip(t *testing.T) {
	for _, s := range []string{"=SUM(A1)", "-dash", "plain", "'quoted", ""} {
		if got := unsanitizeExcelCell(sanitizeExcelCell(s)); got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}
}

func TestExportSummary(t *testing.T) {
	cat := catalog.Defaults()
	st := selection.New("s")
	st.SetCompanyInfo(selection.CompanyInfo{CompanyCode: "PS", CompanyName: "Power Systems", ContactName: "Omar"})
	st.SetServiceSelection("oracle_hcm_payroll", "oracle", "HCM - Payroll", 10, false, true)
	st.SetSupportTier("Nope")
	snap := st.Snapshot()
	totals := budget.Compute(snap, cat, budget.Options{})

	data, err := ExportSummary(snap, totals, "SAR", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetLineItems, SheetCashflow, SheetWarnings}, f.GetSheetList())

	item, _ := f.GetCellValue(SheetLineItems, "C2")
	assert.Equal(t, "HCM - Payroll", item)

	dec, _ := f.GetCellValue(SheetCashflow, "A13")
	assert.Equal(t, "Dec", dec)

	warning, _ := f.GetCellValue(SheetWarnings, "A2")
	assert.Contains(t, warning, "Nope")
}
