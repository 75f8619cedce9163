package spreadsheet

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"itbudget/budget"
	"itbudget/selection"
)

const (
	SheetSummary   = "Summary"
	SheetLineItems = "Line Items"
	SheetCashflow  = "Cash Flow"
	SheetWarnings  = "Warnings"
)

// ExportSummary writes a styled workbook with the session's totals, every
// costed line item and the monthly cash-flow curve.
func ExportSummary(snap selection.Snapshot, totals budget.Totals, currency string, generated time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	sheets := []string{SheetLineItems, SheetCashflow}
	if len(totals.Warnings) > 0 {
		sheets = append(sheets, SheetWarnings)
	}
	for _, name := range sheets {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	if err := writeSummary(f, st, snap, totals, currency, generated); err != nil {
		return nil, fmt.Errorf("write summary sheet: %w", err)
	}
	if err := writeLineItems(f, st, totals); err != nil {
		return nil, fmt.Errorf("write line items sheet: %w", err)
	}
	if err := writeCashflow(f, st, totals); err != nil {
		return nil, fmt.Errorf("write cash flow sheet: %w", err)
	}
	if len(totals.Warnings) > 0 {
		f.SetCellValue(SheetWarnings, "A1", "Warning")
		f.SetCellStyle(SheetWarnings, "A1", "A1", st.header)
		f.SetColWidth(SheetWarnings, "A", "A", 90)
		for i, w := range totals.Warnings {
			f.SetCellValue(SheetWarnings, cellName(0, i+2), sanitizeExcelCell(w))
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, st *styles, snap selection.Snapshot, t budget.Totals, currency string, generated time.Time) error {
	s := SheetSummary
	if err := f.SetColWidth(s, "A", "A", 32); err != nil {
		return err
	}
	if err := f.SetColWidth(s, "B", "B", 40); err != nil {
		return err
	}

	f.SetCellValue(s, "A1", "IT & Shared Services Budget Summary")
	f.SetCellStyle(s, "A1", "A1", st.title)
	f.SetCellValue(s, "A2", "Generated "+generated.Format("02 Jan 2006 15:04"))
	f.SetCellStyle(s, "A2", "A2", st.subtitle)

	c := snap.Company
	info := [][2]string{
		{"Company", strings.TrimSpace(c.CompanyCode + " " + c.CompanyName)},
		{"Department", c.Department},
		{"Business Unit", c.BusinessUnit},
		{"Contact", c.ContactName},
		{"Email", c.ContactEmail},
	}
	row := 4
	for _, kv := range info {
		f.SetCellValue(s, cellName(0, row), kv[0])
		f.SetCellStyle(s, cellName(0, row), cellName(0, row), st.label)
		f.SetCellValue(s, cellName(1, row), sanitizeExcelCell(kv[1]))
		row++
	}

	row++
	f.SetCellValue(s, cellName(0, row), "Category")
	f.SetCellValue(s, cellName(1, row), "Annual Amount ("+currency+")")
	f.SetCellStyle(s, cellName(0, row), cellName(1, row), st.header)
	row++

	amounts := []struct {
		label string
		style int
		value float64
	}{
		{"Operational Services", st.money, t.Operational.InexactFloat64()},
		{"Support", st.money, t.Support.InexactFloat64()},
		{"Implementation Projects", st.money, t.Implementation.InexactFloat64()},
		{"Grand Total", st.total, t.Grand.InexactFloat64()},
		{"Automation Packages (3-year)", st.money, t.AutomationThreeYear.InexactFloat64()},
	}
	for _, a := range amounts {
		f.SetCellValue(s, cellName(0, row), a.label)
		f.SetCellValue(s, cellName(1, row), a.value)
		if err := f.SetCellStyle(s, cellName(1, row), cellName(1, row), a.style); err != nil {
			return err
		}
		row++
	}
	return nil
}

func writeLineItems(f *excelize.File, st *styles, t budget.Totals) error {
	s := SheetLineItems
	headers := []string{"Category", "Group", "Item", "Quantity", "Unit", "Annual Amount"}
	if err := writeHeaderRow(f, st, s, headers, []float64{18, 28, 44, 12, 18, 18}); err != nil {
		return err
	}
	for i, item := range t.Items {
		row := i + 2
		values := []any{item.Category, sanitizeExcelCell(item.Group), sanitizeExcelCell(item.Name), item.Quantity, item.Unit, item.Amount.InexactFloat64()}
		for col, v := range values {
			f.SetCellValue(s, cellName(col, row), v)
		}
		f.SetCellStyle(s, cellName(0, row), cellName(4, row), st.locked)
		f.SetCellStyle(s, cellName(5, row), cellName(5, row), st.money)
	}

	totalRow := len(t.Items) + 2
	f.SetCellValue(s, cellName(4, totalRow), "Total")
	f.SetCellStyle(s, cellName(4, totalRow), cellName(4, totalRow), st.label)
	f.SetCellValue(s, cellName(5, totalRow), t.Grand.InexactFloat64())
	return f.SetCellStyle(s, cellName(5, totalRow), cellName(5, totalRow), st.total)
}

func writeCashflow(f *excelize.File, st *styles, t budget.Totals) error {
	s := SheetCashflow
	if err := writeHeaderRow(f, st, s, []string{"Month", "Amount"}, []float64{12, 18}); err != nil {
		return err
	}
	for i, m := range t.Monthly {
		row := i + 2
		f.SetCellValue(s, cellName(0, row), budget.MonthNames[i])
		f.SetCellValue(s, cellName(1, row), m.InexactFloat64())
		f.SetCellStyle(s, cellName(1, row), cellName(1, row), st.money)
	}
	f.SetCellValue(s, "A14", "Total")
	f.SetCellStyle(s, "A14", "A14", st.label)
	f.SetCellValue(s, "B14", budget.MonthlySum(t.Monthly).InexactFloat64())
	return f.SetCellStyle(s, "B14", "B14", st.total)
}
