// Package spreadsheet generates the offline questionnaire workbook, parses a
// filled-in copy back into selections and exports a budget summary.
//
// Sheet names, row positions and column order are a contract with users
// who fill the template offline; change them only together with the parser.
package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	SheetInstructions = "1. Instructions & Company Info"
	SheetOperational  = "2. Operational Services"
	SheetCustom       = "3. Custom Services"
	SheetSupport      = "4. Support Package"
	SheetProjects     = "5. Implementation Projects"
	SheetLists        = "Lists"
)

// RequiredSheets must all be present in an uploaded workbook.
var RequiredSheets = []string{SheetInstructions, SheetOperational, SheetCustom, SheetSupport, SheetProjects}

// Company info: labels in column A, values in column B.
const (
	rowCompanyCode  = 11
	rowCompanyName  = 12
	rowDepartment   = 13
	rowContactName  = 14
	rowContactEmail = 15
	rowBusinessUnit = 16

	rowAutomationTitle       = 18
	rowCurrentPackage        = 19
	rowCurrentUtilization    = 20
	rowCurrentProcesses      = 21
	rowBudgetRangesTitle     = 23
	rowBudgetRangesFirstItem = 24
)

// noPackage is the Lists entry meaning no RPA package today.
const noPackage = "None"

// Operational services columns.
const (
	opColSection = iota
	opColService
	opColModel
	opColUnitPrice
	opColSetup
	opColInclude
	opColQuantity
	opColNewImpl
)

var operationalHeaders = []string{"Section", "Service", "Pricing Model", "Unit Price", "Setup Cost",
	"Include (Y/N)", "Quantity", "New Implementation (Y/N)"}

// Custom services columns.
const (
	csColInclude = iota
	csColName
	csColDescription
	csColModel
	csColUnitPrice
	csColSetup
	csColQuantity
	csColNewImpl
)

var customHeaders = []string{"Include (Y/N)", "Service Name", "Description", "Pricing Model", "Unit Price",
	"Setup Cost", "Quantity", "New Implementation (Y/N)"}

const customRows = 20

// Support package: selections in column B.
const (
	rowSupportTier     = 4
	rowExtraSupport    = 5
	rowExtraTraining   = 6
	rowExtraReports    = 7
	rowTierTableHeader = 9
)

// Implementation project columns.
const (
	prColName = iota
	prColCategory
	prColType
	prColBudget
	prColTimeline
	prColPriority
	prColDepartments
	prColPackage
	prColDescription
)

var projectHeaders = []string{"Project Name", "Category", "Project Type", "Budget", "Timeline", "Priority",
	"Departments (comma separated)", "Automation Package", "Description"}

const projectRows = 30

// cellName converts a zero-based column and one-based row to "B11" form.
func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}

func colName(col int) string {
	name, _ := excelize.ColumnNumberToName(col + 1)
	return name
}

// columnRange is e.g. "F2:F40" for a zero-based column.
func columnRange(col, fromRow, toRow int) string {
	c := colName(col)
	return fmt.Sprintf("%s%d:%s%d", c, fromRow, c, toRow)
}
