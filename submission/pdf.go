package submission

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"itbudget/budget"
)

var (
	grey      = &props.Color{Red: 80, Green: 80, Blue: 80}
	headerBg  = &props.Color{Red: 29, Green: 78, Blue: 216}
	white     = &props.Color{Red: 255, Green: 255, Blue: 255}
	totalBg   = &props.Color{Red: 229, Green: 231, Blue: 235}
	rowHeight = 7.0
)

// RenderPDF renders a printable confirmation for r.
func RenderPDF(r *Receipt) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)
	addReceiptHeader(m, r)
	addCompanyBlock(m, r)
	addTotalsTable(m, r)
	addCashflowTable(m, r)

	m.AddRows(row.New(6))
	m.AddRows(row.New(12).Add(col.New(12).Add(text.New(r.Message, props.Text{Size: 9, Color: grey}))))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addReceiptHeader(m core.Maroto, r *Receipt) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(text.New("Budget Submission Confirmation", props.Text{
				Size:  16,
				Style: fontstyle.Bold,
				Align: align.Center,
			})),
		),
		row.New(8).Add(
			col.New(6).Add(text.New("Reference: "+r.ReferenceID, props.Text{Size: 9, Color: grey})),
			col.New(6).Add(text.New("Submitted: "+r.SubmittedAt.Format("02 Jan 2006 15:04"), props.Text{
				Size:  9,
				Align: align.Right,
				Color: grey,
			})),
		),
		row.New(4),
	)
}

func addCompanyBlock(m core.Maroto, r *Receipt) {
	c := r.Company
	lines := [][2]string{
		{"Company", companyLabel(c)},
		{"Department", c.Department},
		{"Business Unit", c.BusinessUnit},
		{"Contact", c.ContactName},
		{"Email", c.ContactEmail},
	}
	for _, l := range lines {
		if l[1] == "" {
			continue
		}
		m.AddRows(row.New(6).Add(
			col.New(3).Add(text.New(l[0], props.Text{Size: 9, Style: fontstyle.Bold})),
			col.New(9).Add(text.New(l[1], props.Text{Size: 9})),
		))
	}
	m.AddRows(row.New(4))
}

func addTotalsTable(m core.Maroto, r *Receipt) {
	head := props.Text{Size: 9, Style: fontstyle.Bold, Color: white}
	headRight := head
	headRight.Align = align.Right
	headCell := &props.Cell{BackgroundColor: headerBg}

	m.AddRows(row.New(rowHeight).Add(
		col.New(6).Add(text.New("Category", head)).WithStyle(headCell),
		col.New(2).Add(text.New("Items", headRight)).WithStyle(headCell),
		col.New(4).Add(text.New("Annual Amount", headRight)).WithStyle(headCell),
	))

	t := r.Totals
	rows := []struct {
		label string
		count int
		value string
	}{
		{"Operational services", r.ServiceCount + r.CustomServiceCount, budget.FormatAmount(r.Currency, t.Operational)},
		{supportLabel(r.SupportTier), 0, budget.FormatAmount(r.Currency, t.Support)},
		{"Implementation projects", r.ProjectCount, budget.FormatAmount(r.Currency, t.Implementation)},
	}
	for _, rw := range rows {
		count := ""
		if rw.count > 0 {
			count = fmt.Sprintf("%d", rw.count)
		}
		m.AddRows(row.New(rowHeight).Add(
			col.New(6).Add(text.New(rw.label, props.Text{Size: 9})),
			col.New(2).Add(text.New(count, props.Text{Size: 9, Align: align.Right})),
			col.New(4).Add(text.New(rw.value, props.Text{Size: 9, Align: align.Right})),
		))
	}

	totalCell := &props.Cell{BackgroundColor: totalBg}
	bold := props.Text{Size: 10, Style: fontstyle.Bold}
	boldRight := bold
	boldRight.Align = align.Right
	m.AddRows(row.New(rowHeight+1).Add(
		col.New(8).Add(text.New("Grand Total", bold)).WithStyle(totalCell),
		col.New(4).Add(text.New(budget.FormatAmount(r.Currency, t.Grand), boldRight)).WithStyle(totalCell),
	))
	if t.AutomationThreeYear.IsPositive() {
		m.AddRows(row.New(rowHeight).Add(
			col.New(8).Add(text.New("Automation packages, 3-year commitment", props.Text{Size: 8, Color: grey})),
			col.New(4).Add(text.New(budget.FormatAmount(r.Currency, t.AutomationThreeYear), props.Text{Size: 8, Align: align.Right, Color: grey})),
		))
	}
	m.AddRows(row.New(4))
}

func addCashflowTable(m core.Maroto, r *Receipt) {
	m.AddRows(row.New(8).Add(col.New(12).Add(text.New("Monthly cash flow", props.Text{Size: 10, Style: fontstyle.Bold}))))

	// Two rows of six months.
	for half := 0; half < 2; half++ {
		labels := row.New(5)
		values := row.New(6)
		for i := half * 6; i < half*6+6; i++ {
			labels.Add(col.New(2).Add(text.New(budget.MonthNames[i], props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center})))
			values.Add(col.New(2).Add(text.New(budget.FormatAmount("", r.Totals.Monthly[i]), props.Text{Size: 8, Align: align.Center})))
		}
		m.AddRows(labels, values)
	}
}

func supportLabel(tier string) string {
	if tier == "" {
		return "Support (extras only)"
	}
	return "Support: " + tier
}
