package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type styles struct {
	title    int
	header   int
	section  int
	locked   int
	input    int
	label    int
	money    int
	total    int
	subtitle int
}

func newStyles(f *excelize.File) (*styles, error) {
	var s styles
	defs := []struct {
		id    *int
		name  string
		style *excelize.Style
	}{
		{&s.title, "title", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}},
		{&s.subtitle, "subtitle", &excelize.Style{Font: &excelize.Font{Size: 11, Color: "#4B5563"}}},
		{&s.header, "header", &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    thinBorders(),
		}},
		{&s.section, "section", &excelize.Style{
			Font:   &excelize.Font{Bold: true, Size: 11},
			Fill:   excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
			Border: thinBorders(),
		}},
		{&s.locked, "locked", &excelize.Style{
			Font:   &excelize.Font{Size: 10, Color: "#374151"},
			Border: thinBorders(),
		}},
		{&s.input, "input", &excelize.Style{
			Font:   &excelize.Font{Size: 10},
			Fill:   excelize.Fill{Type: "pattern", Color: []string{"#FEF9C3"}, Pattern: 1},
			Border: thinBorders(),
		}},
		{&s.label, "label", &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 10},
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}},
		{&s.money, "money", &excelize.Style{
			NumFmt: 4, // #,##0.00
			Font:   &excelize.Font{Size: 10},
			Border: thinBorders(),
		}},
		{&s.total, "total", &excelize.Style{
			NumFmt: 4,
			Font:   &excelize.Font{Bold: true, Size: 11},
			Border: thinBorders(),
		}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return nil, fmt.Errorf("create %s style: %w", d.name, err)
		}
		*d.id = id
	}
	return &s, nil
}

// thinBorders returns thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#9CA3AF", Style: 1}
	}
	return borders
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// unsanitizeExcelCell reverses sanitizeExcelCell for values read back in.
func unsanitizeExcelCell(s string) string {
	if len(s) < 2 || s[0] != '\'' {
		return s
	}
	switch s[1] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return s[1:]
	}
	return s
}
