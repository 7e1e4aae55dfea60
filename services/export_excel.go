package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ProposalExport bundles everything the export surfaces need: the proposal
// header, its working version's phase tree, and its products with totals.
type ProposalExport struct {
	Name       string
	Status     string
	LaborRate  float64
	LaborHours float64
	Phases     []Phase
	Products   []Product
	Totals     ProposalTotals
}

// GenerateExcel renders a proposal as an .xlsx with a workplan sheet and a
// products sheet, returning the file contents.
func GenerateExcel(data ProposalExport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	workplanSheet := sheetNameFor(data.Name, "Workplan")
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, workplanSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	phaseStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create phase style: %w", err)
	}

	itemStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	// ── Workplan sheet ──────────────────────────────────────────────────

	widths := []float64{6, 50, 14}
	for i, col := range []string{"A", "B", "C"} {
		if err := f.SetColWidth(workplanSheet, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	if err := f.MergeCell(workplanSheet, "A1", "C1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(workplanSheet, "A1", sanitizeExcelCell(data.Name))
	f.SetCellStyle(workplanSheet, "A1", "C1", titleStyle)

	headers := []string{"Order", "Description", "Hours"}
	for i, h := range headers {
		f.SetCellValue(workplanSheet, fmt.Sprintf("%c3", 'A'+i), h)
	}
	f.SetCellStyle(workplanSheet, "A3", "C3", headerStyle)

	row := 4
	for _, phase := range data.Phases {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(workplanSheet, "A"+rowStr, phase.Order)
		f.SetCellValue(workplanSheet, "B"+rowStr, sanitizeExcelCell(phase.Description))
		f.SetCellValue(workplanSheet, "C"+rowStr, phase.Hours)
		f.SetCellStyle(workplanSheet, "A"+rowStr, "C"+rowStr, phaseStyle)
		row++

		for _, ticket := range phase.Tickets {
			rowStr = fmt.Sprintf("%d", row)
			f.SetCellValue(workplanSheet, "A"+rowStr, "")
			f.SetCellValue(workplanSheet, "B"+rowStr, "  "+sanitizeExcelCell(ticket.Summary))
			f.SetCellValue(workplanSheet, "C"+rowStr, ticket.BudgetHours)
			f.SetCellStyle(workplanSheet, "A"+rowStr, "C"+rowStr, itemStyle)
			row++
		}
	}

	row++
	f.SetCellValue(workplanSheet, fmt.Sprintf("B%d", row), "Total Hours")
	f.SetCellValue(workplanSheet, fmt.Sprintf("C%d", row), TotalHours(data.Phases))

	// ── Products sheet ──────────────────────────────────────────────────

	productsSheet := "Products"
	if _, err := f.NewSheet(productsSheet); err != nil {
		return nil, fmt.Errorf("create products sheet: %w", err)
	}

	productWidths := []float64{16, 44, 8, 14, 14, 16}
	for i, col := range []string{"A", "B", "C", "D", "E", "F"} {
		if err := f.SetColWidth(productsSheet, col, col, productWidths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	productHeaders := []string{"Identifier", "Description", "Qty", "Unit Price", "Ext. Price", "Category"}
	for i, h := range productHeaders {
		f.SetCellValue(productsSheet, fmt.Sprintf("%c1", 'A'+i), h)
	}
	f.SetCellStyle(productsSheet, "A1", "F1", headerStyle)

	row = 2
	for _, product := range data.Products {
		row = writeProductRow(f, productsSheet, product, row, 0, phaseStyle, itemStyle)
	}

	row++
	f.SetCellValue(productsSheet, fmt.Sprintf("D%d", row), "Product Total")
	f.SetCellValue(productsSheet, fmt.Sprintf("E%d", row), FormatUSD(data.Totals.ProductTotal))
	row++
	f.SetCellValue(productsSheet, fmt.Sprintf("D%d", row), "Labor")
	f.SetCellValue(productsSheet, fmt.Sprintf("E%d", row), FormatUSD(data.Totals.LaborTotal))
	row++
	f.SetCellValue(productsSheet, fmt.Sprintf("D%d", row), "Total")
	f.SetCellValue(productsSheet, fmt.Sprintf("E%d", row), FormatUSD(data.Totals.TotalPrice))

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writeProductRow writes one product line and, indented beneath it, its
// bundle children. Returns the next free row.
func writeProductRow(f *excelize.File, sheet string, p Product, row, level int, parentStyle, childStyle int) int {
	rowStr := fmt.Sprintf("%d", row)
	indent := strings.Repeat("  ", level)

	f.SetCellValue(sheet, "A"+rowStr, sanitizeExcelCell(p.Identifier))
	f.SetCellValue(sheet, "B"+rowStr, indent+sanitizeExcelCell(p.Description))
	f.SetCellValue(sheet, "C"+rowStr, p.Quantity)
	f.SetCellValue(sheet, "D"+rowStr, FormatUSD(EffectivePrice(p)))
	f.SetCellValue(sheet, "E"+rowStr, FormatUSD(p.ExtendedPrice))
	f.SetCellValue(sheet, "F"+rowStr, sanitizeExcelCell(p.Category))

	style := childStyle
	if level == 0 && len(p.Products) > 0 {
		style = parentStyle
	}
	f.SetCellStyle(sheet, "A"+rowStr, "F"+rowStr, style)

	row++
	for _, child := range p.Products {
		row = writeProductRow(f, sheet, child, row, level+1, parentStyle, childStyle)
	}
	return row
}

func sheetNameFor(name, fallback string) string {
	if name == "" {
		return fallback
	}
	if len(name) > 31 {
		return name[:31]
	}
	return name
}

// sanitizeExcelCell guards against formula injection: a leading =, +, - or @
// would be interpreted by spreadsheet software.
func sanitizeExcelCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "#999999", Style: 1},
		{Type: "right", Color: "#999999", Style: 1},
		{Type: "top", Color: "#999999", Style: 1},
		{Type: "bottom", Color: "#999999", Style: 1},
	}
}
