package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GeneratePDF creates a quote PDF for a proposal using maroto/v2. It returns
// the raw PDF bytes or an error.
func GeneratePDF(data ProposalExport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addQuoteHeader(m, data)
	addWorkplanTable(m, data)
	addProductsTable(m, data)
	addQuoteTotals(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate proposal PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addQuoteHeader adds the proposal name and status line.
func addQuoteHeader(m core.Maroto, data ProposalExport) {
	m.AddRows(
		row.New(10).Add(
			col.New(8).Add(
				text.New(data.Name, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(4).Add(
				text.New("PROPOSAL", props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: &props.Color{Red: 33, Green: 37, Blue: 41},
				}),
			),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(8).Add(
				text.New(fmt.Sprintf("Status: %s", data.Status), props.Text{
					Size:  8,
					Align: align.Left,
					Color: &props.Color{Red: 100, Green: 100, Blue: 100},
				}),
			),
			col.New(4).Add(
				text.New(fmt.Sprintf("Labor Rate: %s/hr", FormatUSD(data.LaborRate)), props.Text{
					Size:  8,
					Align: align.Right,
					Color: &props.Color{Red: 100, Green: 100, Blue: 100},
				}),
			),
		),
	)

	m.AddRows(row.New(3))
}

// addWorkplanTable adds the phase/ticket breakdown with hours.
func addWorkplanTable(m core.Maroto, data ProposalExport) {
	if len(data.Phases) == 0 {
		return
	}

	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextRight := headerText
	headerTextRight.Align = align.Right
	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(10).Add(text.New("Workplan", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Hours", headerTextRight)).WithStyle(&headerCell),
		),
	)

	phaseText := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left}
	ticketText := props.Text{Size: 7, Align: align.Left, Left: 4}
	hoursText := props.Text{Size: 7, Align: align.Right}

	for _, phase := range data.Phases {
		m.AddRows(
			row.New(7).Add(
				col.New(10).Add(text.New(fmt.Sprintf("%d. %s", phase.Order, phase.Description), phaseText)),
				col.New(2).Add(text.New(formatHours(phase.Hours), hoursText)),
			),
		)
		for _, ticket := range phase.Tickets {
			m.AddRows(
				row.New(6).Add(
					col.New(10).Add(text.New(ticket.Summary, ticketText)),
					col.New(2).Add(text.New(formatHours(ticket.BudgetHours), hoursText)),
				),
			)
		}
	}

	m.AddRows(row.New(3))
}

// addProductsTable adds the line items table with alternating backgrounds.
func addProductsTable(m core.Maroto, data ProposalExport) {
	if len(data.Products) == 0 {
		return
	}

	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(2).Add(text.New("Item", headerTextLeft)).WithStyle(&headerCell),
			col.New(5).Add(text.New("Description", headerTextLeft)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Qty", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Unit Price", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Ext. Price", headerText)).WithStyle(&headerCell),
		),
	)

	altBg := &props.Color{Red: 248, Green: 249, Blue: 250}

	i := 0
	for _, product := range data.Products {
		i = addProductPDFRow(m, product, i, 0, altBg)
	}

	m.AddRows(row.New(2))
}

// addProductPDFRow writes one product row and recurses into bundle children.
// Returns the running row index used for the alternating background.
func addProductPDFRow(m core.Maroto, p Product, index, level int, altBg *props.Color) int {
	bodyText := props.Text{Size: 7, Align: align.Left, Left: float64(level) * 4}
	bodyTextCenter := props.Text{Size: 7, Align: align.Center}
	bodyTextRight := props.Text{Size: 7, Align: align.Right}

	var cellStyle *props.Cell
	if index%2 == 1 {
		cellStyle = &props.Cell{BackgroundColor: altBg}
	}

	colItem := col.New(2).Add(text.New(p.Identifier, bodyText))
	colDesc := col.New(5).Add(text.New(p.Description, bodyText))
	colQty := col.New(1).Add(text.New(formatQuantity(p.Quantity), bodyTextCenter))
	colUnit := col.New(2).Add(text.New(FormatUSD(EffectivePrice(p)), bodyTextRight))
	colExt := col.New(2).Add(text.New(FormatUSD(p.ExtendedPrice), bodyTextRight))

	if cellStyle != nil {
		colItem = colItem.WithStyle(cellStyle)
		colDesc = colDesc.WithStyle(cellStyle)
		colQty = colQty.WithStyle(cellStyle)
		colUnit = colUnit.WithStyle(cellStyle)
		colExt = colExt.WithStyle(cellStyle)
	}

	m.AddRows(row.New(6).Add(colItem, colDesc, colQty, colUnit, colExt))

	index++
	for _, child := range p.Products {
		index = addProductPDFRow(m, child, index, level+1, altBg)
	}
	return index
}

// addQuoteTotals adds right-aligned totals rows capped by the grand total.
func addQuoteTotals(m core.Maroto, data ProposalExport) {
	summaryBg := &props.Color{Red: 245, Green: 245, Blue: 245}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := props.Text{
		Size:  8,
		Align: align.Right,
	}

	rows := []struct {
		label string
		value float64
	}{
		{"Products", data.Totals.ProductTotal},
		{fmt.Sprintf("Labor (%s hrs)", formatHours(data.LaborHours)), data.Totals.LaborTotal},
	}
	if data.Totals.RecurringTotal != 0 {
		rows = append(rows, struct {
			label string
			value float64
		}{"Recurring", data.Totals.RecurringTotal})
	}

	for _, r := range rows {
		m.AddRows(
			row.New(7).Add(
				col.New(9).Add(text.New(r.label, labelStyle)).WithStyle(summaryCell),
				col.New(3).Add(text.New(FormatUSD(r.value), valueStyle)).WithStyle(summaryCell),
			),
		)
	}

	grandBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	grandCell := &props.Cell{BackgroundColor: grandBg}
	grandStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}

	m.AddRows(
		row.New(8).Add(
			col.New(9).Add(text.New("Total", grandStyle)).WithStyle(grandCell),
			col.New(3).Add(text.New(FormatUSD(data.Totals.TotalPrice), grandStyle)).WithStyle(grandCell),
		),
	)
}

// formatHours renders an hour figure without trailing zeros for whole values.
func formatHours(h float64) string {
	if h == float64(int64(h)) {
		return fmt.Sprintf("%d", int64(h))
	}
	return fmt.Sprintf("%.2f", h)
}

// formatQuantity renders a quantity, dropping the decimals for whole numbers.
func formatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return fmt.Sprintf("%.2f", q)
}
