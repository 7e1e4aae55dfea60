package services

// EffectivePrice returns the unit price a product sells at: the calculated
// override when one is present, otherwise the list price.
func EffectivePrice(p Product) float64 {
	if p.CalculatedPrice != 0 {
		return p.CalculatedPrice
	}
	return p.Price
}

// EffectiveCost returns the unit cost, preferring the calculated override.
func EffectiveCost(p Product) float64 {
	if p.CalculatedCost != 0 {
		return p.CalculatedCost
	}
	return p.Cost
}

// RecalculateProduct rewrites the derived money fields from quantity and the
// effective unit figures. Called whenever quantity, price, or cost changes.
func RecalculateProduct(p Product) Product {
	p.ExtendedPrice = EffectivePrice(p) * p.Quantity
	p.ExtendedCost = EffectiveCost(p) * p.Quantity
	return p
}

// ProposalTotals aggregates the money view of a version.
type ProposalTotals struct {
	ProductTotal   float64
	RecurringTotal float64
	LaborTotal     float64
	TotalPrice     float64
	TotalCost      float64
	Margin         float64
	MarginPercent  float64
}

// CalcProposalTotals sums top-level products (bundle children are already
// reflected in their parent's extended figures) and adds labor at the
// proposal's rate.
func CalcProposalTotals(products []Product, laborHours, laborRate float64) ProposalTotals {
	var totals ProposalTotals
	for _, p := range products {
		if p.Parent != "" {
			continue
		}
		if p.RecurringFlag {
			totals.RecurringTotal += p.RecurringCost * p.Quantity
			continue
		}
		totals.ProductTotal += p.ExtendedPrice
		totals.TotalCost += p.ExtendedCost
	}

	totals.LaborTotal = laborHours * laborRate
	totals.TotalPrice = totals.ProductTotal + totals.LaborTotal
	totals.Margin = totals.TotalPrice - totals.TotalCost
	if totals.TotalPrice != 0 {
		totals.MarginPercent = (totals.Margin / totals.TotalPrice) * 100
	}
	return totals
}
