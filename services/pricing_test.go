package services

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func TestEffectivePrice(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		expect  float64
	}{
		{"list price only", Product{Price: 100}, 100},
		{"calculated overrides list", Product{Price: 100, CalculatedPrice: 80}, 80},
		{"both zero", Product{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectivePrice(tt.product); !almostEqual(got, tt.expect) {
				t.Errorf("EffectivePrice = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestEffectiveCost(t *testing.T) {
	if got := EffectiveCost(Product{Cost: 60, CalculatedCost: 45}); !almostEqual(got, 45) {
		t.Errorf("EffectiveCost = %v, want 45", got)
	}
	if got := EffectiveCost(Product{Cost: 60}); !almostEqual(got, 60) {
		t.Errorf("EffectiveCost = %v, want 60", got)
	}
}

func TestRecalculateProduct(t *testing.T) {
	p := RecalculateProduct(Product{Quantity: 3, Price: 100, Cost: 60})

	if !almostEqual(p.ExtendedPrice, 300) {
		t.Errorf("extended price = %v, want 300", p.ExtendedPrice)
	}
	if !almostEqual(p.ExtendedCost, 180) {
		t.Errorf("extended cost = %v, want 180", p.ExtendedCost)
	}
}

func TestRecalculateProduct_UsesCalculatedOverrides(t *testing.T) {
	p := RecalculateProduct(Product{Quantity: 2, Price: 100, CalculatedPrice: 75})

	if !almostEqual(p.ExtendedPrice, 150) {
		t.Errorf("extended price = %v, want 150", p.ExtendedPrice)
	}
}

func TestCalcProposalTotals(t *testing.T) {
	products := []Product{
		{UniqueID: "u1", ExtendedPrice: 1000, ExtendedCost: 600},
		{UniqueID: "u2", ExtendedPrice: 500, ExtendedCost: 300},
		// bundle child, already reflected in its parent's figures
		{UniqueID: "u3", Parent: "u1", ExtendedPrice: 400, ExtendedCost: 250},
		// recurring rows are tracked separately
		{UniqueID: "u4", RecurringFlag: true, RecurringCost: 50, Quantity: 2},
	}

	totals := CalcProposalTotals(products, 10, 150)

	if !almostEqual(totals.ProductTotal, 1500) {
		t.Errorf("product total = %v, want 1500", totals.ProductTotal)
	}
	if !almostEqual(totals.RecurringTotal, 100) {
		t.Errorf("recurring total = %v, want 100", totals.RecurringTotal)
	}
	if !almostEqual(totals.LaborTotal, 1500) {
		t.Errorf("labor total = %v, want 1500", totals.LaborTotal)
	}
	if !almostEqual(totals.TotalPrice, 3000) {
		t.Errorf("total price = %v, want 3000", totals.TotalPrice)
	}
	if !almostEqual(totals.TotalCost, 900) {
		t.Errorf("total cost = %v, want 900", totals.TotalCost)
	}
	if !almostEqual(totals.Margin, 2100) {
		t.Errorf("margin = %v, want 2100", totals.Margin)
	}
	if !almostEqual(totals.MarginPercent, 70) {
		t.Errorf("margin percent = %v, want 70", totals.MarginPercent)
	}
}

func TestCalcProposalTotals_Empty(t *testing.T) {
	totals := CalcProposalTotals(nil, 0, 150)

	if totals.TotalPrice != 0 || totals.MarginPercent != 0 {
		t.Errorf("empty totals = %+v, want zeros", totals)
	}
}
