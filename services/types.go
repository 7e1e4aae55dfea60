// Package services provides the pure domain logic for the proposal builder:
// workplan ordering, template expansion, optimistic state, drag-and-drop
// resolution, and product pricing.
package services

import "sort"

// ProposalStatus enumerates the lifecycle states of a proposal.
type ProposalStatus string

const (
	StatusBuilding   ProposalStatus = "building"
	StatusInProgress ProposalStatus = "inProgress"
	StatusSigned     ProposalStatus = "signed"
	StatusCanceled   ProposalStatus = "canceled"
)

// Phase is a top-level grouping of work within a proposal version.
// Order is 1-based within the version; ties are broken by ID.
type Phase struct {
	ID          string   `json:"id"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Order       int      `json:"order"`
	Hours       float64  `json:"hours"`
	Visible     bool     `json:"visible"`
	ReferenceID int      `json:"reference_id,omitempty"`
	Tickets     []Ticket `json:"tickets,omitempty"`
}

// Ticket is a unit of billable work within a phase.
type Ticket struct {
	ID          string  `json:"id"`
	Phase       string  `json:"phase"`
	Summary     string  `json:"summary"`
	Order       int     `json:"order"`
	BudgetHours float64 `json:"budget_hours"`
	Visible     bool    `json:"visible"`
	ReferenceID int     `json:"reference_id,omitempty"`
	Tasks       []Task  `json:"tasks,omitempty"`
}

// Task is the smallest work item, belonging to a ticket.
type Task struct {
	ID          string `json:"id"`
	Ticket      string `json:"ticket"`
	Summary     string `json:"summary"`
	Notes       string `json:"notes"`
	Priority    int    `json:"priority"`
	Visible     bool   `json:"visible"`
	ReferenceID int    `json:"reference_id,omitempty"`
}

// Product is a pricing line item within a version. UniqueID is the stable
// identity key; the numeric CatalogItem id may be zero for rows that have not
// been synced to the catalog yet. Children of a bundle live in Products and
// point back via Parent.
type Product struct {
	UniqueID           string    `json:"unique_id"`
	ID                 int       `json:"id,omitempty"`
	Version            string    `json:"version"`
	CatalogItem        int       `json:"catalog_item,omitempty"`
	Parent             string    `json:"parent,omitempty"`
	Section            string    `json:"section,omitempty"`
	Identifier         string    `json:"identifier,omitempty"`
	Description        string    `json:"description,omitempty"`
	Category           string    `json:"category,omitempty"`
	Vendor             string    `json:"vendor,omitempty"`
	UnitOfMeasure      string    `json:"unit_of_measure,omitempty"`
	Quantity           float64   `json:"quantity"`
	Cost               float64   `json:"cost"`
	Price              float64   `json:"price"`
	CalculatedCost     float64   `json:"calculated_cost"`
	CalculatedPrice    float64   `json:"calculated_price"`
	ExtendedCost       float64   `json:"extended_cost"`
	ExtendedPrice      float64   `json:"extended_price"`
	SequenceNumber     int       `json:"sequence_number"`
	RecurringFlag      bool      `json:"recurring_flag"`
	RecurringCost      float64   `json:"recurring_cost,omitempty"`
	RecurringBillCycle int       `json:"recurring_bill_cycle,omitempty"`
	RecurringCycleType string    `json:"recurring_cycle_type,omitempty"`
	TaxableFlag        bool      `json:"taxable_flag"`
	Products           []Product `json:"products,omitempty"`
}

// Section is a named grouping container for products within a version.
type Section struct {
	ID      string `json:"id"`
	Version string `json:"version"`
	Name    string `json:"name"`
	Order   int    `json:"order"`
}

// SortPhases orders phases ascending by Order, breaking ties by ID so two
// phases never compare equal. Sorting is done in place.
func SortPhases(phases []Phase) {
	sort.SliceStable(phases, func(i, j int) bool {
		if phases[i].Order != phases[j].Order {
			return phases[i].Order < phases[j].Order
		}
		return phases[i].ID < phases[j].ID
	})
}

// SortTickets orders a phase's tickets ascending by Order, ties by ID.
func SortTickets(tickets []Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		if tickets[i].Order != tickets[j].Order {
			return tickets[i].Order < tickets[j].Order
		}
		return tickets[i].ID < tickets[j].ID
	})
}

// SortProducts orders sibling products ascending by SequenceNumber, ties by
// the numeric catalog id.
func SortProducts(products []Product) {
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].SequenceNumber != products[j].SequenceNumber {
			return products[i].SequenceNumber < products[j].SequenceNumber
		}
		return products[i].ID < products[j].ID
	})
}

// TotalHours sums the aggregate hours across all phases. This is the labor
// figure pushed to the external project during conversion.
func TotalHours(phases []Phase) float64 {
	var total float64
	for _, p := range phases {
		total += p.Hours
	}
	return total
}

// PhaseHours sums the budget hours of a phase's tickets.
func PhaseHours(tickets []Ticket) float64 {
	var total float64
	for _, tk := range tickets {
		total += tk.BudgetHours
	}
	return total
}
