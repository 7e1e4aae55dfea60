package services

// Optimistic state mirrors what the user already sees while persistence
// catches up. It is a view, never the system of record: it is rebuilt from
// stored data on every full read, and a failed persistence call is reported
// but not rolled back here.

// PhaseMutation describes exactly one tentative change to a phase list.
// When several fields are populated, the first matching branch wins:
// NewPhase, NewPhases, UpdatedPhase, UpdatedPhases, then DeletedPhase.
type PhaseMutation struct {
	NewPhase      *Phase
	NewPhases     []Phase
	UpdatedPhase  *Phase
	UpdatedPhases []Phase
	DeletedPhase  string
	Pending       bool
}

// PhaseState is the optimistic projection of a version's phase list.
type PhaseState struct {
	Phases  []Phase
	Pending bool
}

// Apply returns the state after the mutation. The receiver is left untouched;
// every branch builds a new slice so concurrent readers of the old state stay
// safe. Well-formed mutations never fail.
func (s PhaseState) Apply(m PhaseMutation) PhaseState {
	switch {
	case m.NewPhase != nil:
		phases := make([]Phase, 0, len(s.Phases)+1)
		phases = append(phases, s.Phases...)
		phases = append(phases, *m.NewPhase)
		return PhaseState{Phases: phases, Pending: m.Pending}

	case m.NewPhases != nil:
		phases := make([]Phase, len(m.NewPhases))
		copy(phases, m.NewPhases)
		return PhaseState{Phases: phases, Pending: m.Pending}

	case m.UpdatedPhase != nil:
		phases := make([]Phase, 0, len(s.Phases)+1)
		for _, p := range s.Phases {
			if p.ID != m.UpdatedPhase.ID {
				phases = append(phases, p)
			}
		}
		phases = append(phases, *m.UpdatedPhase)
		return PhaseState{Phases: phases, Pending: m.Pending}

	case m.UpdatedPhases != nil:
		phases := make([]Phase, len(m.UpdatedPhases))
		copy(phases, m.UpdatedPhases)
		return PhaseState{Phases: phases, Pending: m.Pending}

	default:
		phases := make([]Phase, 0, len(s.Phases))
		for _, p := range s.Phases {
			if p.ID != m.DeletedPhase {
				phases = append(phases, p)
			}
		}
		return PhaseState{Phases: phases, Pending: m.Pending}
	}
}

// ProductMutation describes exactly one tentative change to a product list.
// Same branch priority as PhaseMutation. Deletion is keyed by UniqueID since
// the numeric id may be absent for rows not yet synced.
type ProductMutation struct {
	NewProduct      *Product
	NewProducts     []Product
	UpdatedProduct  *Product
	UpdatedProducts []Product
	DeletedProduct  string
	Pending         bool
}

// ProductState is the optimistic projection of a version's product list.
// It is independent of PhaseState; the two never share storage.
type ProductState struct {
	Products []Product
	Pending  bool
}

// Apply returns the state after the mutation, copy-on-write like
// PhaseState.Apply.
func (s ProductState) Apply(m ProductMutation) ProductState {
	switch {
	case m.NewProduct != nil:
		products := make([]Product, 0, len(s.Products)+1)
		products = append(products, s.Products...)
		products = append(products, *m.NewProduct)
		return ProductState{Products: products, Pending: m.Pending}

	case m.NewProducts != nil:
		products := make([]Product, len(m.NewProducts))
		copy(products, m.NewProducts)
		return ProductState{Products: products, Pending: m.Pending}

	case m.UpdatedProduct != nil:
		products := make([]Product, 0, len(s.Products)+1)
		for _, p := range s.Products {
			if p.UniqueID != m.UpdatedProduct.UniqueID {
				products = append(products, p)
			}
		}
		products = append(products, *m.UpdatedProduct)
		return ProductState{Products: products, Pending: m.Pending}

	case m.UpdatedProducts != nil:
		products := make([]Product, len(m.UpdatedProducts))
		copy(products, m.UpdatedProducts)
		return ProductState{Products: products, Pending: m.Pending}

	default:
		products := make([]Product, 0, len(s.Products))
		for _, p := range s.Products {
			if p.UniqueID != m.DeletedProduct {
				products = append(products, p)
			}
		}
		return ProductState{Products: products, Pending: m.Pending}
	}
}
