package services

import "github.com/google/uuid"

// Workplan is the reusable prototype hierarchy carried by a project template.
// Prototype ordering is positional; expansion preserves it.
type Workplan struct {
	Phases []PhasePrototype `json:"phases"`
}

// PhasePrototype describes one phase to stamp out, with its nested tickets.
type PhasePrototype struct {
	Description string            `json:"description"`
	Tickets     []TicketPrototype `json:"tickets,omitempty"`
}

// TicketPrototype describes one ticket to stamp out, with its nested tasks.
type TicketPrototype struct {
	Summary     string          `json:"summary"`
	BudgetHours float64         `json:"budget_hours"`
	Tasks       []TaskPrototype `json:"tasks,omitempty"`
}

// TaskPrototype describes one task to stamp out.
type TaskPrototype struct {
	Summary  string `json:"summary"`
	Notes    string `json:"notes"`
	Priority int    `json:"priority"`
}

// PhasesFromWorkplan synthesizes new phases (with nested tickets and tasks)
// from a template workplan, targeting the given version. Every entity gets a
// fresh identity; child parentage points at the newly synthesized parent.
// destinationIndex is the 0-based insertion position in the current phase
// list, so the i-th prototype lands with Order destinationIndex+i+1.
// A nil or empty workplan yields nil.
func PhasesFromWorkplan(workplan *Workplan, versionID string, destinationIndex int) []Phase {
	if workplan == nil || len(workplan.Phases) == 0 {
		return nil
	}

	created := make([]Phase, 0, len(workplan.Phases))
	for i, proto := range workplan.Phases {
		phase := Phase{
			ID:          uuid.NewString(),
			Version:     versionID,
			Description: proto.Description,
			Order:       destinationIndex + i + 1,
			Visible:     true,
		}

		for j, tProto := range proto.Tickets {
			ticket := Ticket{
				ID:          uuid.NewString(),
				Phase:       phase.ID,
				Summary:     tProto.Summary,
				Order:       j + 1,
				BudgetHours: tProto.BudgetHours,
				Visible:     true,
			}
			for _, taskProto := range tProto.Tasks {
				ticket.Tasks = append(ticket.Tasks, Task{
					ID:       uuid.NewString(),
					Ticket:   ticket.ID,
					Summary:  taskProto.Summary,
					Notes:    taskProto.Notes,
					Priority: taskProto.Priority,
					Visible:  true,
				})
			}
			phase.Hours += ticket.BudgetHours
			phase.Tickets = append(phase.Tickets, ticket)
		}

		created = append(created, phase)
	}
	return created
}

// ShiftTail returns a copy of the phases at or after destinationIndex with
// each Order raised to sit after the inserted block. The shift works on the
// original, un-reordered tail so repeated application never compounds.
// Every phase returned must be persisted alongside the inserted ones.
func ShiftTail(phases []Phase, destinationIndex, insertedCount int) []Phase {
	if destinationIndex < 0 {
		destinationIndex = 0
	}
	if destinationIndex >= len(phases) {
		return nil
	}

	tail := make([]Phase, len(phases)-destinationIndex)
	copy(tail, phases[destinationIndex:])
	for i := range tail {
		tail[i].Order = insertedCount + destinationIndex + i + 1
	}
	return tail
}

// InsertPhases splices created phases into the list at destinationIndex and
// returns the full resulting arrangement: untouched head, inserted block,
// shifted tail.
func InsertPhases(phases, created []Phase, destinationIndex int) []Phase {
	if destinationIndex < 0 {
		destinationIndex = 0
	}
	if destinationIndex > len(phases) {
		destinationIndex = len(phases)
	}

	tail := ShiftTail(phases, destinationIndex, len(created))

	out := make([]Phase, 0, len(phases)+len(created))
	out = append(out, phases[:destinationIndex]...)
	out = append(out, created...)
	out = append(out, tail...)
	return out
}
