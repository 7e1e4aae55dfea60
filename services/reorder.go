package services

// Reorder removes the element at sourceIndex and reinserts it at
// destinationIndex, preserving every other relative position. It returns a
// new slice of the same length and element set; the input is not modified.
// Out-of-range indexes return a copy of the input unchanged.
func Reorder[T any](seq []T, sourceIndex, destinationIndex int) []T {
	out := make([]T, len(seq))
	copy(out, seq)

	if sourceIndex < 0 || sourceIndex >= len(out) {
		return out
	}
	if destinationIndex < 0 || destinationIndex >= len(out) {
		return out
	}

	moved := out[sourceIndex]
	out = append(out[:sourceIndex], out[sourceIndex+1:]...)
	out = append(out[:destinationIndex], append([]T{moved}, out[destinationIndex:]...)...)
	return out
}

// RenumberPhases rewrites each phase's Order to its 1-based positional index.
// A single move can shift the order of every sibling between the old and new
// position, so callers must persist every phase returned here, not just the
// moved one.
func RenumberPhases(phases []Phase) []Phase {
	out := make([]Phase, len(phases))
	copy(out, phases)
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}

// RenumberTickets rewrites each ticket's Order to its 1-based positional
// index.
func RenumberTickets(tickets []Ticket) []Ticket {
	out := make([]Ticket, len(tickets))
	copy(out, tickets)
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}
