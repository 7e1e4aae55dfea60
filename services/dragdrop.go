package services

// Drop zones a drag can start from or land on. The ticket zone carries the
// index of its owning phase structurally rather than encoded in a string tag.
type Zone string

const (
	ZonePhases    Zone = "phases"
	ZoneTickets   Zone = "tickets"
	ZoneTemplates Zone = "templates"
)

// DropPoint locates one end of a drag: which zone, and the 0-based index
// within it. PhaseIndex identifies the owning phase for the tickets zone and
// is ignored elsewhere.
type DropPoint struct {
	Zone       Zone `json:"zone"`
	Index      int  `json:"index"`
	PhaseIndex int  `json:"phase_index"`
}

// DropEvent is one completed drag. Destination is nil when the item was
// released outside every droppable zone.
type DropEvent struct {
	Source      DropPoint  `json:"source"`
	Destination *DropPoint `json:"destination"`
}

// DropActionKind tags the strategy ResolveDrop selected.
type DropActionKind int

const (
	// DropNoOp covers null destinations, same-position drops, and
	// combinations the builder does not support (including cross-phase
	// ticket moves).
	DropNoOp DropActionKind = iota
	// DropTemplateInsert expands the template at TemplateIndex into the
	// phase list at DestinationIndex.
	DropTemplateInsert
	// DropTicketReorder reorders one phase's ticket list.
	DropTicketReorder
	// DropPhaseReorder reorders the phase list itself.
	DropPhaseReorder
)

// DropAction is the resolved strategy for a drop event.
type DropAction struct {
	Kind             DropActionKind
	TemplateIndex    int
	PhaseIndex       int
	SourceIndex      int
	DestinationIndex int
}

// ResolveDrop maps a drop event to the mutation strategy it requires.
// The caller applies the action optimistically and then persists every
// entity whose order changed.
func ResolveDrop(event DropEvent) DropAction {
	if event.Destination == nil {
		return DropAction{Kind: DropNoOp}
	}
	src, dst := event.Source, *event.Destination

	if src.Zone == dst.Zone && src.Index == dst.Index &&
		(src.Zone != ZoneTickets || src.PhaseIndex == dst.PhaseIndex) {
		return DropAction{Kind: DropNoOp}
	}

	switch {
	case src.Zone == ZoneTemplates && dst.Zone == ZonePhases:
		return DropAction{
			Kind:             DropTemplateInsert,
			TemplateIndex:    src.Index,
			DestinationIndex: dst.Index,
		}

	case src.Zone == ZoneTickets && dst.Zone == ZoneTickets:
		// Moving a ticket between phases would reassign parentage, which
		// same-list reordering must never do. Not supported.
		if src.PhaseIndex != dst.PhaseIndex {
			return DropAction{Kind: DropNoOp}
		}
		return DropAction{
			Kind:             DropTicketReorder,
			PhaseIndex:       src.PhaseIndex,
			SourceIndex:      src.Index,
			DestinationIndex: dst.Index,
		}

	case src.Zone == ZonePhases && dst.Zone == ZonePhases:
		return DropAction{
			Kind:             DropPhaseReorder,
			SourceIndex:      src.Index,
			DestinationIndex: dst.Index,
		}
	}

	return DropAction{Kind: DropNoOp}
}
