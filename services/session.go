package services

// PhaseSession owns a PhaseState and serializes every mutation through a
// single goroutine, so no two mutations are ever applied out of program
// order. Snapshots are copies; callers never alias the owned state.
type PhaseSession struct {
	commands chan sessionCommand
	done     chan struct{}
}

type sessionCommand struct {
	mutation *PhaseMutation
	snapshot chan PhaseState
}

// NewPhaseSession starts the owning goroutine with the given initial phases.
// Close must be called when the session is abandoned.
func NewPhaseSession(initial []Phase) *PhaseSession {
	s := &PhaseSession{
		commands: make(chan sessionCommand),
		done:     make(chan struct{}),
	}

	state := PhaseState{Phases: make([]Phase, len(initial))}
	copy(state.Phases, initial)

	go func() {
		for {
			select {
			case cmd := <-s.commands:
				if cmd.mutation != nil {
					state = state.Apply(*cmd.mutation)
				}
				if cmd.snapshot != nil {
					snap := PhaseState{
						Phases:  make([]Phase, len(state.Phases)),
						Pending: state.Pending,
					}
					copy(snap.Phases, state.Phases)
					cmd.snapshot <- snap
				}
			case <-s.done:
				return
			}
		}
	}()

	return s
}

// Apply queues a mutation and blocks until the owner has applied it.
func (s *PhaseSession) Apply(m PhaseMutation) {
	ack := make(chan PhaseState, 1)
	s.commands <- sessionCommand{mutation: &m, snapshot: ack}
	<-ack
}

// Snapshot returns a copy of the current state.
func (s *PhaseSession) Snapshot() PhaseState {
	out := make(chan PhaseState, 1)
	s.commands <- sessionCommand{snapshot: out}
	return <-out
}

// Close stops the owning goroutine. The session must not be used afterwards.
func (s *PhaseSession) Close() {
	close(s.done)
}
