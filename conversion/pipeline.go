// Package conversion drives a proposal through the external system:
// opportunity, then project, then one external phase per workplan phase.
package conversion

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"proposalbuilder/manage"
	"proposalbuilder/services"
)

// Stage identifies where the pipeline currently sits.
type Stage string

const (
	StageOpportunity Stage = "opportunity"
	StageProject     Stage = "project"
	StageWorkplan    Stage = "workplan"
	StageCompleted   Stage = "completed"
)

// PhaseProgress tracks the workplan stage's per-phase indicator.
type PhaseProgress string

const (
	ProgressIncomplete PhaseProgress = "incomplete"
	ProgressLoading    PhaseProgress = "loading"
	ProgressDone       PhaseProgress = "done"
)

// PhaseCreationDelay is the pause imposed after each external phase-creation
// call, on top of the client's own rate limit.
const PhaseCreationDelay = 500 * time.Millisecond

var (
	// ErrOpportunityExists guards against duplicate opportunity creation.
	ErrOpportunityExists = errors.New("conversion: opportunity already created")
	// ErrNoOpportunity is returned when the project stage runs before an
	// opportunity id exists.
	ErrNoOpportunity = errors.New("conversion: no opportunity id on proposal")
	// ErrNoProject is returned when the workplan stage runs before a
	// project id exists.
	ErrNoProject = errors.New("conversion: no project id on proposal")
	// ErrMissingDates is a precondition failure: both estimated dates are
	// required before project creation is attempted.
	ErrMissingDates = errors.New("conversion: estimated start and end dates are required")
)

// Store persists the external linkage as the pipeline progresses, so a
// partially-completed conversion resumes at the right stage after a reload.
type Store interface {
	SetOpportunityID(proposalID string, opportunityID int) error
	SetProjectID(proposalID string, projectID int) error
	SetPhaseReferenceID(phaseID string, referenceID int) error
}

// Proposal is the snapshot of proposal fields the pipeline needs.
type Proposal struct {
	ID            string
	Name          string
	OpportunityID int
	ProjectID     int
}

// Pipeline is the linear state machine for one proposal's conversion.
// External calls run on the caller's goroutine; state access is serialized
// by a mutex so a status poll can read progress mid-run.
type Pipeline struct {
	client manage.Client
	store  Store

	mu            sync.Mutex
	proposal      Proposal
	phases        []services.Phase
	stage         Stage
	progress      map[string]PhaseProgress
	opportunityID int
	projectID     int

	// wait paces the workplan loop; tests inject their own.
	wait func(ctx context.Context, d time.Duration) error
}

// NewPipeline builds a pipeline positioned at the stage the proposal's
// existing linkage implies: completed when a project id exists, project when
// an opportunity id exists, else opportunity. Per-phase progress always
// starts incomplete; it is not persisted across reloads.
func NewPipeline(client manage.Client, store Store, proposal Proposal, phases []services.Phase) *Pipeline {
	sorted := make([]services.Phase, len(phases))
	copy(sorted, phases)
	services.SortPhases(sorted)

	progress := make(map[string]PhaseProgress, len(sorted))
	for _, p := range sorted {
		progress[p.ID] = ProgressIncomplete
	}

	stage := StageOpportunity
	switch {
	case proposal.ProjectID != 0:
		stage = StageCompleted
	case proposal.OpportunityID != 0:
		stage = StageProject
	}

	return &Pipeline{
		client:        client,
		store:         store,
		proposal:      proposal,
		phases:        sorted,
		stage:         stage,
		progress:      progress,
		opportunityID: proposal.OpportunityID,
		projectID:     proposal.ProjectID,
		wait:          sleepWait,
	}
}

func sleepWait(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stage returns the pipeline's current stage.
func (p *Pipeline) Stage() Stage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stage
}

// Progress returns a copy of the per-phase indicators.
func (p *Pipeline) Progress() map[string]PhaseProgress {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]PhaseProgress, len(p.progress))
	for id, v := range p.progress {
		out[id] = v
	}
	return out
}

// OpportunityID returns the recorded external opportunity id, 0 if none.
func (p *Pipeline) OpportunityID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opportunityID
}

// ProjectID returns the recorded external project id, 0 if none.
func (p *Pipeline) ProjectID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.projectID
}

// Links returns the read-only deep links shown once conversion completes.
func (p *Pipeline) Links() (opportunity, project string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.opportunityID != 0 {
		opportunity = p.client.OpportunityLink(p.opportunityID)
	}
	if p.projectID != 0 {
		project = p.client.ProjectLink(p.projectID)
	}
	return opportunity, project
}

// CreateOpportunity runs the first stage. Creation is refused once an id is
// already present. On success the id is recorded on the proposal and the
// pipeline advances to the project stage; on failure it stays put so the
// user can retry.
func (p *Pipeline) CreateOpportunity(ctx context.Context, in manage.OpportunityInput) (int, error) {
	p.mu.Lock()
	if p.opportunityID != 0 {
		p.mu.Unlock()
		return 0, ErrOpportunityExists
	}
	if in.Name == "" {
		in.Name = p.proposal.Name
	}
	proposalID := p.proposal.ID
	p.mu.Unlock()

	id, err := p.client.CreateOpportunity(ctx, in)
	if err != nil {
		return 0, err
	}

	if err := p.store.SetOpportunityID(proposalID, id); err != nil {
		log.Printf("conversion: could not persist opportunity id %d: %v", id, err)
	}

	p.mu.Lock()
	p.opportunityID = id
	p.stage = StageProject
	p.mu.Unlock()
	return id, nil
}

// CreateProject runs the second stage: it requires the opportunity id from
// stage one and both estimated dates, creates the project, pushes the
// aggregate labor hours, and advances to the workplan stage.
func (p *Pipeline) CreateProject(ctx context.Context, in manage.ProjectInput) (*manage.Project, error) {
	p.mu.Lock()
	if p.opportunityID == 0 {
		p.mu.Unlock()
		return nil, ErrNoOpportunity
	}
	if in.EstimatedStart == "" || in.EstimatedEnd == "" {
		p.mu.Unlock()
		return nil, ErrMissingDates
	}
	in.OpportunityID = p.opportunityID
	if in.Name == "" {
		in.Name = p.proposal.Name
	}
	proposalID := p.proposal.ID
	hours := services.TotalHours(p.phases)
	p.mu.Unlock()

	project, err := p.client.CreateProject(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := p.store.SetProjectID(proposalID, project.ID); err != nil {
		log.Printf("conversion: could not persist project id %d: %v", project.ID, err)
	}

	if err := p.client.UpdateProjectHours(ctx, project.ID, hours); err != nil {
		log.Printf("conversion: could not push labor hours to project %d: %v", project.ID, err)
	}

	p.mu.Lock()
	p.projectID = project.ID
	p.stage = StageWorkplan
	p.mu.Unlock()
	return project, nil
}

// RunWorkplan runs the final stage: one external phase creation per phase,
// strictly sequential in ascending phase order, with a fixed pause after
// each call to respect the external system's request-rate ceiling. A failed
// phase is logged and left incomplete; the loop always continues. The
// pipeline transitions to completed once every phase has been attempted.
func (p *Pipeline) RunWorkplan(ctx context.Context) error {
	p.mu.Lock()
	if p.projectID == 0 {
		p.mu.Unlock()
		return ErrNoProject
	}
	projectID := p.projectID
	phases := make([]services.Phase, len(p.phases))
	copy(phases, p.phases)
	p.mu.Unlock()

	for _, phase := range phases {
		// Already created in a previous run; never duplicate it.
		if phase.ReferenceID != 0 {
			p.setProgress(phase.ID, ProgressDone)
			continue
		}

		p.setProgress(phase.ID, ProgressLoading)

		referenceID, err := p.client.CreateProjectPhase(ctx, projectID, phase)
		if err != nil {
			log.Printf("conversion: failed to create phase %q: %v", phase.Description, err)
			p.setProgress(phase.ID, ProgressIncomplete)
		} else {
			p.setProgress(phase.ID, ProgressDone)
			if err := p.store.SetPhaseReferenceID(phase.ID, referenceID); err != nil {
				log.Printf("conversion: could not persist reference id for phase %q: %v", phase.Description, err)
			}
		}

		if err := p.wait(ctx, PhaseCreationDelay); err != nil {
			return err
		}
	}

	p.mu.Lock()
	p.stage = StageCompleted
	p.mu.Unlock()
	return nil
}

func (p *Pipeline) setProgress(phaseID string, v PhaseProgress) {
	p.mu.Lock()
	p.progress[phaseID] = v
	p.mu.Unlock()
}
