package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/conversion"
	"proposalbuilder/manage"
)

// conversionStore persists external linkage as the pipeline progresses, so
// a reloaded session resumes at the right stage.
type conversionStore struct {
	app *pocketbase.PocketBase
}

func (s *conversionStore) SetOpportunityID(proposalID string, opportunityID int) error {
	record, err := s.app.FindRecordById("proposals", proposalID)
	if err != nil {
		return err
	}
	record.Set("opportunity_id", opportunityID)
	return s.app.Save(record)
}

func (s *conversionStore) SetProjectID(proposalID string, projectID int) error {
	record, err := s.app.FindRecordById("proposals", proposalID)
	if err != nil {
		return err
	}
	record.Set("project_id", projectID)
	record.Set("status", "inProgress")
	return s.app.Save(record)
}

func (s *conversionStore) SetPhaseReferenceID(phaseID string, referenceID int) error {
	record, err := s.app.FindRecordById("phases", phaseID)
	if err != nil {
		return err
	}
	record.Set("reference_id", referenceID)
	return s.app.Save(record)
}

// conversionRegistry holds one live pipeline per proposal so a status poll
// can observe the workplan loop another request is running.
type conversionRegistry struct {
	mu        sync.Mutex
	pipelines map[string]*conversion.Pipeline
}

var registry = conversionRegistry{pipelines: make(map[string]*conversion.Pipeline)}

// pipelineFor returns the live pipeline for a proposal, building one from
// the persisted proposal and phase records on first access.
func pipelineFor(app *pocketbase.PocketBase, client manage.Client, proposalID string) (*conversion.Pipeline, error) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if p, ok := registry.pipelines[proposalID]; ok {
		return p, nil
	}

	proposal, err := app.FindRecordById("proposals", proposalID)
	if err != nil {
		return nil, err
	}
	versionID := proposal.GetString("working_version")
	phases, err := loadVersionPhases(app, versionID)
	if err != nil {
		return nil, err
	}

	pipeline := conversion.NewPipeline(client, &conversionStore{app: app}, conversion.Proposal{
		ID:            proposal.Id,
		Name:          proposal.GetString("name"),
		OpportunityID: proposal.GetInt("opportunity_id"),
		ProjectID:     proposal.GetInt("project_id"),
	}, phases)

	registry.pipelines[proposalID] = pipeline
	return pipeline, nil
}

// conversionStatus is the modal's view of the pipeline.
type conversionStatus struct {
	Stage           conversion.Stage                    `json:"stage"`
	OpportunityID   int                                 `json:"opportunity_id,omitempty"`
	ProjectID       int                                 `json:"project_id,omitempty"`
	OpportunityLink string                              `json:"opportunity_link,omitempty"`
	ProjectLink     string                              `json:"project_link,omitempty"`
	Progress        map[string]conversion.PhaseProgress `json:"progress"`
}

// HandleConversionStatus reports the pipeline's stage, per-phase progress,
// and — once completed — the read-only deep links.
func HandleConversionStatus(app *pocketbase.PocketBase, client manage.Client) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		pipeline, err := pipelineFor(app, client, e.Request.PathValue("id"))
		if err != nil {
			log.Printf("conversion_status: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Proposal not found")
		}

		status := conversionStatus{
			Stage:         pipeline.Stage(),
			OpportunityID: pipeline.OpportunityID(),
			ProjectID:     pipeline.ProjectID(),
			Progress:      pipeline.Progress(),
		}
		status.OpportunityLink, status.ProjectLink = pipeline.Links()
		return e.JSON(http.StatusOK, status)
	}
}

// HandleConversionOpportunity runs the opportunity stage.
func HandleConversionOpportunity(app *pocketbase.PocketBase, client manage.Client) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		pipeline, err := pipelineFor(app, client, e.Request.PathValue("id"))
		if err != nil {
			log.Printf("conversion_opportunity: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Proposal not found")
		}

		var in manage.OpportunityInput
		if err := e.BindBody(&in); err != nil {
			return badRequest(e, "conversion_opportunity", err)
		}

		id, err := pipeline.CreateOpportunity(e.Request.Context(), in)
		if err != nil {
			if errors.Is(err, conversion.ErrOpportunityExists) {
				return ErrorToast(e, http.StatusConflict, "Opportunity already created")
			}
			log.Printf("conversion_opportunity: %v", err)
			return ErrorToast(e, http.StatusBadGateway, fmt.Sprintf("Error creating opportunity: %v", err))
		}

		SetToast(e, "success", "Opportunity created!")
		return e.JSON(http.StatusOK, map[string]any{
			"opportunity_id": id,
			"stage":          pipeline.Stage(),
		})
	}
}

// HandleConversionProject runs the project stage and then the workplan
// stage: external phases are created one at a time in ascending phase
// order, paced against the external system's rate ceiling. Per-phase
// failures are logged and skipped; the pipeline still completes.
func HandleConversionProject(app *pocketbase.PocketBase, client manage.Client) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		pipeline, err := pipelineFor(app, client, e.Request.PathValue("id"))
		if err != nil {
			log.Printf("conversion_project: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Proposal not found")
		}

		var in manage.ProjectInput
		if err := e.BindBody(&in); err != nil {
			return badRequest(e, "conversion_project", err)
		}

		project, err := pipeline.CreateProject(e.Request.Context(), in)
		if err != nil {
			switch {
			case errors.Is(err, conversion.ErrMissingDates):
				return ErrorToast(e, http.StatusBadRequest, "Estimated start and end dates are required")
			case errors.Is(err, conversion.ErrNoOpportunity):
				return ErrorToast(e, http.StatusConflict, "Create the opportunity first")
			}
			log.Printf("conversion_project: %v", err)
			return ErrorToast(e, http.StatusBadGateway, fmt.Sprintf("Error creating project: %v", err))
		}

		if err := pipeline.RunWorkplan(e.Request.Context()); err != nil {
			log.Printf("conversion_project: workplan: %v", err)
			return ErrorToast(e, http.StatusBadGateway, fmt.Sprintf("Error creating workplan: %v", err))
		}

		opportunityLink, projectLink := pipeline.Links()
		SetToast(e, "success", "Proposal transferred!")
		return e.JSON(http.StatusOK, map[string]any{
			"project_id":       project.ID,
			"stage":            pipeline.Stage(),
			"opportunity_link": opportunityLink,
			"project_link":     projectLink,
		})
	}
}
