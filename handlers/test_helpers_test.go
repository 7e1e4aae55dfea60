package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/manage"
	"proposalbuilder/services"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// stubManageClient is an in-memory manage.Client for handler tests. Templates
// are keyed by id; external creations hand out sequential ids.
type stubManageClient struct {
	templates    map[int]*manage.ProjectTemplate
	templateErr  error
	catalogErr   error
	nextID       int
	createdCalls []string
}

func newStubManageClient() *stubManageClient {
	return &stubManageClient{templates: map[int]*manage.ProjectTemplate{}}
}

func (s *stubManageClient) CreateOpportunity(ctx context.Context, in manage.OpportunityInput) (int, error) {
	s.nextID++
	s.createdCalls = append(s.createdCalls, "opportunity")
	return s.nextID, nil
}

func (s *stubManageClient) CreateProject(ctx context.Context, in manage.ProjectInput) (*manage.Project, error) {
	s.nextID++
	s.createdCalls = append(s.createdCalls, "project")
	return &manage.Project{ID: s.nextID, Name: in.Name}, nil
}

func (s *stubManageClient) UpdateProjectHours(ctx context.Context, projectID int, hours float64) error {
	return nil
}

func (s *stubManageClient) CreateProjectPhase(ctx context.Context, projectID int, phase services.Phase) (int, error) {
	s.nextID++
	s.createdCalls = append(s.createdCalls, "phase:"+phase.Description)
	return s.nextID, nil
}

func (s *stubManageClient) OpportunityStatuses(ctx context.Context) ([]manage.Status, error) {
	if s.catalogErr != nil {
		return nil, s.catalogErr
	}
	return []manage.Status{{ID: 2, Name: "Open"}}, nil
}

func (s *stubManageClient) OpportunityTypes(ctx context.Context) ([]manage.OpportunityType, error) {
	return []manage.OpportunityType{{ID: 5, Description: "Services"}}, nil
}

func (s *stubManageClient) ProjectStatuses(ctx context.Context) ([]manage.Status, error) {
	return []manage.Status{{ID: 8, Name: "Scheduled"}}, nil
}

func (s *stubManageClient) ProjectBoards(ctx context.Context) ([]manage.Board, error) {
	return []manage.Board{{ID: 25, Name: "Projects"}}, nil
}

func (s *stubManageClient) ServiceTickets(ctx context.Context) ([]manage.ServiceTicket, error) {
	return []manage.ServiceTicket{{ID: 100, Summary: "Quote request"}}, nil
}

func (s *stubManageClient) ProjectTemplates(ctx context.Context) ([]manage.ProjectTemplate, error) {
	if s.catalogErr != nil {
		return nil, s.catalogErr
	}
	out := make([]manage.ProjectTemplate, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, *t)
	}
	return out, nil
}

func (s *stubManageClient) ProjectTemplate(ctx context.Context, id int) (*manage.ProjectTemplate, error) {
	if s.templateErr != nil {
		return nil, s.templateErr
	}
	template, ok := s.templates[id]
	if !ok {
		return nil, &manage.APIError{StatusCode: http.StatusNotFound, Body: "template not found"}
	}
	return template, nil
}

func (s *stubManageClient) OpportunityLink(id int) string {
	return fmt.Sprintf("https://manage.test/opp/%d", id)
}

func (s *stubManageClient) ProjectLink(id int) string {
	return fmt.Sprintf("https://manage.test/proj/%d", id)
}

// networkTemplate is a two-phase workplan used across the drop and insert tests.
func networkTemplate(id int) *manage.ProjectTemplate {
	return &manage.ProjectTemplate{
		ID:   id,
		Name: "Network Refresh",
		Workplan: &services.Workplan{Phases: []services.PhasePrototype{
			{
				Description: "Discovery",
				Tickets: []services.TicketPrototype{
					{Summary: "Kickoff call", BudgetHours: 2, Tasks: []services.TaskPrototype{
						{Summary: "Schedule meeting", Priority: 1},
					}},
					{Summary: "Site survey", BudgetHours: 6},
				},
			},
			{
				Description: "Implementation",
				Tickets: []services.TicketPrototype{
					{Summary: "Configure hardware", BudgetHours: 16},
				},
			},
		}},
	}
}
