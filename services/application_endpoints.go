package services

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/johnnycuong/mps-recruitment/models"
	"github.com/johnnycuong/mps-recruitment/repository"
)

type ApplicationEndpoints struct {
	store    repository.Store
	workflow *WorkflowService
}

type CreateApplicationRequest struct {
	CandidateID      string   `json:"candidate_id" validate:"required"`
	JobPositionID    string   `json:"job_position_id" validate:"required"`
	CoverLetter      string   `json:"cover_letter"`
	ExpectedSalary   *float64 `json:"expected_salary" validate:"omitempty,gte=0"`
	AvailabilityDate string   `json:"availability_date"`
	RecruiterNotes   string   `json:"recruiter_notes"`
}

type UpdateApplicationRequest struct {
	CoverLetter      *string  `json:"cover_letter"`
	ExpectedSalary   *float64 `json:"expected_salary" validate:"omitempty,gte=0"`
	AvailabilityDate *string  `json:"availability_date"`
	RecruiterID      *string  `json:"recruiter_id"`
	RecruiterNotes   *string  `json:"recruiter_notes"`
	CandidateScore   *float64 `json:"candidate_score" validate:"omitempty,gte=0,lte=10"`
	CurrentStage     *string  `json:"current_stage" validate:"omitempty,max=50"`
	IsActive         *bool    `json:"is_active"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func NewApplicationEndpoints(store repository.Store, workflow *WorkflowService) *ApplicationEndpoints {
	return &ApplicationEndpoints{store: store, workflow: workflow}
}

func (e *ApplicationEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/applications", func(r chi.Router) {
		r.Get("/", e.ListApplicationsHandler)
		r.Post("/", e.CreateApplicationHandler)
		r.Get("/{id}", e.GetApplicationHandler)
		r.Put("/{id}", e.UpdateApplicationHandler)
		r.Delete("/{id}", e.DeleteApplicationHandler)
		r.Put("/{id}/status", e.TransitionHandler)
	})
}

func (e *ApplicationEndpoints) ListApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ApplicationFilter{
		CandidateID:   q.Get("candidate_id"),
		JobPositionID: q.Get("job_position_id"),
		RecruiterID:   q.Get("recruiter_id"),
	}
	if raw := q.Get("status"); raw != "" {
		status, err := models.ParseApplicationStatus(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		filter.Status = &status
	}

	page := parsePage(r)
	apps, total, err := e.store.ListApplications(r.Context(), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, apps, total, page)
}

func (e *ApplicationEndpoints) GetApplicationHandler(w http.ResponseWriter, r *http.Request) {
	app, err := e.store.GetApplication(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (e *ApplicationEndpoints) CreateApplicationHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateApplicationRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	availability, err := parseDate("availability_date", req.AvailabilityDate)
	if err != nil {
		writeError(w, err)
		return
	}

	app, err := e.workflow.CreateApplication(r.Context(), actorFromRequest(r), CreateApplicationInput{
		CandidateID:      req.CandidateID,
		JobPositionID:    req.JobPositionID,
		CoverLetter:      req.CoverLetter,
		ExpectedSalary:   req.ExpectedSalary,
		AvailabilityDate: availability,
		RecruiterNotes:   req.RecruiterNotes,
	})
	if err != nil {
		slog.Warn("Failed to create application", "error", err, "candidate_id", req.CandidateID, "job_position_id", req.JobPositionID)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (e *ApplicationEndpoints) UpdateApplicationHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateApplicationRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	in := UpdateApplicationInput{
		CoverLetter:    req.CoverLetter,
		ExpectedSalary: req.ExpectedSalary,
		RecruiterID:    req.RecruiterID,
		RecruiterNotes: req.RecruiterNotes,
		CandidateScore: req.CandidateScore,
		CurrentStage:   req.CurrentStage,
		IsActive:       req.IsActive,
	}
	if req.AvailabilityDate != nil {
		d, err := parseDate("availability_date", *req.AvailabilityDate)
		if err != nil {
			writeError(w, err)
			return
		}
		in.AvailabilityDate = d
	}

	app, err := e.workflow.UpdateApplication(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (e *ApplicationEndpoints) DeleteApplicationHandler(w http.ResponseWriter, r *http.Request) {
	if err := e.workflow.DeleteApplication(r.Context(), actorFromRequest(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (e *ApplicationEndpoints) TransitionHandler(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	app, err := e.workflow.TransitionApplication(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}
