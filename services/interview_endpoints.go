package services

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/johnnycuong/mps-recruitment/models"
	"github.com/johnnycuong/mps-recruitment/repository"
)

type InterviewEndpoints struct {
	store    repository.Store
	workflow *WorkflowService
}

type ScheduleInterviewRequest struct {
	ApplicationID     string    `json:"application_id" validate:"required"`
	ScheduledAt       time.Time `json:"scheduled_at" validate:"required"`
	InterviewType     string    `json:"interview_type"`
	DurationMinutes   int       `json:"duration_minutes" validate:"omitempty,gte=1,lte=1440"`
	Location          string    `json:"location"`
	MeetingLink       string    `json:"meeting_link"`
	InterviewerID     *string   `json:"interviewer_id"`
	ClientInterviewer string    `json:"client_interviewer"`
	Notes             string    `json:"notes"`
}

type UpdateInterviewRequest struct {
	ScheduledAt       *time.Time `json:"scheduled_at"`
	InterviewType     *string    `json:"interview_type"`
	DurationMinutes   *int       `json:"duration_minutes" validate:"omitempty,gte=1,lte=1440"`
	Location          *string    `json:"location"`
	MeetingLink       *string    `json:"meeting_link"`
	InterviewerID     *string    `json:"interviewer_id"`
	ClientInterviewer *string    `json:"client_interviewer"`
	InterviewFeedback
}

type InterviewStatusRequest struct {
	Status   string             `json:"status" validate:"required"`
	Feedback *InterviewFeedback `json:"feedback"`
}

func NewInterviewEndpoints(store repository.Store, workflow *WorkflowService) *InterviewEndpoints {
	return &InterviewEndpoints{store: store, workflow: workflow}
}

func (e *InterviewEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/interviews", func(r chi.Router) {
		r.Get("/", e.ListInterviewsHandler)
		r.Post("/", e.ScheduleInterviewHandler)
		r.Get("/{id}", e.GetInterviewHandler)
		r.Put("/{id}", e.UpdateInterviewHandler)
		r.Delete("/{id}", e.DeleteInterviewHandler)
		r.Put("/{id}/status", e.TransitionHandler)
	})
}

func (e *InterviewEndpoints) ListInterviewsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.InterviewFilter{
		ApplicationID: q.Get("application_id"),
		CandidateID:   q.Get("candidate_id"),
	}
	if raw := q.Get("status"); raw != "" {
		status, err := models.ParseInterviewStatus(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		filter.Status = &status
	}
	var err error
	if filter.From, err = queryTime(r, "date_from"); err != nil {
		writeError(w, err)
		return
	}
	if filter.To, err = queryTime(r, "date_to"); err != nil {
		writeError(w, err)
		return
	}

	page := parsePage(r)
	interviews, total, err := e.store.ListInterviews(r.Context(), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, interviews, total, page)
}

func (e *InterviewEndpoints) GetInterviewHandler(w http.ResponseWriter, r *http.Request) {
	interview, err := e.store.GetInterview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, interview)
}

func (e *InterviewEndpoints) ScheduleInterviewHandler(w http.ResponseWriter, r *http.Request) {
	var req ScheduleInterviewRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	interview, err := e.workflow.ScheduleInterview(r.Context(), actorFromRequest(r), ScheduleInterviewInput{
		ApplicationID:     req.ApplicationID,
		ScheduledAt:       req.ScheduledAt,
		InterviewType:     req.InterviewType,
		DurationMinutes:   req.DurationMinutes,
		Location:          req.Location,
		MeetingLink:       req.MeetingLink,
		InterviewerID:     req.InterviewerID,
		ClientInterviewer: req.ClientInterviewer,
		Notes:             req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, interview)
}

func (e *InterviewEndpoints) UpdateInterviewHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateInterviewRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	feedback := req.InterviewFeedback
	interview, err := e.workflow.UpdateInterview(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), UpdateInterviewInput{
		ScheduledAt:       req.ScheduledAt,
		InterviewType:     req.InterviewType,
		DurationMinutes:   req.DurationMinutes,
		Location:          req.Location,
		MeetingLink:       req.MeetingLink,
		InterviewerID:     req.InterviewerID,
		ClientInterviewer: req.ClientInterviewer,
		Feedback:          &feedback,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, interview)
}

func (e *InterviewEndpoints) DeleteInterviewHandler(w http.ResponseWriter, r *http.Request) {
	if err := e.workflow.DeleteInterview(r.Context(), actorFromRequest(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (e *InterviewEndpoints) TransitionHandler(w http.ResponseWriter, r *http.Request) {
	var req InterviewStatusRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	interview, err := e.workflow.TransitionInterview(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), req.Status, req.Feedback)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, interview)
}
