package services

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/johnnycuong/mps-recruitment/models"
	"github.com/johnnycuong/mps-recruitment/repository"
)

type ActivityEndpoints struct {
	activities *ActivityService
}

type LogActivityRequest struct {
	ActivityType  string                 `json:"activity_type" validate:"required"`
	Description   string                 `json:"description" validate:"required"`
	Details       map[string]interface{} `json:"details"`
	CandidateID   *string                `json:"candidate_id"`
	ApplicationID *string                `json:"application_id"`
	JobPositionID *string                `json:"job_position_id"`
}

func NewActivityEndpoints(activities *ActivityService) *ActivityEndpoints {
	return &ActivityEndpoints{activities: activities}
}

func (e *ActivityEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/activities", func(r chi.Router) {
		r.Get("/", e.ListActivitiesHandler)
		r.Post("/", e.LogActivityHandler)
		r.Get("/recent", e.RecentActivitiesHandler)
		r.Get("/statistics", e.StatisticsHandler)
	})
}

func (e *ActivityEndpoints) ListActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ActivityFilter{
		UserID:        q.Get("user_id"),
		CandidateID:   q.Get("candidate_id"),
		ApplicationID: q.Get("application_id"),
		JobPositionID: q.Get("job_position_id"),
	}
	if raw := q.Get("activity_type"); raw != "" {
		t, err := models.ParseActivityType(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		filter.Type = &t
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

	// Paging defaults differ from the other lists and are applied by the service.
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	result, err := e.activities.List(r.Context(), filter, repository.Page{Page: page, PerPage: perPage})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (e *ActivityEndpoints) LogActivityHandler(w http.ResponseWriter, r *http.Request) {
	var req LogActivityRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	activityType, err := models.ParseActivityType(req.ActivityType)
	if err != nil {
		writeError(w, err)
		return
	}

	activity, err := e.activities.LogActivity(r.Context(), actorFromRequest(r), ActivityEntry{
		Type:          activityType,
		Description:   req.Description,
		Details:       req.Details,
		CandidateID:   req.CandidateID,
		ApplicationID: req.ApplicationID,
		JobPositionID: req.JobPositionID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, activity)
}

func (e *ActivityEndpoints) RecentActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", defaultRecentDays)
	if err != nil {
		writeError(w, err)
		return
	}
	limit, err := queryInt(r, "limit", defaultRecentLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	activities, err := e.activities.Recent(r.Context(), days, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"activities": activities,
		"days":       days,
		"count":      len(activities),
	})
}

func (e *ActivityEndpoints) StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", defaultStatisticsDays)
	if err != nil {
		writeError(w, err)
		return
	}
	stats, err := e.activities.Statistics(r.Context(), days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
