package services

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/johnnycuong/mps-recruitment/models"
	"github.com/johnnycuong/mps-recruitment/repository"
)

type JobEndpoints struct {
	store    repository.Store
	workflow *WorkflowService
}

type JobFields struct {
	ClientID         *string  `json:"client_id"`
	Title            *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description      *string  `json:"description"`
	Requirements     *string  `json:"requirements"`
	Responsibilities *string  `json:"responsibilities"`
	Benefits         *string  `json:"benefits"`
	JobType          *string  `json:"job_type"`
	JobLevel         *string  `json:"job_level"`
	Location         *string  `json:"location"`
	IsRemote         *bool    `json:"is_remote"`
	Department       *string  `json:"department"`
	SalaryMin        *float64 `json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax        *float64 `json:"salary_max" validate:"omitempty,gte=0"`
	SalaryCurrency   *string  `json:"salary_currency" validate:"omitempty,len=3"`
	IsSalaryPublic   *bool    `json:"is_salary_public"`
	Vacancies        *int     `json:"vacancies"`
	Status           *string  `json:"status"`
	StartDate        *string  `json:"start_date"`
	EndDate          *string  `json:"end_date"`
	Priority         *int     `json:"priority"`
	TimeToFill       *int     `json:"time_to_fill" validate:"omitempty,gte=0"`
}

type CreateJobRequest struct {
	JobFields
	ClientID string `json:"client_id" validate:"required"`
	Title    string `json:"title" validate:"required,max=200"`
}

func NewJobEndpoints(store repository.Store, workflow *WorkflowService) *JobEndpoints {
	return &JobEndpoints{store: store, workflow: workflow}
}

func (e *JobEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", e.ListJobsHandler)
		r.Post("/", e.CreateJobHandler)
		r.Get("/{id}", e.GetJobHandler)
		r.Put("/{id}", e.UpdateJobHandler)
		r.Delete("/{id}", e.DeleteJobHandler)
	})
}

func (e *JobEndpoints) ListJobsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.JobFilter{ClientID: q.Get("client_id"), Search: q.Get("search")}
	if raw := q.Get("status"); raw != "" {
		status, err := models.ParseJobStatus(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		filter.Status = &status
	}

	page := parsePage(r)
	jobs, total, err := e.store.ListJobPositions(r.Context(), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, jobs, total, page)
}

func (e *JobEndpoints) GetJobHandler(w http.ResponseWriter, r *http.Request) {
	job, err := e.store.GetJobPosition(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (e *JobEndpoints) CreateJobHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.JobFields.ClientID = &req.ClientID
	req.JobFields.Title = &req.Title

	job := &models.JobPosition{}
	if err := req.JobFields.apply(job); err != nil {
		writeError(w, err)
		return
	}
	created, err := e.workflow.CreateJobPosition(r.Context(), actorFromRequest(r), job)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (e *JobEndpoints) UpdateJobHandler(w http.ResponseWriter, r *http.Request) {
	var req JobFields
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	job, err := e.workflow.UpdateJobPosition(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), req.apply)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (e *JobEndpoints) DeleteJobHandler(w http.ResponseWriter, r *http.Request) {
	if err := e.workflow.DeleteJobPosition(r.Context(), actorFromRequest(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *JobFields) apply(j *models.JobPosition) error {
	setString(&j.ClientID, f.ClientID)
	setString(&j.Title, f.Title)
	setString(&j.Description, f.Description)
	setString(&j.Requirements, f.Requirements)
	setString(&j.Responsibilities, f.Responsibilities)
	setString(&j.Benefits, f.Benefits)
	setString(&j.Location, f.Location)
	setString(&j.Department, f.Department)
	setString(&j.SalaryCurrency, f.SalaryCurrency)
	if f.JobType != nil {
		jt, err := models.ParseJobType(*f.JobType)
		if err != nil {
			return err
		}
		j.JobType = jt
	}
	if f.JobLevel != nil {
		if *f.JobLevel == "" {
			j.JobLevel = nil
		} else {
			lvl, err := models.ParseJobLevel(*f.JobLevel)
			if err != nil {
				return err
			}
			j.JobLevel = &lvl
		}
	}
	if f.Status != nil {
		st, err := models.ParseJobStatus(*f.Status)
		if err != nil {
			return err
		}
		j.Status = st
	}
	if f.IsRemote != nil {
		j.IsRemote = *f.IsRemote
	}
	if f.IsSalaryPublic != nil {
		j.IsSalaryPublic = *f.IsSalaryPublic
	}
	if f.SalaryMin != nil {
		j.SalaryMin = f.SalaryMin
	}
	if f.SalaryMax != nil {
		j.SalaryMax = f.SalaryMax
	}
	if f.Vacancies != nil {
		j.Vacancies = *f.Vacancies
	}
	if f.Priority != nil {
		j.Priority = *f.Priority
	}
	if f.TimeToFill != nil {
		j.TimeToFill = f.TimeToFill
	}
	if f.StartDate != nil {
		d, err := parseDate("start_date", *f.StartDate)
		if err != nil {
			return err
		}
		j.StartDate = d
	}
	if f.EndDate != nil {
		d, err := parseDate("end_date", *f.EndDate)
		if err != nil {
			return err
		}
		j.EndDate = d
	}
	return nil
}
