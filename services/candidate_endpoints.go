package services

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/datatypes"

	"github.com/johnnycuong/mps-recruitment/errs"
	"github.com/johnnycuong/mps-recruitment/models"
	"github.com/johnnycuong/mps-recruitment/repository"
)

type CandidateEndpoints struct {
	store    repository.Store
	workflow *WorkflowService
}

// CandidateFields holds the editable candidate attributes. Nil fields are
// left unchanged on update.
type CandidateFields struct {
	FullName          *string  `json:"full_name" validate:"omitempty,min=1,max=100"`
	Email             *string  `json:"email" validate:"omitempty,email"`
	Phone             *string  `json:"phone" validate:"omitempty,max=20"`
	DateOfBirth       *string  `json:"date_of_birth"`
	Gender            *string  `json:"gender"`
	Address           *string  `json:"address"`
	City              *string  `json:"city"`
	Province          *string  `json:"province"`
	Country           *string  `json:"country"`
	EducationLevel    *string  `json:"education_level"`
	Major             *string  `json:"major"`
	University        *string  `json:"university"`
	Skills            *string  `json:"skills"`
	Languages         *string  `json:"languages"`
	YearsOfExperience *float64 `json:"years_of_experience" validate:"omitempty,gte=0"`
	ResumeURL         *string  `json:"resume_url"`
	PortfolioURL      *string  `json:"portfolio_url"`
	CurrentEmployer   *string  `json:"current_employer"`
	CurrentPosition   *string  `json:"current_position"`
	CurrentSalary     *float64 `json:"current_salary" validate:"omitempty,gte=0"`
	ExpectedSalary    *float64 `json:"expected_salary" validate:"omitempty,gte=0"`
	Source            *string  `json:"source"`
	QualityScore      *float64 `json:"quality_score" validate:"omitempty,gte=0,lte=10"`
	PartnerID         *string  `json:"partner_id"`
}

type CreateCandidateRequest struct {
	CandidateFields
	FullName string `json:"full_name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
}

type CandidateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type CandidateNoteRequest struct {
	Note string `json:"note" validate:"required"`
}

func NewCandidateEndpoints(store repository.Store, workflow *WorkflowService) *CandidateEndpoints {
	return &CandidateEndpoints{store: store, workflow: workflow}
}

func (e *CandidateEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/candidates", func(r chi.Router) {
		r.Get("/", e.ListCandidatesHandler)
		r.Post("/", e.CreateCandidateHandler)
		r.Get("/{id}", e.GetCandidateHandler)
		r.Put("/{id}", e.UpdateCandidateHandler)
		r.Delete("/{id}", e.DeleteCandidateHandler)
		r.Put("/{id}/status", e.SetStatusHandler)
		r.Post("/{id}/notes", e.AddNoteHandler)
	})
}

func (e *CandidateEndpoints) ListCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.CandidateFilter{
		Source:    q.Get("source"),
		PartnerID: q.Get("partner_id"),
		Search:    q.Get("search"),
	}
	if raw := q.Get("status"); raw != "" {
		status, err := models.ParseCandidateStatus(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		filter.Status = &status
	}

	page := parsePage(r)
	candidates, total, err := e.store.ListCandidates(r.Context(), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, candidates, total, page)
}

func (e *CandidateEndpoints) GetCandidateHandler(w http.ResponseWriter, r *http.Request) {
	candidate, err := e.store.GetCandidate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, candidate)
}

func (e *CandidateEndpoints) CreateCandidateHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateCandidateRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.CandidateFields.FullName = &req.FullName
	req.CandidateFields.Email = &req.Email

	candidate := &models.Candidate{}
	if err := req.CandidateFields.apply(candidate); err != nil {
		writeError(w, err)
		return
	}

	created, err := e.workflow.CreateCandidate(r.Context(), actorFromRequest(r), candidate)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("Candidate created", "candidate_id", created.ID, "email", created.Email)
	writeJSON(w, http.StatusCreated, created)
}

func (e *CandidateEndpoints) UpdateCandidateHandler(w http.ResponseWriter, r *http.Request) {
	var req CandidateFields
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	candidate, err := e.workflow.UpdateCandidate(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), req.apply)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, candidate)
}

func (e *CandidateEndpoints) DeleteCandidateHandler(w http.ResponseWriter, r *http.Request) {
	if err := e.workflow.DeleteCandidate(r.Context(), actorFromRequest(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (e *CandidateEndpoints) SetStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req CandidateStatusRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	candidate, err := e.workflow.SetCandidateStatus(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, candidate)
}

func (e *CandidateEndpoints) AddNoteHandler(w http.ResponseWriter, r *http.Request) {
	var req CandidateNoteRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	candidate, err := e.workflow.AddCandidateNote(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, candidate)
}

func (f *CandidateFields) apply(c *models.Candidate) error {
	setString(&c.FullName, f.FullName)
	if f.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*f.Email))
	}
	setString(&c.Phone, f.Phone)
	setString(&c.Address, f.Address)
	setString(&c.City, f.City)
	setString(&c.Province, f.Province)
	setString(&c.Country, f.Country)
	setString(&c.Major, f.Major)
	setString(&c.University, f.University)
	setString(&c.Skills, f.Skills)
	setString(&c.Languages, f.Languages)
	setString(&c.ResumeURL, f.ResumeURL)
	setString(&c.PortfolioURL, f.PortfolioURL)
	setString(&c.CurrentEmployer, f.CurrentEmployer)
	setString(&c.CurrentPosition, f.CurrentPosition)

	if f.DateOfBirth != nil {
		dob, err := parseDate("date_of_birth", *f.DateOfBirth)
		if err != nil {
			return err
		}
		c.DateOfBirth = dob
	}
	if f.Gender != nil {
		if *f.Gender == "" {
			c.Gender = nil
		} else {
			g, err := models.ParseGender(*f.Gender)
			if err != nil {
				return err
			}
			c.Gender = &g
		}
	}
	if f.EducationLevel != nil {
		if *f.EducationLevel == "" {
			c.EducationLevel = nil
		} else {
			lvl, err := models.ParseEducationLevel(*f.EducationLevel)
			if err != nil {
				return err
			}
			c.EducationLevel = &lvl
		}
	}
	if f.YearsOfExperience != nil {
		c.YearsOfExperience = f.YearsOfExperience
	}
	if f.CurrentSalary != nil {
		c.CurrentSalary = f.CurrentSalary
	}
	if f.ExpectedSalary != nil {
		c.ExpectedSalary = f.ExpectedSalary
	}
	if f.QualityScore != nil {
		c.QualityScore = f.QualityScore
	}
	if f.Source != nil {
		c.Source = optionalID(*f.Source)
	}
	if f.PartnerID != nil {
		c.PartnerID = optionalID(*f.PartnerID)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// optionalID maps an empty string to nil so a reference can be cleared.
func optionalID(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func parseDate(field, raw string) (*datatypes.Date, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, errs.Validation("invalid "+field, map[string]string{field: "must be YYYY-MM-DD"})
	}
	d := datatypes.Date(t)
	return &d, nil
}
