package services

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/johnnycuong/mps-recruitment/models"
	"github.com/johnnycuong/mps-recruitment/repository"
)

type ClientEndpoints struct {
	store    repository.Store
	workflow *WorkflowService
}

type ClientFields struct {
	CompanyName         *string  `json:"company_name" validate:"omitempty,min=1,max=200"`
	Industry            *string  `json:"industry"`
	ClientType          *string  `json:"client_type"`
	Status              *string  `json:"status"`
	Address             *string  `json:"address"`
	City                *string  `json:"city"`
	Country             *string  `json:"country"`
	Website             *string  `json:"website"`
	Description         *string  `json:"description"`
	EmployeeCount       *int     `json:"employee_count" validate:"omitempty,gte=0"`
	PrimaryContactName  *string  `json:"primary_contact_name"`
	PrimaryContactEmail *string  `json:"primary_contact_email" validate:"omitempty,email"`
	PrimaryContactPhone *string  `json:"primary_contact_phone"`
	QualityRating       *float64 `json:"quality_rating" validate:"omitempty,gte=0,lte=5"`
	ResponseTimeAvg     *float64 `json:"response_time_avg" validate:"omitempty,gte=0"`
	HireSuccessRate     *float64 `json:"hire_success_rate" validate:"omitempty,gte=0,lte=100"`
	UserID              *string  `json:"user_id"`
}

type CreateClientRequest struct {
	ClientFields
	CompanyName string `json:"company_name" validate:"required,max=200"`
}

func NewClientEndpoints(store repository.Store, workflow *WorkflowService) *ClientEndpoints {
	return &ClientEndpoints{store: store, workflow: workflow}
}

func (e *ClientEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/clients", func(r chi.Router) {
		r.Get("/", e.ListClientsHandler)
		r.Post("/", e.CreateClientHandler)
		r.Get("/{id}", e.GetClientHandler)
		r.Put("/{id}", e.UpdateClientHandler)
		r.Delete("/{id}", e.DeleteClientHandler)
	})
}

func (e *ClientEndpoints) ListClientsHandler(w http.ResponseWriter, r *http.Request) {
	filter := repository.ClientFilter{Search: r.URL.Query().Get("search")}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := models.ParseOrganizationStatus(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		filter.Status = &status
	}

	page := parsePage(r)
	clients, total, err := e.store.ListClients(r.Context(), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, clients, total, page)
}

func (e *ClientEndpoints) GetClientHandler(w http.ResponseWriter, r *http.Request) {
	client, err := e.store.GetClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (e *ClientEndpoints) CreateClientHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.ClientFields.CompanyName = &req.CompanyName

	client := &models.Client{}
	if err := req.ClientFields.apply(client); err != nil {
		writeError(w, err)
		return
	}
	created, err := e.workflow.CreateClient(r.Context(), actorFromRequest(r), client)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (e *ClientEndpoints) UpdateClientHandler(w http.ResponseWriter, r *http.Request) {
	var req ClientFields
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	client, err := e.workflow.UpdateClient(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), req.apply)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (e *ClientEndpoints) DeleteClientHandler(w http.ResponseWriter, r *http.Request) {
	if err := e.workflow.DeleteClient(r.Context(), actorFromRequest(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *ClientFields) apply(c *models.Client) error {
	setString(&c.CompanyName, f.CompanyName)
	setString(&c.Industry, f.Industry)
	setString(&c.Address, f.Address)
	setString(&c.City, f.City)
	setString(&c.Country, f.Country)
	setString(&c.Website, f.Website)
	setString(&c.Description, f.Description)
	setString(&c.PrimaryContactName, f.PrimaryContactName)
	setString(&c.PrimaryContactEmail, f.PrimaryContactEmail)
	setString(&c.PrimaryContactPhone, f.PrimaryContactPhone)
	if f.ClientType != nil {
		ct, err := models.ParseClientType(*f.ClientType)
		if err != nil {
			return err
		}
		c.ClientType = ct
	}
	if f.Status != nil {
		st, err := models.ParseOrganizationStatus(*f.Status)
		if err != nil {
			return err
		}
		c.Status = st
	}
	if f.EmployeeCount != nil {
		c.EmployeeCount = f.EmployeeCount
	}
	if f.QualityRating != nil {
		c.QualityRating = *f.QualityRating
	}
	if f.ResponseTimeAvg != nil {
		c.ResponseTimeAvg = f.ResponseTimeAvg
	}
	if f.HireSuccessRate != nil {
		c.HireSuccessRate = f.HireSuccessRate
	}
	if f.UserID != nil {
		c.UserID = optionalID(*f.UserID)
	}
	return nil
}
