package services

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/johnnycuong/mps-recruitment/models"
	"github.com/johnnycuong/mps-recruitment/repository"
)

type PartnerEndpoints struct {
	store    repository.Store
	workflow *WorkflowService
}

// PartnerFields omits the referral counters, which are maintained by the
// workflow.
type PartnerFields struct {
	Name                *string  `json:"name" validate:"omitempty,min=1,max=200"`
	PartnerType         *string  `json:"partner_type"`
	Status              *string  `json:"status"`
	Address             *string  `json:"address"`
	City                *string  `json:"city"`
	Province            *string  `json:"province"`
	Country             *string  `json:"country"`
	Website             *string  `json:"website"`
	PrimaryContactName  *string  `json:"primary_contact_name"`
	PrimaryContactEmail *string  `json:"primary_contact_email" validate:"omitempty,email"`
	PrimaryContactPhone *string  `json:"primary_contact_phone"`
	Description         *string  `json:"description"`
	Specialization      *string  `json:"specialization"`
	AgreementDetails    *string  `json:"agreement_details"`
	CommissionRate      *float64 `json:"commission_rate" validate:"omitempty,gte=0,lte=100"`
	QualityRating       *float64 `json:"quality_rating" validate:"omitempty,gte=0,lte=5"`
	UserID              *string  `json:"user_id"`
}

type CreatePartnerRequest struct {
	PartnerFields
	Name        string `json:"name" validate:"required,max=200"`
	PartnerType string `json:"partner_type" validate:"required"`
}

func NewPartnerEndpoints(store repository.Store, workflow *WorkflowService) *PartnerEndpoints {
	return &PartnerEndpoints{store: store, workflow: workflow}
}

func (e *PartnerEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/partners", func(r chi.Router) {
		r.Get("/", e.ListPartnersHandler)
		r.Post("/", e.CreatePartnerHandler)
		r.Get("/{id}", e.GetPartnerHandler)
		r.Put("/{id}", e.UpdatePartnerHandler)
		r.Delete("/{id}", e.DeletePartnerHandler)
	})
}

func (e *PartnerEndpoints) ListPartnersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.PartnerFilter{Search: q.Get("search")}
	if raw := q.Get("status"); raw != "" {
		status, err := models.ParseOrganizationStatus(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		filter.Status = &status
	}
	if raw := q.Get("partner_type"); raw != "" {
		pt, err := models.ParsePartnerType(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		filter.PartnerType = &pt
	}

	page := parsePage(r)
	partners, total, err := e.store.ListPartners(r.Context(), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, partners, total, page)
}

func (e *PartnerEndpoints) GetPartnerHandler(w http.ResponseWriter, r *http.Request) {
	partner, err := e.store.GetPartner(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, partner)
}

func (e *PartnerEndpoints) CreatePartnerHandler(w http.ResponseWriter, r *http.Request) {
	var req CreatePartnerRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.PartnerFields.Name = &req.Name
	req.PartnerFields.PartnerType = &req.PartnerType

	partner := &models.Partner{}
	if err := req.PartnerFields.apply(partner); err != nil {
		writeError(w, err)
		return
	}
	created, err := e.workflow.CreatePartner(r.Context(), actorFromRequest(r), partner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (e *PartnerEndpoints) UpdatePartnerHandler(w http.ResponseWriter, r *http.Request) {
	var req PartnerFields
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	partner, err := e.workflow.UpdatePartner(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), req.apply)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, partner)
}

func (e *PartnerEndpoints) DeletePartnerHandler(w http.ResponseWriter, r *http.Request) {
	if err := e.workflow.DeletePartner(r.Context(), actorFromRequest(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *PartnerFields) apply(p *models.Partner) error {
	setString(&p.Name, f.Name)
	setString(&p.Address, f.Address)
	setString(&p.City, f.City)
	setString(&p.Province, f.Province)
	setString(&p.Country, f.Country)
	setString(&p.Website, f.Website)
	setString(&p.PrimaryContactName, f.PrimaryContactName)
	setString(&p.PrimaryContactEmail, f.PrimaryContactEmail)
	setString(&p.PrimaryContactPhone, f.PrimaryContactPhone)
	setString(&p.Description, f.Description)
	setString(&p.Specialization, f.Specialization)
	setString(&p.AgreementDetails, f.AgreementDetails)
	if f.PartnerType != nil {
		pt, err := models.ParsePartnerType(*f.PartnerType)
		if err != nil {
			return err
		}
		p.PartnerType = pt
	}
	if f.Status != nil {
		st, err := models.ParseOrganizationStatus(*f.Status)
		if err != nil {
			return err
		}
		p.Status = st
	}
	if f.CommissionRate != nil {
		p.CommissionRate = f.CommissionRate
	}
	if f.QualityRating != nil {
		p.QualityRating = *f.QualityRating
	}
	if f.UserID != nil {
		p.UserID = optionalID(*f.UserID)
	}
	return nil
}
