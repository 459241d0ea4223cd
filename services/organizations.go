package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/johnnycuong/mps-recruitment/errs"
	"github.com/johnnycuong/mps-recruitment/models"
	"github.com/johnnycuong/mps-recruitment/repository"
)

// Client operations

func (s *WorkflowService) CreateClient(ctx context.Context, actor Actor, client *models.Client) (*models.Client, error) {
	if strings.TrimSpace(client.CompanyName) == "" {
		return nil, errs.Validation("company name is required", map[string]string{"company_name": "required"})
	}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		now := s.clock()
		client.ID = uuid.New().String()
		if client.ClientType == "" {
			client.ClientType = models.ClientTypeFDI
		}
		if client.Status == "" {
			client.Status = models.OrganizationActive
		}
		client.CreatedAt = now
		client.UpdatedAt = now
		if err := tx.CreateClient(ctx, client); err != nil {
			return err
		}
		return s.activity.systemAction(ctx, tx, actor, fmt.Sprintf("Client %s created", client.CompanyName), nil, nil, nil)
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (s *WorkflowService) UpdateClient(ctx context.Context, actor Actor, clientID string, mutate func(*models.Client) error) (*models.Client, error) {
	var client *models.Client
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		client, err = tx.GetClient(ctx, clientID)
		if err != nil {
			return err
		}
		if err := mutate(client); err != nil {
			return err
		}
		client.ID = clientID
		client.UpdatedAt = s.clock()
		if err := tx.UpdateClient(ctx, client); err != nil {
			return err
		}
		return s.activity.systemAction(ctx, tx, actor, fmt.Sprintf("Client %s updated", client.CompanyName), nil, nil, nil)
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient soft-deletes the client. Its job positions are kept.
func (s *WorkflowService) DeleteClient(ctx context.Context, actor Actor, clientID string) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		client, err := tx.GetClient(ctx, clientID)
		if err != nil {
			return err
		}
		if err := s.activity.systemAction(ctx, tx, actor, fmt.Sprintf("Client %s deleted", client.CompanyName), nil, nil, nil); err != nil {
			return err
		}
		return tx.DeleteClient(ctx, client.ID)
	})
}

// Partner operations

func (s *WorkflowService) CreatePartner(ctx context.Context, actor Actor, partner *models.Partner) (*models.Partner, error) {
	if strings.TrimSpace(partner.Name) == "" || partner.PartnerType == "" {
		return nil, errs.Validation("name and partner type are required", map[string]string{
			"name":         "required",
			"partner_type": "required",
		})
	}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		now := s.clock()
		partner.ID = uuid.New().String()
		if partner.Status == "" {
			partner.Status = models.OrganizationActive
		}
		if partner.Country == "" {
			partner.Country = "Vietnam"
		}
		partner.CandidatesProvidedCount = 0
		partner.SuccessfulPlacementsCount = 0
		partner.SuccessRate = 0
		partner.CreatedAt = now
		partner.UpdatedAt = now
		if err := tx.CreatePartner(ctx, partner); err != nil {
			return err
		}
		return s.activity.systemAction(ctx, tx, actor, fmt.Sprintf("Partner %s created", partner.Name), nil, nil, nil)
	})
	if err != nil {
		return nil, err
	}
	return partner, nil
}

// UpdatePartner applies mutate to the partner. The referral counters are
// derived and survive any change mutate makes to them.
func (s *WorkflowService) UpdatePartner(ctx context.Context, actor Actor, partnerID string, mutate func(*models.Partner) error) (*models.Partner, error) {
	var partner *models.Partner
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		partner, err = tx.GetPartnerForUpdate(ctx, partnerID)
		if err != nil {
			return err
		}
		provided, placed, rate := partner.CandidatesProvidedCount, partner.SuccessfulPlacementsCount, partner.SuccessRate
		if err := mutate(partner); err != nil {
			return err
		}
		partner.ID = partnerID
		partner.CandidatesProvidedCount = provided
		partner.SuccessfulPlacementsCount = placed
		partner.SuccessRate = rate
		partner.UpdatedAt = s.clock()
		if err := tx.UpdatePartner(ctx, partner); err != nil {
			return err
		}
		return s.activity.systemAction(ctx, tx, actor, fmt.Sprintf("Partner %s updated", partner.Name), nil, nil, nil)
	})
	if err != nil {
		return nil, err
	}
	return partner, nil
}

func (s *WorkflowService) DeletePartner(ctx context.Context, actor Actor, partnerID string) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		partner, err := tx.GetPartner(ctx, partnerID)
		if err != nil {
			return err
		}
		if err := s.activity.systemAction(ctx, tx, actor, fmt.Sprintf("Partner %s deleted", partner.Name), nil, nil, nil); err != nil {
			return err
		}
		return tx.DeletePartner(ctx, partner.ID)
	})
}

// Job position operations

func (s *WorkflowService) CreateJobPosition(ctx context.Context, actor Actor, job *models.JobPosition) (*models.JobPosition, error) {
	if strings.TrimSpace(job.Title) == "" || job.ClientID == "" {
		return nil, errs.Validation("title and client are required", map[string]string{
			"title":     "required",
			"client_id": "required",
		})
	}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		client, err := tx.GetClient(ctx, job.ClientID)
		if err != nil {
			return err
		}
		now := s.clock()
		job.ID = uuid.New().String()
		if job.JobType == "" {
			job.JobType = models.JobTypeFullTime
		}
		if job.Status == "" {
			job.Status = models.JobStatusDraft
		}
		if job.SalaryCurrency == "" {
			job.SalaryCurrency = "VND"
		}
		if job.Vacancies < 1 {
			job.Vacancies = 1
		}
		if job.Priority < 1 || job.Priority > 5 {
			job.Priority = 3
		}
		job.ApplicationsCount = 0
		job.ViewsCount = 0
		job.CreatedAt = now
		job.UpdatedAt = now
		if err := tx.CreateJobPosition(ctx, job); err != nil {
			return err
		}
		job.Client = client
		return s.activity.systemAction(ctx, tx, actor, fmt.Sprintf("Job position '%s' created", job.Title), nil, nil, &job.ID)
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

// UpdateJobPosition applies mutate to the job position. applications_count
// is preserved; a status change is recorded as StatusChange, anything else as
// a system action.
func (s *WorkflowService) UpdateJobPosition(ctx context.Context, actor Actor, jobID string, mutate func(*models.JobPosition) error) (*models.JobPosition, error) {
	var job *models.JobPosition
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		job, err = tx.GetJobPositionForUpdate(ctx, jobID)
		if err != nil {
			return err
		}
		oldStatus := job.Status
		count := job.ApplicationsCount
		if err := mutate(job); err != nil {
			return err
		}
		job.ID = jobID
		job.ApplicationsCount = count
		client, err := tx.GetClient(ctx, job.ClientID)
		if err != nil {
			return err
		}
		job.Client = client
		if job.Priority < 1 || job.Priority > 5 {
			return errs.Validation("invalid priority", map[string]string{"priority": "must be between 1 and 5"})
		}
		if job.Vacancies < 1 {
			return errs.Validation("invalid vacancies", map[string]string{"vacancies": "must be at least 1"})
		}
		job.UpdatedAt = s.clock()
		if err := tx.UpdateJobPosition(ctx, job); err != nil {
			return err
		}

		if job.Status != oldStatus {
			if err := s.activity.statusChange(ctx, tx, actor,
				fmt.Sprintf("Job status changed from %s to %s", oldStatus, job.Status),
				string(oldStatus), string(job.Status), nil, nil, &job.ID); err != nil {
				return err
			}
		}
		return s.activity.systemAction(ctx, tx, actor, fmt.Sprintf("Job position '%s' updated", job.Title), nil, nil, &job.ID)
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

// DeleteJobPosition removes a job position with its applications and their
// interviews.
func (s *WorkflowService) DeleteJobPosition(ctx context.Context, actor Actor, jobID string) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		job, err := tx.GetJobPosition(ctx, jobID)
		if err != nil {
			return err
		}
		apps, err := collectApplications(ctx, tx, repository.ApplicationFilter{JobPositionID: job.ID})
		if err != nil {
			return err
		}
		for i := range apps {
			if err := tx.DeleteInterviewsByApplication(ctx, apps[i].ID); err != nil {
				return err
			}
			if err := tx.DeleteApplication(ctx, apps[i].ID); err != nil {
				return err
			}
		}
		if err := s.activity.systemAction(ctx, tx, actor, fmt.Sprintf("Job position '%s' deleted", job.Title), nil, nil, nil); err != nil {
			return err
		}
		return tx.DeleteJobPosition(ctx, job.ID)
	})
}
