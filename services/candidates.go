package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/johnnycuong/mps-recruitment/errs"
	"github.com/johnnycuong/mps-recruitment/models"
	"github.com/johnnycuong/mps-recruitment/repository"
)

const cascadePageSize = 100

// CreateCandidate stores a new candidate in status new.
func (s *WorkflowService) CreateCandidate(ctx context.Context, actor Actor, candidate *models.Candidate) (*models.Candidate, error) {
	if strings.TrimSpace(candidate.FullName) == "" || strings.TrimSpace(candidate.Email) == "" {
		return nil, errs.Validation("full name and email are required", map[string]string{
			"full_name": "required",
			"email":     "required",
		})
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if candidate.PartnerID != nil {
			if _, err := tx.GetPartner(ctx, *candidate.PartnerID); err != nil {
				return err
			}
		}
		now := s.clock()
		candidate.ID = uuid.New().String()
		candidate.Status = models.CandidateStatusNew
		if candidate.Country == "" {
			candidate.Country = "Vietnam"
		}
		candidate.CreatedAt = now
		candidate.UpdatedAt = now
		if err := tx.CreateCandidate(ctx, candidate); err != nil {
			return err
		}
		if err := s.syncPartnerCounters(ctx, tx, candidate.PartnerID); err != nil {
			return err
		}
		return s.activity.systemAction(ctx, tx, actor,
			fmt.Sprintf("Candidate %s created", candidate.FullName),
			&candidate.ID, nil, nil)
	})
	if err != nil {
		return nil, err
	}
	return candidate, nil
}

// UpdateCandidate applies mutate to the locked candidate row. Status is
// owned by the workflow and cannot be changed here; a changed referring
// partner refreshes both partners' counters.
func (s *WorkflowService) UpdateCandidate(ctx context.Context, actor Actor, candidateID string, mutate func(*models.Candidate) error) (*models.Candidate, error) {
	var candidate *models.Candidate
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		candidate, err = tx.GetCandidateForUpdate(ctx, candidateID)
		if err != nil {
			return err
		}
		status := candidate.Status
		oldPartner := candidate.PartnerID
		if err := mutate(candidate); err != nil {
			return err
		}
		candidate.ID = candidateID
		candidate.Status = status
		candidate.UpdatedAt = s.clock()

		partnerChanged := !sameID(oldPartner, candidate.PartnerID)
		if partnerChanged && candidate.PartnerID != nil {
			if _, err := tx.GetPartner(ctx, *candidate.PartnerID); err != nil {
				return err
			}
		}
		if err := tx.UpdateCandidate(ctx, candidate); err != nil {
			return err
		}
		if partnerChanged {
			if err := s.syncPartnerCounters(ctx, tx, oldPartner); err != nil {
				return err
			}
			if err := s.syncPartnerCounters(ctx, tx, candidate.PartnerID); err != nil {
				return err
			}
		}
		return s.activity.systemAction(ctx, tx, actor,
			fmt.Sprintf("Candidate %s updated", candidate.FullName),
			&candidate.ID, nil, nil)
	})
	if err != nil {
		return nil, err
	}
	return candidate, nil
}

// SetCandidateStatus sets a candidate's status directly. It is the only way
// to blacklist a candidate.
func (s *WorkflowService) SetCandidateStatus(ctx context.Context, actor Actor, candidateID, status string) (*models.Candidate, error) {
	next, err := models.ParseCandidateStatus(status)
	if err != nil {
		return nil, err
	}

	var candidate *models.Candidate
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		candidate, err = tx.GetCandidateForUpdate(ctx, candidateID)
		if err != nil {
			return err
		}
		old := candidate.Status
		if err := s.projectCandidateStatus(ctx, tx, candidate, next); err != nil {
			return err
		}
		if old == next {
			return nil
		}
		return s.activity.statusChange(ctx, tx, actor,
			fmt.Sprintf("Candidate status changed from %s to %s", old, next),
			string(old), string(next), &candidate.ID, nil, nil)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Candidate status updated", "candidate_id", candidateID, "status", next)
	return candidate, nil
}

// AddCandidateNote appends a stamped note to the candidate's notes.
func (s *WorkflowService) AddCandidateNote(ctx context.Context, actor Actor, candidateID, note string) (*models.Candidate, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, errs.Validation("note is required", map[string]string{"note": "required"})
	}

	var candidate *models.Candidate
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		candidate, err = tx.GetCandidateForUpdate(ctx, candidateID)
		if err != nil {
			return err
		}
		now := s.clock()
		candidate.Notes = appendNote(candidate.Notes, note, actor.displayName(), now.Format("2006-01-02 15:04"))
		candidate.UpdatedAt = now
		if err := tx.UpdateCandidate(ctx, candidate); err != nil {
			return err
		}
		_, err = s.activity.Record(ctx, tx, actor, ActivityEntry{
			Type:        models.ActivityNoteAdded,
			Description: fmt.Sprintf("Note added to candidate %s", candidate.FullName),
			Details:     map[string]interface{}{"note": note},
			CandidateID: &candidate.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return candidate, nil
}

func appendNote(existing, note, author, stamp string) string {
	entry := fmt.Sprintf("[%s by %s]\n%s", stamp, author, note)
	if existing == "" {
		return entry
	}
	return existing + "\n\n" + entry
}

// DeleteCandidate removes a candidate together with its applications and
// interviews, decrementing each job position's applications_count.
func (s *WorkflowService) DeleteCandidate(ctx context.Context, actor Actor, candidateID string) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		candidate, err := tx.GetCandidateForUpdate(ctx, candidateID)
		if err != nil {
			return err
		}
		apps, err := collectApplications(ctx, tx, repository.ApplicationFilter{CandidateID: candidate.ID})
		if err != nil {
			return err
		}
		for i := range apps {
			if err := s.removeApplication(ctx, tx, &apps[i]); err != nil {
				return err
			}
		}
		if err := s.activity.systemAction(ctx, tx, actor,
			fmt.Sprintf("Candidate %s deleted", candidate.FullName), nil, nil, nil); err != nil {
			return err
		}
		if err := tx.DeleteCandidate(ctx, candidate.ID); err != nil {
			return err
		}
		return s.syncPartnerCounters(ctx, tx, candidate.PartnerID)
	})
	if err != nil {
		return err
	}
	slog.Info("Candidate deleted", "candidate_id", candidateID)
	return nil
}

// collectApplications reads every application matching filter before any of
// them is removed, so deletions do not shift the pages.
func collectApplications(ctx context.Context, tx repository.Store, filter repository.ApplicationFilter) ([]models.Application, error) {
	var all []models.Application
	for page := 1; ; page++ {
		batch, _, err := tx.ListApplications(ctx, filter, repository.Page{Page: page, PerPage: cascadePageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < cascadePageSize {
			return all, nil
		}
	}
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
