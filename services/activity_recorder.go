package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/johnnycuong/mps-recruitment/errs"
	"github.com/johnnycuong/mps-recruitment/models"
	"github.com/johnnycuong/mps-recruitment/repository"
)

const (
	defaultActivityPerPage = 50
	maxActivityPerPage     = 100
	defaultRecentDays      = 7
	defaultRecentLimit     = 20
	defaultStatisticsDays  = 30
	topActivityUsers       = 5
)

// Actor identifies who performs an operation. The zero value is the system.
type Actor struct {
	UserID   string
	Role     models.UserRole
	FullName string
}

// ActorFromUser builds the actor for an authenticated user.
func ActorFromUser(user *models.User) Actor {
	if user == nil {
		return Actor{}
	}
	return Actor{UserID: user.ID, Role: user.Role, FullName: user.FullName}
}

func (a Actor) userID() *string {
	if a.UserID == "" {
		return nil
	}
	id := a.UserID
	return &id
}

func (a Actor) displayName() string {
	if a.FullName == "" {
		return "System"
	}
	return a.FullName
}

// ActivityEntry describes one audit record to append.
type ActivityEntry struct {
	Type          models.ActivityType
	Description   string
	Details       map[string]interface{}
	CandidateID   *string
	ApplicationID *string
	JobPositionID *string
}

// ActivityRecorder appends audit records through whichever Store it is given,
// so entries written inside a transaction commit or roll back with it.
type ActivityRecorder struct {
	now func() time.Time
}

func NewActivityRecorder(now func() time.Time) *ActivityRecorder {
	if now == nil {
		now = time.Now
	}
	return &ActivityRecorder{now: now}
}

func (r *ActivityRecorder) Record(ctx context.Context, store repository.Store, actor Actor, entry ActivityEntry) (*models.Activity, error) {
	activity := &models.Activity{
		ID:            uuid.New().String(),
		UserID:        actor.userID(),
		ActivityType:  entry.Type,
		Description:   entry.Description,
		CandidateID:   entry.CandidateID,
		ApplicationID: entry.ApplicationID,
		JobPositionID: entry.JobPositionID,
		CreatedAt:     r.now().UTC(),
	}
	if entry.Details != nil {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			return nil, errs.Internal("failed to encode activity details", err)
		}
		activity.Details = datatypes.JSON(raw)
	}
	if err := store.CreateActivity(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to record %s activity: %w", entry.Type, err)
	}
	return activity, nil
}

func (r *ActivityRecorder) statusChange(ctx context.Context, store repository.Store, actor Actor, description string, oldStatus, newStatus string, candidateID, applicationID, jobID *string) error {
	_, err := r.Record(ctx, store, actor, ActivityEntry{
		Type:          models.ActivityStatusChange,
		Description:   description,
		Details:       map[string]interface{}{"old_status": oldStatus, "new_status": newStatus},
		CandidateID:   candidateID,
		ApplicationID: applicationID,
		JobPositionID: jobID,
	})
	return err
}

func (r *ActivityRecorder) systemAction(ctx context.Context, store repository.Store, actor Actor, description string, candidateID, applicationID, jobID *string) error {
	_, err := r.Record(ctx, store, actor, ActivityEntry{
		Type:          models.ActivitySystemAction,
		Description:   description,
		CandidateID:   candidateID,
		ApplicationID: applicationID,
		JobPositionID: jobID,
	})
	return err
}

// ActivityService exposes the audit trail to callers.
type ActivityService struct {
	store       repository.Store
	recorder    *ActivityRecorder
	now         func() time.Time
	recentLimit int
}

func NewActivityService(store repository.Store, recorder *ActivityRecorder, recentLimit int) *ActivityService {
	if recentLimit <= 0 {
		recentLimit = 100
	}
	return &ActivityService{store: store, recorder: recorder, now: recorder.now, recentLimit: recentLimit}
}

// LogActivity records a user-entered activity such as a call or an email.
// Only the manual activity types are accepted.
func (s *ActivityService) LogActivity(ctx context.Context, actor Actor, entry ActivityEntry) (*models.Activity, error) {
	if strings.TrimSpace(entry.Description) == "" {
		return nil, errs.Validation("description is required", map[string]string{"description": "required"})
	}
	switch entry.Type {
	case models.ActivityNoteAdded, models.ActivityDocumentAdded, models.ActivityEmailSent, models.ActivityOther:
	default:
		return nil, errs.Validation("activity type cannot be logged manually", map[string]string{"activity_type": string(entry.Type)})
	}

	var activity *models.Activity
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := checkActivityTargets(ctx, tx, entry); err != nil {
			return err
		}
		var err error
		activity, err = s.recorder.Record(ctx, tx, actor, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return activity, nil
}

func checkActivityTargets(ctx context.Context, store repository.Store, entry ActivityEntry) error {
	if entry.CandidateID != nil {
		if _, err := store.GetCandidate(ctx, *entry.CandidateID); err != nil {
			return err
		}
	}
	if entry.ApplicationID != nil {
		if _, err := store.GetApplication(ctx, *entry.ApplicationID); err != nil {
			return err
		}
	}
	if entry.JobPositionID != nil {
		if _, err := store.GetJobPosition(ctx, *entry.JobPositionID); err != nil {
			return err
		}
	}
	return nil
}

// ActivityPage is one page of audit records, newest first.
type ActivityPage struct {
	Activities []models.Activity `json:"activities"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
	Pages      int               `json:"pages"`
}

func (s *ActivityService) List(ctx context.Context, filter repository.ActivityFilter, page repository.Page) (*ActivityPage, error) {
	page = page.Normalize(defaultActivityPerPage, maxActivityPerPage)
	activities, total, err := s.store.ListActivities(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return &ActivityPage{
		Activities: activities,
		Total:      total,
		Page:       page.Page,
		PerPage:    page.PerPage,
		Pages:      pageCount(total, page.PerPage),
	}, nil
}

// Recent returns up to limit records from the last days days, newest first.
func (s *ActivityService) Recent(ctx context.Context, days, limit int) ([]models.Activity, error) {
	if days <= 0 {
		days = defaultRecentDays
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > s.recentLimit {
		limit = s.recentLimit
	}
	since := s.now().UTC().AddDate(0, 0, -days)
	activities, _, err := s.store.ListActivities(ctx, repository.ActivityFilter{From: &since}, repository.Page{Page: 1, PerPage: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent activities: %w", err)
	}
	slog.Info("Recent activities retrieved", "days", days, "count", len(activities))
	return activities, nil
}

type ActivityStatistics struct {
	Days int `json:"days"`
	*repository.ActivityStats
}

func (s *ActivityService) Statistics(ctx context.Context, days int) (*ActivityStatistics, error) {
	if days <= 0 {
		days = defaultStatisticsDays
	}
	since := s.now().UTC().AddDate(0, 0, -days)
	stats, err := s.store.ActivityStatistics(ctx, since, topActivityUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to compute activity statistics: %w", err)
	}
	return &ActivityStatistics{Days: days, ActivityStats: stats}, nil
}
