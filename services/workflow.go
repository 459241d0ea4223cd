package services

import (
	"context"
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

const defaultInterviewMinutes = 60

// WorkflowService owns every mutation of the recruitment pipeline. Each
// operation runs as one unit of work: the entity writes, the derived
// candidate status, the denormalized counters and the audit records commit
// together or not at all.
type WorkflowService struct {
	store    repository.Store
	activity *ActivityRecorder
	now      func() time.Time
}

func NewWorkflowService(store repository.Store, recorder *ActivityRecorder) *WorkflowService {
	return &WorkflowService{store: store, activity: recorder, now: recorder.now}
}

func (s *WorkflowService) clock() time.Time {
	return s.now().UTC()
}

type CreateApplicationInput struct {
	CandidateID      string
	JobPositionID    string
	CoverLetter      string
	ExpectedSalary   *float64
	AvailabilityDate *datatypes.Date
	RecruiterNotes   string
}

// CreateApplication opens an application for a candidate on a job position.
// At most one application may exist per candidate and job position.
func (s *WorkflowService) CreateApplication(ctx context.Context, actor Actor, in CreateApplicationInput) (*models.Application, error) {
	if in.CandidateID == "" || in.JobPositionID == "" {
		return nil, errs.Validation("candidate and job position are required", map[string]string{
			"candidate_id":    "required",
			"job_position_id": "required",
		})
	}

	var app *models.Application
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		candidate, err := tx.GetCandidateForUpdate(ctx, in.CandidateID)
		if err != nil {
			return err
		}
		job, err := tx.GetJobPosition(ctx, in.JobPositionID)
		if err != nil {
			return err
		}
		existing, err := tx.FindApplication(ctx, candidate.ID, job.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return errs.Duplicate("candidate has already applied for this position")
		}

		now := s.clock()
		app = &models.Application{
			ID:               uuid.New().String(),
			CandidateID:      candidate.ID,
			JobPositionID:    job.ID,
			Status:           models.ApplicationStatusNew,
			CoverLetter:      in.CoverLetter,
			ExpectedSalary:   in.ExpectedSalary,
			AvailabilityDate: in.AvailabilityDate,
			RecruiterNotes:   in.RecruiterNotes,
			CurrentStage:     initialStage,
			IsActive:         true,
			AppliedAt:        now,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if actor.Role.IsStaff() {
			app.RecruiterID = actor.userID()
		}
		if err := tx.CreateApplication(ctx, app); err != nil {
			return err
		}
		if err := tx.AdjustApplicationsCount(ctx, job.ID, 1); err != nil {
			return err
		}
		if err := s.projectCandidateStatus(ctx, tx, candidate, models.CandidateStatusNew); err != nil {
			return err
		}
		if err := s.activity.systemAction(ctx, tx, actor,
			fmt.Sprintf("Application created for %s to %s", candidate.FullName, job.Title),
			&candidate.ID, &app.ID, &job.ID); err != nil {
			return err
		}

		app.Candidate = candidate
		app.JobPosition = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Application created", "application_id", app.ID, "candidate_id", app.CandidateID, "job_position_id", app.JobPositionID)
	return app, nil
}

// TransitionApplication moves an application to a new status, stamping the
// stage timestamp on first entry and projecting the status onto the
// candidate. A StatusChange activity is recorded when the status changes.
func (s *WorkflowService) TransitionApplication(ctx context.Context, actor Actor, applicationID, status string) (*models.Application, error) {
	next, err := models.ParseApplicationStatus(status)
	if err != nil {
		return nil, err
	}

	var app *models.Application
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		app, err = tx.GetApplicationForUpdate(ctx, applicationID)
		if err != nil {
			return err
		}

		now := s.clock()
		old := applyTransition(app, next, now)
		app.UpdatedAt = now
		if err := tx.UpdateApplication(ctx, app); err != nil {
			return err
		}

		candidate, err := tx.GetCandidateForUpdate(ctx, app.CandidateID)
		if err != nil {
			return err
		}
		if err := s.projectCandidateStatus(ctx, tx, candidate, next.CandidateStatus()); err != nil {
			return err
		}
		app.Candidate = candidate

		if old == next {
			return nil
		}
		return s.activity.statusChange(ctx, tx, actor,
			fmt.Sprintf("Application status changed from %s to %s", old, next),
			string(old), string(next),
			&app.CandidateID, &app.ID, &app.JobPositionID)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Application status updated", "application_id", app.ID, "status", app.Status)
	return app, nil
}

// UpdateApplicationInput carries the non-status fields of an application.
// Nil fields are left unchanged.
type UpdateApplicationInput struct {
	CoverLetter      *string
	ExpectedSalary   *float64
	AvailabilityDate *datatypes.Date
	RecruiterID      *string
	RecruiterNotes   *string
	CandidateScore   *float64
	CurrentStage     *string
	IsActive         *bool
}

func (s *WorkflowService) UpdateApplication(ctx context.Context, actor Actor, applicationID string, in UpdateApplicationInput) (*models.Application, error) {
	var app *models.Application
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		app, err = tx.GetApplicationForUpdate(ctx, applicationID)
		if err != nil {
			return err
		}
		if in.CoverLetter != nil {
			app.CoverLetter = *in.CoverLetter
		}
		if in.ExpectedSalary != nil {
			app.ExpectedSalary = in.ExpectedSalary
		}
		if in.AvailabilityDate != nil {
			app.AvailabilityDate = in.AvailabilityDate
		}
		if in.RecruiterID != nil {
			if _, err := tx.GetUserByID(ctx, *in.RecruiterID); err != nil {
				return err
			}
			app.RecruiterID = in.RecruiterID
		}
		if in.RecruiterNotes != nil {
			app.RecruiterNotes = *in.RecruiterNotes
		}
		if in.CandidateScore != nil {
			app.CandidateScore = in.CandidateScore
		}
		if in.CurrentStage != nil {
			app.CurrentStage = *in.CurrentStage
		}
		if in.IsActive != nil {
			app.IsActive = *in.IsActive
		}
		app.UpdatedAt = s.clock()
		if err := tx.UpdateApplication(ctx, app); err != nil {
			return err
		}

		candidate, err := tx.GetCandidate(ctx, app.CandidateID)
		if err != nil {
			return err
		}
		return s.activity.systemAction(ctx, tx, actor,
			fmt.Sprintf("Application updated for %s", candidate.FullName),
			&app.CandidateID, &app.ID, &app.JobPositionID)
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// DeleteApplication removes an application with its interviews and keeps the
// job position's applications_count in step.
func (s *WorkflowService) DeleteApplication(ctx context.Context, actor Actor, applicationID string) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		app, err := tx.GetApplicationForUpdate(ctx, applicationID)
		if err != nil {
			return err
		}
		candidate, err := tx.GetCandidate(ctx, app.CandidateID)
		if err != nil {
			return err
		}
		job, err := tx.GetJobPosition(ctx, app.JobPositionID)
		if err != nil {
			return err
		}
		if err := s.activity.systemAction(ctx, tx, actor,
			fmt.Sprintf("Application deleted for %s to %s", candidate.FullName, job.Title),
			&candidate.ID, nil, &job.ID); err != nil {
			return err
		}
		return s.removeApplication(ctx, tx, app)
	})
	if err != nil {
		return err
	}
	slog.Info("Application deleted", "application_id", applicationID)
	return nil
}

func (s *WorkflowService) removeApplication(ctx context.Context, tx repository.Store, app *models.Application) error {
	if err := tx.DeleteInterviewsByApplication(ctx, app.ID); err != nil {
		return err
	}
	if err := tx.DeleteApplication(ctx, app.ID); err != nil {
		return err
	}
	return tx.AdjustApplicationsCount(ctx, app.JobPositionID, -1)
}

type ScheduleInterviewInput struct {
	ApplicationID     string
	ScheduledAt       time.Time
	InterviewType     string
	DurationMinutes   int
	Location          string
	MeetingLink       string
	InterviewerID     *string
	ClientInterviewer string
	Notes             string
}

// ScheduleInterview books an interview for an application. Applications still
// in new or screening move to interview as part of the same unit of work.
func (s *WorkflowService) ScheduleInterview(ctx context.Context, actor Actor, in ScheduleInterviewInput) (*models.Interview, error) {
	if in.ApplicationID == "" || in.ScheduledAt.IsZero() {
		return nil, errs.Validation("application and scheduled time are required", map[string]string{
			"application_id": "required",
			"scheduled_at":   "required",
		})
	}
	interviewType := models.InterviewTypePhone
	if in.InterviewType != "" {
		parsed, err := models.ParseInterviewType(in.InterviewType)
		if err != nil {
			return nil, err
		}
		interviewType = parsed
	}
	duration := in.DurationMinutes
	if duration <= 0 {
		duration = defaultInterviewMinutes
	}
	interviewer := in.InterviewerID
	if interviewer == nil {
		interviewer = actor.userID()
	}

	var interview *models.Interview
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		app, err := tx.GetApplicationForUpdate(ctx, in.ApplicationID)
		if err != nil {
			return err
		}
		candidate, err := tx.GetCandidateForUpdate(ctx, app.CandidateID)
		if err != nil {
			return err
		}
		if in.InterviewerID != nil {
			if _, err := tx.GetUserByID(ctx, *in.InterviewerID); err != nil {
				return err
			}
		}

		now := s.clock()
		interview = &models.Interview{
			ID:                uuid.New().String(),
			ApplicationID:     app.ID,
			CandidateID:       app.CandidateID,
			InterviewType:     interviewType,
			Status:            models.InterviewStatusScheduled,
			ScheduledAt:       in.ScheduledAt.UTC(),
			DurationMinutes:   duration,
			Location:          in.Location,
			MeetingLink:       in.MeetingLink,
			InterviewerID:     interviewer,
			ClientInterviewer: in.ClientInterviewer,
			Notes:             in.Notes,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := tx.CreateInterview(ctx, interview); err != nil {
			return err
		}

		if app.Status == models.ApplicationStatusNew || app.Status == models.ApplicationStatusScreening {
			applyTransition(app, models.ApplicationStatusInterview, now)
			app.UpdatedAt = now
			if err := tx.UpdateApplication(ctx, app); err != nil {
				return err
			}
			if err := s.projectCandidateStatus(ctx, tx, candidate, models.CandidateStatusInterview); err != nil {
				return err
			}
		}

		_, err = s.activity.Record(ctx, tx, actor, ActivityEntry{
			Type: models.ActivityInterviewScheduled,
			Description: fmt.Sprintf("Interview scheduled for %s on %s",
				candidate.FullName, interview.ScheduledAt.Format("2006-01-02 15:04")),
			Details: map[string]interface{}{
				"interview_type":   string(interviewType),
				"scheduled_at":     interview.ScheduledAt.Format(time.RFC3339),
				"duration_minutes": duration,
			},
			CandidateID:   &app.CandidateID,
			ApplicationID: &app.ID,
			JobPositionID: &app.JobPositionID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Interview scheduled", "interview_id", interview.ID, "application_id", interview.ApplicationID)
	return interview, nil
}

// InterviewFeedback is the evaluation captured when an interview is held.
// Nil fields are left unchanged.
type InterviewFeedback struct {
	TechnicalScore     *int    `json:"technical_score"`
	CommunicationScore *int    `json:"communication_score"`
	CultureFitScore    *int    `json:"culture_fit_score"`
	OverallScore       *int    `json:"overall_score"`
	Strengths          *string `json:"strengths"`
	Weaknesses         *string `json:"weaknesses"`
	Notes              *string `json:"notes"`
	Recommendation     *string `json:"recommendation"`
}

func (f *InterviewFeedback) validate() error {
	if f == nil {
		return nil
	}
	fields := map[string]string{}
	for name, score := range map[string]*int{
		"technical_score":     f.TechnicalScore,
		"communication_score": f.CommunicationScore,
		"culture_fit_score":   f.CultureFitScore,
		"overall_score":       f.OverallScore,
	} {
		if score != nil && (*score < 1 || *score > 10) {
			fields[name] = "must be between 1 and 10"
		}
	}
	if len(fields) > 0 {
		return errs.Validation("invalid interview scores", fields)
	}
	return nil
}

func (f *InterviewFeedback) apply(interview *models.Interview) {
	if f == nil {
		return
	}
	if f.TechnicalScore != nil {
		interview.TechnicalScore = f.TechnicalScore
	}
	if f.CommunicationScore != nil {
		interview.CommunicationScore = f.CommunicationScore
	}
	if f.CultureFitScore != nil {
		interview.CultureFitScore = f.CultureFitScore
	}
	if f.OverallScore != nil {
		interview.OverallScore = f.OverallScore
	}
	if f.Strengths != nil {
		interview.Strengths = *f.Strengths
	}
	if f.Weaknesses != nil {
		interview.Weaknesses = *f.Weaknesses
	}
	if f.Notes != nil {
		interview.Notes = *f.Notes
	}
	if f.Recommendation != nil {
		interview.Recommendation = *f.Recommendation
	}
}

// TransitionInterview changes an interview's status. The first move to
// completed stamps completed_at and records InterviewCompleted; any actual
// change also records StatusChange. The parent application is not touched.
func (s *WorkflowService) TransitionInterview(ctx context.Context, actor Actor, interviewID, status string, feedback *InterviewFeedback) (*models.Interview, error) {
	next, err := models.ParseInterviewStatus(status)
	if err != nil {
		return nil, err
	}
	if err := feedback.validate(); err != nil {
		return nil, err
	}

	var interview *models.Interview
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		interview, err = tx.GetInterviewForUpdate(ctx, interviewID)
		if err != nil {
			return err
		}
		candidate, err := tx.GetCandidate(ctx, interview.CandidateID)
		if err != nil {
			return err
		}

		now := s.clock()
		old := interview.Status
		feedback.apply(interview)
		interview.Status = next
		completed := next == models.InterviewStatusCompleted && interview.CompletedAt == nil
		if completed {
			interview.CompletedAt = timePtr(now)
		}
		interview.UpdatedAt = now
		if err := tx.UpdateInterview(ctx, interview); err != nil {
			return err
		}

		if completed {
			var overall interface{}
			if interview.OverallScore != nil {
				overall = *interview.OverallScore
			}
			if _, err := s.activity.Record(ctx, tx, actor, ActivityEntry{
				Type:        models.ActivityInterviewCompleted,
				Description: fmt.Sprintf("Interview completed for %s", candidate.FullName),
				Details: map[string]interface{}{
					"interview_type": string(interview.InterviewType),
					"overall_score":  overall,
				},
				CandidateID:   &interview.CandidateID,
				ApplicationID: &interview.ApplicationID,
			}); err != nil {
				return err
			}
		}

		if old == next {
			return nil
		}
		return s.activity.statusChange(ctx, tx, actor,
			fmt.Sprintf("Interview status changed from %s to %s", old, next),
			string(old), string(next),
			&interview.CandidateID, &interview.ApplicationID, nil)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Interview status updated", "interview_id", interview.ID, "status", interview.Status)
	return interview, nil
}

// UpdateInterviewInput reschedules or edits an interview. Nil fields are
// left unchanged; status changes go through TransitionInterview.
type UpdateInterviewInput struct {
	ScheduledAt       *time.Time
	InterviewType     *string
	DurationMinutes   *int
	Location          *string
	MeetingLink       *string
	InterviewerID     *string
	ClientInterviewer *string
	Feedback          *InterviewFeedback
}

func (s *WorkflowService) UpdateInterview(ctx context.Context, actor Actor, interviewID string, in UpdateInterviewInput) (*models.Interview, error) {
	var interviewType *models.InterviewType
	if in.InterviewType != nil {
		parsed, err := models.ParseInterviewType(*in.InterviewType)
		if err != nil {
			return nil, err
		}
		interviewType = &parsed
	}
	if in.DurationMinutes != nil && *in.DurationMinutes <= 0 {
		return nil, errs.Validation("invalid duration", map[string]string{"duration_minutes": "must be positive"})
	}
	if err := in.Feedback.validate(); err != nil {
		return nil, err
	}

	var interview *models.Interview
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		interview, err = tx.GetInterviewForUpdate(ctx, interviewID)
		if err != nil {
			return err
		}
		if in.ScheduledAt != nil {
			interview.ScheduledAt = in.ScheduledAt.UTC()
		}
		if interviewType != nil {
			interview.InterviewType = *interviewType
		}
		if in.DurationMinutes != nil {
			interview.DurationMinutes = *in.DurationMinutes
		}
		if in.Location != nil {
			interview.Location = *in.Location
		}
		if in.MeetingLink != nil {
			interview.MeetingLink = *in.MeetingLink
		}
		if in.InterviewerID != nil {
			if _, err := tx.GetUserByID(ctx, *in.InterviewerID); err != nil {
				return err
			}
			interview.InterviewerID = in.InterviewerID
		}
		if in.ClientInterviewer != nil {
			interview.ClientInterviewer = *in.ClientInterviewer
		}
		in.Feedback.apply(interview)
		interview.UpdatedAt = s.clock()
		if err := tx.UpdateInterview(ctx, interview); err != nil {
			return err
		}

		candidate, err := tx.GetCandidate(ctx, interview.CandidateID)
		if err != nil {
			return err
		}
		return s.activity.systemAction(ctx, tx, actor,
			fmt.Sprintf("Interview updated for %s", candidate.FullName),
			&interview.CandidateID, &interview.ApplicationID, nil)
	})
	if err != nil {
		return nil, err
	}
	return interview, nil
}

func (s *WorkflowService) DeleteInterview(ctx context.Context, actor Actor, interviewID string) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		interview, err := tx.GetInterviewForUpdate(ctx, interviewID)
		if err != nil {
			return err
		}
		candidate, err := tx.GetCandidate(ctx, interview.CandidateID)
		if err != nil {
			return err
		}
		if err := s.activity.systemAction(ctx, tx, actor,
			fmt.Sprintf("Interview deleted for %s scheduled on %s",
				candidate.FullName, interview.ScheduledAt.Format("2006-01-02 15:04")),
			&interview.CandidateID, &interview.ApplicationID, nil); err != nil {
			return err
		}
		return tx.DeleteInterview(ctx, interview.ID)
	})
}

// projectCandidateStatus writes the derived candidate status and refreshes
// the referring partner's counters, which depend on it.
func (s *WorkflowService) projectCandidateStatus(ctx context.Context, tx repository.Store, candidate *models.Candidate, status models.CandidateStatus) error {
	candidate.Status = status
	candidate.UpdatedAt = s.clock()
	if err := tx.UpdateCandidate(ctx, candidate); err != nil {
		return err
	}
	return s.syncPartnerCounters(ctx, tx, candidate.PartnerID)
}

// syncPartnerCounters recomputes a partner's referral counters from the
// candidates it currently refers. The partner row stays locked until commit,
// so concurrent recounts for one partner run one after another and each sees
// the other's committed candidates.
func (s *WorkflowService) syncPartnerCounters(ctx context.Context, tx repository.Store, partnerID *string) error {
	if partnerID == nil || strings.TrimSpace(*partnerID) == "" {
		return nil
	}
	if _, err := tx.GetPartnerForUpdate(ctx, *partnerID); err != nil {
		// A deleted partner keeps no counters.
		if errs.Is(err, errs.CodeNotFound) {
			return nil
		}
		return err
	}
	provided, placed, err := tx.CountPartnerCandidates(ctx, *partnerID)
	if err != nil {
		return err
	}
	return tx.UpdatePartnerCounters(ctx, *partnerID, int(provided), int(placed), successRate(provided, placed))
}

func successRate(provided, placed int64) float64 {
	if provided == 0 {
		return 0
	}
	return float64(placed) / float64(provided) * 100
}
