package services

import (
	"time"

	"github.com/johnnycuong/mps-recruitment/models"
)

// initialStage is the current_stage label given to new applications.
const initialStage = "Applied"

// applyTransition moves app to status at now. Each stage timestamp is written
// only if it is still unset; the status itself is always overwritten. Any
// status may follow any other. Callers must hold the application row lock so
// the nil checks see committed state. The previous status is returned.
func applyTransition(app *models.Application, status models.ApplicationStatus, now time.Time) models.ApplicationStatus {
	old := app.Status

	switch status {
	case models.ApplicationStatusScreening:
		if app.ScreenedAt == nil {
			app.ScreenedAt = timePtr(now)
			app.TimeToScreen = hoursBetween(app.AppliedAt, now)
		}
	case models.ApplicationStatusInterview:
		if app.InterviewedAt == nil {
			app.InterviewedAt = timePtr(now)
			if app.ScreenedAt != nil {
				app.TimeToInterview = hoursBetween(*app.ScreenedAt, now)
			}
		}
	case models.ApplicationStatusShortlisted:
		if app.ShortlistedAt == nil {
			app.ShortlistedAt = timePtr(now)
		}
	case models.ApplicationStatusClientReview:
		if app.ClientReviewedAt == nil {
			app.ClientReviewedAt = timePtr(now)
		}
	case models.ApplicationStatusHired:
		if app.HiredAt == nil {
			app.HiredAt = timePtr(now)
			if app.InterviewedAt != nil {
				app.TimeToDecision = hoursBetween(*app.InterviewedAt, now)
			}
		}
	case models.ApplicationStatusRejected:
		if app.RejectedAt == nil {
			app.RejectedAt = timePtr(now)
			if app.InterviewedAt != nil {
				app.TimeToDecision = hoursBetween(*app.InterviewedAt, now)
			}
		}
	case models.ApplicationStatusWithdrawn:
		if app.WithdrawnAt == nil {
			app.WithdrawnAt = timePtr(now)
		}
	}

	app.Status = status
	return old
}

// hoursBetween returns whole hours from start to end, truncated toward zero.
// Out-of-order inputs yield a negative value.
func hoursBetween(start, end time.Time) *int {
	h := int(end.Sub(start).Hours())
	return &h
}

func timePtr(t time.Time) *time.Time {
	return &t
}
