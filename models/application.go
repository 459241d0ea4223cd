package models

import (
	"time"

	"gorm.io/datatypes"
)

// Application links one candidate to one job position. Stage timestamps are
// written at most once; the durations are whole hours between stages.
type Application struct {
	ID               string            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CandidateID      string            `gorm:"type:uuid;not null;uniqueIndex:idx_application_candidate_job" json:"candidate_id"`
	JobPositionID    string            `gorm:"type:uuid;not null;uniqueIndex:idx_application_candidate_job;index" json:"job_position_id"`
	Status           ApplicationStatus `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	CoverLetter      string            `gorm:"type:text" json:"cover_letter,omitempty"`
	ExpectedSalary   *float64          `json:"expected_salary,omitempty"`
	AvailabilityDate *datatypes.Date   `json:"availability_date,omitempty"`
	RecruiterID      *string           `gorm:"type:uuid;index" json:"recruiter_id,omitempty"`
	RecruiterNotes   string            `gorm:"type:text" json:"recruiter_notes,omitempty"`
	CandidateScore   *float64          `json:"candidate_score,omitempty"`
	CurrentStage     string            `gorm:"size:50" json:"current_stage,omitempty"`
	IsActive         bool              `gorm:"default:true" json:"is_active"`

	AppliedAt        time.Time  `gorm:"not null;index" json:"applied_at"`
	ScreenedAt       *time.Time `gorm:"index" json:"screened_at,omitempty"`
	InterviewedAt    *time.Time `gorm:"index" json:"interviewed_at,omitempty"`
	ShortlistedAt    *time.Time `gorm:"index" json:"shortlisted_at,omitempty"`
	ClientReviewedAt *time.Time `gorm:"index" json:"client_reviewed_at,omitempty"`
	HiredAt          *time.Time `gorm:"index" json:"hired_at,omitempty"`
	RejectedAt       *time.Time `json:"rejected_at,omitempty"`
	WithdrawnAt      *time.Time `json:"withdrawn_at,omitempty"`

	TimeToScreen    *int `json:"time_to_screen,omitempty"`    // hours
	TimeToInterview *int `json:"time_to_interview,omitempty"` // hours
	TimeToDecision  *int `json:"time_to_decision,omitempty"`  // hours

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Candidate   *Candidate   `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
	JobPosition *JobPosition `gorm:"foreignKey:JobPositionID" json:"job_position,omitempty"`
	Recruiter   *User        `gorm:"foreignKey:RecruiterID;constraint:OnDelete:SET NULL" json:"-"`
	Interviews  []Interview  `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"interviews,omitempty"`
}
