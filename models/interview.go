package models

import "time"

type Interview struct {
	ID                 string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ApplicationID      string          `gorm:"type:uuid;not null;index" json:"application_id"`
	CandidateID        string          `gorm:"type:uuid;not null;index" json:"candidate_id"`
	InterviewType      InterviewType   `gorm:"type:varchar(20);not null;default:'phone'" json:"interview_type"`
	Status             InterviewStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	ScheduledAt        time.Time       `gorm:"not null;index" json:"scheduled_at"`
	DurationMinutes    int             `gorm:"not null;default:60" json:"duration_minutes"`
	Location           string          `gorm:"size:255" json:"location,omitempty"`
	MeetingLink        string          `gorm:"size:255" json:"meeting_link,omitempty"`
	InterviewerID      *string         `gorm:"type:uuid" json:"interviewer_id,omitempty"`
	ClientInterviewer  string          `gorm:"size:100" json:"client_interviewer,omitempty"`
	TechnicalScore     *int            `gorm:"check:technical_score BETWEEN 1 AND 10" json:"technical_score,omitempty"`
	CommunicationScore *int            `gorm:"check:communication_score BETWEEN 1 AND 10" json:"communication_score,omitempty"`
	CultureFitScore    *int            `gorm:"check:culture_fit_score BETWEEN 1 AND 10" json:"culture_fit_score,omitempty"`
	OverallScore       *int            `gorm:"check:overall_score BETWEEN 1 AND 10" json:"overall_score,omitempty"`
	Strengths          string          `gorm:"type:text" json:"strengths,omitempty"`
	Weaknesses         string          `gorm:"type:text" json:"weaknesses,omitempty"`
	Notes              string          `gorm:"type:text" json:"notes,omitempty"`
	Recommendation     string          `gorm:"size:50" json:"recommendation,omitempty"`
	CompletedAt        *time.Time      `json:"completed_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	// Relationships
	Application *Application `gorm:"foreignKey:ApplicationID" json:"-"`
	Candidate   *Candidate   `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
	Interviewer *User        `gorm:"foreignKey:InterviewerID;constraint:OnDelete:SET NULL" json:"-"`
}
