package models

import (
	"time"

	"gorm.io/datatypes"
)

// Activity is an append-only audit record. Rows are never updated; the
// entity foreign keys are nulled when the referenced row is deleted.
type Activity struct {
	ID            string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID        *string        `gorm:"type:uuid;index" json:"user_id,omitempty"`
	ActivityType  ActivityType   `gorm:"type:varchar(30);not null;index" json:"activity_type"`
	Description   string         `gorm:"type:text;not null" json:"description"`
	Details       datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`
	CandidateID   *string        `gorm:"type:uuid;index" json:"candidate_id,omitempty"`
	ApplicationID *string        `gorm:"type:uuid;index" json:"application_id,omitempty"`
	JobPositionID *string        `gorm:"type:uuid;index" json:"job_position_id,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;index" json:"created_at"`

	// Relationships
	User        *User        `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	Candidate   *Candidate   `gorm:"foreignKey:CandidateID;constraint:OnDelete:SET NULL" json:"-"`
	Application *Application `gorm:"foreignKey:ApplicationID;constraint:OnDelete:SET NULL" json:"-"`
	JobPosition *JobPosition `gorm:"foreignKey:JobPositionID;constraint:OnDelete:SET NULL" json:"-"`
}
