package models

import (
	"time"

	"gorm.io/datatypes"
)

// JobPosition.ApplicationsCount is maintained by the workflow service and
// always equals the number of live applications for the position.
type JobPosition struct {
	ID                string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClientID          string          `gorm:"type:uuid;not null;index" json:"client_id"`
	Title             string          `gorm:"size:200;not null" json:"title"`
	Description       string          `gorm:"type:text" json:"description,omitempty"`
	Requirements      string          `gorm:"type:text" json:"requirements,omitempty"`
	Responsibilities  string          `gorm:"type:text" json:"responsibilities,omitempty"`
	Benefits          string          `gorm:"type:text" json:"benefits,omitempty"`
	JobType           JobType         `gorm:"type:varchar(20);not null;default:'full_time'" json:"job_type"`
	JobLevel          *JobLevel       `gorm:"type:varchar(20)" json:"job_level,omitempty"`
	Location          string          `gorm:"size:200" json:"location,omitempty"`
	IsRemote          bool            `gorm:"default:false" json:"is_remote"`
	Department        string          `gorm:"size:100" json:"department,omitempty"`
	SalaryMin         *float64        `json:"salary_min,omitempty"`
	SalaryMax         *float64        `json:"salary_max,omitempty"`
	SalaryCurrency    string          `gorm:"size:10;default:'VND'" json:"salary_currency"`
	IsSalaryPublic    bool            `gorm:"default:true" json:"is_salary_public"`
	Vacancies         int             `gorm:"not null;default:1;check:vacancies >= 1" json:"vacancies"`
	Status            JobStatus       `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	StartDate         *datatypes.Date `json:"start_date,omitempty"`
	EndDate           *datatypes.Date `json:"end_date,omitempty"`
	Priority          int             `gorm:"not null;default:3;check:priority BETWEEN 1 AND 5" json:"priority"`
	ViewsCount        int             `gorm:"not null;default:0" json:"views_count"`
	ApplicationsCount int             `gorm:"not null;default:0;check:applications_count >= 0" json:"applications_count"`
	TimeToFill        *int            `json:"time_to_fill,omitempty"` // days
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	// Relationships
	Client       *Client       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Applications []Application `gorm:"foreignKey:JobPositionID;constraint:OnDelete:CASCADE" json:"applications,omitempty"`
}
