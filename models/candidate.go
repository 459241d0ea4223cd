package models

import (
	"time"

	"gorm.io/datatypes"
)

// Candidate.Status is a projection of the most recently transitioned
// application. Blacklisted is only ever set directly.
type Candidate struct {
	ID                string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FullName          string          `gorm:"size:100;not null" json:"full_name"`
	Email             string          `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone             string          `gorm:"size:20" json:"phone,omitempty"`
	DateOfBirth       *datatypes.Date `json:"date_of_birth,omitempty"`
	Gender            *Gender         `gorm:"type:varchar(10)" json:"gender,omitempty"`
	Address           string          `gorm:"size:255" json:"address,omitempty"`
	City              string          `gorm:"size:100" json:"city,omitempty"`
	Province          string          `gorm:"size:100" json:"province,omitempty"`
	Country           string          `gorm:"size:100;default:'Vietnam'" json:"country,omitempty"`
	EducationLevel    *EducationLevel `gorm:"type:varchar(20)" json:"education_level,omitempty"`
	Major             string          `gorm:"size:100" json:"major,omitempty"`
	University        string          `gorm:"size:200" json:"university,omitempty"`
	Skills            string          `gorm:"type:text" json:"skills,omitempty"`
	Languages         string          `gorm:"type:text" json:"languages,omitempty"`
	YearsOfExperience *float64        `json:"years_of_experience,omitempty"`
	ResumeURL         string          `gorm:"size:255" json:"resume_url,omitempty"`
	PortfolioURL      string          `gorm:"size:255" json:"portfolio_url,omitempty"`
	CurrentEmployer   string          `gorm:"size:200" json:"current_employer,omitempty"`
	CurrentPosition   string          `gorm:"size:100" json:"current_position,omitempty"`
	CurrentSalary     *float64        `json:"current_salary,omitempty"`
	ExpectedSalary    *float64        `json:"expected_salary,omitempty"`
	Status            CandidateStatus `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	Source            *string         `gorm:"size:100;index" json:"source,omitempty"`
	Notes             string          `gorm:"type:text" json:"notes,omitempty"`
	QualityScore      *float64        `json:"quality_score,omitempty"`
	LastContactDate   *time.Time      `json:"last_contact_date,omitempty"`
	PartnerID         *string         `gorm:"type:uuid;index" json:"partner_id,omitempty"`
	CreatedAt         time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	// Relationships
	Partner      *Partner      `gorm:"foreignKey:PartnerID;constraint:OnDelete:SET NULL" json:"partner,omitempty"`
	Applications []Application `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"applications,omitempty"`
}
