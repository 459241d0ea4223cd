package models

import (
	"time"

	"gorm.io/gorm"
)

// Partner is a sourcing organisation that refers candidates. The three
// counters at the bottom are maintained by the workflow service only.
type Partner struct {
	ID                  string             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID              *string            `gorm:"type:uuid;uniqueIndex" json:"user_id,omitempty"`
	Name                string             `gorm:"size:200;not null" json:"name"`
	PartnerType         PartnerType        `gorm:"type:varchar(30);not null" json:"partner_type"`
	Status              OrganizationStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	Address             string             `gorm:"size:255" json:"address,omitempty"`
	City                string             `gorm:"size:100" json:"city,omitempty"`
	Province            string             `gorm:"size:100" json:"province,omitempty"`
	Country             string             `gorm:"size:100;default:'Vietnam'" json:"country,omitempty"`
	Website             string             `gorm:"size:255" json:"website,omitempty"`
	PrimaryContactName  string             `gorm:"size:100" json:"primary_contact_name,omitempty"`
	PrimaryContactEmail string             `gorm:"size:100" json:"primary_contact_email,omitempty"`
	PrimaryContactPhone string             `gorm:"size:20" json:"primary_contact_phone,omitempty"`
	Description         string             `gorm:"type:text" json:"description,omitempty"`
	Specialization      string             `gorm:"size:255" json:"specialization,omitempty"`
	AgreementDetails    string             `gorm:"type:text" json:"agreement_details,omitempty"`
	CommissionRate      *float64           `json:"commission_rate,omitempty"`
	QualityRating       float64            `gorm:"default:0" json:"quality_rating"`

	CandidatesProvidedCount   int     `gorm:"not null;default:0" json:"candidates_provided_count"`
	SuccessfulPlacementsCount int     `gorm:"not null;default:0" json:"successful_placements_count"`
	SuccessRate               float64 `gorm:"not null;default:0" json:"success_rate"` // percentage

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"-"`
}
