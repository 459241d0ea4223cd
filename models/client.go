package models

import (
	"time"

	"gorm.io/gorm"
)

// Client is a hiring company. UserID links an optional client-portal account.
type Client struct {
	ID                  string             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID              *string            `gorm:"type:uuid;uniqueIndex" json:"user_id,omitempty"`
	CompanyName         string             `gorm:"size:200;not null" json:"company_name"`
	Industry            string             `gorm:"size:100" json:"industry,omitempty"`
	ClientType          ClientType         `gorm:"type:varchar(20);not null;default:'fdi'" json:"client_type"`
	Status              OrganizationStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	Address             string             `gorm:"size:255" json:"address,omitempty"`
	City                string             `gorm:"size:100" json:"city,omitempty"`
	Country             string             `gorm:"size:100" json:"country,omitempty"`
	Website             string             `gorm:"size:255" json:"website,omitempty"`
	Description         string             `gorm:"type:text" json:"description,omitempty"`
	EmployeeCount       *int               `json:"employee_count,omitempty"`
	PrimaryContactName  string             `gorm:"size:100" json:"primary_contact_name,omitempty"`
	PrimaryContactEmail string             `gorm:"size:100" json:"primary_contact_email,omitempty"`
	PrimaryContactPhone string             `gorm:"size:20" json:"primary_contact_phone,omitempty"`
	QualityRating       float64            `gorm:"default:0" json:"quality_rating"` // 0-5
	ResponseTimeAvg     *float64           `json:"response_time_avg,omitempty"`     // hours
	HireSuccessRate     *float64           `json:"hire_success_rate,omitempty"`     // percentage
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
	DeletedAt           gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	User         *User         `gorm:"foreignKey:UserID" json:"-"`
	JobPositions []JobPosition `gorm:"foreignKey:ClientID" json:"job_positions,omitempty"`
}
