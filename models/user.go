package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username     string         `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	FullName     string         `gorm:"size:100;not null" json:"full_name"`
	Phone        string         `gorm:"size:20" json:"phone,omitempty"`
	Role         UserRole       `gorm:"type:varchar(20);not null;check:role IN ('admin', 'recruiter', 'manager', 'client', 'partner', 'collaborator')" json:"role"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Client  *Client  `gorm:"foreignKey:UserID" json:"client,omitempty"`
	Partner *Partner `gorm:"foreignKey:UserID" json:"partner,omitempty"`
}
