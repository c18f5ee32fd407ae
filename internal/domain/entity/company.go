package entity

import (
	"time"

	"github.com/google/uuid"
)

// Company is a tenant: a salon or beauty center operating one or more locations.
type Company struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Address     string    `gorm:"type:varchar(255)" json:"address,omitempty"`
	City        string    `gorm:"type:varchar(100)" json:"city,omitempty"`
	State       string    `gorm:"type:varchar(100)" json:"state,omitempty"`
	ZipCode     string    `gorm:"type:varchar(20)" json:"zip_code,omitempty"`
	Country     string    `gorm:"type:varchar(100)" json:"country,omitempty"`
	Phone       string    `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Email       string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Website     string    `gorm:"type:varchar(255)" json:"website,omitempty"`
	LogoURL     string    `gorm:"type:varchar(500)" json:"logo_url,omitempty"`
	IsActive    bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Company) TableName() string {
	return "companies"
}

// CompanyFilter narrows company listings.
type CompanyFilter struct {
	Name       string // ILIKE match
	ActiveOnly bool
	Page       Page
}
