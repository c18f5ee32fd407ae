package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Location is a physical branch of a company.
type Location struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID uuid.UUID           `gorm:"type:uuid;not null;index" json:"company_id"`
	Name      string              `gorm:"type:varchar(255);not null" json:"name"`
	Address   string              `gorm:"type:varchar(255)" json:"address,omitempty"`
	City      string              `gorm:"type:varchar(100)" json:"city,omitempty"`
	State     string              `gorm:"type:varchar(100)" json:"state,omitempty"`
	ZipCode   string              `gorm:"type:varchar(20)" json:"zip_code,omitempty"`
	Country   string              `gorm:"type:varchar(100)" json:"country,omitempty"`
	Phone     string              `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Email     string              `gorm:"type:varchar(255)" json:"email,omitempty"`
	Latitude  decimal.NullDecimal `gorm:"type:decimal(9,6)" json:"latitude"`
	Longitude decimal.NullDecimal `gorm:"type:decimal(9,6)" json:"longitude"`
	IsActive  bool                `gorm:"not null" json:"is_active"`
	CreatedAt time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

func (Location) TableName() string {
	return "locations"
}
