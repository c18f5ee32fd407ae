package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can authenticate against the API.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username  string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email     string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"type:text;not null" json:"-"`
	FirstName string     `gorm:"type:varchar(100)" json:"first_name,omitempty"`
	LastName  string     `gorm:"type:varchar(100)" json:"last_name,omitempty"`
	Phone     string     `gorm:"type:varchar(30)" json:"phone,omitempty"`
	IsActive  bool       `gorm:"not null;index" json:"is_active"`
	CompanyID *uuid.UUID `gorm:"type:uuid;index" json:"company_id,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Roles []Role `gorm:"many2many:user_roles;" json:"roles,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// RoleIDs returns the IDs of the user's roles.
func (u *User) RoleIDs() []int {
	ids := make([]int, 0, len(u.Roles))
	for _, r := range u.Roles {
		ids = append(ids, r.ID)
	}
	return ids
}

func (u *User) HasRole(roleID int) bool {
	for _, r := range u.Roles {
		if r.ID == roleID {
			return true
		}
	}
	return false
}

// UserFilter narrows user listings.
type UserFilter struct {
	RoleID    *int
	CompanyID *uuid.UUID
	Page      Page
}
