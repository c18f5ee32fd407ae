package entity

// Role represents a user role in the system
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants, seeded by the initial migration.
const (
	RoleIDUser         = 1
	RoleIDEmployee     = 2
	RoleIDReceptionist = 3
	RoleIDStandardist  = 4
	RoleIDAdmin        = 5
)

// RoleNames constants
const (
	RoleUser         = "USER"
	RoleEmployee     = "EMPLOYEE"
	RoleReceptionist = "RECEPTIONIST"
	RoleStandardist  = "STANDARDIST"
	RoleAdmin        = "ADMIN"
)

// RoleName maps a seeded role ID to its name.
func RoleName(id int) string {
	switch id {
	case RoleIDUser:
		return RoleUser
	case RoleIDEmployee:
		return RoleEmployee
	case RoleIDReceptionist:
		return RoleReceptionist
	case RoleIDStandardist:
		return RoleStandardist
	case RoleIDAdmin:
		return RoleAdmin
	}
	return ""
}
