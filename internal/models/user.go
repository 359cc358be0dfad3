package models

import (
	"gorm.io/datatypes"
)

type User struct {
	BaseModel
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         string         `gorm:"type:varchar(100)" json:"name"`
	Phone        string         `gorm:"type:varchar(30)" json:"phone,omitempty"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Status       UserStatus     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Preferences  datatypes.JSON `json:"preferences,omitempty"`

	Roles []Role `gorm:"many2many:user_roles;" json:"roles"`
}

type Role struct {
	ID   uint     `gorm:"primaryKey" json:"id"`
	Name UserRole `gorm:"type:varchar(30);uniqueIndex;not null" json:"name"`
}

// RoleNames flattens the loaded roles for token claims and membership checks.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, string(r.Name))
	}
	return names
}

func (u *User) HasRole(role UserRole) bool {
	for _, r := range u.Roles {
		if r.Name == role {
			return true
		}
	}
	return false
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
