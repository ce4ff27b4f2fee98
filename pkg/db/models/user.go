package models

import (
	"time"

	"github.com/printhub/printhub-backend/pkg/enums"
)

// User represents the canonical identity entity. The email doubles as the
// foreign key for orders, calculations and notifications. The password is
// stored in plain text, mirroring the storefront's trust model.
type User struct {
	Email     string     `gorm:"column:email;type:text;primaryKey"`
	Name      string     `gorm:"column:name;type:text;not null"`
	Phone     string     `gorm:"column:phone;type:text;not null;index"`
	Password  string     `gorm:"column:password;type:text;not null"`
	Role      enums.Role `gorm:"column:role;type:text;not null;default:'client'"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// IsStaff reports whether the user can access the manager panel.
func (u *User) IsStaff() bool {
	return u.Role.Normalize().IsStaff()
}
