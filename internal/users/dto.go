package users

import (
	"time"

	"github.com/printhub/printhub-backend/pkg/db/models"
	"github.com/printhub/printhub-backend/pkg/enums"
)

// UserDTO is the transport shape that omits the stored password.
type UserDTO struct {
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Role      enums.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CustomerDTO is the manager-panel view of a customer with order aggregates.
type CustomerDTO struct {
	Email               string    `json:"email"`
	Name                string    `json:"name"`
	Phone               string    `json:"phone"`
	RegisteredAt        time.Time `json:"registered_at"`
	OrderCount          int64     `json:"order_count"`
	TotalSpent          int64     `json:"total_spent"`
	LastDeliveryAddress string    `json:"last_delivery_address,omitempty"`
}

// UpdateProfileRequest carries the editable profile fields. An empty Email
// keeps the current address.
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

// ChangePasswordRequest carries the cabinet password-change form.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// ResetPasswordRequest is the out-of-band recovery path keyed by email only.
type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// FromModel converts a user record to its transport shape.
func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      u.Role.Normalize(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// CustomerFromModel builds the customer projection without aggregates.
func CustomerFromModel(u *models.User) CustomerDTO {
	return CustomerDTO{
		Email:        u.Email,
		Name:         u.Name,
		Phone:        u.Phone,
		RegisteredAt: u.CreatedAt,
	}
}
