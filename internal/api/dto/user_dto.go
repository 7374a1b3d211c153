package dto

import (
	"time"

	"github.com/sigap-ti/sigap/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	NIP       string `json:"nip"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	UnitKerja string `json:"unit_kerja"`
}

// LoginRequest payload. Role selects which of the account's roles the
// session opens under.
type LoginRequest struct {
	NIP      string `json:"nip"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SwitchRoleRequest payload.
type SwitchRoleRequest struct {
	Role string `json:"role"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// CreateUserRequest payload for admin user creation.
type CreateUserRequest struct {
	NIP       string   `json:"nip"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Roles     []string `json:"roles"`
	UnitKerja string   `json:"unit_kerja"`
}

// UpdateUserRequest payload for admin user updates. Omitted fields are left
// unchanged.
type UpdateUserRequest struct {
	Name      *string  `json:"name"`
	Email     *string  `json:"email"`
	Password  *string  `json:"password"`
	Roles     []string `json:"roles"`
	UnitKerja *string  `json:"unit_kerja"`
	IsActive  *bool    `json:"is_active"`
}

// UserResponse response.
type UserResponse struct {
	ID        string        `json:"id"`
	NIP       string        `json:"nip"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Roles     []domain.Role `json:"roles"`
	UnitKerja string        `json:"unit_kerja"`
	IsActive  bool          `json:"is_active"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// SessionResponse response for login, register and role switch.
type SessionResponse struct {
	Token      string       `json:"token"`
	ExpiresAt  time.Time    `json:"expires_at"`
	ActiveRole domain.Role  `json:"active_role"`
	User       UserResponse `json:"user"`
}
