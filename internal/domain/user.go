package domain

import "time"

// User is an account holder. A user may carry several roles; the role they
// are currently operating as travels in the session token, not here.
type User struct {
	ID           string
	NIP          string
	Name         string
	Email        string
	PasswordHash string
	Roles        []Role
	UnitKerja    string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the user may operate as the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
