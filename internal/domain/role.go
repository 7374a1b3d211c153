package domain

import "fmt"

// Role is one hat a user can wear. A single account may hold several; the
// one in effect for a session travels in the token as the active role.
type Role string

const (
	// RolePegawai is a regular employee: files tickets, confirms closure.
	RolePegawai Role = "pegawai"
	// RoleTeknisi handles assigned repairs and records diagnoses.
	RoleTeknisi Role = "teknisi"
	// RoleAdminLayanan triages the service desk: approves, rejects, assigns
	// and may close any ticket, and reviews Zoom bookings.
	RoleAdminLayanan Role = "admin_layanan"
	// RoleAdminPenyedia drives procurement work orders.
	RoleAdminPenyedia Role = "admin_penyedia"
	// RoleSuperAdmin manages accounts and the asset inventory.
	RoleSuperAdmin Role = "super_admin"
)

// ParseRole validates a raw role string.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RolePegawai, RoleTeknisi, RoleAdminLayanan, RoleAdminPenyedia, RoleSuperAdmin:
		return Role(raw), nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}
