package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleStudent    UserRole = "STUDENT"
	RoleL1Reviewer UserRole = "L1_REVIEWER"
	RoleL2Reviewer UserRole = "L2_REVIEWER"
	RoleSupervisor UserRole = "SUPERVISOR"
	RoleAdmin      UserRole = "ADMIN"
)

// RoleList is the canonical role representation: always a set, never a single
// value. Stored as a comma-joined text column.
type RoleList []UserRole

// Has reports whether the list contains the given role.
func (r RoleList) Has(role UserRole) bool {
	for _, candidate := range r {
		if candidate == role {
			return true
		}
	}
	return false
}

// HasAny reports whether the list contains at least one of the given roles.
func (r RoleList) HasAny(roles ...UserRole) bool {
	for _, role := range roles {
		if r.Has(role) {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer.
func (r RoleList) Value() (driver.Value, error) {
	parts := make([]string, 0, len(r))
	for _, role := range r {
		parts = append(parts, string(role))
	}
	return strings.Join(parts, ","), nil
}

// Scan implements sql.Scanner.
func (r *RoleList) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*r = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into RoleList", src)
	}
	if raw == "" {
		*r = nil
		return nil
	}
	parts := strings.Split(raw, ",")
	roles := make(RoleList, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			roles = append(roles, UserRole(part))
		}
	}
	*r = roles
	return nil
}

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Roles        RoleList   `db:"roles" json:"roles"`
	UnitID       *string    `db:"unit_id" json:"unit_id,omitempty"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
