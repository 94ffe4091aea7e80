package domain

import (
	"errors"
	"time"
)

// Role determines which navigation subtree an account may enter.
type Role string

const (
	RoleBuyer       Role = "buyer"
	RoleSeller      Role = "seller"
	RoleAdmin       Role = "admin"
	RoleTransporter Role = "transporter"
)

// AllRoles is the closed set of valid roles.
var AllRoles = []Role{RoleBuyer, RoleSeller, RoleAdmin, RoleTransporter}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin, RoleTransporter:
		return true
	}
	return false
}

var ErrProfileNotFound = errors.New("profile not found")
var ErrProfileExists = errors.New("profile already exists")
var ErrStoreUnavailable = errors.New("record store unavailable")
var ErrProvisionFailed = errors.New("profile provisioning failed")
var ErrInvalidRole = errors.New("invalid role")

// Profile is the durable per-account record carrying the authorization role.
// At most one Profile exists per subject id; the store enforces uniqueness.
type Profile struct {
	SubjectID   string    `json:"id"`
	FullName    string    `json:"full_name,omitempty"`
	Role        Role      `json:"role"`
	CompanyName string    `json:"company_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultProfile returns the profile provisioned on first authenticated visit.
func DefaultProfile(subjectID string, now time.Time) *Profile {
	return &Profile{
		SubjectID: subjectID,
		FullName:  "",
		Role:      RoleBuyer,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
