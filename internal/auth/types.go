package auth

import (
	"fmt"
	"strings"
	"time"
)

// Role is the access tier assigned to a user. Higher tiers hold a
// superset of the permissions of the tiers below them.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// ParseRole maps a stored role string onto the known enum. Rows carrying
// an unknown role fail at the storage boundary instead of silently
// degrading to zero permissions.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.TrimSpace(strings.ToLower(raw))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleSuperAdmin:
		return RoleSuperAdmin, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, raw)
	}
}

// Status is the lifecycle state of a user account. Only active accounts
// may authenticate or pass permission checks.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

func ParseStatus(raw string) (Status, error) {
	switch Status(strings.TrimSpace(strings.ToLower(raw))) {
	case StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	case StatusSuspended:
		return StatusSuspended, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, raw)
	}
}

// Tier is the subscription plan attached to a user account. The identity
// core only carries it; billing bookkeeping lives elsewhere.
type Tier string

const (
	TierFree       Tier = "free"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

func ParseTier(raw string) (Tier, error) {
	switch Tier(strings.TrimSpace(strings.ToLower(raw))) {
	case TierFree:
		return TierFree, nil
	case TierPro:
		return TierPro, nil
	case TierEnterprise:
		return TierEnterprise, nil
	default:
		return "", fmt.Errorf("%w: unknown subscription tier %q", ErrInvalidArgument, raw)
	}
}

// User is the stored account record. Never deleted by this core.
type User struct {
	ID             int64
	Email          string
	PasswordHash   string
	FirstName      string
	LastName       string
	Role           Role
	Status         Status
	OrganizationID *int64
	Tier           Tier
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Organization groups users of one tenant.
type Organization struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is the resolved view of an authenticated user. Every field is
// sourced from the live storage row at resolution time; the role carried
// inside a token is display-only and never feeds authorization.
type Identity struct {
	UserID         int64  `json:"user_id"`
	Email          string `json:"email"`
	Role           Role   `json:"role"`
	OrganizationID *int64 `json:"organization_id,omitempty"`
	Tier           Tier   `json:"subscription_tier"`
}

// UserSummary is the outward-facing projection of a user record.
type UserSummary struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Role           Role   `json:"role"`
	Status         Status `json:"status"`
	OrganizationID *int64 `json:"organization_id,omitempty"`
	Tier           Tier   `json:"subscription_tier"`
}

// Summary projects the stored record into its outward-facing form.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Role:           u.Role,
		Status:         u.Status,
		OrganizationID: u.OrganizationID,
		Tier:           u.Tier,
	}
}
