package auth

import "context"

// Store describes persistence operations required by the identity core.
type Store interface {
	Users() UserStore
	Organizations() OrganizationStore
}

// UserStore manages user records. Rows are mapped into typed structs at
// this boundary; unknown role or status strings are scan failures.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	// FindActiveByID returns ErrNotFound unless the row exists with
	// status = active.
	FindActiveByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ListByOrganization(ctx context.Context, orgID int64) ([]*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateRole(ctx context.Context, id int64, role Role) (*User, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*User, error)
}

// OrganizationStore manages tenant organizations.
type OrganizationStore interface {
	Create(ctx context.Context, org *Organization) error
	Find(ctx context.Context, id int64) (*Organization, error)
}
