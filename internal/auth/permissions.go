package auth

import (
	"context"
	"fmt"
)

// Action is a permission key gating one privileged operation.
type Action string

const (
	ActionViewMarketplace     Action = "view_marketplace"
	ActionDeployAgent         Action = "deploy_agent"
	ActionManageProfile       Action = "manage_profile"
	ActionManageUsers         Action = "manage_users"
	ActionViewAnalytics       Action = "view_analytics"
	ActionManageOrganization  Action = "manage_organization"
	ActionManagePlatform      Action = "manage_platform"
	ActionManageSubscriptions Action = "manage_subscriptions"
)

// Role tiers are built by appending to the tier below, so the superset
// relation user ⊆ admin ⊆ super_admin holds by construction.
var (
	userActions = []Action{
		ActionViewMarketplace,
		ActionDeployAgent,
		ActionManageProfile,
	}
	adminActions = append(userActions[:len(userActions):len(userActions)],
		ActionManageUsers,
		ActionViewAnalytics,
		ActionManageOrganization,
	)
	superAdminActions = append(adminActions[:len(adminActions):len(adminActions)],
		ActionManagePlatform,
		ActionManageSubscriptions,
	)
)

var rolePermissions = map[Role][]Action{
	RoleUser:       userActions,
	RoleAdmin:      adminActions,
	RoleSuperAdmin: superAdminActions,
}

// PermissionsFor returns the action set granted to a role. Unknown roles
// get an empty set, not an error.
func PermissionsFor(role Role) map[Action]struct{} {
	actions := rolePermissions[role]
	set := make(map[Action]struct{}, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return set
}

// Engine makes authorization decisions against the role and status read
// fresh from storage at check time. The role inside a token claim never
// feeds a decision here.
type Engine struct {
	users UserStore
}

func NewEngine(users UserStore) *Engine {
	return &Engine{users: users}
}

// CheckPermission grants or denies one action for one user. A missing or
// non-active user is unauthenticated; an active user whose role lacks
// the action is denied.
func (e *Engine) CheckPermission(ctx context.Context, userID int64, action Action) error {
	user, err := e.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: user not found", ErrUnauthenticated)
		}
		return fmt.Errorf("%w: load user: %v", ErrInternal, err)
	}
	if user.Status != StatusActive {
		return fmt.Errorf("%w: user is not active", ErrUnauthenticated)
	}
	if _, ok := PermissionsFor(user.Role)[action]; !ok {
		return fmt.Errorf("%w: role %s lacks %s", ErrPermissionDenied, user.Role, action)
	}
	return nil
}

// HasPermission is CheckPermission for branching decisions: any failure,
// including storage errors, reads as false.
func (e *Engine) HasPermission(ctx context.Context, userID int64, action Action) bool {
	return e.CheckPermission(ctx, userID, action) == nil
}

// CheckOrganization enforces tenant scoping: the identity must belong to
// the target organization unless it holds super_admin.
func (e *Engine) CheckOrganization(identity Identity, orgID int64) error {
	if identity.Role == RoleSuperAdmin {
		return nil
	}
	if identity.OrganizationID == nil || *identity.OrganizationID != orgID {
		return fmt.Errorf("%w: organization mismatch", ErrPermissionDenied)
	}
	return nil
}
