package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"marketcore.dev/internal/audit"
	"marketcore.dev/internal/auth"
)

type updateRoleRequest struct {
	Role string `json:"role"`
}

func (req updateRoleRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Role, validation.Required),
	)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (req updateStatusRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Status, validation.Required),
	)
}

func (a *API) handleUserResource(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/users/"), "/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, r, http.StatusBadRequest, "user id must be a positive integer")
		return
	}
	switch parts[1] {
	case "role":
		a.handleUpdateUserRole(w, r, userID)
	case "status":
		a.handleUpdateUserStatus(w, r, userID)
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

// Role changes are platform-level: only super_admin carries
// manage_platform.
func (a *API) handleUpdateUserRole(w http.ResponseWriter, r *http.Request, userID int64) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}
	identity, ok := a.requirePermission(w, r, auth.ActionManagePlatform)
	if !ok {
		return
	}
	var req updateRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.svc.UpdateUserRole(r.Context(), userID, req.Role)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.user.role_updated", map[string]any{
		"actor_id": identity.UserID,
		"user_id":  user.ID,
		"role":     string(user.Role),
	})
	writeJSON(w, http.StatusOK, user.Summary())
}

func (a *API) handleUpdateUserStatus(w http.ResponseWriter, r *http.Request, userID int64) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}
	identity, ok := a.requirePermission(w, r, auth.ActionManageUsers)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.svc.UpdateUserStatus(r.Context(), userID, req.Status)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.user.status_updated", map[string]any{
		"actor_id": identity.UserID,
		"user_id":  user.ID,
		"status":   string(user.Status),
	})
	writeJSON(w, http.StatusOK, user.Summary())
}

func (a *API) handleOrganizationScoped(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/organizations/"), "/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[1] != "users" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	orgID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || orgID <= 0 {
		writeError(w, r, http.StatusBadRequest, "organization id must be a positive integer")
		return
	}
	a.handleListOrganizationUsers(w, r, orgID)
}

// Listing members requires manage_users and is scoped to the caller's
// own organization unless they hold super_admin.
func (a *API) handleListOrganizationUsers(w http.ResponseWriter, r *http.Request, orgID int64) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	identity, ok := a.requirePermission(w, r, auth.ActionManageUsers)
	if !ok {
		return
	}
	if err := a.engine.CheckOrganization(identity, orgID); err != nil {
		handleAuthError(w, r, err)
		return
	}

	users, err := a.svc.ListOrganizationUsers(r.Context(), orgID)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	summaries := make([]auth.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, u.Summary())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"organization_id": orgID,
		"users":           summaries,
	})
}
