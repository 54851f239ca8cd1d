package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// Resolver turns an inbound request into a resolved identity. It is the
// sole gate before privileged handlers run; a single failure terminates
// the request with an authentication error.
type Resolver struct {
	tokens *TokenService
	users  UserStore
}

func NewResolver(tokens *TokenService, users UserStore) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve extracts a token from the Authorization header or the session
// cookie, verifies it, and loads the live user row filtered to active
// status. Identity fields reflect storage, not the token claims.
func (r *Resolver) Resolve(req *http.Request) (Identity, error) {
	token := tokenFromRequest(req)
	if token == "" {
		return Identity{}, fmt.Errorf("%w: missing token", ErrUnauthenticated)
	}
	claims, err := r.tokens.Verify(token)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	}
	userID, err := claims.UserID()
	if err != nil {
		return Identity{}, fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	}
	user, err := r.users.FindActiveByID(req.Context(), userID)
	if err != nil {
		if isNotFound(err) {
			return Identity{}, fmt.Errorf("%w: user not found or inactive", ErrUnauthenticated)
		}
		return Identity{}, fmt.Errorf("%w: load user: %v", ErrInternal, err)
	}
	return Identity{
		UserID:         user.ID,
		Email:          user.Email,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		Tier:           user.Tier,
	}, nil
}

// tokenFromRequest prefers the Authorization header; the scheme prefix
// is case-sensitive. Falls back to the session cookie.
func tokenFromRequest(req *http.Request) string {
	if header := strings.TrimSpace(req.Header.Get("Authorization")); header != "" {
		if strings.HasPrefix(header, bearerPrefix) {
			return strings.TrimSpace(header[len(bearerPrefix):])
		}
		return ""
	}
	if cookie, err := req.Cookie(SessionCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
