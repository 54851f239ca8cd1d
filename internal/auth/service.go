package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"
)

const minPasswordLength = 8

// Service implements the credential and account lifecycle operations:
// registration, login, logout, password change, and the admin mutations
// of role and status.
type Service struct {
	store  Store
	tokens *TokenService
	now    func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

func NewService(store Store, tokens *TokenService, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is required", ErrInvalidArgument)
	}
	if tokens == nil {
		return nil, fmt.Errorf("%w: token service is required", ErrInvalidArgument)
	}
	s := &Service{store: store, tokens: tokens, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RegisterInput is the registration contract.
type RegisterInput struct {
	Email            string
	Password         string
	FirstName        string
	LastName         string
	OrganizationName string
	Role             string
}

// LoginInput is the login contract.
type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool
}

// AuthResult carries the outcome of registration or login. Cookie is set
// only when the caller asked for a browser session.
type AuthResult struct {
	User      UserSummary
	Token     string
	ExpiresAt time.Time
	Cookie    *http.Cookie
}

// Register validates the input, creates the user (and optionally its
// organization), and issues a first token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return AuthResult{}, err
	}
	if err := validatePasswordLength(in.Password); err != nil {
		return AuthResult{}, err
	}
	role := RoleUser
	if strings.TrimSpace(in.Role) != "" {
		role, err = ParseRole(in.Role)
		if err != nil {
			return AuthResult{}, err
		}
	}

	if _, err := s.store.Users().FindByEmail(ctx, email); err == nil {
		return AuthResult{}, fmt.Errorf("%w: email already registered", ErrAlreadyExists)
	} else if !isNotFound(err) {
		return AuthResult{}, fmt.Errorf("%w: lookup email: %v", ErrInternal, err)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("%w: hash password: %v", ErrInternal, err)
	}

	// The organization is created before the user row. If the user
	// insert then loses a duplicate-email race, the organization row is
	// left without members; it is harmless and reachable only by
	// super_admin listing. The stores expose no cross-entity
	// transaction to roll it back.
	var orgID *int64
	if name := strings.TrimSpace(in.OrganizationName); name != "" {
		org := &Organization{Name: name}
		if err := s.store.Organizations().Create(ctx, org); err != nil {
			return AuthResult{}, fmt.Errorf("%w: create organization: %v", ErrInternal, err)
		}
		orgID = &org.ID
	}

	user := &User{
		Email:          email,
		PasswordHash:   hash,
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Role:           role,
		Status:         StatusActive,
		OrganizationID: orgID,
		Tier:           TierFree,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if isAlreadyExists(err) {
			return AuthResult{}, fmt.Errorf("%w: email already registered", ErrAlreadyExists)
		}
		return AuthResult{}, fmt.Errorf("%w: create user: %v", ErrInternal, err)
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, fmt.Errorf("%w: issue token: %v", ErrInternal, err)
	}
	return AuthResult{User: user.Summary(), Token: token, ExpiresAt: expiresAt}, nil
}

// Login verifies credentials and issues a token. The failure message is
// identical for an unknown email, a wrong password, and a non-active
// account, to avoid user enumeration.
func (s *Service) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	genericErr := fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)

	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return AuthResult{}, genericErr
	}
	user, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return AuthResult{}, genericErr
		}
		return AuthResult{}, fmt.Errorf("%w: lookup email: %v", ErrInternal, err)
	}
	if user.Status != StatusActive {
		return AuthResult{}, genericErr
	}
	if !VerifyPassword(in.Password, user.PasswordHash) {
		return AuthResult{}, genericErr
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, fmt.Errorf("%w: issue token: %v", ErrInternal, err)
	}
	result := AuthResult{User: user.Summary(), Token: token, ExpiresAt: expiresAt}
	if in.RememberMe {
		result.Cookie = NewSessionCookie(token, s.now().UTC())
	}
	return result, nil
}

// Logout returns the cookie that clears the browser session. It has no
// dependency on prior session state.
func (s *Service) Logout() *http.Cookie {
	return ExpiredSessionCookie()
}

// ChangePassword verifies the current password and replaces the stored
// hash with one for the new password.
func (s *Service) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	user, err := s.store.Users().FindActiveByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: user not found or inactive", ErrUnauthenticated)
		}
		return fmt.Errorf("%w: load user: %v", ErrInternal, err)
	}
	if !VerifyPassword(current, user.PasswordHash) {
		return fmt.Errorf("%w: current password is incorrect", ErrUnauthenticated)
	}
	if err := validatePasswordLength(next); err != nil {
		return err
	}
	hash, err := HashPassword(next)
	if err != nil {
		return fmt.Errorf("%w: hash password: %v", ErrInternal, err)
	}
	if err := s.store.Users().UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("%w: update password: %v", ErrInternal, err)
	}
	return nil
}

// UpdateUserRole changes a user's role after validating the enum.
func (s *Service) UpdateUserRole(ctx context.Context, userID int64, rawRole string) (*User, error) {
	role, err := ParseRole(rawRole)
	if err != nil {
		return nil, err
	}
	user, err := s.store.Users().UpdateRole(ctx, userID, role)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("%w: update role: %v", ErrInternal, err)
	}
	return user, nil
}

// UpdateUserStatus changes a user's lifecycle status after validating
// the enum. Flipping a user away from active revokes access on the next
// fresh read, regardless of any still-valid token.
func (s *Service) UpdateUserStatus(ctx context.Context, userID int64, rawStatus string) (*User, error) {
	status, err := ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	user, err := s.store.Users().UpdateStatus(ctx, userID, status)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("%w: update status: %v", ErrInternal, err)
	}
	return user, nil
}

// ListOrganizationUsers returns the members of an organization. The
// organization must exist even when it has no members.
func (s *Service) ListOrganizationUsers(ctx context.Context, orgID int64) ([]*User, error) {
	if _, err := s.store.Organizations().Find(ctx, orgID); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: organization %d", ErrNotFound, orgID)
		}
		return nil, fmt.Errorf("%w: load organization: %v", ErrInternal, err)
	}
	users, err := s.store.Users().ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %v", ErrInternal, err)
	}
	return users, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(strings.ToLower(raw))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidArgument)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: invalid email address", ErrInvalidArgument)
	}
	return email, nil
}

func validatePasswordLength(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least 8 characters long", ErrInvalidArgument)
	}
	return nil
}

func isAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
