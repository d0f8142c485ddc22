package users

import (
	"context"
	"errors"
	"time"

	"github.com/summaryhub/summaryhub/internal/azure"
	"github.com/summaryhub/summaryhub/internal/models"
	"github.com/summaryhub/summaryhub/pkg/logger"
)

var (
	// ErrNotRegistered means the token is valid but its subject has no user
	// record yet; the caller should point the client at registration.
	ErrNotRegistered = errors.New("user not registered")

	// ErrAlreadyRegistered means the token subject already has a user record.
	ErrAlreadyRegistered = errors.New("user already registered")

	// ErrIncompleteClaims means the validated token is missing the subject or
	// email claim needed to resolve an identity.
	ErrIncompleteClaims = errors.New("token claims missing subject or email")

	// ErrSelfDeletion guards the admin delete endpoint.
	ErrSelfDeletion = errors.New("cannot delete yourself")
)

// TokenValidator is the slice of the azure validator the service depends on.
type TokenValidator interface {
	Validate(ctx context.Context, raw string) (azure.Claims, error)
}

// Service resolves bearer tokens to application users: token validation,
// role mapping and the user store behind one API.
type Service struct {
	repo      UserRepository
	validator TokenValidator
	mapping   azure.RoleMapping
	now       func() time.Time
}

func NewService(repo UserRepository, validator TokenValidator, mapping azure.RoleMapping) *Service {
	return &Service{repo: repo, validator: validator, mapping: mapping, now: time.Now}
}

// identity validates the token and extracts the subject/email pair every
// resolution needs.
func (s *Service) identity(ctx context.Context, raw string) (azure.Claims, string, string, error) {
	claims, err := s.validator.Validate(ctx, raw)
	if err != nil {
		return nil, "", "", err
	}
	oid, email := claims.Subject(), claims.Email()
	if oid == "" || email == "" {
		return nil, "", "", ErrIncompleteClaims
	}
	return claims, oid, email, nil
}

// Register creates a user record for the token subject. The very first user
// in an empty store becomes admin; everyone after that starts as reader.
// A subject can register exactly once.
func (s *Service) Register(ctx context.Context, raw string) (*models.User, error) {
	claims, oid, email, err := s.identity(ctx, raw)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByOID(ctx, oid); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrAlreadyRegistered
	}

	role := models.RoleReader
	n, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// bootstrap: a concurrent first registration of the same subject is
		// resolved by the unique index; two distinct subjects racing an empty
		// store is the documented residual window.
		role = models.RoleAdmin
		logger.Infof("bootstrap: first registered user %s becomes admin", email)
	}

	now := s.now()
	u := &models.User{
		AzureOID:  oid,
		Email:     email,
		Name:      claims.Name(),
		Role:      role,
		CreatedAt: now,
		LastLogin: &now,
	}
	created, err := s.repo.Create(ctx, u)
	if errors.Is(err, ErrDuplicate) {
		return nil, ErrAlreadyRegistered
	}
	if err != nil {
		return nil, err
	}
	logger.Infof("registered user %s (role=%s)", created.Email, created.Role)
	return created, nil
}

// Authenticate resolves the token to a registered user, stamping lastLogin
// and syncing a changed email. The stored role is authoritative: role hints
// in the token never overwrite it, they are only logged when they drift.
func (s *Service) Authenticate(ctx context.Context, raw string) (*models.User, error) {
	claims, oid, email, err := s.identity(ctx, raw)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.GetByOID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotRegistered
	}

	if mapped := s.mapping.Map(claims); mapped != u.Role {
		logger.Debugf("role drift for %s: token maps to %s, stored role %s kept", u.Email, mapped, u.Role)
	}
	if email != u.Email {
		logger.Infof("email change for subject %s: %s -> %s", oid, u.Email, email)
	}

	updated, err := s.repo.RecordLogin(ctx, oid, email, s.now())
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotRegistered
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Lookup resolves the token to a registered user without touching lastLogin.
// Backs the profile endpoint, which must work right after token validation.
func (s *Service) Lookup(ctx context.Context, raw string) (*models.User, error) {
	_, oid, _, err := s.identity(ctx, raw)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.GetByOID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotRegistered
	}
	return u, nil
}

// MapRole exposes the configured claim-to-role mapping; used by the token
// debugging endpoint.
func (s *Service) MapRole(claims azure.Claims) models.Role {
	return s.mapping.Map(claims)
}

// List returns all registered users. Admin only; enforced by the caller.
func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.List(ctx)
}

// Get returns a user by store id, ErrNotRegistered when absent.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotRegistered
	}
	return u, nil
}

// UpdateRole sets a user's role. This is the only way a role changes after
// registration.
func (s *Service) UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	u, err := s.repo.UpdateRole(ctx, id, role)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotRegistered
	}
	if err != nil {
		return nil, err
	}
	logger.Infof("role change: user %s is now %s", u.Email, u.Role)
	return u, nil
}

// Delete removes a user. Admins cannot delete their own account.
func (s *Service) Delete(ctx context.Context, actor *models.User, id string) error {
	if actor != nil && actor.ID.Hex() == id {
		return ErrSelfDeletion
	}
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return ErrNotRegistered
	}
	return err
}
