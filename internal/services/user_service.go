package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/projectcostai/projectcostai/internal/auth"
	"github.com/projectcostai/projectcostai/internal/domain/user"
	"github.com/projectcostai/projectcostai/internal/pkg/errors"
	"github.com/projectcostai/projectcostai/internal/pkg/logger"
	"github.com/projectcostai/projectcostai/internal/pkg/metrics"
)

const msgInvalidCredentials = "Invalid credentials"

// UserService implements user.Service
type UserService struct {
	repo       user.Repository
	tokens     *auth.TokenIssuer
	bcryptCost int
	logger     *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(repo user.Repository, tokens *auth.TokenIssuer, bcryptCost int, log *logger.Logger) user.Service {
	if bcryptCost == 0 {
		bcryptCost = auth.DefaultBCryptCost
	}
	return &UserService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     log,
	}
}

func (s *UserService) Signup(ctx context.Context, name, email, password string) (*user.Session, error) {
	email = normalizeEmail(email)

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, errors.BadRequest("Email exists")
	} else if !errors.Is(err, errors.ErrCodeNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if stderrors.Is(err, auth.ErrPasswordTooLong) {
		return nil, errors.BadRequest("Password must be at most 72 bytes long")
	}
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	u := &user.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         user.RoleUser,
		LoginCount:   1,
		Provider:     user.ProviderLocal,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// lost a race with a concurrent signup
		if errors.Is(err, errors.ErrCodeConflict) {
			return nil, errors.BadRequest("Email exists")
		}
		s.logger.ErrorWithErr(err, "Failed to create user")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": u.ID,
		"email":   u.Email,
	}).Info("User registered")
	s.refreshUserGauge(ctx)

	return s.session(u)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*user.Session, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			metrics.RecordLogin("rejected")
			return nil, errors.Unauthorized(msgInvalidCredentials)
		}
		return nil, err
	}

	if !u.HasPassword() || !auth.CheckPassword(u.PasswordHash, password) {
		metrics.RecordLogin("rejected")
		return nil, errors.Unauthorized(msgInvalidCredentials)
	}

	count, err := s.repo.IncrementLoginCount(ctx, u.ID)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to record login")
		return nil, err
	}
	u.LoginCount = count
	metrics.RecordLogin("success")

	return s.session(u)
}

func (s *UserService) LoginExternal(ctx context.Context, profile auth.ExternalProfile) (*user.Session, error) {
	email := normalizeEmail(profile.Email)
	if email == "" {
		return nil, errors.BadRequest("Provider did not return an email address")
	}

	u, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		count, err := s.repo.IncrementLoginCount(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		u.LoginCount = count

	case errors.Is(err, errors.ErrCodeNotFound):
		name := strings.TrimSpace(profile.Name)
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}
		u = &user.User{
			Name:       name,
			Email:      email,
			Role:       user.RoleUser,
			LoginCount: 1,
			Provider:   profile.Provider,
		}
		if err := s.repo.Create(ctx, u); err != nil {
			s.logger.ErrorWithErr(err, "Failed to create external user")
			return nil, err
		}
		s.logger.WithFields(map[string]interface{}{
			"user_id":  u.ID,
			"provider": profile.Provider,
		}).Info("External user registered")
		s.refreshUserGauge(ctx)

	default:
		return nil, err
	}

	metrics.RecordLogin("external")
	return s.session(u)
}

func (s *UserService) Me(ctx context.Context, caller auth.Identity) (*user.User, error) {
	return s.repo.GetByID(ctx, caller.UserID)
}

func (s *UserService) Get(ctx context.Context, caller auth.Identity, id string) (*user.User, error) {
	if caller.UserID != id && !caller.IsAdmin() {
		return nil, errors.Forbidden("Forbidden")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, caller auth.Identity, id, name string) (*user.User, error) {
	if caller.UserID != id && !caller.IsAdmin() {
		return nil, errors.Forbidden("Forbidden")
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		u.Name = name
	}

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update user")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":    u.ID,
		"updated_by": caller.UserID,
	}).Info("User updated")
	return u, nil
}

func (s *UserService) CurrentRole(ctx context.Context, id string) (string, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *UserService) session(u *user.User) (*user.Session, error) {
	token, err := s.tokens.Issue(auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		return nil, errors.Internal("Failed to issue token", err)
	}
	return &user.Session{User: u, Token: token}, nil
}

func (s *UserService) refreshUserGauge(ctx context.Context) {
	if n, err := s.repo.Count(ctx); err == nil {
		metrics.SetRegisteredUsers(float64(n))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
