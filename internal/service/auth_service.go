package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/handypro/internal/auth"
	"github.com/spec-kit/handypro/internal/domain"
	"github.com/spec-kit/handypro/internal/repository"
	apperrors "github.com/spec-kit/handypro/pkg/util/errorutil"
)

// LoginKind tags the variant held by a LoginResult.
type LoginKind int

const (
	LoginNotFound LoginKind = iota
	LoginSystemUser
	LoginTechnician
)

// LoginResult is the outcome of credential resolution. User is set for
// LoginSystemUser, Technician for LoginTechnician, neither for LoginNotFound.
type LoginResult struct {
	Kind       LoginKind
	User       *domain.User
	Technician *domain.Technician
}

// Identity returns the id, role and display name of the resolved subject.
// Technicians have no role.
func (r LoginResult) Identity() (id string, role domain.UserRole, name string) {
	switch r.Kind {
	case LoginSystemUser:
		return r.User.ID, r.User.Role, r.User.Username
	case LoginTechnician:
		return r.Technician.ID, "", r.Technician.FullName
	}
	return "", "", ""
}

// Session is an issued access token.
type Session struct {
	Result    LoginResult
	Token     string
	ExpiresAt time.Time
}

// AuthService resolves credentials and issues tokens.
type AuthService struct {
	users       repository.UserRepository
	technicians repository.TechnicianRepository
	tokenMgr    *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(store *repository.Store, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		users:       store.Users,
		technicians: store.Technicians,
		tokenMgr:    tokens,
	}
}

// FindSystemUser returns the back-office user matching the credentials, or nil.
func (s *AuthService) FindSystemUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// FindTechnician returns the first technician whose login_email or contact_1
// equals login and whose password matches, or nil.
func (s *AuthService) FindTechnician(ctx context.Context, login, password string) (*domain.Technician, error) {
	candidates, err := s.technicians.FindByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		err := auth.ComparePassword(candidates[i].PasswordHash, password)
		if err == nil {
			return &candidates[i], nil
		}
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, err
		}
	}
	return nil, nil
}

// Authenticate tries back-office users first, then technicians.
func (s *AuthService) Authenticate(ctx context.Context, login, password string) (LoginResult, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return LoginResult{Kind: LoginNotFound}, nil
	}

	user, err := s.FindSystemUser(ctx, login, password)
	if err != nil {
		return LoginResult{}, apperrors.MapError(err)
	}
	if user != nil {
		return LoginResult{Kind: LoginSystemUser, User: user}, nil
	}

	tech, err := s.FindTechnician(ctx, login, password)
	if err != nil {
		return LoginResult{}, apperrors.MapError(err)
	}
	if tech != nil {
		return LoginResult{Kind: LoginTechnician, Technician: tech}, nil
	}
	return LoginResult{Kind: LoginNotFound}, nil
}

// Login authenticates and issues an access token.
func (s *AuthService) Login(ctx context.Context, login, password string) (*Session, error) {
	result, err := s.Authenticate(ctx, login, password)
	if err != nil {
		return nil, err
	}

	var subject domain.SubjectType
	switch result.Kind {
	case LoginSystemUser:
		subject = domain.SubjectTypeUser
	case LoginTechnician:
		subject = domain.SubjectTypeTechnician
	default:
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	id, role, name := result.Identity()
	token, exp, err := s.tokenMgr.GenerateToken(id, subject, role, name)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{Result: result, Token: token, ExpiresAt: exp}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
