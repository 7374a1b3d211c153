package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sigap-ti/sigap/internal/auth"
	"github.com/sigap-ti/sigap/internal/domain"
	"github.com/sigap-ti/sigap/internal/repository"
	apperrors "github.com/sigap-ti/sigap/pkg/util"
)

// AuthService handles registration, login and role switching.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewAuthService constructs the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, bcryptCost int) *AuthService {
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// Session is the result of a successful login or role switch.
type Session struct {
	Token      string
	ExpiresAt  time.Time
	User       *domain.User
	ActiveRole domain.Role
}

// RegisterInput holds self-registration fields. Self-registered accounts
// always start as employees; other roles are granted by a super admin.
type RegisterInput struct {
	NIP       string
	Name      string
	Email     string
	Password  string
	UnitKerja string
}

// Register creates an employee account and logs it in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	if strings.TrimSpace(input.NIP) == "" || strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("nip and name are required", nil)
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if existing, err := s.users.GetByNIP(ctx, strings.TrimSpace(input.NIP)); err == nil && existing != nil {
		return nil, apperrors.NewConflict("nip already registered", nil)
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		NIP:          strings.TrimSpace(input.NIP),
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RolePegawai},
		UnitKerja:    strings.TrimSpace(input.UnitKerja),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issueSession(user, domain.RolePegawai)
}

// Login authenticates by NIP and password. The session opens under the
// requested role, or the account's first role when none is requested.
func (s *AuthService) Login(ctx context.Context, nip, password, requestedRole string) (*Session, error) {
	user, err := s.users.GetByNIP(ctx, strings.TrimSpace(nip))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.NewUnauthorized("account disabled")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	active := user.Roles[0]
	if requestedRole != "" {
		role, err := domain.ParseRole(requestedRole)
		if err != nil {
			return nil, apperrors.NewValidationError("unknown role: "+requestedRole, nil)
		}
		if !user.HasRole(role) {
			return nil, apperrors.NewForbidden("role not granted to this account")
		}
		active = role
	}
	return s.issueSession(user, active)
}

// SwitchRole issues a fresh token under another of the user's roles.
func (s *AuthService) SwitchRole(ctx context.Context, userID string, roleName string) (*Session, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("account not found")
		}
		return nil, err
	}
	role, err := domain.ParseRole(roleName)
	if err != nil {
		return nil, apperrors.NewValidationError("unknown role: "+roleName, nil)
	}
	if !user.HasRole(role) {
		return nil, apperrors.NewForbidden("role not granted to this account")
	}
	return s.issueSession(user, role)
}

// ChangePassword verifies the current password before setting a new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, current); err != nil {
		return apperrors.NewUnauthorized("current password does not match")
	}
	if len(next) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	hash, err := auth.HashPassword(next, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

func (s *AuthService) issueSession(user *domain.User, active domain.Role) (*Session, error) {
	token, expires, err := s.tokens.GenerateToken(user.ID, user.Roles, active)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expires, User: user, ActiveRole: active}, nil
}
