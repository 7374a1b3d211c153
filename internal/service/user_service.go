package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sigap-ti/sigap/internal/auth"
	"github.com/sigap-ti/sigap/internal/domain"
	"github.com/sigap-ti/sigap/internal/repository"
	apperrors "github.com/sigap-ti/sigap/pkg/util"
)

// UserService covers account administration. All operations here are gated
// to super_admin at the route layer; the service still validates inputs.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// CreateUserInput holds the fields an admin supplies for a new account.
type CreateUserInput struct {
	NIP       string
	Name      string
	Email     string
	Password  string
	Roles     []string
	UnitKerja string
}

// UpdateUserInput holds partial updates. Nil means leave unchanged.
type UpdateUserInput struct {
	Name      *string
	Email     *string
	Password  *string
	Roles     []string
	UnitKerja *string
	IsActive  *bool
}

// Create registers a new account with one or more roles.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if strings.TrimSpace(input.NIP) == "" || strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("nip and name are required", nil)
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	roles, err := parseRoles(input.Roles)
	if err != nil {
		return nil, err
	}

	if existing, err := s.users.GetByNIP(ctx, strings.TrimSpace(input.NIP)); err == nil && existing != nil {
		return nil, apperrors.NewConflict("nip already registered", nil)
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if existing, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email))); err == nil && existing != nil {
		return nil, apperrors.NewConflict("email already registered", nil)
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
		Roles:        roles,
		UnitKerja:    strings.TrimSpace(input.UnitKerja),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies a partial update to an existing account.
func (s *UserService) Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error) {
	user, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.NewValidationError("name cannot be empty", nil)
		}
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
		}
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if input.Roles != nil {
		roles, err := parseRoles(input.Roles)
		if err != nil {
			return nil, err
		}
		user.Roles = roles
	}
	if input.UnitKerja != nil {
		user.UnitKerja = strings.TrimSpace(*input.UnitKerja)
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get returns one account.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.fetch(ctx, id)
}

// List returns accounts matching the filter.
func (s *UserService) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	return s.users.ListWithFilter(ctx, filter)
}

// Deactivate disables an account without deleting it.
func (s *UserService) Deactivate(ctx context.Context, id string) error {
	user, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	user.IsActive = false
	return s.users.Update(ctx, user)
}

func (s *UserService) fetch(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

func parseRoles(raw []string) ([]domain.Role, error) {
	if len(raw) == 0 {
		return nil, apperrors.NewValidationError("at least one role is required", nil)
	}
	roles := make([]domain.Role, 0, len(raw))
	for _, r := range raw {
		role, err := domain.ParseRole(r)
		if err != nil {
			return nil, apperrors.NewValidationError("unknown role: "+r, nil)
		}
		roles = append(roles, role)
	}
	return roles, nil
}
