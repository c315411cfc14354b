package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/lsoria/qrsec-backend/internal/identity"
	"github.com/lsoria/qrsec-backend/pkg/auth"
	"github.com/lsoria/qrsec-backend/pkg/config"
	"github.com/lsoria/qrsec-backend/pkg/db"
	"github.com/lsoria/qrsec-backend/pkg/db/models"
	"github.com/lsoria/qrsec-backend/pkg/enums"
	pkgerrors "github.com/lsoria/qrsec-backend/pkg/errors"
	"github.com/lsoria/qrsec-backend/pkg/security"
	"gorm.io/gorm"
)

type userRepository interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Save(ctx context.Context, user *models.User) error
}

// RegisterInput carries the self-service registration payload.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	DNI       *string
	Phone     *string
	AddressID *uuid.UUID
}

// AuthorizationInput is the admin-controlled part of a user record.
type AuthorizationInput struct {
	Roles   []enums.Role
	Enabled bool
}

// ProfileInput carries the self-editable user fields.
type ProfileInput struct {
	FirstName string
	LastName  string
	DNI       *string
	Phone     *string
	AddressID *uuid.UUID
}

// LoginResult bundles the minted token with the authenticated user.
type LoginResult struct {
	Token string   `json:"token"`
	User  *UserDTO `json:"user"`
}

// Service exposes user operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*UserDTO, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Get(ctx context.Context, caller identity.Caller, id uuid.UUID) (*UserDTO, error)
	List(ctx context.Context, caller identity.Caller) ([]UserDTO, error)
	UpdateAuthorization(ctx context.Context, caller identity.Caller, id uuid.UUID, input AuthorizationInput) (*UserDTO, error)
	Disable(ctx context.Context, caller identity.Caller, id uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, caller identity.Caller, id uuid.UUID, input ProfileInput) (*UserDTO, error)
}

type service struct {
	repo        userRepository
	passwordCfg config.PasswordConfig
	jwtCfg      config.JWTConfig
	now         func() time.Time
}

// NewService builds a user service with the provided repository and configs.
func NewService(repo userRepository, passwordCfg config.PasswordConfig, jwtCfg config.JWTConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{
		repo:        repo,
		passwordCfg: passwordCfg,
		jwtCfg:      jwtCfg,
		now:         time.Now,
	}, nil
}

// Register creates a user account. The very first account becomes an enabled
// admin so the community can bootstrap itself; everyone after that starts
// disabled with no roles until an admin authorizes them.
func (s *service) Register(ctx context.Context, input RegisterInput) (*UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking email")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting users")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		DNI:          input.DNI,
		Phone:        input.Phone,
		AddressID:    input.AddressID,
		Roles:        pq.StringArray{},
	}
	if count == 0 {
		user.Roles = pq.StringArray{string(enums.RoleAdmin)}
		user.Enabled = true
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email or dni already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating user")
	}
	return FromModel(user), nil
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading user")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	if !user.Enabled {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is not enabled")
	}

	roles, err := enums.ParseRoles(user.Roles)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parsing stored roles")
	}
	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		Email: user.Email,
		Roles: roles,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}
	return &LoginResult{Token: token, User: FromModel(user)}, nil
}

func (s *service) Get(ctx context.Context, caller identity.Caller, id uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.HasRole(enums.RoleAdmin) && caller.Email != user.Email {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "operation not permitted")
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context, caller identity.Caller) ([]UserDTO, error) {
	if !caller.HasRole(enums.RoleAdmin) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "operation not permitted")
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing users")
	}
	return FromModels(list), nil
}

// UpdateAuthorization replaces a user's roles and enabled flag. Admin only.
func (s *service) UpdateAuthorization(ctx context.Context, caller identity.Caller, id uuid.UUID, input AuthorizationInput) (*UserDTO, error) {
	if !caller.HasRole(enums.RoleAdmin) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "operation not permitted")
	}
	for _, role := range input.Roles {
		if !role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", role))
		}
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Roles = pq.StringArray(enums.RoleStrings(input.Roles))
	user.Enabled = input.Enabled
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving user")
	}
	return FromModel(user), nil
}

// Disable revokes access without deleting the record; accounts are never
// hard-deleted so invite ownership history stays intact.
func (s *service) Disable(ctx context.Context, caller identity.Caller, id uuid.UUID) (*UserDTO, error) {
	if !caller.HasRole(enums.RoleAdmin) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "operation not permitted")
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Email == caller.Email {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "admins cannot disable themselves")
	}

	user.Enabled = false
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving user")
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, caller identity.Caller, id uuid.UUID, input ProfileInput) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.HasRole(enums.RoleAdmin) && caller.Email != user.Email {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "operation not permitted")
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.DNI = input.DNI
	user.Phone = input.Phone
	user.AddressID = input.AddressID
	if err := s.repo.Save(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "dni already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving user")
	}
	return FromModel(user), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading user")
	}
	return user, nil
}
