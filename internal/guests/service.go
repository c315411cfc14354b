package guests

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lsoria/qrsec-backend/internal/identity"
	"github.com/lsoria/qrsec-backend/pkg/db/models"
	"github.com/lsoria/qrsec-backend/pkg/enums"
	pkgerrors "github.com/lsoria/qrsec-backend/pkg/errors"
	"gorm.io/gorm"
)

type guestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Guest, error)
	FindByDNI(ctx context.Context, dni string) (*models.Guest, error)
	ListAll(ctx context.Context) ([]models.Guest, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Guest, error)
	Create(ctx context.Context, guest *models.Guest) error
	Save(ctx context.Context, guest *models.Guest) error
	AppendOwner(ctx context.Context, guest *models.Guest, owner *models.User) error
	RemoveOwner(ctx context.Context, guest *models.Guest, owner *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// RegisterInput carries the guest registration payload.
type RegisterInput struct {
	FirstName string
	LastName  string
	DNI       string
	Phone     *string
}

// Service exposes guest registry operations.
type Service interface {
	Register(ctx context.Context, caller identity.Caller, input RegisterInput) (*GuestDTO, error)
	Get(ctx context.Context, caller identity.Caller, id uuid.UUID) (*GuestDTO, error)
	ListAll(ctx context.Context, caller identity.Caller) ([]GuestDTO, error)
	ListMine(ctx context.Context, caller identity.Caller) ([]GuestDTO, error)
	Remove(ctx context.Context, caller identity.Caller, id uuid.UUID) error
}

type service struct {
	repo  guestRepository
	users userDirectory
}

// NewService builds a guest service with the provided dependencies.
func NewService(repo guestRepository, users userDirectory) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("guest repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user directory required")
	}
	return &service{repo: repo, users: users}, nil
}

// Register records a guest under the calling owner. Guests are unique per
// national ID: registering an existing one attaches the caller as an
// additional vouching owner instead of creating a duplicate.
func (s *service) Register(ctx context.Context, caller identity.Caller, input RegisterInput) (*GuestDTO, error) {
	if !caller.HasRole(enums.RoleOwner) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "operation not permitted")
	}
	dni := strings.TrimSpace(input.DNI)
	if dni == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dni is required")
	}

	owner, err := s.resolveCaller(ctx, caller)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByDNI(ctx, dni)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking dni")
	}

	if existing != nil {
		if ownsGuest(existing, owner.ID) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "guest already registered by caller")
		}
		if err := s.repo.AppendOwner(ctx, existing, owner); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attaching owner")
		}
		existing.Owners = append(existing.Owners, *owner)
		return FromModel(existing), nil
	}

	guest := &models.Guest{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		DNI:       dni,
		Phone:     input.Phone,
		Owners:    []models.User{*owner},
	}
	if err := s.repo.Create(ctx, guest); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating guest")
	}
	return FromModel(guest), nil
}

func (s *service) Get(ctx context.Context, caller identity.Caller, id uuid.UUID) (*GuestDTO, error) {
	guest, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.HasRole(enums.RoleAdmin) {
		owner, err := s.resolveCaller(ctx, caller)
		if err != nil {
			return nil, err
		}
		if !ownsGuest(guest, owner.ID) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "operation not permitted")
		}
	}
	return FromModel(guest), nil
}

func (s *service) ListAll(ctx context.Context, caller identity.Caller) ([]GuestDTO, error) {
	if !caller.HasRole(enums.RoleAdmin) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "operation not permitted")
	}
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing guests")
	}
	return FromModels(list), nil
}

func (s *service) ListMine(ctx context.Context, caller identity.Caller) ([]GuestDTO, error) {
	if !caller.HasRole(enums.RoleOwner) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "operation not permitted")
	}
	owner, err := s.resolveCaller(ctx, caller)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing guests")
	}
	return FromModels(list), nil
}

// Remove detaches the calling owner from the guest; the record itself is only
// deleted when the last vouching owner lets go. Admins delete outright.
func (s *service) Remove(ctx context.Context, caller identity.Caller, id uuid.UUID) error {
	guest, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if caller.HasRole(enums.RoleAdmin) {
		if err := s.repo.Delete(ctx, guest.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting guest")
		}
		return nil
	}
	if !caller.HasRole(enums.RoleOwner) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "operation not permitted")
	}

	owner, err := s.resolveCaller(ctx, caller)
	if err != nil {
		return err
	}
	// Membership is checked before any mutation happens.
	if !ownsGuest(guest, owner.ID) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "operation not permitted")
	}

	if len(guest.Owners) == 1 {
		if err := s.repo.Delete(ctx, guest.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting guest")
		}
		return nil
	}
	if err := s.repo.RemoveOwner(ctx, guest, owner); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "detaching owner")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Guest, error) {
	guest, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "guest not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading guest")
	}
	return guest, nil
}

func (s *service) resolveCaller(ctx context.Context, caller identity.Caller) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, caller.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "caller is not registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolving caller")
	}
	return user, nil
}

func ownsGuest(guest *models.Guest, ownerID uuid.UUID) bool {
	for _, o := range guest.Owners {
		if o.ID == ownerID {
			return true
		}
	}
	return false
}
