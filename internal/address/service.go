package address

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

type addressRepository interface {
	Create(ctx context.Context, addr *models.Address) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	List(ctx context.Context) ([]models.Address, error)
}

// CreateInput carries the address creation payload.
type CreateInput struct {
	Street        string
	Number        string
	Apartment     *string
	Neighbourhood string
}

// Service exposes address operations.
type Service interface {
	Create(ctx context.Context, caller identity.Caller, input CreateInput) (*AddressDTO, error)
	Get(ctx context.Context, caller identity.Caller, id uuid.UUID) (*AddressDTO, error)
	List(ctx context.Context, caller identity.Caller) ([]AddressDTO, error)
}

type service struct {
	repo addressRepository
}

// NewService builds an address service with the provided repository.
func NewService(repo addressRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, caller identity.Caller, input CreateInput) (*AddressDTO, error) {
	if !caller.HasRole(enums.RoleAdmin) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "operation not permitted")
	}
	if strings.TrimSpace(input.Street) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "street is required")
	}

	addr := &models.Address{
		Street:        input.Street,
		Number:        input.Number,
		Apartment:     input.Apartment,
		Neighbourhood: input.Neighbourhood,
	}
	if err := s.repo.Create(ctx, addr); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating address")
	}
	return FromModel(addr), nil
}

func (s *service) Get(ctx context.Context, caller identity.Caller, id uuid.UUID) (*AddressDTO, error) {
	if !caller.Authenticated() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "caller identity is required")
	}
	addr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading address")
	}
	return FromModel(addr), nil
}

func (s *service) List(ctx context.Context, caller identity.Caller) ([]AddressDTO, error) {
	if !caller.HasRole(enums.RoleAdmin) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "operation not permitted")
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing addresses")
	}
	return FromModels(list), nil
}
