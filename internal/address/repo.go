package address

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lsoria/qrsec-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository handles address persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to address operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new address row.
func (r *Repository) Create(ctx context.Context, addr *models.Address) error {
	if addr == nil {
		return fmt.Errorf("address is required")
	}
	return r.db.WithContext(ctx).Create(addr).Error
}

// FindByID loads an address by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	var addr models.Address
	if err := r.db.WithContext(ctx).First(&addr, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &addr, nil
}

// List returns every address ordered by street and number.
func (r *Repository) List(ctx context.Context) ([]models.Address, error) {
	var list []models.Address
	if err := r.db.WithContext(ctx).Order("street ASC, number ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
