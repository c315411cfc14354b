package guests

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lsoria/qrsec-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository handles guest persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to guest operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a guest with its owner list.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Guest, error) {
	var guest models.Guest
	if err := r.db.WithContext(ctx).
		Preload("Owners").
		First(&guest, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

// FindByIDs loads the guests matching the provided ids.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Guest, error) {
	var list []models.Guest
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// FindByDNI retrieves the guest registered under the national ID.
func (r *Repository) FindByDNI(ctx context.Context, dni string) (*models.Guest, error) {
	var guest models.Guest
	if err := r.db.WithContext(ctx).
		Preload("Owners").
		Where("dni = ?", dni).
		First(&guest).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

// ListAll returns every guest with owners, oldest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Guest, error) {
	var list []models.Guest
	if err := r.db.WithContext(ctx).
		Preload("Owners").
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListByOwner returns the guests vouched for by the given owner.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Guest, error) {
	var list []models.Guest
	if err := r.db.WithContext(ctx).
		Preload("Owners").
		Joins("JOIN guest_owners ON guest_owners.guest_id = guests.id").
		Where("guest_owners.user_id = ?", ownerID).
		Order("guests.created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Create persists a new guest along with its owner associations.
func (r *Repository) Create(ctx context.Context, guest *models.Guest) error {
	if guest == nil {
		return fmt.Errorf("guest is required")
	}
	return r.db.WithContext(ctx).Create(guest).Error
}

// Save persists the guest's scalar columns.
func (r *Repository) Save(ctx context.Context, guest *models.Guest) error {
	if guest == nil {
		return fmt.Errorf("guest is required")
	}
	return r.db.WithContext(ctx).Omit("Owners").Save(guest).Error
}

// AppendOwner attaches another vouching owner to the guest.
func (r *Repository) AppendOwner(ctx context.Context, guest *models.Guest, owner *models.User) error {
	if guest == nil || owner == nil {
		return fmt.Errorf("guest and owner are required")
	}
	return r.db.WithContext(ctx).Model(guest).Association("Owners").Append(owner)
}

// RemoveOwner detaches a vouching owner from the guest.
func (r *Repository) RemoveOwner(ctx context.Context, guest *models.Guest, owner *models.User) error {
	if guest == nil || owner == nil {
		return fmt.Errorf("guest and owner are required")
	}
	return r.db.WithContext(ctx).Model(guest).Association("Owners").Delete(owner)
}

// Delete removes the guest row; join rows cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Guest{}, "id = ?", id).Error
}
