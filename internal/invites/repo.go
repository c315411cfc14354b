package invites

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lsoria/qrsec-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles invite persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to invite operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads an invite with its owner and guest list.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Invite, error) {
	var inv models.Invite
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Guests").
		First(&inv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListAll returns every invite, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Invite, error) {
	var list []models.Invite
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Guests").
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListByOwner returns the invites issued by a single owner, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Invite, error) {
	var list []models.Invite
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Guests").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Create persists a new invite along with its guest associations.
func (r *Repository) Create(ctx context.Context, inv *models.Invite) error {
	if inv == nil {
		return fmt.Errorf("invite is required")
	}
	return r.db.WithContext(ctx).Create(inv).Error
}

// Save persists the invite's scalar columns without touching associations.
func (r *Repository) Save(ctx context.Context, inv *models.Invite) error {
	if inv == nil {
		return fmt.Errorf("invite is required")
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(inv).Error
}

// ReplaceGuests swaps the invite's guest set for the provided one.
func (r *Repository) ReplaceGuests(ctx context.Context, inv *models.Invite, guests []models.Guest) error {
	if inv == nil {
		return fmt.Errorf("invite is required")
	}
	return r.db.WithContext(ctx).Model(inv).Association("Guests").Replace(guests)
}

// Delete removes the invite row; join rows cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Invite{}, "id = ?", id).Error
}

// UpdateLocked loads the invite under a row lock, applies fn and saves the
// result in the same transaction. Concurrent gate actions serialize here.
func (r *Repository) UpdateLocked(ctx context.Context, id uuid.UUID, fn func(inv *models.Invite) error) (*models.Invite, error) {
	if fn == nil {
		return nil, fmt.Errorf("mutation func is required")
	}
	var inv models.Invite
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&inv, "id = ?", id).Error; err != nil {
			return err
		}
		if err := fn(&inv); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(&inv).Error
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
