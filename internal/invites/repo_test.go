package invites

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lsoria/qrsec-backend/pkg/db/models"
	dbtypes "github.com/lsoria/qrsec-backend/pkg/db/types"
)

func setupInviteTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  dni TEXT,
  phone TEXT,
  roles TEXT NOT NULL DEFAULT '{}',
  enabled INTEGER NOT NULL DEFAULT 0,
  address_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	guests := `
CREATE TABLE guests (
  id TEXT PRIMARY KEY,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  dni TEXT NOT NULL UNIQUE,
  phone TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	invitesTable := `
CREATE TABLE invites (
  id TEXT PRIMARY KEY,
  description TEXT,
  owner_id TEXT NOT NULL,
  days TEXT NOT NULL DEFAULT '{}',
  hours TEXT NOT NULL DEFAULT '[]',
  max_time_allowed INTEGER,
  number_of_passengers INTEGER,
  drops_true_guest INTEGER NOT NULL DEFAULT 0,
  arrival_time DATETIME,
  departure_time DATETIME,
  enabled INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  last_modified_at DATETIME
);`
	inviteGuests := `
CREATE TABLE invite_guests (
  invite_id TEXT NOT NULL,
  guest_id TEXT NOT NULL,
  PRIMARY KEY (invite_id, guest_id)
);`

	for _, stmt := range []string{users, guests, invitesTable, inviteGuests} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedOwner(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	owner := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "Owner",
		Roles:        pq.StringArray{"OWNER"},
		Enabled:      true,
	}
	require.NoError(t, db.Create(owner).Error)
	return owner
}

func seedGuest(t *testing.T, db *gorm.DB, dni string) models.Guest {
	t.Helper()
	guest := models.Guest{
		ID:        uuid.New(),
		FirstName: "Guest",
		LastName:  "Person",
		DNI:       dni,
	}
	require.NoError(t, db.Create(&guest).Error)
	return guest
}

func TestRepositoryCreateAndFindByID(t *testing.T) {
	db := setupInviteTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := seedOwner(t, db, "owner@x.com")
	guest := seedGuest(t, db, "30111222")

	now := time.Now().UTC().Truncate(time.Second)
	inv := &models.Invite{
		ID:             uuid.New(),
		OwnerID:        owner.ID,
		Guests:         []models.Guest{guest},
		Days:           pq.StringArray{"1", "2"},
		Hours:          dbtypes.HourRanges{{"08:00", "18:00"}},
		Enabled:        true,
		CreatedAt:      now,
		LastModifiedAt: now,
	}
	require.NoError(t, repo.Create(ctx, inv))

	got, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.Email, got.Owner.Email)
	require.Len(t, got.Guests, 1)
	assert.Equal(t, guest.DNI, got.Guests[0].DNI)
	assert.Equal(t, pq.StringArray{"1", "2"}, got.Days)
	require.Len(t, got.Hours, 1)
	assert.Equal(t, "08:00", got.Hours[0].Start())
}

func TestRepositoryFindByIDMissing(t *testing.T) {
	db := setupInviteTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListByOwner(t *testing.T) {
	db := setupInviteTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := seedOwner(t, db, "owner@x.com")
	other := seedOwner(t, db, "other@x.com")

	base := time.Now().UTC().Truncate(time.Second)
	for i, o := range []*models.User{owner, owner, other} {
		inv := &models.Invite{
			ID:             uuid.New(),
			OwnerID:        o.ID,
			Enabled:        true,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
			LastModifiedAt: base,
		}
		require.NoError(t, repo.Create(ctx, inv))
	}

	mine, err := repo.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first.
	assert.True(t, !all[0].CreatedAt.Before(all[1].CreatedAt))
}

func TestRepositoryReplaceGuests(t *testing.T) {
	db := setupInviteTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := seedOwner(t, db, "owner@x.com")
	first := seedGuest(t, db, "30111222")
	second := seedGuest(t, db, "30333444")

	inv := &models.Invite{
		ID:             uuid.New(),
		OwnerID:        owner.ID,
		Guests:         []models.Guest{first},
		Enabled:        true,
		CreatedAt:      time.Now().UTC(),
		LastModifiedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, inv))

	require.NoError(t, repo.ReplaceGuests(ctx, inv, []models.Guest{second}))

	got, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, got.Guests, 1)
	assert.Equal(t, second.DNI, got.Guests[0].DNI)
}

func TestRepositorySaveKeepsAssociations(t *testing.T) {
	db := setupInviteTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := seedOwner(t, db, "owner@x.com")
	guest := seedGuest(t, db, "30111222")

	inv := &models.Invite{
		ID:             uuid.New(),
		OwnerID:        owner.ID,
		Guests:         []models.Guest{guest},
		Enabled:        true,
		CreatedAt:      time.Now().UTC(),
		LastModifiedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, inv))

	inv.Enabled = false
	inv.Guests = nil
	require.NoError(t, repo.Save(ctx, inv))

	got, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.False(t, got.Enabled)
	assert.Len(t, got.Guests, 1, "save must not detach guests")
}

func TestRepositoryDelete(t *testing.T) {
	db := setupInviteTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := seedOwner(t, db, "owner@x.com")
	inv := &models.Invite{
		ID:             uuid.New(),
		OwnerID:        owner.ID,
		Enabled:        true,
		CreatedAt:      time.Now().UTC(),
		LastModifiedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, inv))

	require.NoError(t, repo.Delete(ctx, inv.ID))

	_, err := repo.FindByID(ctx, inv.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
