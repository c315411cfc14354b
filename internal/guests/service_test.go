package guests

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lsoria/qrsec-backend/internal/identity"
	"github.com/lsoria/qrsec-backend/pkg/db/models"
	"github.com/lsoria/qrsec-backend/pkg/enums"
	pkgerrors "github.com/lsoria/qrsec-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubGuestRepo struct {
	byID    map[uuid.UUID]*models.Guest
	byDNI   map[string]*models.Guest
	err     error
	created *models.Guest
	deleted []uuid.UUID
	removed []uuid.UUID
}

func newStubGuestRepo() *stubGuestRepo {
	return &stubGuestRepo{
		byID:  map[uuid.UUID]*models.Guest{},
		byDNI: map[string]*models.Guest{},
	}
}

func (s *stubGuestRepo) add(guest *models.Guest) {
	s.byID[guest.ID] = guest
	s.byDNI[guest.DNI] = guest
}

func (s *stubGuestRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Guest, error) {
	if s.err != nil {
		return nil, s.err
	}
	if g, ok := s.byID[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubGuestRepo) FindByDNI(ctx context.Context, dni string) (*models.Guest, error) {
	if s.err != nil {
		return nil, s.err
	}
	if g, ok := s.byDNI[dni]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubGuestRepo) ListAll(ctx context.Context) ([]models.Guest, error) {
	out := make([]models.Guest, 0, len(s.byID))
	for _, g := range s.byID {
		out = append(out, *g)
	}
	return out, s.err
}

func (s *stubGuestRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Guest, error) {
	var out []models.Guest
	for _, g := range s.byID {
		if ownsGuest(g, ownerID) {
			out = append(out, *g)
		}
	}
	return out, s.err
}

func (s *stubGuestRepo) Create(ctx context.Context, guest *models.Guest) error {
	guest.ID = uuid.New()
	s.created = guest
	s.add(guest)
	return s.err
}

func (s *stubGuestRepo) Save(ctx context.Context, guest *models.Guest) error {
	return s.err
}

func (s *stubGuestRepo) AppendOwner(ctx context.Context, guest *models.Guest, owner *models.User) error {
	return s.err
}

func (s *stubGuestRepo) RemoveOwner(ctx context.Context, guest *models.Guest, owner *models.User) error {
	s.removed = append(s.removed, owner.ID)
	return s.err
}

func (s *stubGuestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return s.err
}

type stubUsers struct {
	users map[string]*models.User
}

func (s stubUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func ownerA() *models.User {
	return &models.User{ID: uuid.New(), Email: "a@x.com", Roles: []string{"OWNER"}, Enabled: true}
}

func ownerB() *models.User {
	return &models.User{ID: uuid.New(), Email: "b@x.com", Roles: []string{"OWNER"}, Enabled: true}
}

func ownerCaller(u *models.User) identity.Caller {
	return identity.New(u.Email, []enums.Role{enums.RoleOwner})
}

func newGuestService(t *testing.T, repo *stubGuestRepo, users ...*models.User) Service {
	t.Helper()
	dir := stubUsers{users: map[string]*models.User{}}
	for _, u := range users {
		dir.users[u.Email] = u
	}
	svc, err := NewService(repo, dir)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRegisterNewGuest(t *testing.T) {
	owner := ownerA()
	repo := newStubGuestRepo()
	svc := newGuestService(t, repo, owner)

	dto, err := svc.Register(context.Background(), ownerCaller(owner), RegisterInput{
		FirstName: "Grace",
		LastName:  "Hopper",
		DNI:       " 12345678 ",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dto.DNI != "12345678" {
		t.Fatalf("expected trimmed dni, got %q", dto.DNI)
	}
	if len(dto.Owners) != 1 || dto.Owners[0].ID != owner.ID {
		t.Fatalf("expected the caller as sole owner, got %v", dto.Owners)
	}
}

func TestRegisterExistingDNIAttachesOwner(t *testing.T) {
	first := ownerA()
	second := ownerB()
	repo := newStubGuestRepo()
	repo.add(&models.Guest{ID: uuid.New(), DNI: "12345678", Owners: []models.User{*first}})
	svc := newGuestService(t, repo, first, second)

	dto, err := svc.Register(context.Background(), ownerCaller(second), RegisterInput{DNI: "12345678"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(dto.Owners) != 2 {
		t.Fatalf("expected both owners attached, got %v", dto.Owners)
	}
	if repo.created != nil {
		t.Fatal("an existing dni must not create a second guest record")
	}
}

func TestRegisterDuplicateByCaller(t *testing.T) {
	owner := ownerA()
	repo := newStubGuestRepo()
	repo.add(&models.Guest{ID: uuid.New(), DNI: "12345678", Owners: []models.User{*owner}})
	svc := newGuestService(t, repo, owner)

	_, err := svc.Register(context.Background(), ownerCaller(owner), RegisterInput{DNI: "12345678"})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestRegisterRequiresOwnerRole(t *testing.T) {
	svc := newGuestService(t, newStubGuestRepo())

	_, err := svc.Register(context.Background(), identity.New("guard@x.com", []enums.Role{enums.RoleGuard}), RegisterInput{DNI: "1"})
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestRegisterRequiresDNI(t *testing.T) {
	owner := ownerA()
	svc := newGuestService(t, newStubGuestRepo(), owner)

	_, err := svc.Register(context.Background(), ownerCaller(owner), RegisterInput{DNI: "  "})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestRemoveDetachesOwnerWhenOthersRemain(t *testing.T) {
	first := ownerA()
	second := ownerB()
	guest := &models.Guest{ID: uuid.New(), DNI: "1", Owners: []models.User{*first, *second}}
	repo := newStubGuestRepo()
	repo.add(guest)
	svc := newGuestService(t, repo, first, second)

	if err := svc.Remove(context.Background(), ownerCaller(first), guest.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatal("the record must survive while another owner vouches")
	}
	if len(repo.removed) != 1 || repo.removed[0] != first.ID {
		t.Fatalf("expected the caller to be detached, got %v", repo.removed)
	}
}

func TestRemoveLastOwnerDeletesRecord(t *testing.T) {
	owner := ownerA()
	guest := &models.Guest{ID: uuid.New(), DNI: "1", Owners: []models.User{*owner}}
	repo := newStubGuestRepo()
	repo.add(guest)
	svc := newGuestService(t, repo, owner)

	if err := svc.Remove(context.Background(), ownerCaller(owner), guest.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(repo.deleted) != 1 {
		t.Fatal("removing the last owner must delete the record")
	}
}

func TestRemoveChecksMembershipFirst(t *testing.T) {
	owner := ownerA()
	outsider := ownerB()
	guest := &models.Guest{ID: uuid.New(), DNI: "1", Owners: []models.User{*owner}}
	repo := newStubGuestRepo()
	repo.add(guest)
	svc := newGuestService(t, repo, owner, outsider)

	err := svc.Remove(context.Background(), ownerCaller(outsider), guest.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)
	if len(repo.deleted) != 0 || len(repo.removed) != 0 {
		t.Fatal("a non-member removal must not mutate anything")
	}
}

func TestRemoveAsAdminDeletesOutright(t *testing.T) {
	owner := ownerA()
	second := ownerB()
	guest := &models.Guest{ID: uuid.New(), DNI: "1", Owners: []models.User{*owner, *second}}
	repo := newStubGuestRepo()
	repo.add(guest)
	svc := newGuestService(t, repo, owner)

	if err := svc.Remove(context.Background(), identity.New("admin@x.com", []enums.Role{enums.RoleAdmin}), guest.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(repo.deleted) != 1 {
		t.Fatal("admins delete the record outright")
	}
}

func TestGetRequiresMembershipOrAdmin(t *testing.T) {
	owner := ownerA()
	outsider := ownerB()
	guest := &models.Guest{ID: uuid.New(), DNI: "1", Owners: []models.User{*owner}}
	repo := newStubGuestRepo()
	repo.add(guest)
	svc := newGuestService(t, repo, owner, outsider)

	if _, err := svc.Get(context.Background(), ownerCaller(owner), guest.ID); err != nil {
		t.Fatalf("member get: %v", err)
	}
	_, err := svc.Get(context.Background(), ownerCaller(outsider), guest.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)
	if _, err := svc.Get(context.Background(), identity.New("admin@x.com", []enums.Role{enums.RoleAdmin}), guest.ID); err != nil {
		t.Fatalf("admin get: %v", err)
	}
}

func TestListMineFiltersByOwner(t *testing.T) {
	owner := ownerA()
	other := ownerB()
	repo := newStubGuestRepo()
	repo.add(&models.Guest{ID: uuid.New(), DNI: "1", Owners: []models.User{*owner}})
	repo.add(&models.Guest{ID: uuid.New(), DNI: "2", Owners: []models.User{*other}})
	svc := newGuestService(t, repo, owner, other)

	list, err := svc.ListMine(context.Background(), ownerCaller(owner))
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(list) != 1 || list[0].DNI != "1" {
		t.Fatalf("expected only the caller's guest, got %v", list)
	}
}

func TestListAllRequiresAdmin(t *testing.T) {
	owner := ownerA()
	svc := newGuestService(t, newStubGuestRepo(), owner)

	_, err := svc.ListAll(context.Background(), ownerCaller(owner))
	assertCode(t, err, pkgerrors.CodeForbidden)
}
