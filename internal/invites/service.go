package invites

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/lsoria/qrsec-backend/internal/identity"
	"github.com/lsoria/qrsec-backend/pkg/db/models"
	dbtypes "github.com/lsoria/qrsec-backend/pkg/db/types"
	"github.com/lsoria/qrsec-backend/pkg/enums"
	pkgerrors "github.com/lsoria/qrsec-backend/pkg/errors"
	"gorm.io/gorm"
)

type inviteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Invite, error)
	ListAll(ctx context.Context) ([]models.Invite, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Invite, error)
	Create(ctx context.Context, inv *models.Invite) error
	Save(ctx context.Context, inv *models.Invite) error
	ReplaceGuests(ctx context.Context, inv *models.Invite, guests []models.Guest) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateLocked(ctx context.Context, id uuid.UUID, fn func(inv *models.Invite) error) (*models.Invite, error)
}

type userDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type guestDirectory interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Guest, error)
}

// InviteInput carries the caller-editable invite fields. Updates are full
// replacements, so create and update share the shape.
type InviteInput struct {
	Description        *string
	GuestIDs           []uuid.UUID
	Days               []string
	Hours              dbtypes.HourRanges
	MaxTimeAllowed     *int
	NumberOfPassengers *int
	DropsTrueGuest     bool
}

// DeleteResult distinguishes a purged invite from a soft-disabled one.
type DeleteResult struct {
	Purged bool
	Invite *InviteDTO
}

// Service exposes invite operations.
type Service interface {
	Create(ctx context.Context, caller identity.Caller, input InviteInput) (*InviteDTO, error)
	Get(ctx context.Context, caller identity.Caller, id uuid.UUID) (*InviteDTO, error)
	ListAll(ctx context.Context, caller identity.Caller) ([]InviteDTO, error)
	ListMine(ctx context.Context, caller identity.Caller) ([]InviteDTO, error)
	Update(ctx context.Context, caller identity.Caller, id uuid.UUID, input InviteInput) (*InviteDTO, error)
	Delete(ctx context.Context, caller identity.Caller, id uuid.UUID) (*DeleteResult, error)
	Apply(ctx context.Context, caller identity.Caller, id uuid.UUID, action enums.InviteAction, at time.Time) (*InviteDTO, error)
	Validate(ctx context.Context, caller identity.Caller, id uuid.UUID, at time.Time) (Verdict, error)
}

type service struct {
	repo   inviteRepository
	users  userDirectory
	guests guestDirectory
	gate   gateRecorder
	now    func() time.Time
}

// NewService builds an invite service with the provided dependencies. The gate
// recorder may be nil when metrics are disabled.
func NewService(repo inviteRepository, users userDirectory, guests guestDirectory, gate gateRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invite repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user directory required")
	}
	if guests == nil {
		return nil, fmt.Errorf("guest directory required")
	}
	return &service{
		repo:   repo,
		users:  users,
		guests: guests,
		gate:   gate,
		now:    time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, caller identity.Caller, input InviteInput) (*InviteDTO, error) {
	if err := Authorize(caller, OpCreate, "").Err(); err != nil {
		return nil, err
	}
	if err := validateSchedule(input.Days, input.Hours); err != nil {
		return nil, err
	}

	owner, err := s.resolveCaller(ctx, caller)
	if err != nil {
		return nil, err
	}
	guests, err := s.resolveGuests(ctx, input.GuestIDs)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	inv := &models.Invite{
		Description:        input.Description,
		OwnerID:            owner.ID,
		Owner:              *owner,
		Guests:             guests,
		Days:               pq.StringArray(input.Days),
		Hours:              input.Hours,
		MaxTimeAllowed:     input.MaxTimeAllowed,
		NumberOfPassengers: input.NumberOfPassengers,
		DropsTrueGuest:     input.DropsTrueGuest,
		Enabled:            true,
		CreatedAt:          now,
		LastModifiedAt:     now,
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating invite")
	}
	return FromModel(inv), nil
}

func (s *service) Get(ctx context.Context, caller identity.Caller, id uuid.UUID) (*InviteDTO, error) {
	inv, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, OpRead, inv.Owner.Email).Err(); err != nil {
		return nil, err
	}
	return FromModel(inv), nil
}

func (s *service) ListAll(ctx context.Context, caller identity.Caller) ([]InviteDTO, error) {
	if err := Authorize(caller, OpListAll, "").Err(); err != nil {
		return nil, err
	}
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing invites")
	}
	return FromModels(list), nil
}

func (s *service) ListMine(ctx context.Context, caller identity.Caller) ([]InviteDTO, error) {
	if err := Authorize(caller, OpListMine, "").Err(); err != nil {
		return nil, err
	}
	owner, err := s.resolveCaller(ctx, caller)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing invites")
	}
	return FromModels(list), nil
}

func (s *service) Update(ctx context.Context, caller identity.Caller, id uuid.UUID, input InviteInput) (*InviteDTO, error) {
	inv, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, OpUpdate, inv.Owner.Email).Err(); err != nil {
		return nil, err
	}
	if err := validateSchedule(input.Days, input.Hours); err != nil {
		return nil, err
	}
	guests, err := s.resolveGuests(ctx, input.GuestIDs)
	if err != nil {
		return nil, err
	}

	inv.Description = input.Description
	inv.Days = pq.StringArray(input.Days)
	inv.Hours = input.Hours
	inv.MaxTimeAllowed = input.MaxTimeAllowed
	inv.NumberOfPassengers = input.NumberOfPassengers
	inv.DropsTrueGuest = input.DropsTrueGuest
	inv.LastModifiedAt = s.now().UTC()

	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating invite")
	}
	if err := s.repo.ReplaceGuests(ctx, inv, guests); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating invite guests")
	}
	inv.Guests = guests
	return FromModel(inv), nil
}

// Delete purges invites that never saw gate traffic and soft-disables the
// rest, so arrival and departure history survives for auditing.
func (s *service) Delete(ctx context.Context, caller identity.Caller, id uuid.UUID) (*DeleteResult, error) {
	inv, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, OpDelete, inv.Owner.Email).Err(); err != nil {
		return nil, err
	}

	if !inv.Enabled || !hasHistory(inv) {
		if err := s.repo.Delete(ctx, inv.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting invite")
		}
		return &DeleteResult{Purged: true}, nil
	}

	inv.Enabled = false
	inv.LastModifiedAt = s.now().UTC()
	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "disabling invite")
	}
	return &DeleteResult{Invite: FromModel(inv)}, nil
}

// Apply records a gate action. The instant comes from the guard's request so
// the arrival or departure reflects when the vehicle was actually at the gate;
// the audit stamp stays on the server clock.
func (s *service) Apply(ctx context.Context, caller identity.Caller, id uuid.UUID, action enums.InviteAction, at time.Time) (*InviteDTO, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	if err := Authorize(caller, OpAction, "").Err(); err != nil {
		return nil, err
	}

	at = at.UTC()
	now := s.now().UTC()
	_, err := s.repo.UpdateLocked(ctx, id, func(inv *models.Invite) error {
		if err := applyAction(inv, action, at); err != nil {
			return err
		}
		inv.LastModifiedAt = now
		return nil
	})
	if err != nil {
		if e := pkgerrors.As(err); e != nil {
			return nil, e
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "applying invite action")
	}
	if s.gate != nil {
		s.gate.RecordAction(string(action))
	}

	inv, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(inv), nil
}

func (s *service) Validate(ctx context.Context, caller identity.Caller, id uuid.UUID, at time.Time) (Verdict, error) {
	inv, err := s.load(ctx, id)
	if err != nil {
		return Verdict{}, err
	}
	if err := Authorize(caller, OpValidate, "").Err(); err != nil {
		return Verdict{}, err
	}

	verdict := CheckAccess(inv, at)
	if s.gate != nil {
		s.gate.RecordValidation(verdict.MetricOutcome())
	}
	return verdict, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Invite, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invite not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading invite")
	}
	return inv, nil
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

func (s *service) resolveGuests(ctx context.Context, ids []uuid.UUID) ([]models.Guest, error) {
	if len(ids) == 0 {
		// An invite with no guests is open to anyone the guard waves through.
		return []models.Guest{}, nil
	}
	guests, err := s.guests.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolving guests")
	}
	if len(guests) != len(ids) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "one or more guests not found")
	}
	return guests, nil
}

// hasHistory reports whether the invite has been touched since issuance.
func hasHistory(inv *models.Invite) bool {
	return inv.ArrivalTime != nil ||
		inv.DepartureTime != nil ||
		inv.LastModifiedAt.After(inv.CreatedAt)
}

func applyAction(inv *models.Invite, action enums.InviteAction, at time.Time) error {
	switch action {
	case enums.InviteActionArrival:
		// Each arrival opens a fresh visit; a completed prior visit does not
		// block re-entry.
		inv.ArrivalTime = &at
		inv.DepartureTime = nil
	case enums.InviteActionDeparture:
		if inv.ArrivalTime == nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "no arrival recorded")
		}
		if inv.DepartureTime != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "departure already recorded")
		}
		inv.DepartureTime = &at
	case enums.InviteActionEnable:
		inv.Enabled = true
	case enums.InviteActionDisable:
		inv.Enabled = false
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown action %q", action))
	}
	return nil
}

func validateSchedule(days []string, hours dbtypes.HourRanges) error {
	for _, d := range days {
		if len(d) != 1 || d[0] < '0' || d[0] > '6' {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid day code %q", d))
		}
	}
	for _, r := range hours {
		start, err := parseClock(r.Start())
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid hour %q", r.Start()))
		}
		end, err := parseClock(r.End())
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid hour %q", r.End()))
		}
		if start >= end {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("hour range %s-%s is empty", r.Start(), r.End()))
		}
	}
	return nil
}
