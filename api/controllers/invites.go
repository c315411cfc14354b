package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lsoria/qrsec-backend/api/middleware"
	"github.com/lsoria/qrsec-backend/api/responses"
	"github.com/lsoria/qrsec-backend/api/validators"
	"github.com/lsoria/qrsec-backend/internal/invites"
	dbtypes "github.com/lsoria/qrsec-backend/pkg/db/types"
	"github.com/lsoria/qrsec-backend/pkg/enums"
	pkgerrors "github.com/lsoria/qrsec-backend/pkg/errors"
	"github.com/lsoria/qrsec-backend/pkg/logger"
)

type invitePayload struct {
	Description        *string            `json:"description,omitempty"`
	GuestIDs           []uuid.UUID        `json:"guest_ids,omitempty"`
	Days               []string           `json:"days,omitempty"`
	Hours              dbtypes.HourRanges `json:"hours,omitempty"`
	MaxTimeAllowed     *int               `json:"max_time_allowed,omitempty"`
	NumberOfPassengers *int               `json:"number_of_passengers,omitempty" validate:"omitempty,min=0"`
	DropsTrueGuest     bool               `json:"drops_true_guest,omitempty"`
}

func (p invitePayload) toInput() invites.InviteInput {
	return invites.InviteInput{
		Description:        p.Description,
		GuestIDs:           p.GuestIDs,
		Days:               p.Days,
		Hours:              p.Hours,
		MaxTimeAllowed:     p.MaxTimeAllowed,
		NumberOfPassengers: p.NumberOfPassengers,
		DropsTrueGuest:     p.DropsTrueGuest,
	}
}

// InviteCreate issues a new invite owned by the caller.
func InviteCreate(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invite service unavailable"))
			return
		}

		var payload invitePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Create(ctx, middleware.CallerFromContext(ctx), payload.toInput())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// InviteList returns every invite in the community. Admin surface.
func InviteList(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invite service unavailable"))
			return
		}

		list, err := svc.ListAll(ctx, middleware.CallerFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// InviteListMine returns the caller's own invites.
func InviteListMine(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invite service unavailable"))
			return
		}

		list, err := svc.ListMine(ctx, middleware.CallerFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// InviteGet returns a single invite.
func InviteGet(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invite service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Get(ctx, middleware.CallerFromContext(ctx), id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// InviteUpdate replaces the invite's editable fields.
func InviteUpdate(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invite service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload invitePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Update(ctx, middleware.CallerFromContext(ctx), id, payload.toInput())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// InviteDelete removes an invite. Invites that saw gate traffic are disabled
// and returned; untouched ones disappear with 204.
func InviteDelete(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invite service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Delete(ctx, middleware.CallerFromContext(ctx), id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if result.Purged {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		responses.WriteSuccess(w, result.Invite)
	}
}

// InviteValidate answers whether the invite admits entry. Guard surface.
// The optional timestamp query pins the evaluation instant; it defaults to
// the server clock.
func InviteValidate(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invite service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		at, err := validators.ParseTimestampQuery(r, "timestamp", time.Now)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			ctx = logg.WithInviteID(ctx, id.String())
		}
		verdict, err := svc.Validate(ctx, middleware.CallerFromContext(ctx), id, at)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, verdict)
	}
}

// InviteAction applies a guard-initiated state change (arrival, departure,
// enable, disable). The optional timestamp query pins the action instant; it
// defaults to the server clock.
func InviteAction(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invite service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		action, err := enums.ParseInviteAction(chi.URLParam(r, "action"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action"))
			return
		}
		at, err := validators.ParseTimestampQuery(r, "timestamp", time.Now)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			ctx = logg.WithInviteID(ctx, id.String())
		}
		dto, err := svc.Apply(ctx, middleware.CallerFromContext(ctx), id, action, at)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
