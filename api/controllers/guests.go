package controllers

import (
	"net/http"

	"github.com/lsoria/qrsec-backend/api/middleware"
	"github.com/lsoria/qrsec-backend/api/responses"
	"github.com/lsoria/qrsec-backend/api/validators"
	"github.com/lsoria/qrsec-backend/internal/guests"
	pkgerrors "github.com/lsoria/qrsec-backend/pkg/errors"
	"github.com/lsoria/qrsec-backend/pkg/logger"
)

type guestPayload struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	DNI       string  `json:"dni" validate:"required"`
	Phone     *string `json:"phone,omitempty"`
}

// GuestCreate registers a guest under the caller's account. A DNI already on
// file attaches the caller as an additional owner instead of duplicating the
// record.
func GuestCreate(svc guests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest service unavailable"))
			return
		}

		var payload guestPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Register(ctx, middleware.CallerFromContext(ctx), guests.RegisterInput{
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
			DNI:       payload.DNI,
			Phone:     payload.Phone,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// GuestList returns every guest in the community. Admin surface.
func GuestList(svc guests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest service unavailable"))
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

// GuestListMine returns the guests linked to the caller.
func GuestListMine(svc guests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest service unavailable"))
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

// GuestGet returns a single guest.
func GuestGet(svc guests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest service unavailable"))
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

// GuestDelete detaches the caller from a guest, deleting the record once the
// last owner lets go. Admins delete outright.
func GuestDelete(svc guests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Remove(ctx, middleware.CallerFromContext(ctx), id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
