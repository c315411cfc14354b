package controllers

import (
	"net/http"

	"github.com/lsoria/qrsec-backend/api/middleware"
	"github.com/lsoria/qrsec-backend/api/responses"
	"github.com/lsoria/qrsec-backend/api/validators"
	"github.com/lsoria/qrsec-backend/internal/address"
	pkgerrors "github.com/lsoria/qrsec-backend/pkg/errors"
	"github.com/lsoria/qrsec-backend/pkg/logger"
)

type addressPayload struct {
	Street        string  `json:"street" validate:"required"`
	Number        string  `json:"number" validate:"required"`
	Apartment     *string `json:"apartment,omitempty"`
	Neighbourhood string  `json:"neighbourhood"`
}

// AddressCreate registers a community address. Admin surface.
func AddressCreate(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		var payload addressPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Create(ctx, middleware.CallerFromContext(ctx), address.CreateInput{
			Street:        payload.Street,
			Number:        payload.Number,
			Apartment:     payload.Apartment,
			Neighbourhood: payload.Neighbourhood,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// AddressGet returns a single address.
func AddressGet(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
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

// AddressList returns every registered address. Admin surface.
func AddressList(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		list, err := svc.List(ctx, middleware.CallerFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
