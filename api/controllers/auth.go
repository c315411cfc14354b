package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lsoria/qrsec-backend/api/middleware"
	"github.com/lsoria/qrsec-backend/api/responses"
	"github.com/lsoria/qrsec-backend/api/validators"
	"github.com/lsoria/qrsec-backend/internal/users"
	"github.com/lsoria/qrsec-backend/pkg/enums"
	pkgerrors "github.com/lsoria/qrsec-backend/pkg/errors"
	"github.com/lsoria/qrsec-backend/pkg/logger"
)

type registerPayload struct {
	Email     string     `json:"email" validate:"required,email"`
	Password  string     `json:"password" validate:"required,min=8"`
	FirstName string     `json:"first_name" validate:"required"`
	LastName  string     `json:"last_name" validate:"required"`
	DNI       *string    `json:"dni,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	AddressID *uuid.UUID `json:"address_id,omitempty"`
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthRegister creates a new account. The first account in an empty community
// bootstraps as an enabled admin.
func AuthRegister(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		var payload registerPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Register(ctx, users.RegisterInput{
			Email:     payload.Email,
			Password:  payload.Password,
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
			DNI:       payload.DNI,
			Phone:     payload.Phone,
			AddressID: payload.AddressID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// AuthLogin exchanges credentials for a signed token.
func AuthLogin(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		var payload loginPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Login(ctx, payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AuthSession echoes the authenticated caller, letting clients check whether
// a stored token is still usable.
func AuthSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := middleware.CallerFromContext(r.Context())
		responses.WriteSuccess(w, map[string]any{
			"email": caller.Email,
			"roles": enums.RoleStrings(caller.Roles),
		})
	}
}
