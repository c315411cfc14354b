package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/lsoria/qrsec-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Email string
	Roles []enums.Role
}

// AccessTokenClaims represents the typed JWT issued to clients. Roles travel
// inside the token so the gate keeps working when the directory is slow; the
// user store remains the source of truth on refresh.
type AccessTokenClaims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}
