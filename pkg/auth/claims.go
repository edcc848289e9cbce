package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID  uuid.UUID
	StoreID *uuid.UUID
	Name    string
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to clients. StoreID is
// present only for seller accounts.
type AccessTokenClaims struct {
	UserID  uuid.UUID  `json:"user_id"`
	StoreID *uuid.UUID `json:"store_id,omitempty"`
	Name    string     `json:"name,omitempty"`
	jwt.RegisteredClaims
}
