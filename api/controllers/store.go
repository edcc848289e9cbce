package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stellarmarket/stellarmarket-backend/api/middleware"
	"github.com/stellarmarket/stellarmarket-backend/api/validators"
	pkgerrors "github.com/stellarmarket/stellarmarket-backend/pkg/errors"
)

// storeScopedID resolves the {storeID} path parameter and requires it to match
// the store in the caller's token.
func storeScopedID(r *http.Request) (uuid.UUID, error) {
	storeID, err := validators.ParseUUID(chi.URLParam(r, "storeID"), "storeID")
	if err != nil {
		return uuid.Nil, err
	}

	tokenStoreID := middleware.StoreIDFromContext(r.Context())
	if tokenStoreID == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context required")
	}
	if *tokenStoreID != storeID {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "store belongs to another account")
	}
	return storeID, nil
}
