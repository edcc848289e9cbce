package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stellarmarket/stellarmarket-backend/api/middleware"
	"github.com/stellarmarket/stellarmarket-backend/api/responses"
	"github.com/stellarmarket/stellarmarket-backend/api/validators"
	productsvc "github.com/stellarmarket/stellarmarket-backend/internal/products"
	"github.com/stellarmarket/stellarmarket-backend/pkg/enums"
	pkgerrors "github.com/stellarmarket/stellarmarket-backend/pkg/errors"
	"github.com/stellarmarket/stellarmarket-backend/pkg/logger"
)

type reorderImagesRequest struct {
	ImageIDs []string `json:"image_ids" validate:"required,min=1,dive,uuid"`
}

// ProductSearch lists active products through the layered catalog filters.
func ProductSearch(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		params, err := searchParamsFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.Search(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func searchParamsFromQuery(r *http.Request) (productsvc.SearchParams, error) {
	var params productsvc.SearchParams

	params.Category = strings.TrimSpace(r.URL.Query().Get("category"))
	params.Query = strings.TrimSpace(r.URL.Query().Get("q"))

	minPrice, err := validators.ParseQueryDecimal(r, "min_price")
	if err != nil {
		return params, err
	}
	params.MinPrice = minPrice

	maxPrice, err := validators.ParseQueryDecimal(r, "max_price")
	if err != nil {
		return params, err
	}
	params.MaxPrice = maxPrice

	minRating, err := validators.ParseQueryFloat(r, "min_rating")
	if err != nil {
		return params, err
	}
	params.MinRating = minRating

	featured, err := validators.ParseQueryBool(r, "featured")
	if err != nil {
		return params, err
	}
	params.Featured = featured

	// unknown sort columns are tolerated; the repository falls back to
	// newest-first
	params.Sort = enums.ProductSort(strings.TrimSpace(r.URL.Query().Get("sort")))
	params.Direction = enums.SortDirection(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("direction"))))

	params.Page, err = validators.ParseQueryInt(r, "page", 0, 0, 1<<20)
	if err != nil {
		return params, err
	}
	params.Limit, err = validators.ParseQueryInt(r, "limit", 0, 0, 1<<20)
	if err != nil {
		return params, err
	}
	return params, nil
}

// ProductFetch returns one product by id, falling back to slug lookup for
// non-uuid values.
func ProductFetch(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "productID"))
		var (
			product *productsvc.ProductDTO
			err     error
		)
		if id, parseErr := uuid.Parse(raw); parseErr == nil {
			product, err = svc.GetByID(r.Context(), id)
		} else {
			product, err = svc.GetBySlug(r.Context(), raw)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductFeatured lists the highest-rated featured products.
func ProductFeatured(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 1<<20)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Featured(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// ProductRelated lists same-category products for one source product.
func ProductRelated(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.ParseUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 1<<20)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Related(r.Context(), productID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// ProductImagesReorder moves every listed gallery image to its slot.
func ProductImagesReorder(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.ParseUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storeID := middleware.StoreIDFromContext(r.Context())
		if storeID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "store context required"))
			return
		}

		var payload reorderImagesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		imageIDs := make([]uuid.UUID, 0, len(payload.ImageIDs))
		for _, raw := range payload.ImageIDs {
			id, err := validators.ParseUUID(raw, "image_ids")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			imageIDs = append(imageIDs, id)
		}

		if err := svc.ReorderImages(r.Context(), *storeID, productID, imageIDs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"reordered": len(imageIDs)})
	}
}
