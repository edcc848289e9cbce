package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/stellarmarket/stellarmarket-backend/api/responses"
	"github.com/stellarmarket/stellarmarket-backend/api/validators"
	dashboardsvc "github.com/stellarmarket/stellarmarket-backend/internal/dashboard"
	"github.com/stellarmarket/stellarmarket-backend/pkg/enums"
	pkgerrors "github.com/stellarmarket/stellarmarket-backend/pkg/errors"
	"github.com/stellarmarket/stellarmarket-backend/pkg/logger"
)

type goalRequest struct {
	Type     string     `json:"type" validate:"required"`
	Period   string     `json:"period" validate:"required"`
	Target   string     `json:"target" validate:"required"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
}

func (g goalRequest) toInput() (dashboardsvc.GoalInput, error) {
	var input dashboardsvc.GoalInput

	goalType, err := enums.ParseGoalType(strings.ToLower(strings.TrimSpace(g.Type)))
	if err != nil {
		return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid goal type")
	}
	period, err := enums.ParseGoalPeriod(strings.ToLower(strings.TrimSpace(g.Period)))
	if err != nil {
		return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid goal period")
	}
	target, err := decimal.NewFromString(strings.TrimSpace(g.Target))
	if err != nil {
		return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid goal target")
	}

	input.Type = goalType
	input.Period = period
	input.Target = target
	input.StartsAt = g.StartsAt
	input.EndsAt = g.EndsAt
	return input, nil
}

// DashboardOverview returns the store's headline numbers.
func DashboardOverview(svc dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		storeID, err := storeScopedID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		overview, err := svc.Overview(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}

// DashboardDailySummary rolls orders up per day over the requested range.
func DashboardDailySummary(svc dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		storeID, err := storeScopedID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		from, to, err := analyticsRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.DailySummary(r.Context(), storeID, from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GoalCreate stores a new performance goal for the store.
func GoalCreate(svc dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		storeID, err := storeScopedID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload goalRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		goal, err := svc.CreateGoal(r.Context(), storeID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, goal)
	}
}

// GoalsList returns the store's goals, newest first.
func GoalsList(svc dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		storeID, err := storeScopedID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		goals, err := svc.ListGoals(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, goals)
	}
}

// GoalUpdate rewrites a store-scoped goal.
func GoalUpdate(svc dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		storeID, err := storeScopedID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		goalID, err := validators.ParseUUID(chi.URLParam(r, "goalID"), "goalID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload goalRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		goal, err := svc.UpdateGoal(r.Context(), storeID, goalID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, goal)
	}
}

// GoalDelete removes a store-scoped goal.
func GoalDelete(svc dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		storeID, err := storeScopedID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		goalID, err := validators.ParseUUID(chi.URLParam(r, "goalID"), "goalID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteGoal(r.Context(), storeID, goalID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": true})
	}
}
