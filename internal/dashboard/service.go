package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stellarmarket/stellarmarket-backend/pkg/db/models"
	pkgerrors "github.com/stellarmarket/stellarmarket-backend/pkg/errors"
)

// dailySummaryMaxRows caps the rollup window regardless of the range asked.
const dailySummaryMaxRows = 30

type dashboardRepo interface {
	Overview(ctx context.Context, storeID uuid.UUID) (OverviewDTO, error)
	DailySummary(ctx context.Context, storeID uuid.UUID, from, to time.Time, maxRows int) ([]DailySummaryRow, error)
	CreateGoal(ctx context.Context, goal *models.StorePerformanceGoal) error
	ListGoals(ctx context.Context, storeID uuid.UUID) ([]models.StorePerformanceGoal, error)
	FindGoal(ctx context.Context, goalID, storeID uuid.UUID) (*models.StorePerformanceGoal, error)
	UpdateGoal(ctx context.Context, goalID, storeID uuid.UUID, input GoalInput) (bool, error)
	DeleteGoal(ctx context.Context, goalID, storeID uuid.UUID) (bool, error)
}

// Service exposes the seller dashboard reads and the goal CRUD.
type Service interface {
	Overview(ctx context.Context, storeID uuid.UUID) (OverviewDTO, error)
	DailySummary(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]DailySummaryRow, error)
	CreateGoal(ctx context.Context, storeID uuid.UUID, input GoalInput) (GoalDTO, error)
	ListGoals(ctx context.Context, storeID uuid.UUID) ([]GoalDTO, error)
	UpdateGoal(ctx context.Context, storeID, goalID uuid.UUID, input GoalInput) (GoalDTO, error)
	DeleteGoal(ctx context.Context, storeID, goalID uuid.UUID) error
}

type service struct {
	repo dashboardRepo
}

// NewService builds a dashboard service backed by the provided repository.
func NewService(repo dashboardRepo) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dashboard repo is required")
	}
	return &service{repo: repo}, nil
}

// Overview returns the store's headline numbers.
func (s *service) Overview(ctx context.Context, storeID uuid.UUID) (OverviewDTO, error) {
	if storeID == uuid.Nil {
		return OverviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	overview, err := s.repo.Overview(ctx, storeID)
	if err != nil {
		return OverviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dashboard overview")
	}
	return overview, nil
}

// DailySummary rolls orders up per day over the range, capped at 30 rows,
// newest first.
func (s *service) DailySummary(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]DailySummaryRow, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if from.After(to) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range start must not be after end")
	}
	rows, err := s.repo.DailySummary(ctx, storeID, from, to, dailySummaryMaxRows)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load daily summary")
	}
	if rows == nil {
		rows = []DailySummaryRow{}
	}
	return rows, nil
}

// CreateGoal validates and stores a new performance goal.
func (s *service) CreateGoal(ctx context.Context, storeID uuid.UUID, input GoalInput) (GoalDTO, error) {
	if storeID == uuid.Nil {
		return GoalDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if err := validateGoalInput(input); err != nil {
		return GoalDTO{}, err
	}

	goal := models.StorePerformanceGoal{
		StoreID:  storeID,
		Type:     input.Type,
		Period:   input.Period,
		Target:   input.Target,
		StartsAt: input.StartsAt,
		EndsAt:   input.EndsAt,
	}
	if err := s.repo.CreateGoal(ctx, &goal); err != nil {
		return GoalDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save performance goal")
	}
	return toGoalDTO(goal), nil
}

// ListGoals returns the store's goals, newest first.
func (s *service) ListGoals(ctx context.Context, storeID uuid.UUID) ([]GoalDTO, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	rows, err := s.repo.ListGoals(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list performance goals")
	}
	goals := make([]GoalDTO, 0, len(rows))
	for _, row := range rows {
		goals = append(goals, toGoalDTO(row))
	}
	return goals, nil
}

// UpdateGoal rewrites a store-scoped goal.
func (s *service) UpdateGoal(ctx context.Context, storeID, goalID uuid.UUID, input GoalInput) (GoalDTO, error) {
	if storeID == uuid.Nil || goalID == uuid.Nil {
		return GoalDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "store id and goal id are required")
	}
	if err := validateGoalInput(input); err != nil {
		return GoalDTO{}, err
	}

	updated, err := s.repo.UpdateGoal(ctx, goalID, storeID, input)
	if err != nil {
		return GoalDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update performance goal")
	}
	if !updated {
		return GoalDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "performance goal not found")
	}

	goal, err := s.repo.FindGoal(ctx, goalID, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GoalDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "performance goal not found")
		}
		return GoalDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load performance goal")
	}
	return toGoalDTO(*goal), nil
}

// DeleteGoal removes a store-scoped goal.
func (s *service) DeleteGoal(ctx context.Context, storeID, goalID uuid.UUID) error {
	if storeID == uuid.Nil || goalID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id and goal id are required")
	}
	deleted, err := s.repo.DeleteGoal(ctx, goalID, storeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete performance goal")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "performance goal not found")
	}
	return nil
}

func validateGoalInput(input GoalInput) error {
	if !input.Type.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "unknown goal type %q", input.Type)
	}
	if !input.Period.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "unknown goal period %q", input.Period)
	}
	if !input.Target.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "goal target must be positive")
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.StartsAt.After(*input.EndsAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "goal start must not be after end")
	}
	return nil
}

func toGoalDTO(goal models.StorePerformanceGoal) GoalDTO {
	return GoalDTO{
		ID:        goal.ID,
		StoreID:   goal.StoreID,
		Type:      goal.Type,
		Period:    goal.Period,
		Target:    goal.Target,
		StartsAt:  goal.StartsAt,
		EndsAt:    goal.EndsAt,
		CreatedAt: goal.CreatedAt,
		UpdatedAt: goal.UpdatedAt,
	}
}
