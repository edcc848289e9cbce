package orders

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stellarmarket/stellarmarket-backend/pkg/db/models"
	"github.com/stellarmarket/stellarmarket-backend/pkg/enums"
	pkgerrors "github.com/stellarmarket/stellarmarket-backend/pkg/errors"
	"github.com/stellarmarket/stellarmarket-backend/pkg/logger"
	"github.com/stellarmarket/stellarmarket-backend/pkg/pagination"
)

const listDefaultLimit = 20

type orderRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, filters ListFilters, offset, limit int) ([]models.Order, int64, error)
	ItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (bool, error)
	Rollup(ctx context.Context, storeID uuid.UUID, from, to time.Time) (AnalyticsDTO, error)
}

// eventPublisher is satisfied by the Pub/Sub client. A nil publisher disables
// events without changing any order semantics.
type eventPublisher interface {
	Publish(ctx context.Context, data []byte, attrs map[string]string) error
}

// Service exposes order reads, status transitions, and store analytics.
type Service interface {
	GetOrder(ctx context.Context, orderID uuid.UUID, requesterID uuid.UUID, requesterStoreID *uuid.UUID) (OrderDTO, error)
	ListStoreOrders(ctx context.Context, storeID uuid.UUID, filters ListFilters, page, limit int) (OrdersPageDTO, error)
	OrderItems(ctx context.Context, orderID uuid.UUID) ([]OrderItemDTO, error)
	UpdateStatus(ctx context.Context, orderID, storeID uuid.UUID, status enums.OrderStatus) (OrderDTO, error)
	Cancel(ctx context.Context, orderID, userID uuid.UUID) (OrderDTO, error)
	Refund(ctx context.Context, orderID, storeID uuid.UUID) (OrderDTO, error)
	Analytics(ctx context.Context, storeID uuid.UUID, from, to time.Time) (AnalyticsDTO, error)
}

type service struct {
	repo      orderRepo
	publisher eventPublisher
	logg      *logger.Logger
}

// NewService builds an order service. The publisher may be nil when order
// events are not configured.
func NewService(repo orderRepo, publisher eventPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{repo: repo, publisher: publisher, logg: logg}, nil
}

// GetOrder returns the order when the requester is the buyer or the selling
// store.
func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID, requesterID uuid.UUID, requesterStoreID *uuid.UUID) (OrderDTO, error) {
	if orderID == uuid.Nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.load(ctx, orderID)
	if err != nil {
		return OrderDTO{}, err
	}
	if order.UserID != requesterID &&
		(requesterStoreID == nil || order.StoreID != *requesterStoreID) {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another account")
	}
	return toDTO(*order), nil
}

// ListStoreOrders returns a filtered, newest-first page for the store.
func (s *service) ListStoreOrders(ctx context.Context, storeID uuid.UUID, filters ListFilters, page, limit int) (OrdersPageDTO, error) {
	if storeID == uuid.Nil {
		return OrdersPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	for _, status := range filters.Statuses {
		if !status.IsValid() {
			return OrdersPageDTO{}, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown order status %q", status)
		}
	}
	if filters.From != nil && filters.To != nil && filters.From.After(*filters.To) {
		return OrdersPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "date range start must not be after end")
	}

	params := pagination.Params{Page: page, Limit: limit}.
		NormalizeWith(listDefaultLimit, pagination.MaxLimit)

	rows, total, err := s.repo.ListByStore(ctx, storeID, filters, params.Offset(), params.Limit)
	if err != nil {
		return OrdersPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store orders")
	}

	items := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDTO(row))
	}
	return OrdersPageDTO{
		Items:      items,
		Pagination: pagination.NewMeta(params, total),
	}, nil
}

// OrderItems returns the purchased lines with their checkout-time snapshots.
func (s *service) OrderItems(ctx context.Context, orderID uuid.UUID) ([]OrderItemDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if _, err := s.load(ctx, orderID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
	}
	items := make([]OrderItemDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, OrderItemDTO{
			ID:        row.ID,
			ProductID: row.ProductID,
			Title:     row.Title,
			Quantity:  row.Quantity,
			UnitPrice: row.UnitPrice,
			LineTotal: row.LineTotal,
		})
	}
	return items, nil
}

// UpdateStatus transitions an order to a known status and publishes the
// change. Only the selling store may move its own orders.
func (s *service) UpdateStatus(ctx context.Context, orderID, storeID uuid.UUID, status enums.OrderStatus) (OrderDTO, error) {
	if storeID == uuid.Nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if !status.IsValid() {
		return OrderDTO{}, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown order status %q", status)
	}
	guard := func(order *models.Order) error {
		if order.StoreID != storeID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another store")
		}
		return nil
	}
	return s.transition(ctx, orderID, status, guard)
}

// Cancel moves a pending or paid order to cancelled. Only the buyer may
// cancel their own order.
func (s *service) Cancel(ctx context.Context, orderID, userID uuid.UUID) (OrderDTO, error) {
	if userID == uuid.Nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	guard := func(order *models.Order) error {
		if order.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another account")
		}
		if !order.Status.IsCancellable() {
			return pkgerrors.Newf(pkgerrors.CodeConflict, "order in status %q cannot be cancelled", order.Status)
		}
		return nil
	}
	return s.transition(ctx, orderID, enums.OrderStatusCancelled, guard)
}

// Refund moves a fulfilled order to refunded. Only the selling store may
// refund its own orders.
func (s *service) Refund(ctx context.Context, orderID, storeID uuid.UUID) (OrderDTO, error) {
	if storeID == uuid.Nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	guard := func(order *models.Order) error {
		if order.StoreID != storeID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another store")
		}
		if !order.Status.IsRefundable() {
			return pkgerrors.Newf(pkgerrors.CodeConflict, "order in status %q cannot be refunded", order.Status)
		}
		return nil
	}
	return s.transition(ctx, orderID, enums.OrderStatusRefunded, guard)
}

func (s *service) transition(ctx context.Context, orderID uuid.UUID, target enums.OrderStatus, guard func(*models.Order) error) (OrderDTO, error) {
	if orderID == uuid.Nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.load(ctx, orderID)
	if err != nil {
		return OrderDTO{}, err
	}
	if guard != nil {
		if err := guard(order); err != nil {
			return OrderDTO{}, err
		}
	}

	previous := order.Status
	updated, err := s.repo.UpdateStatus(ctx, orderID, target)
	if err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if !updated {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	order.Status = target
	s.publishStatusChange(ctx, order, previous)
	return toDTO(*order), nil
}

// publishStatusChange emits the event best-effort: a publish failure is
// logged but never fails the transition itself.
func (s *service) publishStatusChange(ctx context.Context, order *models.Order, previous enums.OrderStatus) {
	if s.publisher == nil {
		return
	}
	event := StatusChangedEvent{
		OrderID:    order.ID,
		StoreID:    order.StoreID,
		UserID:     order.UserID,
		FromStatus: previous,
		ToStatus:   order.Status,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logg.Error(ctx, "marshaling order status event", err)
		return
	}
	attrs := map[string]string{
		"event_type": "orders.status_changed",
		"order_id":   order.ID.String(),
	}
	if err := s.publisher.Publish(ctx, payload, attrs); err != nil {
		s.logg.Error(ctx, "publishing order status event", err)
	}
}

// Analytics aggregates a store's orders over a date range.
func (s *service) Analytics(ctx context.Context, storeID uuid.UUID, from, to time.Time) (AnalyticsDTO, error) {
	if storeID == uuid.Nil {
		return AnalyticsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if from.After(to) {
		return AnalyticsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "date range start must not be after end")
	}
	rollup, err := s.repo.Rollup(ctx, storeID, from, to)
	if err != nil {
		return AnalyticsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate store orders")
	}
	return rollup, nil
}

func (s *service) load(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func toDTO(order models.Order) OrderDTO {
	return OrderDTO{
		ID:          order.ID,
		UserID:      order.UserID,
		StoreID:     order.StoreID,
		Status:      order.Status,
		Subtotal:    order.Subtotal,
		Discount:    order.Discount,
		Total:       order.Total,
		PromotionID: order.PromotionID,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}
