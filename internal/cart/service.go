package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stellarmarket/stellarmarket-backend/pkg/db/models"
	pkgerrors "github.com/stellarmarket/stellarmarket-backend/pkg/errors"
)

var percentDivisor = decimal.NewFromInt(100)

type cartRepo interface {
	MergeAdd(ctx context.Context, userID, productID uuid.UUID, quantity int) (bool, error)
	SetQuantity(ctx context.Context, itemID, userID uuid.UUID, quantity int) (bool, error)
	FindItemByIDAndUser(ctx context.Context, itemID, userID uuid.UUID) (*models.CartItem, error)
	ListItemsWithProducts(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	DeleteItem(ctx context.Context, itemID, userID uuid.UUID) (bool, error)
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type promoLoader interface {
	FindActiveByCode(ctx context.Context, code string) (*models.Promotion, error)
}

// Service exposes the cart operations.
type Service interface {
	AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (CartDTO, error)
	UpdateCartItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (CartDTO, error)
	RemoveFromCart(ctx context.Context, userID, itemID uuid.UUID) (CartDTO, error)
	ClearCart(ctx context.Context, userID uuid.UUID) (CartDTO, error)
	GetCart(ctx context.Context, userID uuid.UUID) (CartDTO, error)
	ApplyPromoCode(ctx context.Context, userID uuid.UUID, code string) (PromoResultDTO, error)
}

type service struct {
	repo     cartRepo
	products productLoader
	promos   promoLoader
}

// NewService builds a cart service with the required dependencies.
func NewService(repo cartRepo, products productLoader, promos promoLoader) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product loader is required")
	}
	if promos == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion loader is required")
	}
	return &service{repo: repo, products: products, promos: promos}, nil
}

// AddToCart validates the request, guards against stock, and merges the line
// atomically. The upsert re-checks the post-merge total against stock inside
// the statement, so concurrent adds cannot overshoot.
func (s *service) AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if product.Stock < quantity {
		return CartDTO{}, pkgerrors.Newf(pkgerrors.CodeOutOfStock,
			"Not enough stock. Only %d items available.", product.Stock)
	}

	merged, err := s.repo.MergeAdd(ctx, userID, productID, quantity)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}
	if !merged {
		return CartDTO{}, pkgerrors.Newf(pkgerrors.CodeOutOfStock,
			"Cannot add more items. Only %d items available in total.", product.Stock)
	}

	return s.GetCart(ctx, userID)
}

// UpdateCartItem sets an absolute quantity on a user-scoped line.
func (s *service) UpdateCartItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if itemID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}
	if quantity < 1 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	item, err := s.repo.FindItemByIDAndUser(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart item not found")
		}
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	available := 0
	if item.Product != nil {
		available = item.Product.Stock
	}
	if available < quantity {
		return CartDTO{}, pkgerrors.Newf(pkgerrors.CodeOutOfStock,
			"Not enough stock. Only %d items available.", available)
	}

	updated, err := s.repo.SetQuantity(ctx, itemID, userID, quantity)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}
	if !updated {
		// Stock moved between the read and the guarded write.
		return CartDTO{}, pkgerrors.Newf(pkgerrors.CodeOutOfStock,
			"Not enough stock. Only %d items available.", available)
	}

	return s.GetCart(ctx, userID)
}

// RemoveFromCart drops one user-scoped line.
func (s *service) RemoveFromCart(ctx context.Context, userID, itemID uuid.UUID) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if itemID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}

	removed, err := s.repo.DeleteItem(ctx, itemID, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	if !removed {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	return s.GetCart(ctx, userID)
}

// ClearCart deletes every line and returns the canonical empty cart without
// re-reading it.
func (s *service) ClearCart(ctx context.Context, userID uuid.UUID) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.repo.DeleteAllForUser(ctx, userID); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return EmptyCart(), nil
}

// GetCart projects the stored lines against live product data. A line whose
// product has been deleted stays in the cart but contributes zero.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	items, err := s.repo.ListItemsWithProducts(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	cart := EmptyCart()
	for _, item := range items {
		line := CartItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			LineTotal: decimal.Zero,
			CreatedAt: item.CreatedAt,
		}
		if item.Product != nil {
			line.Product = toCartProduct(item.Product)
			line.LineTotal = item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		}
		cart.Items = append(cart.Items, line)
		cart.Subtotal = cart.Subtotal.Add(line.LineTotal)
		cart.ItemCount += item.Quantity
	}
	return cart, nil
}

// ApplyPromoCode checks the code against active promotions and computes the
// discount off the current cart total. The result is never persisted.
func (s *service) ApplyPromoCode(ctx context.Context, userID uuid.UUID, code string) (PromoResultDTO, error) {
	if userID == uuid.Nil {
		return PromoResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return PromoResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "promotion code is required")
	}

	promo, err := s.promos.FindActiveByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PromoResultDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "Invalid or expired promotion code")
		}
		return PromoResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotion")
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return PromoResultDTO{}, err
	}

	discount := cart.Subtotal.Mul(promo.DiscountPercent).Div(percentDivisor).Round(2)
	return PromoResultDTO{
		Code:            promo.Code,
		DiscountPercent: promo.DiscountPercent,
		Discount:        discount,
		Total:           cart.Subtotal,
		DiscountedTotal: cart.Subtotal.Sub(discount),
	}, nil
}

func toCartProduct(product *models.Product) *CartProductDTO {
	dto := &CartProductDTO{
		ID:          product.ID,
		Title:       product.Title,
		Slug:        product.Slug,
		Price:       product.Price,
		Stock:       product.Stock,
		Rating:      product.Rating,
		RatingCount: product.RatingCount,
	}
	for _, image := range product.Images {
		if image.IsPrimary {
			url := image.URL
			dto.ThumbnailURL = &url
			break
		}
	}
	if dto.ThumbnailURL == nil && len(product.Images) > 0 {
		url := product.Images[0].URL
		dto.ThumbnailURL = &url
	}
	return dto
}
