package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/swaritsharma001/welness-studio/internal/domain"
	"github.com/swaritsharma001/welness-studio/internal/repository"
	apperrors "github.com/swaritsharma001/welness-studio/pkg/errors"
)

// CartService implements the business logic for the shopping cart. Totals
// are always derived from live product prices, never stored.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger *slog.Logger,
) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// CartLine is a cart item joined with its live product data.
type CartLine struct {
	Product   domain.Product `json:"product"`
	Quantity  int            `json:"quantity"`
	LineTotal int64          `json:"line_total"`
}

// CartView is the cart presented to the user, with totals derived from the
// current catalog prices.
type CartView struct {
	Items    []CartLine `json:"items"`
	Subtotal int64      `json:"subtotal"`
}

// GetCart returns the user's cart with derived totals. A user without a cart
// gets an empty view. Items whose product has been removed from the catalog
// are dropped from the view.
func (s *CartService) GetCart(ctx context.Context, userID string) (*CartView, error) {
	cart, err := s.getOrEmpty(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.buildView(ctx, cart)
}

// AddItem adds a product to the user's cart. Adding a product already in the
// cart increments its quantity.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*CartView, error) {
	if quantity <= 0 {
		quantity = 1
	}

	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", productID)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	cart, err := s.getOrEmpty(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.AddItem(productID, quantity)
	cart.UpdatedAt = time.Now().UTC()

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.logger.InfoContext(ctx, "cart item added",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return s.buildView(ctx, cart)
}

// RemoveItem removes a product from the user's cart entirely.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*CartView, error) {
	cart, err := s.getOrEmpty(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !cart.RemoveItem(productID) {
		return nil, apperrors.NotFound("cart item", productID)
	}
	cart.UpdatedAt = time.Now().UTC()

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.logger.InfoContext(ctx, "cart item removed",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
	)

	return s.buildView(ctx, cart)
}

// getOrEmpty fetches the user's cart, returning a fresh empty cart when none
// exists yet.
func (s *CartService) getOrEmpty(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCart(userID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// buildView joins cart items with live product data and derives totals.
func (s *CartService) buildView(ctx context.Context, cart *domain.Cart) (*CartView, error) {
	ids := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get cart products: %w", err)
	}

	view := &CartView{Items: []CartLine{}}
	for _, item := range cart.Items {
		product, ok := products[item.ProductID]
		if !ok {
			// Product was removed from the catalog after it was carted.
			continue
		}
		lineTotal := product.Price * int64(item.Quantity)
		view.Items = append(view.Items, CartLine{
			Product:   product,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
		})
		view.Subtotal += lineTotal
	}

	return view, nil
}
