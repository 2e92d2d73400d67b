package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/swaritsharma001/welness-studio/internal/domain"
	"github.com/swaritsharma001/welness-studio/internal/event"
	"github.com/swaritsharma001/welness-studio/internal/provider"
	"github.com/swaritsharma001/welness-studio/internal/repository"
	apperrors "github.com/swaritsharma001/welness-studio/pkg/errors"
)

// CheckoutService implements checkout and the reconciled order listing.
type CheckoutService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	payments    provider.Provider
	producer    *event.Producer
	reconciler  *Reconciler
	logger      *slog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	payments provider.Provider,
	producer *event.Producer,
	reconciler *Reconciler,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		payments:    payments,
		producer:    producer,
		reconciler:  reconciler,
		logger:      logger,
	}
}

// CheckoutResult is returned from a successful payment initiation.
type CheckoutResult struct {
	OrderID     string `json:"order_id"`
	RedirectURL string `json:"redirect_url"`
	Subtotal    int64  `json:"subtotal"`
	Tax         int64  `json:"tax"`
	Total       int64  `json:"total"`
}

// Pay snapshots the user's cart into a pending order and initiates a payment
// with the provider. The order is persisted before the provider is called:
// if the provider fails, the order survives as pending with no provider
// reference and ErrPaymentFailed is returned.
func (s *CheckoutService) Pay(ctx context.Context, user *domain.User, address domain.Address) (*CheckoutResult, error) {
	cart, err := s.cartRepo.Get(ctx, user.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidInput("cart is empty")
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	ids := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get cart products: %w", err)
	}

	// Snapshot items whose product still exists and price the order from the
	// live catalog.
	var (
		items    []domain.OrderItem
		subtotal int64
	)
	for _, item := range cart.Items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		items = append(items, domain.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
		subtotal += product.Price * int64(item.Quantity)
	}
	if len(items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	tax := domain.Tax(subtotal)
	total := subtotal + tax

	now := time.Now().UTC()
	order := &domain.Order{
		ID:             uuid.New().String(),
		UserID:         user.ID,
		Items:          items,
		Address:        address,
		SubtotalAmount: subtotal,
		TaxAmount:      tax,
		TotalAmount:    total,
		Currency:       domain.Currency,
		Status:         domain.OrderStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	intent, err := s.payments.CreateIntent(ctx, &provider.IntentInput{
		AmountMinor:   domain.MinorUnits(total),
		CurrencyCode:  domain.Currency,
		Message:       "Order payment",
		CustomerEmail: user.Email,
		Metadata: provider.Metadata{
			OrderID: order.ID,
			UserID:  user.ID,
		},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "payment intent creation failed",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.PaymentFailed("payment could not be initiated")
	}

	if err := s.orderRepo.SetProviderRef(ctx, order.ID, intent.ID); err != nil {
		return nil, fmt.Errorf("set order provider ref: %w", err)
	}

	s.logger.InfoContext(ctx, "checkout initiated",
		slog.String("order_id", order.ID),
		slog.String("intent_id", intent.ID),
		slog.Int64("total", total),
	)

	return &CheckoutResult{
		OrderID:     order.ID,
		RedirectURL: intent.RedirectURL,
		Subtotal:    subtotal,
		Tax:         tax,
		Total:       total,
	}, nil
}

// ListOrders returns the user's orders with payment statuses reconciled
// against the provider before responding.
func (s *CheckoutService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	for i := range orders {
		s.reconcileOrder(ctx, &orders[i])
	}

	return orders, nil
}

// reconcileOrder refreshes one order's status from the provider. Terminal
// statuses are sticky. A failed poll leaves the stored status untouched so
// the listing can continue.
func (s *CheckoutService) reconcileOrder(ctx context.Context, o *domain.Order) {
	if o.ProviderRef == "" || domain.IsTerminalOrderStatus(o.Status) {
		return
	}

	status, err := s.reconciler.IntentStatus(ctx, o.ProviderRef)
	if err != nil {
		s.logger.WarnContext(ctx, "order reconciliation skipped",
			slog.String("order_id", o.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	newStatus := domain.OrderStatusPending
	if provider.Completed(status) {
		newStatus = domain.OrderStatusProcessing
	}
	if newStatus == o.Status {
		return
	}

	if err := s.orderRepo.UpdateStatus(ctx, o.ID, newStatus); err != nil {
		s.logger.WarnContext(ctx, "order status update failed",
			slog.String("order_id", o.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.producer.PublishOrderStatusChanged(ctx, o.ID, o.Status, newStatus); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.String("order_id", o.ID),
			slog.String("error", err.Error()),
		)
	}

	o.Status = newStatus
}
