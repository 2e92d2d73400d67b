package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/swaritsharma001/welness-studio/internal/domain"
	"github.com/swaritsharma001/welness-studio/internal/provider"
	apperrors "github.com/swaritsharma001/welness-studio/pkg/errors"
)

func newTestCheckoutService(
	cartRepo *mockCartRepository,
	productRepo *mockProductRepository,
	orderRepo *mockOrderRepository,
	payments *mockPaymentProvider,
	cache *mockIntentCache,
) *CheckoutService {
	logger := newTestLogger()
	reconciler := NewReconciler(payments, cache, logger)
	return NewCheckoutService(cartRepo, productRepo, orderRepo, payments, newTestEventProducer(), reconciler, logger)
}

func sampleAddress() domain.Address {
	return domain.Address{
		State:   "Dubai",
		City:    "Dubai",
		Street:  "12 Marina Walk",
		Pincode: "00000",
	}
}

// --- Pay Tests ---

func TestPay_Success(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	orderRepo := new(mockOrderRepository)
	payments := new(mockPaymentProvider)
	cache := new(mockIntentCache)
	svc := newTestCheckoutService(cartRepo, productRepo, orderRepo, payments, cache)
	ctx := context.Background()

	cart := domain.NewCart("user-1")
	cart.AddItem("prod-1", 1)

	cartRepo.On("Get", ctx, "user-1").Return(cart, nil)
	productRepo.On("GetByIDs", ctx, []string{"prod-1"}).Return(map[string]domain.Product{
		"prod-1": sampleProduct("prod-1", 100),
	}, nil)
	orderRepo.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil)
	payments.On("CreateIntent", ctx, mock.AnythingOfType("*provider.IntentInput")).Return(&provider.Intent{
		ID:          "pi_123",
		RedirectURL: "https://pay.example.com/pi_123",
		Status:      "requires_payment_instrument",
	}, nil)
	orderRepo.On("SetProviderRef", ctx, mock.AnythingOfType("string"), "pi_123").Return(nil)

	result, err := svc.Pay(ctx, testUser(), sampleAddress())

	require.NoError(t, err)
	assert.Equal(t, int64(100), result.Subtotal)
	assert.Equal(t, int64(8), result.Tax)
	assert.Equal(t, int64(108), result.Total)
	assert.Equal(t, "https://pay.example.com/pi_123", result.RedirectURL)

	// The provider is charged in minor units: 108 AED -> 10800.
	intentInput := payments.Calls[0].Arguments.Get(1).(*provider.IntentInput)
	assert.Equal(t, int64(10800), intentInput.AmountMinor)
	assert.Equal(t, domain.Currency, intentInput.CurrencyCode)
	assert.Equal(t, "alice@example.com", intentInput.CustomerEmail)
	assert.Equal(t, result.OrderID, intentInput.Metadata.OrderID)

	// The order is persisted pending with live-derived amounts.
	created := orderRepo.Calls[0].Arguments.Get(1).(*domain.Order)
	assert.Equal(t, domain.OrderStatusPending, created.Status)
	assert.Equal(t, int64(108), created.TotalAmount)

	orderRepo.AssertExpectations(t)
	payments.AssertExpectations(t)
}

func TestPay_EmptyCart_RejectedBeforeProviderCall(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	orderRepo := new(mockOrderRepository)
	payments := new(mockPaymentProvider)
	cache := new(mockIntentCache)
	svc := newTestCheckoutService(cartRepo, productRepo, orderRepo, payments, cache)
	ctx := context.Background()

	cartRepo.On("Get", ctx, "user-1").Return(domain.NewCart("user-1"), nil)

	result, err := svc.Pay(ctx, testUser(), sampleAddress())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	payments.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPay_NoCart_RejectedAsEmpty(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	orderRepo := new(mockOrderRepository)
	payments := new(mockPaymentProvider)
	cache := new(mockIntentCache)
	svc := newTestCheckoutService(cartRepo, productRepo, orderRepo, payments, cache)
	ctx := context.Background()

	cartRepo.On("Get", ctx, "user-1").Return(nil, apperrors.ErrNotFound)

	result, err := svc.Pay(ctx, testUser(), sampleAddress())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestPay_AllProductsVanished_RejectedAsEmpty(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	orderRepo := new(mockOrderRepository)
	payments := new(mockPaymentProvider)
	cache := new(mockIntentCache)
	svc := newTestCheckoutService(cartRepo, productRepo, orderRepo, payments, cache)
	ctx := context.Background()

	cart := domain.NewCart("user-1")
	cart.AddItem("prod-gone", 2)

	cartRepo.On("Get", ctx, "user-1").Return(cart, nil)
	productRepo.On("GetByIDs", ctx, []string{"prod-gone"}).Return(map[string]domain.Product{}, nil)

	result, err := svc.Pay(ctx, testUser(), sampleAddress())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	payments.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything)
}

func TestPay_ProviderFailure_KeepsPendingOrder(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	orderRepo := new(mockOrderRepository)
	payments := new(mockPaymentProvider)
	cache := new(mockIntentCache)
	svc := newTestCheckoutService(cartRepo, productRepo, orderRepo, payments, cache)
	ctx := context.Background()

	cart := domain.NewCart("user-1")
	cart.AddItem("prod-1", 1)

	cartRepo.On("Get", ctx, "user-1").Return(cart, nil)
	productRepo.On("GetByIDs", ctx, []string{"prod-1"}).Return(map[string]domain.Product{
		"prod-1": sampleProduct("prod-1", 100),
	}, nil)
	orderRepo.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil)
	payments.On("CreateIntent", ctx, mock.AnythingOfType("*provider.IntentInput")).
		Return(nil, errors.New("provider unreachable"))

	result, err := svc.Pay(ctx, testUser(), sampleAddress())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrPaymentFailed)

	// The order was persisted before the provider call and keeps no ref.
	orderRepo.AssertCalled(t, "Create", ctx, mock.AnythingOfType("*domain.Order"))
	orderRepo.AssertNotCalled(t, "SetProviderRef", mock.Anything, mock.Anything, mock.Anything)
}

// --- ListOrders Reconciliation Tests ---

func pendingOrder(id, ref string) domain.Order {
	return domain.Order{
		ID:          id,
		UserID:      "user-1",
		Status:      domain.OrderStatusPending,
		ProviderRef: ref,
		Currency:    domain.Currency,
	}
}

func TestListOrders_CompletedIntent_MovesToProcessing(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	orderRepo := new(mockOrderRepository)
	payments := new(mockPaymentProvider)
	cache := new(mockIntentCache)
	svc := newTestCheckoutService(cartRepo, productRepo, orderRepo, payments, cache)
	ctx := context.Background()

	orderRepo.On("ListByUser", ctx, "user-1").Return([]domain.Order{pendingOrder("order-1", "pi_1")}, nil)
	cache.On("Get", ctx, "pi_1").Return("", false, nil)
	payments.On("GetIntent", ctx, "pi_1").Return(&provider.Intent{ID: "pi_1", Status: "completed"}, nil)
	cache.On("Set", ctx, "pi_1", "completed").Return(nil)
	orderRepo.On("UpdateStatus", ctx, "order-1", domain.OrderStatusProcessing).Return(nil)

	orders, err := svc.ListOrders(ctx, "user-1")

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, domain.OrderStatusProcessing, orders[0].Status)

	orderRepo.AssertExpectations(t)
}

func TestListOrders_IncompleteIntent_StaysPending(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	orderRepo := new(mockOrderRepository)
	payments := new(mockPaymentProvider)
	cache := new(mockIntentCache)
	svc := newTestCheckoutService(cartRepo, productRepo, orderRepo, payments, cache)
	ctx := context.Background()

	orderRepo.On("ListByUser", ctx, "user-1").Return([]domain.Order{pendingOrder("order-1", "pi_1")}, nil)
	cache.On("Get", ctx, "pi_1").Return("", false, nil)
	payments.On("GetIntent", ctx, "pi_1").Return(&provider.Intent{ID: "pi_1", Status: "requires_payment_instrument"}, nil)
	cache.On("Set", ctx, "pi_1", "requires_payment_instrument").Return(nil)

	orders, err := svc.ListOrders(ctx, "user-1")

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, orders[0].Status)
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestListOrders_TerminalStatusesAreSticky(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	orderRepo := new(mockOrderRepository)
	payments := new(mockPaymentProvider)
	cache := new(mockIntentCache)
	svc := newTestCheckoutService(cartRepo, productRepo, orderRepo, payments, cache)
	ctx := context.Background()

	cancelled := pendingOrder("order-1", "pi_1")
	cancelled.Status = domain.OrderStatusCancelled
	completed := pendingOrder("order-2", "pi_2")
	completed.Status = domain.OrderStatusCompleted

	orderRepo.On("ListByUser", ctx, "user-1").Return([]domain.Order{cancelled, completed}, nil)

	orders, err := svc.ListOrders(ctx, "user-1")

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, orders[0].Status)
	assert.Equal(t, domain.OrderStatusCompleted, orders[1].Status)
	payments.AssertNotCalled(t, "GetIntent", mock.Anything, mock.Anything)
}

func TestListOrders_NoProviderRef_Skipped(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	orderRepo := new(mockOrderRepository)
	payments := new(mockPaymentProvider)
	cache := new(mockIntentCache)
	svc := newTestCheckoutService(cartRepo, productRepo, orderRepo, payments, cache)
	ctx := context.Background()

	orderRepo.On("ListByUser", ctx, "user-1").Return([]domain.Order{pendingOrder("order-1", "")}, nil)

	orders, err := svc.ListOrders(ctx, "user-1")

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, orders[0].Status)
	payments.AssertNotCalled(t, "GetIntent", mock.Anything, mock.Anything)
}

func TestListOrders_ProviderPollFailure_LeavesStatusUntouched(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	orderRepo := new(mockOrderRepository)
	payments := new(mockPaymentProvider)
	cache := new(mockIntentCache)
	svc := newTestCheckoutService(cartRepo, productRepo, orderRepo, payments, cache)
	ctx := context.Background()

	orderRepo.On("ListByUser", ctx, "user-1").Return([]domain.Order{
		pendingOrder("order-1", "pi_1"),
		pendingOrder("order-2", "pi_2"),
	}, nil)
	cache.On("Get", ctx, "pi_1").Return("", false, nil)
	payments.On("GetIntent", ctx, "pi_1").Return(nil, errors.New("provider down"))
	cache.On("Get", ctx, "pi_2").Return("completed", true, nil)
	orderRepo.On("UpdateStatus", ctx, "order-2", domain.OrderStatusProcessing).Return(nil)

	orders, err := svc.ListOrders(ctx, "user-1")

	// One failed poll must not fail the whole listing.
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, orders[0].Status)
	assert.Equal(t, domain.OrderStatusProcessing, orders[1].Status)
}
