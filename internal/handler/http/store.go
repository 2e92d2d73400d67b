package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swaritsharma001/welness-studio/internal/domain"
	"github.com/swaritsharma001/welness-studio/internal/service"
	"github.com/swaritsharma001/welness-studio/pkg/httputil"
	"github.com/swaritsharma001/welness-studio/pkg/validator"
)

// StoreHandler handles the store catalog, cart and checkout endpoints.
type StoreHandler struct {
	catalogService  *service.CatalogService
	cartService     *service.CartService
	checkoutService *service.CheckoutService
	logger          *slog.Logger
}

// NewStoreHandler creates a new store handler.
func NewStoreHandler(
	catalogService *service.CatalogService,
	cartService *service.CartService,
	checkoutService *service.CheckoutService,
	logger *slog.Logger,
) *StoreHandler {
	return &StoreHandler{
		catalogService:  catalogService,
		cartService:     cartService,
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// CreateItemRequest is the request body for adding a store item.
type CreateItemRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Image       string `json:"image" validate:"omitempty,url"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	Category    string `json:"category" validate:"max=100"`
}

// AddCartItemRequest is the request body for adding a product to the cart.
type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"omitempty,gte=1,lte=100"`
}

// PayRequest is the request body for checkout.
type PayRequest struct {
	State   string `json:"state" validate:"required,max=100"`
	City    string `json:"city" validate:"required,max=100"`
	Street  string `json:"street" validate:"required,max=200"`
	Pincode string `json:"pincode" validate:"required,max=20"`
}

// ListItems handles GET /api/v1/store/items.
func (h *StoreHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListProducts(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// CreateItem handles POST /api/v1/store/items. Elevated roles only.
func (h *StoreHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
		Category:    req.Category,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// DeleteItem handles DELETE /api/v1/store/items/{id}. Elevated roles only.
func (h *StoreHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "item deleted"},
	})
}

// GetCart handles GET /api/v1/store/cart.
func (h *StoreHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	view, err := h.cartService.GetCart(r.Context(), user.ID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// AddCartItem handles POST /api/v1/store/cart/items.
func (h *StoreHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req AddCartItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user := UserFromContext(r.Context())

	view, err := h.cartService.AddItem(r.Context(), user.ID, req.ProductID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// RemoveCartItem handles DELETE /api/v1/store/cart/items/{productID}.
func (h *StoreHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, chi.URLParam(r, "productID"))
	if !ok {
		return
	}

	user := UserFromContext(r.Context())

	view, err := h.cartService.RemoveItem(r.Context(), user.ID, productID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// Pay handles POST /api/v1/store/pay.
func (h *StoreHandler) Pay(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req PayRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user := UserFromContext(r.Context())

	result, err := h.checkoutService.Pay(r.Context(), user, domain.Address{
		State:   req.State,
		City:    req.City,
		Street:  req.Street,
		Pincode: req.Pincode,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// ListOrders handles GET /api/v1/store/orders.
func (h *StoreHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	orders, err := h.checkoutService.ListOrders(r.Context(), user.ID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: orders})
}
