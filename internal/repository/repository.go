package repository

import (
	"context"

	"github.com/swaritsharma001/welness-studio/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns all users.
	List(ctx context.Context) ([]domain.User, error)
}

// ProductRepository defines the interface for store item persistence.
type ProductRepository interface {
	// Create inserts a new product into the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetByIDs retrieves the products for the given IDs. Missing IDs are
	// simply absent from the result.
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)

	// List returns all products.
	List(ctx context.Context) ([]domain.Product, error)

	// Delete removes a product by its identifier.
	Delete(ctx context.Context, id string) error
}

// CartRepository defines the interface for cart persistence.
type CartRepository interface {
	// Get retrieves the cart for the given user.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// Save persists the cart.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the cart for the given user.
	Delete(ctx context.Context, userID string) error
}

// OrderRepository defines the interface for order persistence.
type OrderRepository interface {
	// Create inserts a new order into the store.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// ListByUser returns all orders placed by the given user, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)

	// UpdateStatus sets the status of the given order.
	UpdateStatus(ctx context.Context, id, status string) error

	// SetProviderRef records the payment provider reference for the order.
	SetProviderRef(ctx context.Context, id, ref string) error
}

// InstructorRepository defines the interface for instructor persistence.
type InstructorRepository interface {
	// Create inserts a new instructor into the store.
	Create(ctx context.Context, instructor *domain.Instructor) error

	// GetByID retrieves an instructor by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Instructor, error)

	// List returns all instructors.
	List(ctx context.Context) ([]domain.Instructor, error)

	// Delete removes an instructor by their identifier.
	Delete(ctx context.Context, id string) error
}

// SessionRepository defines the interface for booking session persistence.
type SessionRepository interface {
	// Create inserts a new booking session into the store.
	Create(ctx context.Context, session *domain.BookingSession) error

	// GetByID retrieves a session by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.BookingSession, error)

	// ListByUser returns all sessions booked by the given user, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.BookingSession, error)

	// List returns all sessions, newest first.
	List(ctx context.Context) ([]domain.BookingSession, error)

	// UpdateStatus sets the status of the given session.
	UpdateStatus(ctx context.Context, id, status string) error

	// SetProviderRef records the payment provider reference for the session.
	SetProviderRef(ctx context.Context, id, ref string) error

	// Delete removes a session by its identifier.
	Delete(ctx context.Context, id string) error
}

// IntentStatusCache caches payment intent statuses polled from the provider
// so listings do not hit the provider on every request.
type IntentStatusCache interface {
	// Get returns the cached status for the given intent reference. The
	// second return value is false on a cache miss.
	Get(ctx context.Context, ref string) (string, bool, error)

	// Set caches the status for the given intent reference.
	Set(ctx context.Context, ref, status string) error
}
