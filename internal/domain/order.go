package domain

import "time"

// Order status constants.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCancelled  = "cancelled"
	OrderStatusCompleted  = "completed"
)

// OrderItem is a snapshot of a cart line at checkout time.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Address is the shipping address captured at checkout.
type Address struct {
	State   string `json:"state"`
	City    string `json:"city"`
	Street  string `json:"street"`
	Pincode string `json:"pincode"`
}

// Order represents a store purchase. ProviderRef is empty until the payment
// provider has issued an intent for it.
type Order struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user_id"`
	Items          []OrderItem `json:"items"`
	Address        Address     `json:"address"`
	SubtotalAmount int64       `json:"subtotal_amount"`
	TaxAmount      int64       `json:"tax_amount"`
	TotalAmount    int64       `json:"total_amount"`
	Currency       string      `json:"currency"`
	Status         string      `json:"status"`
	ProviderRef    string      `json:"provider_ref,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// ValidOrderStatuses returns all valid order statuses.
func ValidOrderStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusCancelled,
		OrderStatusCompleted,
	}
}

// IsValidOrderStatus checks if a status string is valid for orders.
func IsValidOrderStatus(status string) bool {
	for _, s := range ValidOrderStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminalOrderStatus reports whether the status is administrative and must
// never be overwritten by payment reconciliation.
func IsTerminalOrderStatus(status string) bool {
	return status == OrderStatusCancelled || status == OrderStatusCompleted
}
