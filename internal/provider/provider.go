package provider

import "context"

// IntentStatusCompleted is the only provider status that counts as paid.
// Every other status the provider reports is treated as not completed.
const IntentStatusCompleted = "completed"

// Metadata ties a payment intent back to the record that initiated it.
type Metadata struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}

// IntentInput holds the parameters for creating a payment intent.
type IntentInput struct {
	// AmountMinor is the charge amount in minor currency units.
	AmountMinor   int64
	CurrencyCode  string
	Message       string
	CustomerEmail string
	Metadata      Metadata
}

// Intent is a payment intent as reported by the provider.
type Intent struct {
	ID          string
	RedirectURL string
	Status      string
}

// Completed reports whether the given provider status means the payment
// went through.
func Completed(status string) bool {
	return status == IntentStatusCompleted
}

// Provider defines the interface for payment provider integrations.
type Provider interface {
	// Name returns the provider name (e.g., "mock", "ziina").
	Name() string

	// CreateIntent registers a payment intent with the provider and returns
	// the redirect URL the customer completes the payment at.
	CreateIntent(ctx context.Context, input *IntentInput) (*Intent, error)

	// GetIntent fetches the current state of a payment intent.
	GetIntent(ctx context.Context, id string) (*Intent, error)
}
