package mock

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/swaritsharma001/welness-studio/internal/provider"
)

// Provider is a mock payment provider for development and testing. Created
// intents start in "requires_payment_instrument" state and can be flipped to
// completed with Complete.
type Provider struct {
	mu      sync.Mutex
	intents map[string]*provider.Intent
}

// NewProvider creates a new mock payment provider.
func NewProvider() *Provider {
	return &Provider{
		intents: make(map[string]*provider.Intent),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "mock"
}

// CreateIntent registers an in-memory payment intent.
func (p *Provider) CreateIntent(_ context.Context, input *provider.IntentInput) (*provider.Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	intent := &provider.Intent{
		ID:          "mock_pi_" + uuid.New().String(),
		RedirectURL: "https://pay.mock.local/" + uuid.New().String(),
		Status:      "requires_payment_instrument",
	}
	p.intents[intent.ID] = intent

	return &provider.Intent{ID: intent.ID, RedirectURL: intent.RedirectURL, Status: intent.Status}, nil
}

// GetIntent returns the current state of a previously created intent.
func (p *Provider) GetIntent(_ context.Context, id string) (*provider.Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	intent, ok := p.intents[id]
	if !ok {
		// Unknown intents report as pending rather than failing the caller.
		return &provider.Intent{ID: id, Status: "requires_payment_instrument"}, nil
	}

	return &provider.Intent{ID: intent.ID, RedirectURL: intent.RedirectURL, Status: intent.Status}, nil
}

// Complete marks a previously created intent as completed. Test helper.
func (p *Provider) Complete(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if intent, ok := p.intents[id]; ok {
		intent.Status = provider.IntentStatusCompleted
	}
}
