package ziina

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/swaritsharma001/welness-studio/internal/provider"
	"github.com/swaritsharma001/welness-studio/pkg/httpclient"
)

// Config holds the Ziina provider configuration.
type Config struct {
	// BaseURL is the API root, e.g. "https://api-v2.ziina.com".
	BaseURL string

	// APIKey is the static bearer key sent on every request.
	APIKey string

	// SuccessURL, CancelURL and FailureURL are where the hosted payment page
	// sends the customer afterwards.
	SuccessURL string
	CancelURL  string
	FailureURL string

	// Test marks created intents as test transactions.
	Test bool
}

// Provider implements provider.Provider against the Ziina payment API.
type Provider struct {
	cfg    Config
	client *httpclient.CircuitBreakerClient
}

// NewProvider creates a Ziina payment provider using the given HTTP client.
func NewProvider(cfg Config, client *httpclient.CircuitBreakerClient) *Provider {
	return &Provider{
		cfg:    cfg,
		client: client,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "ziina"
}

type createIntentRequest struct {
	Amount            int64             `json:"amount"`
	CurrencyCode      string            `json:"currency_code"`
	Message           string            `json:"message"`
	SuccessURL        string            `json:"success_url,omitempty"`
	CancelURL         string            `json:"cancel_url,omitempty"`
	FailureURL        string            `json:"failure_url,omitempty"`
	Test              bool              `json:"test"`
	TransactionSource string            `json:"transaction_source"`
	Customer          *customer         `json:"customer,omitempty"`
	Metadata          provider.Metadata `json:"metadata"`
}

type customer struct {
	Email string `json:"email"`
}

type intentResponse struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	RedirectURL string `json:"redirect_url"`
}

// CreateIntent registers a payment intent with Ziina.
func (p *Provider) CreateIntent(ctx context.Context, input *provider.IntentInput) (*provider.Intent, error) {
	reqBody := createIntentRequest{
		Amount:            input.AmountMinor,
		CurrencyCode:      input.CurrencyCode,
		Message:           input.Message,
		SuccessURL:        p.cfg.SuccessURL,
		CancelURL:         p.cfg.CancelURL,
		FailureURL:        p.cfg.FailureURL,
		Test:              p.cfg.Test,
		TransactionSource: "directApi",
		Metadata:          input.Metadata,
	}
	if input.CustomerEmail != "" {
		reqBody.Customer = &customer{Email: input.CustomerEmail}
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal intent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/api/payment_intent", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create intent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("ziina create intent: %w", err)
	}
	defer resp.Body.Close()

	return decodeIntent(resp)
}

// GetIntent fetches the current state of a payment intent from Ziina.
func (p *Provider) GetIntent(ctx context.Context, id string) (*provider.Intent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/api/payment_intent/"+id, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create get intent request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("ziina get intent: %w", err)
	}
	defer resp.Body.Close()

	return decodeIntent(resp)
}

func decodeIntent(resp *http.Response) (*provider.Intent, error) {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("ziina responded %d: %s", resp.StatusCode, string(body))
	}

	var out intentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode intent response: %w", err)
	}
	if out.ID == "" {
		return nil, fmt.Errorf("ziina response missing intent id")
	}

	return &provider.Intent{
		ID:          out.ID,
		RedirectURL: out.RedirectURL,
		Status:      out.Status,
	}, nil
}
