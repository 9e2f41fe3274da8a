package payments

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gather/pkg/client"
	"gather/pkg/logger"
)

var ErrProviderRejected = errors.New("payment provider rejected request")

const intentsPath = "/v1/payment_intents"

type IntentRequest struct {
	AmountCents    int64             `json:"amount"`
	Currency       string            `json:"currency"`
	ReceiptEmail   string            `json:"receipt_email,omitempty"`
	Description    string            `json:"description,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	IdempotencyKey string            `json:"-"`
}

type Intent struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret"`
}

// TokenSource hands out a bearer token, refreshing it when needed.
type TokenSource interface {
	GetValidToken(ctx context.Context) (string, error)
	Invalidate()
}

// Creator creates payment intents with the provider.
type Creator interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}

type Client struct {
	http   *client.HttpClient
	tokens TokenSource
	log    *logger.Logger
}

func NewClient(httpClient *client.HttpClient, tokens TokenSource, log *logger.Logger) *Client {
	return &Client{http: httpClient, tokens: tokens, log: log}
}

// CreateIntent posts a payment intent. A 401 drops the cached token and the
// request is retried once with a fresh one.
func (c *Client) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	resp, err := c.post(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.log.Warn("Payment provider rejected token, refreshing")
		c.tokens.Invalidate()
		if resp, err = c.post(ctx, req); err != nil {
			return nil, err
		}
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %s", ErrProviderRejected, client.GetErrorMessage(resp))
	}

	var intent Intent
	if err := resp.DecodeJSON(&intent); err != nil {
		return nil, fmt.Errorf("failed to decode payment intent: %w", err)
	}
	if intent.ID == "" {
		return nil, fmt.Errorf("%w: response has no intent id", ErrProviderRejected)
	}

	return &intent, nil
}

func (c *Client) post(ctx context.Context, req IntentRequest) (*client.Response, error) {
	token, err := c.tokens.GetValidToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment provider token: %w", err)
	}

	headers := map[string]string{"Authorization": "Bearer " + token}
	if req.IdempotencyKey != "" {
		headers["Idempotency-Key"] = req.IdempotencyKey
	}

	return c.http.POST(ctx, intentsPath, req, headers)
}
