package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gather/pkg/client"
	"gather/pkg/logger"
)

type stubTokens struct {
	tokens      []string
	calls       int
	invalidated int
}

func (s *stubTokens) GetValidToken(context.Context) (string, error) {
	t := s.tokens[min(s.calls, len(s.tokens)-1)]
	s.calls++
	return t, nil
}

func (s *stubTokens) Invalidate() { s.invalidated++ }

func TestCreateIntent(t *testing.T) {
	var gotAuth, gotKey string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("Idempotency-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"pi_1","status":"requires_payment_method","client_secret":"sec"}`))
	}))
	defer srv.Close()

	c := NewClient(client.NewHttpClient(srv.URL), &stubTokens{tokens: []string{"tok"}}, logger.Nop())
	intent, err := c.CreateIntent(context.Background(), IntentRequest{AmountCents: 2500, Currency: "USD", IdempotencyKey: "d-1"})
	require.NoError(t, err)

	assert.Equal(t, "pi_1", intent.ID)
	assert.Equal(t, "sec", intent.ClientSecret)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "d-1", gotKey)
	assert.EqualValues(t, 2500, gotBody["amount"])
}

func TestCreateIntent_RetriesOnceAfter401(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.Header.Get("Authorization") == "Bearer stale" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"pi_2","status":"requires_payment_method"}`))
	}))
	defer srv.Close()

	tokens := &stubTokens{tokens: []string{"stale", "fresh"}}
	c := NewClient(client.NewHttpClient(srv.URL), tokens, logger.Nop())

	intent, err := c.CreateIntent(context.Background(), IntentRequest{AmountCents: 100, Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, "pi_2", intent.ID)
	assert.Equal(t, 2, hits)
	assert.Equal(t, 1, tokens.invalidated)
}

func TestCreateIntent_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"amount too small"}`))
	}))
	defer srv.Close()

	c := NewClient(client.NewHttpClient(srv.URL), &stubTokens{tokens: []string{"tok"}}, logger.Nop())
	_, err := c.CreateIntent(context.Background(), IntentRequest{AmountCents: 1, Currency: "USD"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProviderRejected))
	assert.Contains(t, err.Error(), "amount too small")
}
