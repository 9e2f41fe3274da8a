package tokencache

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientCredentials fetches tokens with the OAuth2 client-credentials grant.
type ClientCredentials struct {
	config     clientcredentials.Config
	httpClient *http.Client
}

func NewClientCredentials(tokenURL, clientID, clientSecret string, scopes ...string) *ClientCredentials {
	return &ClientCredentials{
		config: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			Scopes:       scopes,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
	}
}

// WithHTTPClient sets the client used for token requests.
func (c *ClientCredentials) WithHTTPClient(hc *http.Client) *ClientCredentials {
	c.httpClient = hc
	return c
}

func (c *ClientCredentials) Fetch(ctx context.Context) (Token, error) {
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}

	tok, err := c.config.Token(ctx)
	if err != nil {
		return Token{}, fmt.Errorf("client credentials token request failed: %w", err)
	}

	return Token{
		AccessToken: tok.AccessToken,
		Expiry:      tok.Expiry,
	}, nil
}
