// Package tokencache keeps one short-lived access token per upstream API and
// refreshes it shortly before it expires.
package tokencache

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"gather/pkg/logger"
)

const (
	DefaultBuffer         = 60 * time.Second
	DefaultRefreshTimeout = 10 * time.Second
)

var ErrEmptyToken = errors.New("tokencache: fetcher returned an empty token")

type Token struct {
	AccessToken string
	// Expiry is zero for tokens that never expire.
	Expiry time.Time
}

type Fetcher interface {
	Fetch(ctx context.Context) (Token, error)
}

type FetcherFunc func(ctx context.Context) (Token, error)

func (f FetcherFunc) Fetch(ctx context.Context) (Token, error) {
	return f(ctx)
}

// Cache is safe for concurrent use. At most one refresh is in flight at a
// time; callers arriving during a refresh wait for its result.
type Cache struct {
	fetcher Fetcher
	buffer  time.Duration
	timeout time.Duration
	now     func() time.Time
	log     *logger.Logger

	mu    sync.Mutex
	token Token

	group singleflight.Group
}

type Option func(*Cache)

// WithBuffer sets how long before expiry a token stops being handed out.
func WithBuffer(d time.Duration) Option {
	return func(c *Cache) { c.buffer = d }
}

// WithRefreshTimeout bounds a single refresh, independent of the caller that
// started it.
func WithRefreshTimeout(d time.Duration) Option {
	return func(c *Cache) { c.timeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func WithLogger(log *logger.Logger) Option {
	return func(c *Cache) { c.log = log }
}

func New(fetcher Fetcher, opts ...Option) *Cache {
	c := &Cache{
		fetcher: fetcher,
		buffer:  DefaultBuffer,
		timeout: DefaultRefreshTimeout,
		now:     time.Now,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetValidToken returns the cached access token while it is outside the
// expiry buffer, and fetches a new one otherwise.
func (c *Cache) GetValidToken(ctx context.Context) (string, error) {
	if tok, ok := c.cached(); ok {
		return tok, nil
	}

	ch := c.group.DoChan("token", func() (any, error) {
		if tok, ok := c.cached(); ok {
			return tok, nil
		}
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.refresh(refreshCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Invalidate drops the cached token, e.g. after the upstream rejected it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.token = Token{}
	c.mu.Unlock()
}

func (c *Cache) cached() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token.AccessToken == "" {
		return "", false
	}
	if c.token.Expiry.IsZero() || c.now().Add(c.buffer).Before(c.token.Expiry) {
		return c.token.AccessToken, true
	}
	return "", false
}

func (c *Cache) refresh(ctx context.Context) (string, error) {
	c.log.Debug("Refreshing access token")

	tok, err := c.fetcher.Fetch(ctx)
	if err != nil {
		c.log.Warn("Failed to refresh access token", "error", err)
		return "", err
	}
	if tok.AccessToken == "" {
		return "", ErrEmptyToken
	}

	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()

	c.log.Debug("Access token refreshed", "expires_at", tok.Expiry)
	return tok.AccessToken, nil
}
