package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
)

type IdempotencyStore interface {
	Get(key string) (*CachedResponse, bool)
	Set(key string, response *CachedResponse)
	Stop()
}

type CachedResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	CreatedAt  time.Time
}

// CacheIdempotencyStore keeps replayable responses in a go-cache with a TTL.
type CacheIdempotencyStore struct {
	cache *cache.Cache
}

func NewCacheIdempotencyStore(ttl time.Duration) *CacheIdempotencyStore {
	return &CacheIdempotencyStore{cache: cache.New(ttl, ttl/2+time.Minute)}
}

func (s *CacheIdempotencyStore) Get(key string) (*CachedResponse, bool) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*CachedResponse), true
}

func (s *CacheIdempotencyStore) Set(key string, response *CachedResponse) {
	response.CreatedAt = time.Now()
	s.cache.SetDefault(key, response)
}

// Stop drops every cached response. The go-cache janitor exits once the
// cache is garbage collected.
func (s *CacheIdempotencyStore) Stop() {
	s.cache.Flush()
}

type responseCapture struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (rc *responseCapture) WriteHeader(statusCode int) {
	rc.statusCode = statusCode
	rc.ResponseWriter.WriteHeader(statusCode)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	rc.body.Write(b)
	return rc.ResponseWriter.Write(b)
}

// Idempotency replays the first successful response for a key. Keys are
// scoped by caller, method and path so they cannot collide across users.
func Idempotency(store IdempotencyStore, headerName string) func(http.Handler) http.Handler {
	if headerName == "" {
		headerName = "Idempotency-Key"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(headerName)
			if key == "" || r.Method == http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}
			key = UserIDFrom(r.Context()) + "|" + r.Method + "|" + r.URL.Path + "|" + key

			if cached, found := store.Get(key); found {
				for k, values := range cached.Headers {
					for _, value := range values {
						w.Header().Add(k, value)
					}
				}
				w.Header().Set("Idempotent-Replayed", "true")
				w.WriteHeader(cached.StatusCode)
				_, _ = w.Write(cached.Body)
				return
			}

			capture := &responseCapture{ResponseWriter: w, statusCode: http.StatusOK, body: &bytes.Buffer{}}
			next.ServeHTTP(capture, r)

			if capture.statusCode >= 200 && capture.statusCode < 300 {
				headers := w.Header().Clone()
				headers.Del(RequestIDHeader)
				store.Set(key, &CachedResponse{
					StatusCode: capture.statusCode,
					Headers:    headers,
					Body:       capture.body.Bytes(),
				})
			}
		})
	}
}
