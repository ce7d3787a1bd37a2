// Package credentials caches supplier access tokens and session cookies.
//
// A credential is fetched over the network only when none is cached for an
// identity or the cached one has expired. Expiry is pulled forward by
// SafetyMargin so a token is never presented in its final minute.
//
// Concurrent misses for the same identity share a single authentication
// round-trip. Failed authentications are not cached: the next call retries.
package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"supplier-gateway/internal/metrics"
)

// SafetyMargin is subtracted from every supplier-provided lifetime.
const SafetyMargin = 60 * time.Second

// Token is a cached bearer token or session cookie.
// Adapters receive copies and never mutate the cached entry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Valid reports whether the token may still be used at now.
func (t Token) Valid(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt)
}

// Authenticator performs a supplier-specific handshake. It is invoked only on
// a cache miss and returns the credential value and its lifetime.
type Authenticator func(ctx context.Context) (value string, ttl time.Duration, err error)

// Identity builds the cache key for a supplier principal (client id or username).
func Identity(supplier, principal string) string {
	return fmt.Sprintf("%s_%s", strings.ToLower(supplier), principal)
}

// Cache returns valid credentials per identity.
type Cache struct {
	store   Store
	now     func() time.Time
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithStore replaces the default in-memory store.
func WithStore(s Store) Option {
	return func(c *Cache) { c.store = s }
}

// WithClock replaces time.Now, for deterministic expiry tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithMetrics records hit/miss/error counts.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// WithLogger sets the logger used for cache misses and auth failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// New creates a Cache backed by a MemoryStore unless overridden.
func New(opts ...Option) *Cache {
	c := &Cache{
		store:  NewMemoryStore(),
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Obtain returns a valid credential for identity, calling authenticate on a
// miss or after expiry. Authenticator errors are returned unchanged so the
// adapter can label them; nothing is stored on failure. A caller whose ctx ends
// while a shared handshake is in flight returns ctx.Err().
func (c *Cache) Obtain(ctx context.Context, identity string, authenticate Authenticator) (Token, error) {
	if tok, ok := c.lookup(identity); ok {
		c.metrics.ObserveCredential(metrics.CredentialHit)
		return tok, nil
	}

	ch := c.group.DoChan(identity, func() (any, error) {
		// A flight that finished just before this one may have stored a token.
		if tok, ok := c.lookup(identity); ok {
			return tok, nil
		}

		c.logger.Debug("credential cache miss", slog.String("identity", identity))

		// Callers sharing this flight must not fail because the first one gave up.
		value, ttl, err := authenticate(context.WithoutCancel(ctx))
		if err != nil {
			return Token{}, err
		}

		tok := Token{
			Value:     value,
			ExpiresAt: c.now().Add(ttl - SafetyMargin),
		}
		c.store.Put(identity, tok)
		return tok, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		// The flight keeps running for callers still waiting on it.
		return Token{}, ctx.Err()
	}
	if err := res.Err; err != nil {
		c.metrics.ObserveCredential(metrics.CredentialError)
		c.logger.Warn("credential authentication failed",
			slog.String("identity", identity),
			slog.String("error", err.Error()),
		)
		return Token{}, err
	}

	c.metrics.ObserveCredential(metrics.CredentialMiss)
	return res.Val.(Token), nil
}

// Invalidate drops the cached credential for identity, forcing the next
// Obtain to authenticate. Used when a supplier refuses a cached token.
func (c *Cache) Invalidate(identity string) {
	c.store.Delete(identity)
}

func (c *Cache) lookup(identity string) (Token, bool) {
	tok, ok := c.store.Get(identity)
	if !ok || !tok.Valid(c.now()) {
		return Token{}, false
	}
	return tok, true
}
