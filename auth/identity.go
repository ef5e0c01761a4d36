// Package auth identifies callers and decides what they may do.
package auth

import (
	"context"
)

// Service is a client of the gateway. Every request is made on behalf of a service, optionally
// also on behalf of a user.
type Service string

const (
	ServiceSerlo                 Service = "serlo.org"
	ServiceSerloCloudflareWorker Service = "serlo.org-cloudflare-worker"
	ServiceSerloCacheWorker      Service = "serlo.org-cache-worker"
)

// Identity is the authenticated caller.
type Identity struct {
	Service Service
	UserID  *int
}

type identityKey struct{}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// FromContext returns the caller identity, or nil for anonymous requests.
func FromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(identityKey{}).(*Identity)
	return identity
}
