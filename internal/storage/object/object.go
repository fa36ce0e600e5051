// Package object abstracts durable binary asset storage with signed-link
// issuance. Implementations are interface-driven so the issuance pipeline
// and the sweep can run against an in-memory fake in tests.
package object

import (
	"context"
	"time"
)

// CacheControl is set on every written object. Content at a given path never
// changes after creation, so short public caching is safe.
const CacheControl = "public, max-age=300"

// SignedURLTTL is the validity window of issued retrieval links.
const SignedURLTTL = 7 * 24 * time.Hour

// Info describes one stored object, enough for the reconciliation sweep.
type Info struct {
	Path         string
	LastModified time.Time
}

// Store writes raw bytes under deterministic paths and issues time-limited
// read-only retrieval URLs.
type Store interface {
	Put(ctx context.Context, path string, data []byte, contentType string) error
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	Remove(ctx context.Context, path string) error
}
