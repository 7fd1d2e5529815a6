// Package pharmakit is a client SDK for the MedLeaf pharmacy platform.
// It provides typed API clients for the platform's REST backend plus the
// client-state building blocks the storefront and clinic dashboards share:
// an optimistic local mirror of server-owned collections, a cart store, the
// doctor availability calendar, checkout validation, and session persistence.
//
// The backend itself (persistence, auth issuance, payments, uploads, email)
// is an external collaborator; this module is strictly the calling side.
package pharmakit

import (
	"context"
	"time"
)

// Logger interface - minimal logging interface
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Debug(msg string, fields map[string]interface{})
}

// Store is a small KV interface for client-persisted state (session tokens,
// guest carts, remembered emails). Implementations live in the session
// package; an in-memory store backs single-process use and a Redis store
// backs shared or surviving state.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// NoOpLogger provides a no-op logger implementation
type NoOpLogger struct{}

func (n *NoOpLogger) Info(msg string, fields map[string]interface{})  {}
func (n *NoOpLogger) Error(msg string, fields map[string]interface{}) {}
func (n *NoOpLogger) Warn(msg string, fields map[string]interface{})  {}
func (n *NoOpLogger) Debug(msg string, fields map[string]interface{}) {}
