// Package session persists the current session identity in an external
// key-value slot. The value is the scrubbed user serialized as JSON; the
// backend (memory, Redis, Postgres) is chosen by the host.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Clark-Hu/course-tracker/internal/domain"
)

// DefaultKey is the session marker used when the context carries none.
const DefaultKey = "currentUser"

// Store is a key-value slot holding at most one user per key.
type Store interface {
	Get(ctx context.Context, key string) (domain.User, bool, error)
	Put(ctx context.Context, key string, user domain.User) error
	Delete(ctx context.Context, key string) error
}

// HealthChecker is implemented by backends that can verify connectivity.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type keyCtx struct{}

// WithKey scopes session operations on ctx to the given slot key.
func WithKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, keyCtx{}, key)
}

// KeyFrom returns the slot key carried by ctx, or fallback when absent.
func KeyFrom(ctx context.Context, fallback string) string {
	if key, ok := ctx.Value(keyCtx{}).(string); ok && key != "" {
		return key
	}
	if fallback == "" {
		return DefaultKey
	}
	return fallback
}

func encodeUser(user domain.User) ([]byte, error) {
	payload, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("encode session user: %w", err)
	}
	return payload, nil
}

func decodeUser(payload []byte) (domain.User, error) {
	var user domain.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return domain.User{}, fmt.Errorf("decode session user: %w", err)
	}
	return user, nil
}
