// Package store provides the flat key-value namespace the reading list
// lives in. Records are opaque JSON at this layer; interpretation of item
// vs reserved keys happens in the list package.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrQuotaExceeded      = errors.New("storage quota exceeded")
	ErrKeyEmpty           = errors.New("key cannot be empty")
)

// Namespace is a snapshot of the raw key space.
type Namespace map[string]json.RawMessage

// KV is the host key-value store contract. All writes either succeed
// completely or report an error; callers never assume success without
// confirmation.
type KV interface {
	// GetAll returns the entire namespace.
	GetAll(ctx context.Context) (Namespace, error)

	// Get returns the records for the given keys. Missing keys are simply
	// absent from the result, not an error.
	Get(ctx context.Context, keys ...string) (Namespace, error)

	// Set writes every record in the mapping.
	Set(ctx context.Context, records Namespace) error

	// Remove deletes the given keys. Missing keys are ignored.
	Remove(ctx context.Context, keys ...string) error
}

// Marshal encodes v into a raw record.
func Marshal(v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}

	return b, nil
}
