package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned when a key does not exist in storage
var ErrKeyNotFound = errors.New("key not found")

// CacheStorage is a TTL-aware key/value store for scraped content.
// Values are opaque strings (JSON-encoded records). Expired entries
// behave exactly like absent entries.
type CacheStorage interface {
	// Get returns the value for key, or ok=false when the key is absent
	// or expired. A non-nil error indicates a storage-level failure.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key. A ttl of zero stores without expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// KeyValuePair represents a settings entry in the KV store
type KeyValuePair struct {
	Key         string    `json:"key" badgerhold:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// KeyValueStorage provides persistent settings storage (API keys, variables)
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, description string) error
	Delete(ctx context.Context, key string) error
	GetAll(ctx context.Context) (map[string]string, error)
}
