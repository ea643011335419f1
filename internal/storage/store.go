// Package storage keeps uploaded documents in object storage.
package storage

import "context"

// ObjectStore writes and removes opaque objects by key.
type ObjectStore interface {
	Put(ctx context.Context, key string, content []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns a location for key when no public base URL is configured.
	URL(key string) string
}
