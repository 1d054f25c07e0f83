// Package storage holds the blob store for uploaded documents and event
// flyers. Imported spreadsheets never land here; they are parsed from
// memory and discarded.
package storage

import (
	"context"
	"io"
)

type Storage interface {
	Upload(ctx context.Context, key string, data io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// PublicURL returns the browser-reachable URL for a stored object.
	PublicURL(key string) string
}
