package object

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("object not found")

// Info describes a stored object.
type Info struct {
	Key          string
	SizeBytes    int64
	LastModified time.Time
}

// ObjectStore defines the contract for saving and retrieving binary objects
// addressed by slash-separated keys.
type ObjectStore interface {
	// Put writes r at key, replacing any existing object. An empty
	// contentType is sniffed from the first bytes.
	Put(ctx context.Context, key string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// List returns objects whose key starts with prefix, ordered by key.
	List(ctx context.Context, prefix string) ([]Info, error)
	Delete(ctx context.Context, key string) error
}
