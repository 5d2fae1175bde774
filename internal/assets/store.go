// Package assets keeps uploaded files consistent with the records that
// reference them.
package assets

import (
	"context"
	"errors"
	"io"
)

// ErrExists is returned by Store.Save when the key is already taken.
var ErrExists = errors.New("asset already exists")

// Store is a flat blob namespace addressed by slash-separated keys.
// Open returns common.ErrNotFound for unknown keys; Delete of an unknown
// key is not an error.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
