// Package cache keeps serialized recipe listings between requests.
package cache

import "context"

const (
	KeyRecipes = "recetas:all"
	KeyHome    = "recetas:home"
)

// Cache is best effort: a miss and a backend failure look the same to
// callers. Implementations log their own errors.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
	Invalidate(ctx context.Context, keys ...string)
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool) { return nil, false }

func (Nop) Set(context.Context, string, []byte) {}

func (Nop) Invalidate(context.Context, ...string) {}
