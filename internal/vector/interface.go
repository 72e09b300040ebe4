// Package vector provides common interfaces for embedding store implementations.
package vector

import (
	"context"
	"errors"
)

// Item is one embedded ticket: identifier, embedding vector, and the
// metadata stored alongside it in the collection.
type Item struct {
	Metadata  map[string]any
	ID        string
	Embedding []float64
}

// Neighbor is one nearest-neighbor result with its distance to the query
// embedding.
type Neighbor struct {
	ID       string
	Distance float64
}

var (
	// ErrEmptyCollection signals that the store holds no items. Callers
	// treat this as "nothing to report", not a hard failure.
	ErrEmptyCollection = errors.New("vector: collection is empty")

	// ErrStoreUnavailable signals that the store cannot be reached or the
	// target collection does not exist. Fatal for clustering.
	ErrStoreUnavailable = errors.New("vector: store unavailable")
)

// Store exposes read access to a fixed embedding collection for the
// duration of one report run. Implementations must be safe for
// concurrent reads.
type Store interface {
	// ListAll returns every item in the collection with embeddings and
	// metadata. Returns ErrEmptyCollection when the collection is empty.
	ListAll(ctx context.Context) ([]Item, error)

	// Nearest returns up to k nearest neighbors of the embedding, closest
	// first, each with its distance.
	Nearest(ctx context.Context, embedding []float64, k int) ([]Neighbor, error)

	// Count returns the number of items in the collection.
	Count(ctx context.Context) (int64, error)
}
