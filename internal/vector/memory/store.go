// Package memory provides an in-process vector store used in tests and
// single-binary deployments without a ChromaDB server.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/flacuna/ticketlens/internal/vector"
)

// Store is a simple in-memory vector.Store. Distances are squared
// Euclidean, matching ChromaDB's default collection space.
type Store struct {
	items map[string]vector.Item
	order []string // insertion order, keeps ListAll and tie-breaks stable
	mu    sync.RWMutex
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		items: make(map[string]vector.Item),
	}
}

// Add inserts items into the store. Re-adding an existing ID replaces
// its embedding and metadata but keeps its original position.
func (s *Store) Add(items ...vector.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if _, exists := s.items[item.ID]; !exists {
			s.order = append(s.order, item.ID)
		}
		s.items[item.ID] = item
	}
}

// ListAll returns every item in insertion order.
func (s *Store) ListAll(ctx context.Context) ([]vector.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.order) == 0 {
		return nil, vector.ErrEmptyCollection
	}

	items := make([]vector.Item, 0, len(s.order))
	for _, id := range s.order {
		items = append(items, s.items[id])
	}
	return items, nil
}

// Nearest returns up to k items closest to the embedding, nearest first.
// Ties are broken by insertion order.
func (s *Store) Nearest(ctx context.Context, embedding []float64, k int) ([]vector.Neighbor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		id       string
		distance float64
		pos      int
	}

	results := make([]scored, 0, len(s.order))
	for pos, id := range s.order {
		item := s.items[id]
		results = append(results, scored{
			id:       id,
			distance: squaredL2(embedding, item.Embedding),
			pos:      pos,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].distance != results[j].distance {
			return results[i].distance < results[j].distance
		}
		return results[i].pos < results[j].pos
	})

	if k > 0 && len(results) > k {
		results = results[:k]
	}

	neighbors := make([]vector.Neighbor, len(results))
	for i, r := range results {
		neighbors[i] = vector.Neighbor{ID: r.id, Distance: r.distance}
	}
	return neighbors, nil
}

// Count returns the number of stored items.
func (s *Store) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.items)), nil
}

// squaredL2 computes the squared Euclidean distance between two vectors.
// Dimension mismatches compare only the shared prefix.
func squaredL2(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
