package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flacuna/ticketlens/internal/vector"
)

func TestListAll_Empty(t *testing.T) {
	store := NewStore()
	_, err := store.ListAll(context.Background())
	assert.ErrorIs(t, err, vector.ErrEmptyCollection)
}

func TestListAll_InsertionOrder(t *testing.T) {
	store := NewStore()
	store.Add(
		vector.Item{ID: "b", Embedding: []float64{1}},
		vector.Item{ID: "a", Embedding: []float64{2}},
		vector.Item{ID: "c", Embedding: []float64{3}},
	)

	items, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, "a", items[1].ID)
	assert.Equal(t, "c", items[2].ID)
}

func TestAdd_ReplaceKeepsPosition(t *testing.T) {
	store := NewStore()
	store.Add(
		vector.Item{ID: "a", Embedding: []float64{1}},
		vector.Item{ID: "b", Embedding: []float64{2}},
	)
	store.Add(vector.Item{ID: "a", Embedding: []float64{9}})

	items, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, []float64{9}, items[0].Embedding)
}

func TestNearest_OrdersByDistance(t *testing.T) {
	store := NewStore()
	store.Add(
		vector.Item{ID: "far", Embedding: []float64{10}},
		vector.Item{ID: "near", Embedding: []float64{1}},
		vector.Item{ID: "mid", Embedding: []float64{5}},
	)

	neighbors, err := store.Nearest(context.Background(), []float64{0}, 3)
	require.NoError(t, err)
	require.Len(t, neighbors, 3)

	assert.Equal(t, "near", neighbors[0].ID)
	assert.Equal(t, float64(1), neighbors[0].Distance) // squared L2
	assert.Equal(t, "mid", neighbors[1].ID)
	assert.Equal(t, "far", neighbors[2].ID)
}

func TestNearest_TieBrokenByInsertionOrder(t *testing.T) {
	store := NewStore()
	store.Add(
		vector.Item{ID: "second", Embedding: []float64{2}},
		vector.Item{ID: "first", Embedding: []float64{-2}},
	)

	neighbors, err := store.Nearest(context.Background(), []float64{0}, 2)
	require.NoError(t, err)
	require.Len(t, neighbors, 2)
	assert.Equal(t, "second", neighbors[0].ID)
	assert.Equal(t, "first", neighbors[1].ID)
}

func TestNearest_KLimitsResults(t *testing.T) {
	store := NewStore()
	store.Add(
		vector.Item{ID: "a", Embedding: []float64{1}},
		vector.Item{ID: "b", Embedding: []float64{2}},
		vector.Item{ID: "c", Embedding: []float64{3}},
	)

	neighbors, err := store.Nearest(context.Background(), []float64{0}, 2)
	require.NoError(t, err)
	assert.Len(t, neighbors, 2)
}

func TestCount(t *testing.T) {
	store := NewStore()
	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	store.Add(vector.Item{ID: "a", Embedding: []float64{1}})
	count, err = store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
