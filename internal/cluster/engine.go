// Package cluster groups embedded tickets into similarity clusters using
// bounded nearest-neighbor search against the vector store.
package cluster

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/flacuna/ticketlens/internal/vector"
)

// Options configure one clustering run.
type Options struct {
	// DistanceThreshold is the inclusive upper bound on neighbor distance.
	// A neighbor at exactly the threshold distance joins the cluster.
	DistanceThreshold float64

	// MaxNeighbors bounds the fan-out of each seed's neighbor query.
	MaxNeighbors int

	// MinClusterSize discards clusters below this cardinality.
	MinClusterSize int

	// MaxClusters caps the number of retained clusters.
	MaxClusters int
}

// Cluster is one group of ticket identifiers judged similar. Members are
// disjoint across clusters of a run; the seed is always Members[0].
type Cluster struct {
	SeedID  string
	Members []string
}

// Size returns the cluster cardinality.
func (c Cluster) Size() int { return len(c.Members) }

// Engine runs greedy one-hop clustering over an embedding snapshot.
// Each seed pulls in its direct neighbors within the distance threshold;
// those neighbors never seed further expansion, so the result
// under-clusters relative to a transitive similarity closure. That bound
// keeps each run at one neighbor query per seed.
type Engine struct {
	store vector.Store
	opts  Options
}

// NewEngine creates a clustering engine over the given store.
func NewEngine(store vector.Store, opts Options) *Engine {
	return &Engine{store: store, opts: opts}
}

// Run clusters the given items and returns the retained clusters, sorted
// by cardinality descending with seed discovery order as tiebreak, capped
// at MaxClusters. Items must already be filtered to the target window.
// A neighbor-query failure aborts the run; a partial clustering is worse
// than an explicit failure.
func (e *Engine) Run(ctx context.Context, items []vector.Item) ([]Cluster, error) {
	formed, err := e.formClusters(ctx, items)
	if err != nil {
		return nil, err
	}

	retained := make([]Cluster, 0, len(formed))
	for _, c := range formed {
		if c.Size() >= e.opts.MinClusterSize {
			retained = append(retained, c)
		}
	}

	// Stable sort keeps seed discovery order for equal sizes.
	sort.SliceStable(retained, func(i, j int) bool {
		return retained[i].Size() > retained[j].Size()
	})

	if e.opts.MaxClusters > 0 && len(retained) > e.opts.MaxClusters {
		retained = retained[:e.opts.MaxClusters]
	}

	log.Debug().
		Int("items", len(items)).
		Int("formed", len(formed)).
		Int("retained", len(retained)).
		Float64("threshold", e.opts.DistanceThreshold).
		Msg("Clustering pass complete")

	return retained, nil
}

// formClusters performs the greedy single pass: every item is assigned to
// exactly one cluster attempt, so the union of formed clusters equals the
// input identifier set.
func (e *Engine) formClusters(ctx context.Context, items []vector.Item) ([]Cluster, error) {
	if len(items) == 0 {
		return nil, nil
	}

	pool := make(map[string]bool, len(items))
	for _, item := range items {
		pool[item.ID] = true
	}

	var clusters []Cluster
	for _, seed := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !pool[seed.ID] {
			continue // already absorbed by an earlier seed
		}
		delete(pool, seed.ID)

		members := []string{seed.ID}

		neighbors, err := e.store.Nearest(ctx, seed.Embedding, e.opts.MaxNeighbors)
		if err != nil {
			return nil, fmt.Errorf("neighbor query for seed %s: %w", seed.ID, err)
		}

		for _, n := range neighbors {
			if n.Distance <= e.opts.DistanceThreshold && pool[n.ID] {
				members = append(members, n.ID)
				delete(pool, n.ID)
			}
		}

		clusters = append(clusters, Cluster{SeedID: seed.ID, Members: members})
	}

	return clusters, nil
}
