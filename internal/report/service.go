package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/flacuna/ticketlens/internal/cluster"
	"github.com/flacuna/ticketlens/internal/narrative"
	"github.com/flacuna/ticketlens/internal/repository"
	"github.com/flacuna/ticketlens/internal/vector"
	"github.com/flacuna/ticketlens/pkg/models"
)

// Service generates recurrence reports: it pulls the full embedding
// collection, clusters it, aggregates ticket rows over the requested
// window, and labels each retained group.
type Service struct {
	store      vector.Store
	repo       repository.Repository
	summarizer narrative.Summarizer
	opts       cluster.Options
}

// NewService creates a report service. repo and summarizer may be nil;
// aggregates degrade to zero values and the narrative is skipped.
func NewService(store vector.Store, repo repository.Repository, summarizer narrative.Summarizer, opts cluster.Options) *Service {
	return &Service{
		store:      store,
		repo:       repo,
		summarizer: summarizer,
		opts:       opts,
	}
}

// Generate produces a recurrence report for the given window. A nil
// window means the whole collection. An empty vector collection yields
// an empty report, not an error; a store failure is fatal.
func (s *Service) Generate(ctx context.Context, window *models.Window, withNarrative bool) (*models.RecurrenceReport, error) {
	runID := uuid.NewString()
	started := time.Now()

	rep := &models.RecurrenceReport{
		RunID:            runID,
		Window:           window,
		Groups:           []models.ClusterSummary{},
		Aggregates:       emptyAggregates(),
		GeneratedAt:      started.UTC().Format(time.RFC3339),
		GeneratedAtEpoch: started.UnixMilli(),
	}

	items, err := s.store.ListAll(ctx)
	if err != nil {
		if errors.Is(err, vector.ErrEmptyCollection) {
			log.Info().Str("run_id", runID).Msg("Vector collection empty, returning empty report")
			return rep, nil
		}
		return nil, fmt.Errorf("list vector collection: %w", err)
	}

	items, err = s.filterWindow(ctx, items, window)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		log.Info().Str("run_id", runID).Msg("No items in window, returning empty report")
		return rep, nil
	}

	clusters, err := cluster.NewEngine(s.store, s.opts).Run(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("cluster run %s: %w", runID, err)
	}

	ids := make([]string, 0, len(items))
	metadataByID := make(map[string]map[string]any, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
		metadataByID[it.ID] = it.Metadata
	}

	rep.Aggregates = Aggregate(ctx, s.repo, ids, window)
	rep.Groups = s.buildGroups(ctx, clusters, metadataByID)

	if withNarrative && s.summarizer != nil {
		overview, ok := s.summarizer.Summarize(ctx, narrative.Input{
			Window:        window,
			Groups:        rep.Groups,
			CreatorCounts: rep.Aggregates.CreatorCounts,
			DailyCounts:   rep.Aggregates.DailyCounts,
		})
		if ok {
			rep.Overview = overview
		}
	}

	log.Info().
		Str("run_id", runID).
		Int("items", len(items)).
		Int("groups", len(rep.Groups)).
		Dur("elapsed", time.Since(started)).
		Msg("Recurrence report generated")
	return rep, nil
}

// filterWindow drops items whose ticket rows fall outside the window.
// With no window the items pass through untouched. If the repository
// cannot resolve the window the run degrades to an empty item set
// rather than failing, unless the context itself was cancelled.
func (s *Service) filterWindow(ctx context.Context, items []vector.Item, window *models.Window) ([]vector.Item, error) {
	if window == nil {
		return items, nil
	}
	if s.repo == nil {
		log.Warn().Msg("Window requested without a ticket repository, returning empty set")
		return nil, nil
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	kept, err := s.repo.IDsInWindow(ctx, ids, window)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn().Err(err).Str("window", window.String()).Msg("Window filter failed, returning empty set")
		return nil, nil
	}

	keep := make(map[string]struct{}, len(kept))
	for _, id := range kept {
		keep[id] = struct{}{}
	}
	filtered := items[:0:0]
	for _, it := range items {
		if _, ok := keep[it.ID]; ok {
			filtered = append(filtered, it)
		}
	}
	return filtered, nil
}

// buildGroups turns retained clusters into labeled summaries. Group
// names follow rank order after sorting, not seed discovery order.
func (s *Service) buildGroups(ctx context.Context, clusters []cluster.Cluster, metadataByID map[string]map[string]any) []models.ClusterSummary {
	groups := make([]models.ClusterSummary, 0, len(clusters))
	for i, c := range clusters {
		var rows []*models.Ticket
		var hours float64
		if s.repo != nil {
			var err error
			rows, err = s.repo.RowsFor(ctx, c.Members, nil)
			if err != nil {
				log.Warn().Err(err).Str("seed", c.SeedID).Msg("Row lookup for cluster failed")
				rows = nil
			}
			hours = s.repo.ElapsedHours(rows)
		}

		representative, samples := Label(c, metadataByID, rows)
		groups = append(groups, models.ClusterSummary{
			GroupName:             fmt.Sprintf("Grupo %d", i+1),
			RepresentativeSummary: representative,
			SampleSummaries:       samples,
			Occurrences:           c.Size(),
			TotalHours:            hours,
		})
	}
	return groups
}

func emptyAggregates() models.WindowedAggregates {
	return models.WindowedAggregates{
		CreatorCounts: []models.CreatorCount{},
		DailyCounts:   []models.DailyCount{},
	}
}
