// Package report assembles the ticket recurrence report: one clustering
// pass, one aggregation pass, and one labeling pass over an embedding
// snapshot plus the tabular rows.
package report

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/flacuna/ticketlens/internal/repository"
	"github.com/flacuna/ticketlens/pkg/models"
)

// Aggregate computes creator counts, daily counts, and total elapsed
// hours over identifiers already filtered to the target window.
// Best-effort: a repository failure yields zero-valued aggregates rather
// than failing the report.
func Aggregate(ctx context.Context, repo repository.Repository, ids []string, window *models.Window) models.WindowedAggregates {
	empty := models.WindowedAggregates{
		CreatorCounts: []models.CreatorCount{},
		DailyCounts:   []models.DailyCount{},
	}
	if repo == nil || len(ids) == 0 {
		return empty
	}

	rows, err := repo.RowsFor(ctx, ids, window)
	if err != nil {
		log.Warn().Err(err).Msg("Ticket repository unavailable, aggregates degraded to zero")
		return empty
	}

	return aggregateRows(rows, repo)
}

// aggregateRows builds the aggregates from the well-formed row subset.
func aggregateRows(rows []*models.Ticket, repo repository.Repository) models.WindowedAggregates {
	// Creator counts: keyed case-insensitively on the trimmed name, the
	// first-seen exact string is the one reported.
	type creatorEntry struct {
		display string
		count   int
	}
	var order []string
	byKey := make(map[string]*creatorEntry)
	for _, row := range rows {
		creator := row.Creator()
		if creator == "" {
			continue
		}
		key := strings.ToLower(creator)
		entry, ok := byKey[key]
		if !ok {
			entry = &creatorEntry{display: creator}
			byKey[key] = entry
			order = append(order, key)
		}
		entry.count++
	}

	creators := make([]models.CreatorCount, 0, len(order))
	for _, key := range order {
		creators = append(creators, models.CreatorCount{
			Creator: byKey[key].display,
			Count:   byKey[key].count,
		})
	}
	// Stable sort keeps first-seen order for equal counts.
	sort.SliceStable(creators, func(i, j int) bool {
		return creators[i].Count > creators[j].Count
	})

	// Daily counts: rows with no parseable day are skipped. Day strings
	// are ISO dates, so the lexicographic sort is chronological.
	dailyByDay := make(map[string]int)
	for _, row := range rows {
		if day, ok := row.CreationDay(); ok {
			dailyByDay[day]++
		}
	}
	days := make([]string, 0, len(dailyByDay))
	for day := range dailyByDay {
		days = append(days, day)
	}
	sort.Strings(days)
	daily := make([]models.DailyCount, 0, len(days))
	for _, day := range days {
		daily = append(daily, models.DailyCount{Day: day, Count: dailyByDay[day]})
	}

	return models.WindowedAggregates{
		CreatorCounts: creators,
		DailyCounts:   daily,
		TotalHours:    repo.ElapsedHours(rows),
	}
}
