package report

import (
	"strings"

	"github.com/flacuna/ticketlens/internal/cluster"
	"github.com/flacuna/ticketlens/pkg/models"
)

// PlaceholderSummary is used when neither metadata nor rows yield a
// representative text for a group. It is itself excluded from sample
// selection, matched case-insensitively.
const PlaceholderSummary = "Nome não encontrado"

// maxSamples caps the non-duplicate sample texts per group.
const maxSamples = 3

// Label selects the representative text and up to three sample texts for
// a cluster. Metadata is scanned first in member order; tabular rows are
// the fallback. Re-labeling the same cluster against unchanged data
// yields the same result.
func Label(c cluster.Cluster, metadataByID map[string]map[string]any, rows []*models.Ticket) (string, []string) {
	representative := representativeText(c, metadataByID, rows)
	samples := sampleTexts(c, metadataByID, rows, representative)
	return representative, samples
}

// representativeText scans cluster members' metadata in the fixed alias
// priority order, then falls back to row text (which also checks the
// long-description alias), then to the placeholder.
func representativeText(c cluster.Cluster, metadataByID map[string]map[string]any, rows []*models.Ticket) string {
	for _, id := range c.Members {
		if text := metadataSummary(metadataByID[id]); text != "" {
			return text
		}
	}
	for _, row := range rows {
		if text := row.SummaryText(); text != "" {
			return text
		}
	}
	return PlaceholderSummary
}

// sampleTexts collects distinct summary strings from metadata first,
// then rows, excluding the representative and the placeholder.
func sampleTexts(c cluster.Cluster, metadataByID map[string]map[string]any, rows []*models.Ticket, representative string) []string {
	seen := map[string]bool{
		strings.ToLower(strings.TrimSpace(representative)): true,
		strings.ToLower(PlaceholderSummary):                true,
	}

	samples := make([]string, 0, maxSamples)
	appendSample := func(text string) bool {
		if text == "" {
			return len(samples) < maxSamples
		}
		key := strings.ToLower(text)
		if !seen[key] {
			seen[key] = true
			samples = append(samples, text)
		}
		return len(samples) < maxSamples
	}

	for _, id := range c.Members {
		if !appendSample(metadataSummary(metadataByID[id])) {
			return samples
		}
	}
	for _, row := range rows {
		if !appendSample(row.SummaryText()) {
			return samples
		}
	}
	return samples
}

// metadataSummary returns the first non-blank summary-like value from an
// item's metadata, trimmed. Vector store metadata carries arbitrary JSON
// values; only strings count.
func metadataSummary(metadata map[string]any) string {
	if metadata == nil {
		return ""
	}
	for _, key := range models.SummaryAliases {
		if raw, ok := metadata[key]; ok {
			if text, ok := raw.(string); ok {
				if trimmed := strings.TrimSpace(text); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return ""
}
