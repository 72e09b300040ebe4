package models

// ClusterSummary represents one retained group of near-duplicate tickets.
// Derived once per report run and never mutated.
type ClusterSummary struct {
	GroupName             string   `json:"group_name"`
	RepresentativeSummary string   `json:"representative_summary"`
	SampleSummaries       []string `json:"sample_summaries"`
	Occurrences           int      `json:"occurrences"`
	TotalHours            float64  `json:"total_hours"`
}

// CreatorCount is one creator with its ticket count.
type CreatorCount struct {
	Creator string `json:"creator"`
	Count   int    `json:"count"`
}

// DailyCount is one creation day (YYYY-MM-DD) with its ticket count.
type DailyCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// WindowedAggregates holds the per-creator and per-day counts plus the
// total elapsed hours for the (possibly window-filtered) row set.
// CreatorCounts are sorted descending by count, DailyCounts ascending by
// day.
type WindowedAggregates struct {
	CreatorCounts []CreatorCount `json:"creator_counts"`
	DailyCounts   []DailyCount   `json:"daily_counts"`
	TotalHours    float64        `json:"total_hours"`
}

// Overview is the optional narrative produced by the summarizer.
type Overview struct {
	Period      string   `json:"period"`
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
}

// RecurrenceReport is the full output of one report-generation run.
type RecurrenceReport struct {
	RunID            string             `json:"run_id"`
	GeneratedAt      string             `json:"generated_at"`
	Window           *Window            `json:"window,omitempty"`
	Groups           []ClusterSummary   `json:"groups"`
	Aggregates       WindowedAggregates `json:"aggregates"`
	Overview         *Overview          `json:"overview,omitempty"`
	GeneratedAtEpoch int64              `json:"generated_at_epoch"`
}
