// Package models contains domain models for ticketlens.
package models

import (
	"strings"
	"time"
)

// Ticket is one row of the tabular ticket source. Rows are keyed by the
// same identifier space as the embedding collection and carry the raw
// column values as exported by the ticket system.
type Ticket struct {
	Fields map[string]string `json:"fields"`
	ID     string            `json:"id"`
}

// Field alias lists. The ticket export mixes Portuguese and English column
// names depending on the exporting instance, so lookups walk a static list
// of candidate keys in priority order.
var (
	// CreatorAliases name the column holding who opened the ticket.
	CreatorAliases = []string{"Criador", "criador", "creator", "Creator", "reporter", "Reporter"}

	// SummaryAliases name the short human-readable summary. Used for both
	// embedding metadata and tabular rows.
	SummaryAliases = []string{"resumo", "Resumo", "summary", "Summary", "title"}

	// RowSummaryAliases extend SummaryAliases with the long-description
	// column, which only exists on full rows.
	RowSummaryAliases = []string{"resumo", "Resumo", "summary", "Summary", "title", "descricao", "Descrição", "description"}

	// CreatedAliases name the creation timestamp column.
	CreatedAliases = []string{"Criado", "criado", "created", "Created", "created_at"}

	// ResolvedAliases name the resolution timestamp column.
	ResolvedAliases = []string{"Resolvido", "resolvido", "resolved", "Resolved", "resolved_at"}

	// CreationDateAliases name a precomputed date-only column, preferred
	// over re-parsing the creation timestamp.
	CreationDateAliases = []string{"data_criacao", "creation_date"}
)

// timestampLayouts are tried in order when parsing ticket timestamps.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// Field returns the first non-blank value among the candidate keys,
// trimmed. Returns "" when no candidate matches.
func (t *Ticket) Field(aliases []string) string {
	for _, key := range aliases {
		if v, ok := t.Fields[key]; ok {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// Creator returns the trimmed creator of the ticket, or "".
func (t *Ticket) Creator() string {
	return t.Field(CreatorAliases)
}

// SummaryText returns the first summary-like text on the row, including
// the long-description fallback, or "".
func (t *Ticket) SummaryText() string {
	return t.Field(RowSummaryAliases)
}

// CreatedAt parses the creation timestamp. ok is false when the column is
// absent or unparseable.
func (t *Ticket) CreatedAt() (time.Time, bool) {
	return ParseTimestamp(t.Field(CreatedAliases))
}

// ResolvedAt parses the resolution timestamp. ok is false when the column
// is absent or unparseable.
func (t *Ticket) ResolvedAt() (time.Time, bool) {
	return ParseTimestamp(t.Field(ResolvedAliases))
}

// CreationDay derives the YYYY-MM-DD creation day of the row. A
// precomputed date column wins; otherwise the creation timestamp is
// parsed and truncated to its date portion. ok is false when neither
// source yields a parseable day.
func (t *Ticket) CreationDay() (string, bool) {
	if v := t.Field(CreationDateAliases); v != "" {
		// Accept either a bare date or a full timestamp in the column.
		if ts, ok := ParseTimestamp(v); ok {
			return ts.Format("2006-01-02"), true
		}
		return "", false
	}
	created, ok := t.CreatedAt()
	if !ok {
		return "", false
	}
	return created.Format("2006-01-02"), true
}

// ElapsedHours returns the creation-to-resolution duration in hours,
// clamped at zero. ok is false when either timestamp is missing or
// unparseable.
func (t *Ticket) ElapsedHours() (float64, bool) {
	created, ok := t.CreatedAt()
	if !ok {
		return 0, false
	}
	resolved, ok := t.ResolvedAt()
	if !ok {
		return 0, false
	}
	hours := resolved.Sub(created).Hours()
	if hours < 0 {
		hours = 0
	}
	return hours, true
}

// ParseTimestamp parses a ticket timestamp trying the known layouts in
// order.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
