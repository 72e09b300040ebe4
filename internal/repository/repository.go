// Package repository provides read access to the tabular ticket source.
package repository

import (
	"context"
	"errors"

	"github.com/flacuna/ticketlens/pkg/models"
)

// ErrUnavailable signals that the tabular source cannot be read. Callers
// degrade to metadata-only / zero-valued results instead of failing the
// report.
var ErrUnavailable = errors.New("repository: ticket source unavailable")

// Repository exposes row lookup and date windowing over the ticket
// source. Implementations must be safe for concurrent reads.
type Repository interface {
	// RowsFor fetches full rows for the given identifiers, in input
	// order, optionally restricted to a creation-date window.
	RowsFor(ctx context.Context, ids []string, window *models.Window) ([]*models.Ticket, error)

	// IDsInWindow filters the identifiers down to those whose derived
	// creation date falls inside the window. Rows with unparseable
	// creation timestamps are excluded.
	IDsInWindow(ctx context.Context, ids []string, window *models.Window) ([]string, error)

	// ElapsedHours sums creation-to-resolution hours across the rows,
	// clamping negative deltas to zero and skipping rows with missing or
	// unparseable timestamps.
	ElapsedHours(rows []*models.Ticket) float64
}

// SumElapsedHours is the shared elapsed-hours aggregation used by all
// repository implementations.
func SumElapsedHours(rows []*models.Ticket) float64 {
	var total float64
	for _, row := range rows {
		if hours, ok := row.ElapsedHours(); ok {
			total += hours
		}
	}
	return total
}
