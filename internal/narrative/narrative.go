// Package narrative produces the optional executive overview for a
// recurrence report via an LLM endpoint. Generation is best-effort: an
// ordered chain of strategies is tried and any non-success simply means
// the report ships without a narrative.
package narrative

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/flacuna/ticketlens/pkg/models"
)

// Input is the structured report data handed to the summarizer.
type Input struct {
	Window        *models.Window
	Groups        []models.ClusterSummary
	CreatorCounts []models.CreatorCount
	DailyCounts   []models.DailyCount
}

// Summarizer produces an overview, or reports absence.
type Summarizer interface {
	Summarize(ctx context.Context, in Input) (*models.Overview, bool)
}

// Strategy is one attempt at producing an overview. A nil overview with
// a nil error counts as absence, not success.
type Strategy interface {
	Name() string
	Generate(ctx context.Context, in Input) (*models.Overview, error)
}

// Chain executes strategies in order and returns the first success.
type Chain struct {
	strategies []Strategy
}

// NewChain creates a strategy chain.
func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// Summarize walks the chain. Strategy failures are logged and skipped.
func (c *Chain) Summarize(ctx context.Context, in Input) (*models.Overview, bool) {
	for _, strategy := range c.strategies {
		if ctx.Err() != nil {
			return nil, false
		}
		overview, err := strategy.Generate(ctx, in)
		if err != nil {
			log.Debug().Err(err).Str("strategy", strategy.Name()).Msg("Narrative strategy failed")
			continue
		}
		if overview != nil {
			return overview, true
		}
	}
	return nil, false
}

// DefaultChain builds the standard three-step chain: structured JSON
// output, free-form retry with best-effort JSON extraction, then a
// canned overview so a configured summarizer never yields nothing.
func DefaultChain(client *Client) *Chain {
	return NewChain(
		&StructuredStrategy{Client: client},
		&FreeformStrategy{Client: client},
		&CannedStrategy{},
	)
}
