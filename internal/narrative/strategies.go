package narrative

import (
	"context"
	"errors"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/flacuna/ticketlens/pkg/models"
)

// overviewPayload mirrors the JSON shape the model is asked to produce.
type overviewPayload struct {
	Periodo     string   `json:"periodo"`
	ResumoGeral string   `json:"resumo_geral"`
	Sugestoes   []string `json:"sugestoes"`
}

func (p overviewPayload) toOverview() *models.Overview {
	return &models.Overview{
		Period:      p.Periodo,
		Summary:     p.ResumoGeral,
		Suggestions: p.Sugestoes,
	}
}

// StructuredStrategy asks the model for JSON output directly.
type StructuredStrategy struct {
	Client *Client
}

func (s *StructuredStrategy) Name() string { return "structured" }

func (s *StructuredStrategy) Generate(ctx context.Context, in Input) (*models.Overview, error) {
	raw, err := s.Client.Generate(ctx, buildPrompt(in, true), true)
	if err != nil {
		return nil, err
	}
	var payload overviewPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return nil, err
	}
	if payload.ResumoGeral == "" {
		return nil, errors.New("structured response missing resumo_geral")
	}
	return payload.toOverview(), nil
}

// FreeformStrategy retries without the JSON format constraint and
// extracts the first JSON object it can find in the completion.
type FreeformStrategy struct {
	Client *Client
}

func (s *FreeformStrategy) Name() string { return "freeform" }

func (s *FreeformStrategy) Generate(ctx context.Context, in Input) (*models.Overview, error) {
	raw, err := s.Client.Generate(ctx, buildPrompt(in, false), false)
	if err != nil {
		return nil, err
	}
	payload, err := bestEffortJSON(raw)
	if err != nil {
		return nil, err
	}
	if payload.ResumoGeral == "" {
		return nil, errors.New("freeform response missing resumo_geral")
	}
	return payload.toOverview(), nil
}

// bestEffortJSON tries the whole text first, then the widest substring
// delimited by braces.
func bestEffortJSON(raw string) (overviewPayload, error) {
	var payload overviewPayload
	trimmed := strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(trimmed), &payload); err == nil {
		return payload, nil
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return payload, errors.New("no JSON object in completion")
	}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

// CannedStrategy is the terminal fallback: a fixed overview built from
// the report data alone, so the chain always ends in success.
type CannedStrategy struct{}

func (s *CannedStrategy) Name() string { return "canned" }

func (s *CannedStrategy) Generate(_ context.Context, in Input) (*models.Overview, error) {
	summary := "Não foi possível gerar um resumo automático para este período."
	if len(in.Groups) > 0 {
		summary = "Foram identificados grupos recorrentes de chamados no período analisado. " +
			"Revise os grupos listados para detalhes."
	}
	return &models.Overview{
		Period:  periodText(in.Window),
		Summary: summary,
		Suggestions: []string{
			"Revisar os grupos com maior número de ocorrências.",
			"Verificar se há causa raiz comum entre chamados do mesmo grupo.",
			"Acompanhar a evolução diária dos chamados recorrentes.",
		},
	}, nil
}
