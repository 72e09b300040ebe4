package narrative

import (
	"fmt"
	"strings"

	"github.com/flacuna/ticketlens/internal/privacy"
	"github.com/flacuna/ticketlens/pkg/models"
)

const maxPromptEntries = 10

func periodText(w *models.Window) string {
	if w == nil {
		return "(sem intervalo definido)"
	}
	return fmt.Sprintf("%s a %s", w.Start, w.End)
}

// buildPrompt renders the report data as a Portuguese analysis request.
// When structured is true the expected JSON shape is spelled out.
func buildPrompt(in Input, structured bool) string {
	var b strings.Builder

	b.WriteString("Você é um analista de suporte. Analise os dados de chamados recorrentes abaixo ")
	b.WriteString("e produza um resumo executivo em português.\n\n")
	fmt.Fprintf(&b, "Período: %s\n\n", periodText(in.Window))

	if len(in.Groups) > 0 {
		b.WriteString("Grupos recorrentes:\n")
		for i, g := range in.Groups {
			if i >= maxPromptEntries {
				break
			}
			fmt.Fprintf(&b, "- %s: %q (%d ocorrências, %.1f horas acumuladas)\n",
				g.GroupName, privacy.Clean(g.RepresentativeSummary), g.Occurrences, g.TotalHours)
		}
		b.WriteString("\n")
	}

	if len(in.CreatorCounts) > 0 {
		b.WriteString("Chamados por solicitante:\n")
		for i, c := range in.CreatorCounts {
			if i >= maxPromptEntries {
				break
			}
			fmt.Fprintf(&b, "- %s: %d\n", privacy.Clean(c.Creator), c.Count)
		}
		b.WriteString("\n")
	}

	if len(in.DailyCounts) > 0 {
		b.WriteString("Chamados por dia:\n")
		for _, d := range in.DailyCounts {
			fmt.Fprintf(&b, "- %s: %d\n", d.Day, d.Count)
		}
		b.WriteString("\n")
	}

	if structured {
		b.WriteString("Responda APENAS com um objeto JSON com as chaves: ")
		b.WriteString(`"periodo" (string), "resumo_geral" (string) e "sugestoes" (lista de strings).`)
	} else {
		b.WriteString("Responda com um objeto JSON contendo as chaves periodo, resumo_geral e sugestoes.")
	}
	return b.String()
}
