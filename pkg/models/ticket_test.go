package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_TableDriven(t *testing.T) {
	tests := []struct {
		name     string
		fields   map[string]string
		aliases  []string
		expected string
	}{
		{
			name:     "first alias wins",
			fields:   map[string]string{"resumo": "impressora parada", "summary": "printer down"},
			aliases:  SummaryAliases,
			expected: "impressora parada",
		},
		{
			name:     "blank value falls through to next alias",
			fields:   map[string]string{"resumo": "   ", "summary": "printer down"},
			aliases:  SummaryAliases,
			expected: "printer down",
		},
		{
			name:     "value is trimmed",
			fields:   map[string]string{"Criador": "  Ana Souza  "},
			aliases:  CreatorAliases,
			expected: "Ana Souza",
		},
		{
			name:     "no match returns empty",
			fields:   map[string]string{"status": "open"},
			aliases:  CreatorAliases,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := &Ticket{ID: "1", Fields: tt.fields}
			assert.Equal(t, tt.expected, ticket.Field(tt.aliases))
		})
	}
}

func TestSummaryText_DescriptionFallback(t *testing.T) {
	ticket := &Ticket{ID: "1", Fields: map[string]string{"descricao": "erro ao acessar o sistema"}}
	assert.Equal(t, "erro ao acessar o sistema", ticket.SummaryText())
}

func TestParseTimestamp_TableDriven(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"export layout", "2024-03-10 14:30:00", true},
		{"rfc3339", "2024-03-10T14:30:00Z", true},
		{"bare date", "2024-03-10", true},
		{"empty", "", false},
		{"garbage", "not a date", false},
		{"brazilian layout unsupported", "10/03/2024", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseTimestamp(tt.value)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestCreationDay(t *testing.T) {
	t.Run("precomputed column wins", func(t *testing.T) {
		ticket := &Ticket{Fields: map[string]string{
			"data_criacao": "2024-05-01",
			"Criado":       "2024-06-15 09:00:00",
		}}
		day, ok := ticket.CreationDay()
		require.True(t, ok)
		assert.Equal(t, "2024-05-01", day)
	})

	t.Run("falls back to creation timestamp", func(t *testing.T) {
		ticket := &Ticket{Fields: map[string]string{"Criado": "2024-06-15 09:00:00"}}
		day, ok := ticket.CreationDay()
		require.True(t, ok)
		assert.Equal(t, "2024-06-15", day)
	})

	t.Run("unparseable yields not ok", func(t *testing.T) {
		ticket := &Ticket{Fields: map[string]string{"Criado": "???"}}
		_, ok := ticket.CreationDay()
		assert.False(t, ok)
	})
}

func TestElapsedHours(t *testing.T) {
	t.Run("resolved after created", func(t *testing.T) {
		ticket := &Ticket{Fields: map[string]string{
			"Criado":    "2024-06-15 09:00:00",
			"Resolvido": "2024-06-15 15:30:00",
		}}
		hours, ok := ticket.ElapsedHours()
		require.True(t, ok)
		assert.InDelta(t, 6.5, hours, 0.001)
	})

	t.Run("negative span clamps to zero", func(t *testing.T) {
		ticket := &Ticket{Fields: map[string]string{
			"Criado":    "2024-06-15 15:00:00",
			"Resolvido": "2024-06-15 09:00:00",
		}}
		hours, ok := ticket.ElapsedHours()
		require.True(t, ok)
		assert.Zero(t, hours)
	})

	t.Run("unresolved ticket yields not ok", func(t *testing.T) {
		ticket := &Ticket{Fields: map[string]string{"Criado": "2024-06-15 09:00:00"}}
		_, ok := ticket.ElapsedHours()
		assert.False(t, ok)
	})
}
