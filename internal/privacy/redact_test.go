package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean_TableDriven(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "email",
			input:    "Solicitado por maria.souza@empresa.com.br ontem",
			expected: "Solicitado por [email] ontem",
		},
		{
			name:     "cpf dotted",
			input:    "CPF 123.456.789-01 sem acesso",
			expected: "CPF [cpf] sem acesso",
		},
		{
			name:     "cpf bare",
			input:    "documento 12345678901 invalido",
			expected: "documento [cpf] invalido",
		},
		{
			name:     "cnpj",
			input:    "empresa 12.345.678/0001-99 bloqueada",
			expected: "empresa [cnpj] bloqueada",
		},
		{
			name:     "phone with area code",
			input:    "contato (11) 98765-4321 urgente",
			expected: "contato [telefone] urgente",
		},
		{
			name:     "clean text untouched",
			input:    "Impressora do 3º andar parada",
			expected: "Impressora do 3º andar parada",
		},
		{
			name:     "trims whitespace",
			input:    "  texto  ",
			expected: "texto",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Clean(tt.input))
		})
	}
}

func TestRedactEmails_Multiple(t *testing.T) {
	got := RedactEmails("de a@b.com para c@d.org")
	assert.Equal(t, "de [email] para [email]", got)
}
