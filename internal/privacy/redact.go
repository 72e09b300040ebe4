// Package privacy redacts personal data from ticket text before it
// leaves the process, e.g. in prompts sent to an external LLM.
package privacy

import (
	"regexp"
	"strings"
)

var (
	// emailRegex matches email addresses.
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// cpfRegex matches Brazilian CPF numbers, dotted or bare.
	cpfRegex = regexp.MustCompile(`\b\d{3}\.?\d{3}\.?\d{3}-?\d{2}\b`)

	// cnpjRegex matches Brazilian CNPJ numbers, dotted or bare.
	cnpjRegex = regexp.MustCompile(`\b\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}\b`)

	// phoneRegex matches Brazilian phone numbers with optional country
	// and area codes.
	phoneRegex = regexp.MustCompile(`(?:\+?55\s?)?\(?\d{2}\)?\s?9?\d{4}[-\s]?\d{4}\b`)
)

// RedactEmails replaces email addresses with a placeholder.
func RedactEmails(text string) string {
	return emailRegex.ReplaceAllString(text, "[email]")
}

// RedactDocuments replaces CPF and CNPJ numbers with placeholders.
func RedactDocuments(text string) string {
	text = cnpjRegex.ReplaceAllString(text, "[cnpj]")
	return cpfRegex.ReplaceAllString(text, "[cpf]")
}

// RedactPhones replaces phone numbers with a placeholder.
func RedactPhones(text string) string {
	return phoneRegex.ReplaceAllString(text, "[telefone]")
}

// Clean redacts all recognized personal data from text. Use this on
// any ticket text included in an outbound prompt.
func Clean(text string) string {
	text = RedactEmails(text)
	text = RedactDocuments(text)
	text = RedactPhones(text)
	return strings.TrimSpace(text)
}
