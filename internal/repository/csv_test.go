package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flacuna/ticketlens/pkg/models"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tickets.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const sampleCSV = `Chave,Criador,resumo,Criado,Resolvido
T-1,Ana,VPN fora do ar,2024-06-01 09:00:00,2024-06-01 11:00:00
T-2,Bruno,Impressora parada,2024-06-10 10:00:00,
T-3,Carla,Portal lento,2024-07-02 08:00:00,2024-07-02 09:30:00
`

func TestReadCSV(t *testing.T) {
	path := writeCSV(t, sampleCSV)

	rows, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "T-1", rows[0].ID)
	assert.Equal(t, "Ana", rows[0].Creator())
	assert.Equal(t, "VPN fora do ar", rows[0].SummaryText())
}

func TestReadCSV_MissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestReadCSV_SkipsRaggedRows(t *testing.T) {
	path := writeCSV(t, `Chave,Criador,resumo
T-1,Ana,ok
T-2,faltando
T-3,Carla,também ok
`)

	rows, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "T-1", rows[0].ID)
	assert.Equal(t, "T-3", rows[1].ID)
}

func TestReadCSV_OrdinalIDFallback(t *testing.T) {
	// No identifier column: row ordinals stand in, matching how the
	// embedding collection is keyed when the export has no key column.
	path := writeCSV(t, `Criador,resumo
Ana,primeiro
Bruno,segundo
`)

	rows, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "0", rows[0].ID)
	assert.Equal(t, "1", rows[1].ID)
}

func TestCSVRepository_RowsFor(t *testing.T) {
	repo := NewCSV(writeCSV(t, sampleCSV))

	rows, err := repo.RowsFor(context.Background(), []string{"T-3", "T-1", "T-9"}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Input order, unknown ids skipped.
	assert.Equal(t, "T-3", rows[0].ID)
	assert.Equal(t, "T-1", rows[1].ID)
}

func TestCSVRepository_WindowFiltering(t *testing.T) {
	repo := NewCSV(writeCSV(t, sampleCSV))
	window := &models.Window{Start: "2024-06-01", End: "2024-06-30"}

	ids, err := repo.IDsInWindow(context.Background(), []string{"T-1", "T-2", "T-3"}, window)
	require.NoError(t, err)
	assert.Equal(t, []string{"T-1", "T-2"}, ids)

	rows, err := repo.RowsFor(context.Background(), []string{"T-1", "T-2", "T-3"}, window)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestCSVRepository_NilWindowKeepsAllIDs(t *testing.T) {
	// A nil window must not consult creation days at all: ids without a
	// parseable day still pass through.
	path := writeCSV(t, `Chave,resumo
T-1,sem data
`)
	repo := NewCSV(path)

	ids, err := repo.IDsInWindow(context.Background(), []string{"T-1", "T-2"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"T-1", "T-2"}, ids)
}

func TestCSVRepository_UnavailableFile(t *testing.T) {
	repo := NewCSV(filepath.Join(t.TempDir(), "nope.csv"))

	assert.False(t, repo.Available())
	_, err := repo.RowsFor(context.Background(), []string{"T-1"}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCSVRepository_ResetReloads(t *testing.T) {
	path := writeCSV(t, sampleCSV)
	repo := NewCSV(path)

	rows, err := repo.RowsFor(context.Background(), []string{"T-1"}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// Rewrite the file; the cached snapshot must survive until Reset.
	require.NoError(t, os.WriteFile(path, []byte(`Chave,Criador,resumo
T-9,Novo,linha nova
`), 0600))

	rows, err = repo.RowsFor(context.Background(), []string{"T-1"}, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	repo.Reset()

	rows, err = repo.RowsFor(context.Background(), []string{"T-1"}, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = repo.RowsFor(context.Background(), []string{"T-9"}, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSumElapsedHours(t *testing.T) {
	rows := []*models.Ticket{
		{Fields: map[string]string{"Criado": "2024-06-01 09:00:00", "Resolvido": "2024-06-01 11:00:00"}},
		{Fields: map[string]string{"Criado": "2024-06-01 09:00:00"}},
		{Fields: map[string]string{"Criado": "2024-06-01 10:00:00", "Resolvido": "2024-06-01 10:30:00"}},
	}
	assert.InDelta(t, 2.5, SumElapsedHours(rows), 0.001)
}
