package worker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flacuna/ticketlens/internal/config"
	"github.com/flacuna/ticketlens/internal/repository"
	"github.com/flacuna/ticketlens/internal/vector"
	"github.com/flacuna/ticketlens/internal/vector/memory"
	"github.com/flacuna/ticketlens/pkg/models"
)

// testService builds a Service over an in-memory vector store and an
// optional CSV-backed repository.
func testService(t *testing.T, store vector.Store, repo repository.Repository) *Service {
	t.Helper()

	cfg := config.Default()
	cfg.MinClusterSize = 2

	svc := NewService("test-version", cfg, store, repo, nil)
	svc.ready.Store(true)
	t.Cleanup(func() { svc.cancel() })
	return svc
}

func doRequest(t *testing.T, svc *Service, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	svc.router.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHandleHealth(t *testing.T) {
	svc := testService(t, memory.NewStore(), nil)

	rec, body := doRequest(t, svc, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test-version", body["version"])
}

func TestHandleVectorHealth(t *testing.T) {
	store := memory.NewStore()
	store.Add(
		vector.Item{ID: "1", Embedding: []float64{0}},
		vector.Item{ID: "2", Embedding: []float64{1}},
	)
	svc := testService(t, store, nil)

	rec, body := doRequest(t, svc, "/api/health/vector")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["exists"])
	assert.Equal(t, float64(2), body["count"])
}

// brokenStore fails every call, standing in for an unreachable server.
type brokenStore struct{}

func (brokenStore) ListAll(ctx context.Context) ([]vector.Item, error) {
	return nil, vector.ErrStoreUnavailable
}
func (brokenStore) Nearest(ctx context.Context, embedding []float64, k int) ([]vector.Neighbor, error) {
	return nil, vector.ErrStoreUnavailable
}
func (brokenStore) Count(ctx context.Context) (int64, error) {
	return 0, vector.ErrStoreUnavailable
}

func TestHandleVectorHealth_Unavailable(t *testing.T) {
	svc := testService(t, brokenStore{}, nil)

	rec, body := doRequest(t, svc, "/api/health/vector")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["exists"])
	assert.NotEmpty(t, body["error"])
}

func TestHandleRecurrenceReport(t *testing.T) {
	store := memory.NewStore()
	store.Add(
		vector.Item{ID: "1", Embedding: []float64{0}, Metadata: map[string]any{"resumo": "VPN fora do ar"}},
		vector.Item{ID: "2", Embedding: []float64{0.1}, Metadata: map[string]any{"resumo": "VPN instável"}},
		vector.Item{ID: "3", Embedding: []float64{10}, Metadata: map[string]any{"resumo": "Outro assunto"}},
	)
	svc := testService(t, store, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/recurrence", nil)
	rec := httptest.NewRecorder()
	svc.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var rep models.RecurrenceReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.NotEmpty(t, rep.RunID)
	require.Len(t, rep.Groups, 1)
	assert.Equal(t, "Grupo 1", rep.Groups[0].GroupName)
	assert.Equal(t, "VPN fora do ar", rep.Groups[0].RepresentativeSummary)
}

func TestHandleRecurrenceReport_EmptyCollection(t *testing.T) {
	svc := testService(t, memory.NewStore(), nil)

	rec, _ := doRequest(t, svc, "/api/reports/recurrence")
	require.Equal(t, http.StatusOK, rec.Code)

	var rep models.RecurrenceReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Empty(t, rep.Groups)
}

func TestHandleRecurrenceReport_BadWindow(t *testing.T) {
	svc := testService(t, memory.NewStore(), nil)

	tests := []struct {
		name   string
		target string
	}{
		{"end before start", "/api/reports/recurrence?start=2024-02-01&end=2024-01-01"},
		{"bad format", "/api/reports/recurrence?start=01-01-2024&end=2024-01-31"},
		{"start only", "/api/reports/recurrence?start=2024-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := doRequest(t, svc, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleRecurrenceReport_StoreFailure(t *testing.T) {
	svc := testService(t, brokenStore{}, nil)

	rec, body := doRequest(t, svc, "/api/reports/recurrence")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotEmpty(t, body["error"])
}
