package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/flacuna/ticketlens/pkg/models"
)

// idAliases name an explicit identifier column in the export. When none
// is present, the row ordinal (as a string) is the identifier, matching
// how the embedding collection was populated.
var idAliases = []string{"id", "ID", "Chave", "Key", "key"}

// ReadCSV parses the ticket export into rows, in file order. Malformed
// records are skipped silently; only a missing or unreadable file is an
// error.
func ReadCSV(path string) ([]*models.Ticket, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows are skipped below, not fatal

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrUnavailable, err)
	}

	idColumn := -1
	for i, name := range header {
		if idColumn >= 0 {
			break
		}
		for _, alias := range idAliases {
			if name == alias {
				idColumn = i
				break
			}
		}
	}

	var rows []*models.Ticket
	ordinal := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue // malformed record
		}
		if len(record) != len(header) {
			ordinal++
			continue
		}

		fields := make(map[string]string, len(header))
		for i, name := range header {
			fields[name] = record[i]
		}

		id := strconv.Itoa(ordinal)
		if idColumn >= 0 && fields[header[idColumn]] != "" {
			id = fields[header[idColumn]]
		}
		ordinal++

		rows = append(rows, &models.Ticket{ID: id, Fields: fields})
	}

	return rows, nil
}

// CSVRepository reads the ticket CSV lazily: the file is parsed on first
// access and cached for the lifetime of the repository. Derived creation
// days are computed once per row during load. The cache is never
// invalidated mid-run; Reset arms a reload for the next access.
type CSVRepository struct {
	rows    map[string]*models.Ticket
	days    map[string]string // id -> YYYY-MM-DD, only parseable rows
	path    string
	loadErr error
	mu      sync.Mutex
	loaded  bool
}

// NewCSV creates a repository over the given CSV path. The file is not
// touched until the first lookup.
func NewCSV(path string) *CSVRepository {
	return &CSVRepository{path: path}
}

// Available reports whether the CSV file exists on disk.
func (r *CSVRepository) Available() bool {
	if r.path == "" {
		return false
	}
	_, err := os.Stat(r.path)
	return err == nil
}

// Reset discards the cached rows so the next access reloads the file.
// Safe to call between runs; in-flight runs keep their loaded snapshot.
func (r *CSVRepository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = false
	r.loadErr = nil
	r.rows = nil
	r.days = nil
}

// ensureLoaded parses the CSV under a one-time guard.
func (r *CSVRepository) ensureLoaded() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return r.loadErr
	}
	r.loaded = true

	rows, err := ReadCSV(r.path)
	if err != nil {
		r.loadErr = err
		return err
	}

	r.rows = make(map[string]*models.Ticket, len(rows))
	r.days = make(map[string]string, len(rows))
	for _, row := range rows {
		r.rows[row.ID] = row
		if day, ok := row.CreationDay(); ok {
			r.days[row.ID] = day
		}
	}

	log.Debug().Str("path", r.path).Int("rows", len(r.rows)).Msg("Loaded ticket CSV")
	return nil
}

// RowsFor fetches rows by identifier in input order, applying the window
// when given. Rows outside the window, or with underivable creation days
// while a window is active, are dropped.
func (r *CSVRepository) RowsFor(ctx context.Context, ids []string, window *models.Window) ([]*models.Ticket, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}

	result := make([]*models.Ticket, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, ok := r.rows[id]
		if !ok {
			continue
		}
		if window != nil {
			day, ok := r.days[id]
			if !ok || !window.Contains(day) {
				continue
			}
		}
		result = append(result, row)
	}
	return result, nil
}

// IDsInWindow filters identifiers to those inside the window. A nil
// window keeps the input set unchanged.
func (r *CSVRepository) IDsInWindow(ctx context.Context, ids []string, window *models.Window) ([]string, error) {
	if window == nil {
		return ids, nil
	}
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}

	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		day, ok := r.days[id]
		if !ok {
			continue
		}
		if window.Contains(day) {
			result = append(result, id)
		}
	}
	return result, nil
}

// ElapsedHours sums elapsed hours across the rows.
func (r *CSVRepository) ElapsedHours(rows []*models.Ticket) float64 {
	return SumElapsedHours(rows)
}
