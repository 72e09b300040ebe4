package gorm

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm/clause"

	"github.com/flacuna/ticketlens/internal/repository"
	"github.com/flacuna/ticketlens/pkg/models"
)

// TicketStore provides ticket row lookups backed by SQLite. It
// implements repository.Repository as an alternative to the CSV
// repository for deployments that import the export once.
type TicketStore struct {
	store *Store
}

// NewTicketStore creates a new ticket store.
func NewTicketStore(store *Store) *TicketStore {
	return &TicketStore{store: store}
}

// ImportCSV loads the ticket export into SQLite, upserting on ticket
// identifier. Returns the number of rows imported.
func (s *TicketStore) ImportCSV(ctx context.Context, path string) (int, error) {
	rows, err := repository.ReadCSV(path)
	if err != nil {
		return 0, fmt.Errorf("read csv: %w", err)
	}

	records := make([]TicketRecord, 0, len(rows))
	for _, row := range rows {
		rec := TicketRecord{
			TicketID:   row.ID,
			Creator:    nullString(row.Creator()),
			CreatedAt:  nullString(row.Field(models.CreatedAliases)),
			ResolvedAt: nullString(row.Field(models.ResolvedAliases)),
			Fields:     models.JSONStringMap(row.Fields),
		}
		if day, ok := row.CreationDay(); ok {
			rec.CreationDay = nullString(day)
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return 0, nil
	}

	err = s.store.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ticket_id"}},
			UpdateAll: true,
		}).
		CreateInBatches(records, 200).Error
	if err != nil {
		return 0, fmt.Errorf("insert ticket records: %w", err)
	}

	log.Info().Str("path", path).Int("rows", len(records)).Msg("Imported ticket CSV into SQLite")
	return len(records), nil
}

// RowsFor fetches rows by identifier in input order, applying the window
// when given.
func (s *TicketStore) RowsFor(ctx context.Context, ids []string, window *models.Window) ([]*models.Ticket, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := s.store.DB.WithContext(ctx).Where("ticket_id IN ?", ids)
	if window != nil {
		query = query.Where("creation_day >= ? AND creation_day <= ?", window.Start, window.End)
	}

	var records []TicketRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrUnavailable, err)
	}

	byID := make(map[string]*models.Ticket, len(records))
	for i := range records {
		byID[records[i].TicketID] = records[i].toTicket()
	}

	// Preserve input order, matching the CSV repository.
	result := make([]*models.Ticket, 0, len(records))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			result = append(result, row)
		}
	}
	return result, nil
}

// IDsInWindow filters identifiers to those inside the window. A nil
// window keeps the input set unchanged.
func (s *TicketStore) IDsInWindow(ctx context.Context, ids []string, window *models.Window) ([]string, error) {
	if window == nil {
		return ids, nil
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var matched []string
	err := s.store.DB.WithContext(ctx).
		Model(&TicketRecord{}).
		Where("ticket_id IN ?", ids).
		Where("creation_day >= ? AND creation_day <= ?", window.Start, window.End).
		Pluck("ticket_id", &matched).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrUnavailable, err)
	}

	inWindow := make(map[string]bool, len(matched))
	for _, id := range matched {
		inWindow[id] = true
	}

	result := make([]string, 0, len(matched))
	for _, id := range ids {
		if inWindow[id] {
			result = append(result, id)
		}
	}
	return result, nil
}

// ElapsedHours sums elapsed hours across the rows.
func (s *TicketStore) ElapsedHours(rows []*models.Ticket) float64 {
	return repository.SumElapsedHours(rows)
}

// Count returns the number of imported tickets.
func (s *TicketStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.store.DB.WithContext(ctx).Model(&TicketRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count ticket records: %w", err)
	}
	return count, nil
}

// nullString converts a string to sql.NullString.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
