package gorm

import (
	"database/sql"

	"github.com/flacuna/ticketlens/pkg/models"
)

// TicketRecord is one imported ticket row. The full raw export row is
// kept in Fields; the indexed columns are denormalized at import time so
// window queries stay in SQL.
type TicketRecord struct {
	ID          int64          `gorm:"primaryKey;autoIncrement"`
	TicketID    string         `gorm:"uniqueIndex;not null"`
	Creator     sql.NullString `gorm:"index"`
	CreatedAt   sql.NullString
	ResolvedAt  sql.NullString
	CreationDay sql.NullString       `gorm:"index:idx_ticket_records_day"`
	Fields      models.JSONStringMap `gorm:"type:text;not null"`
}

func (TicketRecord) TableName() string { return "ticket_records" }

// toTicket converts the record back into the domain row.
func (t *TicketRecord) toTicket() *models.Ticket {
	return &models.Ticket{ID: t.TicketID, Fields: map[string]string(t.Fields)}
}
