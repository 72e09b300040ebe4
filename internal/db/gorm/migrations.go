package gorm

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// runMigrations runs all database migrations using gormigrate.
func runMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		// Migration 001: ticket records table
		{
			ID: "001_ticket_records",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&TicketRecord{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("ticket_records")
			},
		},
	})

	return m.Migrate()
}
