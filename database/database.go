package database

import (
	"fmt"
	"strings"

	"proofing-app/internal/domain/albums"
	"proofing-app/internal/domain/clients"
	"proofing-app/internal/domain/payments"
	"proofing-app/internal/domain/photographers"
	"proofing-app/internal/domain/selections"
	"proofing-app/internal/logging"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(dsn string) {
	if dsn == "" {
		logging.Logger.Fatal("DB_URL not set")
	}

	db, err := Open(dsn)
	if err != nil {
		logging.Logger.WithError(err).Fatal("Failed to connect to database")
	}

	if err := Migrate(db); err != nil {
		logging.Logger.WithError(err).Fatal("AutoMigrate error")
	}

	DB = db
	logging.Logger.Info("Connected and migrated successfully")
}

// Open picks the dialector from the DSN: "sqlite:<path>" or "file:<path>" for
// SQLite, anything else is handed to PostgreSQL.
func Open(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	switch {
	case strings.HasPrefix(dsn, "sqlite:"):
		return gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, "sqlite:")), cfg)
	case strings.HasPrefix(dsn, "file:"):
		return gorm.Open(sqlite.Open(dsn), cfg)
	default:
		return gorm.Open(postgres.Open(dsn), cfg)
	}
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("db is nil")
	}
	return db.AutoMigrate(
		// owners
		&photographers.Photographer{},
		&clients.Client{},

		// galleries
		&albums.Album{},
		&albums.Photo{},

		// settlement
		&selections.Selection{},
		&payments.PaymentStatus{},
	)
}
