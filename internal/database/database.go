package database

import (
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"ridemarket/internal/domain"
)

// Connect opens the database selected by the DSN prefix. Anything that is
// not a postgres URL is treated as a SQLite path ("sqlite://" stripped).
// TranslateError is on so unique violations surface as gorm.ErrDuplicatedKey
// on both drivers.
func Connect(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	dsn = strings.TrimPrefix(dsn, "sqlite://")

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
}

// Migrate creates or updates the schema for all entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Vehicle{},
		&domain.Trip{},
		&domain.Booking{},
		&domain.BookingSeat{},
		&domain.Passenger{},
		&domain.Review{},
	)
}
