package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rental-booking-backend/config"
	"rental-booking-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&model.User{},
		&model.Property{},
		&model.Reservation{},
		&model.Payment{},
		&model.PushSubscription{},
	); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	if cfg.EnableExclusion {
		log.Println("Range exclusion is enabled, applying Postgres-specific DDL...")
		if err := applyExclusionDDL(db); err != nil {
			return nil, fmt.Errorf("failed to apply exclusion DDL: %w", err)
		}
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// applyExclusionDDL installs the storage-level double-booking guard:
// two live, non-cancelled reservations on the same property may never
// hold overlapping [check_in, check_out) ranges. A racing transaction
// that loses to a committed overlap fails with SQLSTATE 23P01, which
// the booking service surfaces as a conflict.
func applyExclusionDDL(db *gorm.DB) error {
	ddls := []string{
		// 1) btree_gist lets the GIST index mix the equality column in.
		"CREATE EXTENSION IF NOT EXISTS btree_gist;",

		// 2) Basic sanity: a stay must cover at least one night.
		"ALTER TABLE reservations DROP CONSTRAINT IF EXISTS reservations_range_valid;",
		"ALTER TABLE reservations " +
			"ADD CONSTRAINT reservations_range_valid CHECK (check_in < check_out);",

		// 3) The exclusion constraint over (property, half-open range).
		"ALTER TABLE reservations DROP CONSTRAINT IF EXISTS reservations_no_overlap;",
		"ALTER TABLE reservations " +
			"ADD CONSTRAINT reservations_no_overlap EXCLUDE USING GIST (" +
			"property_id WITH =, " +
			"daterange(check_in::date, check_out::date, '[)') WITH &&" +
			") WHERE (status <> 'cancelled' AND deleted_at IS NULL);",

		// 4) Common lookup path: active reservations of a property by date.
		"CREATE INDEX IF NOT EXISTS idx_reservations_property_check_in " +
			"ON reservations (property_id, check_in);",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
