package db

import (
	"log"
	"time"

	"github.com/fahrwerk/driveschool-scheduler/internal/config"
	"github.com/fahrwerk/driveschool-scheduler/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Student{},
		&models.StaffAssignment{},
		&models.WorkingHours{},
		&models.ExternalBusyTime{},
		&models.Appointment{},
		&models.AvailabilityDay{},
		&models.RecalcQueueEntry{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	db.Exec(`
        UPDATE tenants
        SET timezone = 'Europe/Zurich'
        WHERE timezone IS NULL OR timezone = ''
    `)

	// No-double-booking guard at the data layer: two occupying appointments
	// for the same instructor may never overlap, no matter how they got past
	// the application-level conflict check.
	db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`)
	db.Exec(`
        DO $$
        BEGIN
            IF NOT EXISTS (
                SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap'
            ) THEN
                ALTER TABLE appointments
                ADD CONSTRAINT appointments_no_overlap
                EXCLUDE USING gist (
                    staff_id WITH =,
                    tstzrange(start_time, end_time) WITH &&
                )
                WHERE (status NOT IN ('cancelled', 'aborted') AND deleted_at IS NULL);
            END IF;
        END $$;
    `)

	return db
}
