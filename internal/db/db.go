package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.IsDev() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

// overlapStatements install the per-doctor overlap guarantee for committed
// appointments. Fit-ins and cancelled rows are outside the constraint.
var overlapStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap'
    ) THEN
        ALTER TABLE appointments
            ADD CONSTRAINT appointments_no_overlap
            EXCLUDE USING gist (
                doctor_id WITH =,
                tstzrange(start_time, end_time, '[)') WITH &&
            )
            WHERE (status <> 'cancelled' AND NOT is_fit_in);
    END IF;
END
$$`,
}

func Migrate(db *gorm.DB, log zerolog.Logger) error {
	if err := db.AutoMigrate(
		&models.Clinic{},
		&models.Doctor{},
		&models.Service{},
		&models.Patient{},
		&models.WorkSchedule{},
		&models.BlockedWeekday{},
		&models.BreakException{},
		&models.Unavailability{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, stmt := range overlapStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("overlap constraint: %w", err)
		}
	}

	if err := db.Exec(`
        UPDATE clinics
        SET timezone = 'America/Sao_Paulo'
        WHERE timezone IS NULL OR timezone = ''
    `).Error; err != nil {
		return fmt.Errorf("backfill clinic timezone: %w", err)
	}

	log.Info().Msg("database migrated")
	return nil
}
