package database

import (
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.AdminLog{},
		&models.Vehicle{},
		&models.Inspection{},
		&models.Reservation{},
		&models.Purchase{},
		&models.Review{},
	)
	if err != nil {
		return err
	}

	// At most one active reservation per vehicle. The partial index makes the
	// loser of a concurrent create fail with a duplicate-key error instead of
	// double-booking the vehicle.
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_reservations_one_active_per_vehicle
		 ON reservations (vehicle_id) WHERE status = 'active' AND deleted_at IS NULL`,
	).Error; err != nil {
		return err
	}

	return nil
}
