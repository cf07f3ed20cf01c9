// Package lifecycle implements the vehicle lifecycle core: inspection
// scheduling, reservations with a financial deposit, purchase finalization and
// post-sale reviews.
//
// Every mutating operation takes the transaction it must run in. Callers wrap
// the call in db.Transaction so the invariant checks and the writes commit or
// roll back as one unit; the uniqueness indexes created in database.RunMigrations
// back the same invariants against concurrent requests, surfacing the loser of
// a race as a conflict.
package lifecycle

import (
	"errors"

	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/apperrors"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/models"
	"gorm.io/gorm"
)

type CreateReservationInput struct {
	VehicleID    uint
	Amount       float64
	InspectionID *uint
}

// CreateReservation places an active reservation on a vehicle and flags the
// vehicle reserved. The deposit must meet the minimum, the vehicle must be
// free, and a linked inspection must belong to the caller.
func CreateReservation(tx *gorm.DB, userID uint, in CreateReservationInput) (*models.Reservation, error) {
	if in.Amount < models.MinReservationAmount {
		return nil, apperrors.Validation("Deposit must be at least R$ 500.00")
	}

	var vehicle models.Vehicle
	if err := tx.First(&vehicle, in.VehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Vehicle not found")
		}
		return nil, apperrors.Persistence("Failed to load vehicle", err)
	}

	var activeCount int64
	if err := tx.Model(&models.Reservation{}).
		Where("vehicle_id = ? AND status = ?", in.VehicleID, models.ReservationStatusActive).
		Count(&activeCount).Error; err != nil {
		return nil, apperrors.Persistence("Failed to check reservations", err)
	}
	if vehicle.IsReserved || activeCount > 0 {
		return nil, apperrors.Conflict("Vehicle already reserved")
	}

	if in.InspectionID != nil {
		var inspection models.Inspection
		if err := tx.First(&inspection, *in.InspectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NotFound("Inspection not found")
			}
			return nil, apperrors.Persistence("Failed to load inspection", err)
		}
		if inspection.UserID != userID {
			return nil, apperrors.Authorization("Inspection does not belong to the current user")
		}
	}

	reservation := models.Reservation{
		UserID:       userID,
		VehicleID:    in.VehicleID,
		InspectionID: in.InspectionID,
		Amount:       in.Amount,
		Status:       models.ReservationStatusActive,
	}
	if err := tx.Create(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against a concurrent reservation on the same vehicle.
			return nil, apperrors.Conflict("Vehicle already reserved")
		}
		return nil, apperrors.Persistence("Failed to create reservation", err)
	}

	if err := tx.Model(&vehicle).Update("is_reserved", true).Error; err != nil {
		return nil, apperrors.Persistence("Failed to flag vehicle as reserved", err)
	}

	return &reservation, nil
}

// ConfirmPurchase moves an active reservation to completed and returns the
// final price with the deposit already subtracted. The vehicle stays flagged
// reserved: it is committed to the buyer, not released. When the reservation
// references an inspection, that inspection must have been completed first.
func ConfirmPurchase(tx *gorm.DB, userID, reservationID uint) (*models.Reservation, float64, error) {
	reservation, err := ownedReservation(tx, userID, reservationID)
	if err != nil {
		return nil, 0, err
	}

	if reservation.Terminal() {
		return nil, 0, apperrors.Conflict("Reservation already completed or cancelled")
	}

	if reservation.InspectionID != nil {
		var inspection models.Inspection
		if err := tx.First(&inspection, *reservation.InspectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, apperrors.NotFound("Inspection not found")
			}
			return nil, 0, apperrors.Persistence("Failed to load inspection", err)
		}
		if inspection.Status != models.InspectionStatusCompleted {
			return nil, 0, apperrors.Validation("The linked inspection has not been completed yet")
		}
	}

	if err := tx.Model(reservation).Update("status", models.ReservationStatusCompleted).Error; err != nil {
		return nil, 0, apperrors.Persistence("Failed to update reservation", err)
	}
	reservation.Status = models.ReservationStatusCompleted

	var vehicle models.Vehicle
	if err := tx.First(&vehicle, reservation.VehicleID).Error; err != nil {
		return nil, 0, apperrors.Persistence("Failed to load vehicle", err)
	}

	finalPrice := vehicle.Preco - reservation.Amount
	return reservation, finalPrice, nil
}

// CancelReservation moves an active reservation to cancelled and releases the
// vehicle for new reservations. The deposit is retained per policy.
func CancelReservation(tx *gorm.DB, userID, reservationID uint) (*models.Reservation, error) {
	reservation, err := ownedReservation(tx, userID, reservationID)
	if err != nil {
		return nil, err
	}

	if reservation.Terminal() {
		return nil, apperrors.Conflict("Reservation already completed or cancelled")
	}

	if err := tx.Model(reservation).Update("status", models.ReservationStatusCancelled).Error; err != nil {
		return nil, apperrors.Persistence("Failed to update reservation", err)
	}
	reservation.Status = models.ReservationStatusCancelled

	if err := tx.Model(&models.Vehicle{}).
		Where("id = ?", reservation.VehicleID).
		Update("is_reserved", false).Error; err != nil {
		return nil, apperrors.Persistence("Failed to release vehicle", err)
	}

	return reservation, nil
}

// ListReservations returns the caller's reservations, newest first.
func ListReservations(db *gorm.DB, userID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := db.Preload("Vehicle").Preload("Inspection").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reservations).Error; err != nil {
		return nil, apperrors.Persistence("Failed to fetch reservations", err)
	}
	return reservations, nil
}

func ownedReservation(tx *gorm.DB, userID, reservationID uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := tx.First(&reservation, reservationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Reservation not found")
		}
		return nil, apperrors.Persistence("Failed to load reservation", err)
	}
	if reservation.UserID != userID {
		return nil, apperrors.Authorization("Reservation does not belong to the current user")
	}
	return &reservation, nil
}
