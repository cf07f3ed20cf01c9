package lifecycle

import (
	"errors"

	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/apperrors"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/models"
	"gorm.io/gorm"
)

// CreatePurchaseFromReservation records the sale derived from a completed
// reservation. The final price snapshots the vehicle price minus the deposit at
// creation time. A reservation backs at most one purchase; a second call fails
// with a conflict rather than duplicating the row.
func CreatePurchaseFromReservation(tx *gorm.DB, userID, reservationID uint) (*models.Purchase, error) {
	reservation, err := ownedReservation(tx, userID, reservationID)
	if err != nil {
		return nil, err
	}

	if reservation.Status != models.ReservationStatusCompleted {
		return nil, apperrors.Validation("The reservation must be confirmed before creating a purchase")
	}

	var existingCount int64
	if err := tx.Model(&models.Purchase{}).
		Where("reservation_id = ?", reservationID).
		Count(&existingCount).Error; err != nil {
		return nil, apperrors.Persistence("Failed to check purchases", err)
	}
	if existingCount > 0 {
		return nil, apperrors.Conflict("A purchase already exists for this reservation")
	}

	var vehicle models.Vehicle
	if err := tx.First(&vehicle, reservation.VehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Vehicle not found")
		}
		return nil, apperrors.Persistence("Failed to load vehicle", err)
	}

	purchase := models.Purchase{
		UserID:        userID,
		VehicleID:     reservation.VehicleID,
		ReservationID: reservationID,
		FinalPrice:    vehicle.Preco - reservation.Amount,
		Status:        models.PurchaseStatusCompleted,
	}
	if err := tx.Create(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("A purchase already exists for this reservation")
		}
		return nil, apperrors.Persistence("Failed to create purchase", err)
	}

	return &purchase, nil
}

// ListPurchases returns the caller's purchases, newest first.
func ListPurchases(db *gorm.DB, userID uint) ([]models.Purchase, error) {
	var purchases []models.Purchase
	if err := db.Preload("Vehicle").Preload("Reservation").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error; err != nil {
		return nil, apperrors.Persistence("Failed to fetch purchases", err)
	}
	return purchases, nil
}

// GetPurchase loads one purchase, enforcing ownership.
func GetPurchase(db *gorm.DB, userID, purchaseID uint) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := db.Preload("Vehicle").Preload("Reservation").
		First(&purchase, purchaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Purchase not found")
		}
		return nil, apperrors.Persistence("Failed to load purchase", err)
	}
	if purchase.UserID != userID {
		return nil, apperrors.Authorization("Purchase does not belong to the current user")
	}
	return &purchase, nil
}
