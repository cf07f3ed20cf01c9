package lifecycle

import (
	"errors"
	"time"

	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/apperrors"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/models"
	"gorm.io/gorm"
)

// Business hours for inspections and the booking look-ahead window.
const (
	SlotStartHour  = 9
	SlotEndHour    = 17
	SlotHorizonDay = 7
)

// AvailableSlots enumerates every free hourly inspection slot in the next seven
// days during business hours. A slot is taken when an inspection exists at that
// exact timestamp; there is no duration or overlap logic.
func AvailableSlots(db *gorm.DB, now time.Time) ([]string, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	windowEnd := today.AddDate(0, 0, SlotHorizonDay)

	var booked []time.Time
	if err := db.Model(&models.Inspection{}).
		Where("inspection_date >= ? AND inspection_date < ?", today, windowEnd).
		Pluck("inspection_date", &booked).Error; err != nil {
		return nil, apperrors.Persistence("Failed to fetch booked slots", err)
	}

	taken := make(map[int64]bool, len(booked))
	for _, t := range booked {
		taken[t.Unix()] = true
	}

	var slots []string
	for day := 0; day < SlotHorizonDay; day++ {
		date := today.AddDate(0, 0, day)
		for hour := SlotStartHour; hour < SlotEndHour; hour++ {
			slot := date.Add(time.Duration(hour) * time.Hour)
			if !taken[slot.Unix()] {
				slots = append(slots, slot.Format(time.RFC3339))
			}
		}
	}

	return slots, nil
}

// ScheduleInspection books an inspection slot for a vehicle. The timestamp is
// unique system-wide; a second booking for the same instant conflicts.
func ScheduleInspection(tx *gorm.DB, userID, vehicleID uint, inspectionDate time.Time) (*models.Inspection, error) {
	var vehicle models.Vehicle
	if err := tx.First(&vehicle, vehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Vehicle not found")
		}
		return nil, apperrors.Persistence("Failed to load vehicle", err)
	}

	var existingCount int64
	if err := tx.Model(&models.Inspection{}).
		Where("inspection_date = ?", inspectionDate).
		Count(&existingCount).Error; err != nil {
		return nil, apperrors.Persistence("Failed to check slot", err)
	}
	if existingCount > 0 {
		return nil, apperrors.Conflict("Slot already booked")
	}

	inspection := models.Inspection{
		UserID:         userID,
		VehicleID:      vehicleID,
		InspectionDate: inspectionDate,
		Status:         models.InspectionStatusPending,
	}
	if err := tx.Create(&inspection).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("Slot already booked")
		}
		return nil, apperrors.Persistence("Failed to schedule inspection", err)
	}

	return &inspection, nil
}

// CompleteInspection marks a pending inspection as completed and records the
// report. The transition is irreversible.
func CompleteInspection(tx *gorm.DB, userID, inspectionID uint, report string) (*models.Inspection, error) {
	if report == "" {
		return nil, apperrors.Validation("Inspection report is required")
	}

	var inspection models.Inspection
	if err := tx.First(&inspection, inspectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Inspection not found")
		}
		return nil, apperrors.Persistence("Failed to load inspection", err)
	}

	if inspection.UserID != userID {
		return nil, apperrors.Authorization("Inspection does not belong to the current user")
	}
	if inspection.Status == models.InspectionStatusCompleted {
		return nil, apperrors.Conflict("Inspection already completed")
	}

	updates := map[string]interface{}{
		"status": models.InspectionStatusCompleted,
		"report": report,
	}
	if err := tx.Model(&inspection).Updates(updates).Error; err != nil {
		return nil, apperrors.Persistence("Failed to complete inspection", err)
	}
	inspection.Status = models.InspectionStatusCompleted
	inspection.Report = report

	return &inspection, nil
}
