package models

import (
	"time"

	"gorm.io/gorm"
)

type InspectionStatus string

const (
	InspectionStatusPending   InspectionStatus = "pending"
	InspectionStatusCompleted InspectionStatus = "completed"
)

// Inspection is a user-requested vehicle check. The inspection date is unique
// across the whole system: a single inspector's calendar, one booking per slot.
type Inspection struct {
	gorm.Model
	UserID         uint             `json:"user_id" gorm:"not null"`
	User           User             `json:"user"`
	VehicleID      uint             `json:"vehicle_id" gorm:"not null"`
	Vehicle        Vehicle          `json:"vehicle"`
	InspectionDate time.Time        `json:"inspection_date" gorm:"not null;uniqueIndex"`
	Status         InspectionStatus `json:"status" gorm:"not null;default:'pending'"`
	Report         string           `json:"report"`
}
