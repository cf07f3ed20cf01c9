package models

import "gorm.io/gorm"

type PurchaseStatus string

const (
	PurchaseStatusCompleted PurchaseStatus = "completed"
)

// Purchase is derived from exactly one completed reservation. The reservation id
// carries a unique index so a second derivation attempt fails instead of
// duplicating the sale.
type Purchase struct {
	gorm.Model
	UserID        uint           `json:"user_id" gorm:"not null"`
	User          User           `json:"user"`
	VehicleID     uint           `json:"vehicle_id" gorm:"not null"`
	Vehicle       Vehicle        `json:"vehicle"`
	ReservationID uint           `json:"reservation_id" gorm:"not null;uniqueIndex"`
	Reservation   Reservation    `json:"reservation"`
	FinalPrice    float64        `json:"final_price" gorm:"not null"`
	Status        PurchaseStatus `json:"status" gorm:"not null;default:'completed'"`
}
