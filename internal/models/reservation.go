package models

import "gorm.io/gorm"

type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// MinReservationAmount is the minimum deposit (sinal) securing a reservation.
const MinReservationAmount = 500.00

// Reservation holds a vehicle for one user against a financial deposit.
// At most one active reservation may exist per vehicle; this is backed by a
// partial unique index created in database.RunMigrations.
type Reservation struct {
	gorm.Model
	UserID       uint              `json:"user_id" gorm:"not null"`
	User         User              `json:"user"`
	VehicleID    uint              `json:"vehicle_id" gorm:"not null"`
	Vehicle      Vehicle           `json:"vehicle"`
	InspectionID *uint             `json:"inspection_id"`
	Inspection   *Inspection       `json:"inspection,omitempty"`
	Amount       float64           `json:"amount" gorm:"not null"`
	Status       ReservationStatus `json:"status" gorm:"not null;default:'active'"`
}

// Terminal reports whether the reservation reached a final state.
func (r *Reservation) Terminal() bool {
	return r.Status == ReservationStatusCompleted || r.Status == ReservationStatusCancelled
}
