package models

import "gorm.io/gorm"

// Review is the post-sale rating attached to a purchase, one per purchase.
type Review struct {
	gorm.Model
	PurchaseID    uint     `json:"purchase_id" gorm:"not null;uniqueIndex"`
	Purchase      Purchase `json:"purchase"`
	VehicleRating int      `json:"vehicle_rating" gorm:"not null"`
	ServiceRating int      `json:"service_rating" gorm:"not null"`
	Comment       string   `json:"comment"`
}

// ValidRating reports whether a rating value is inside the accepted 1..5 range.
func ValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}
