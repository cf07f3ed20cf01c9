package lifecycle

import (
	"errors"

	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/apperrors"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/models"
	"gorm.io/gorm"
)

type CreateReviewInput struct {
	PurchaseID    uint
	VehicleRating int
	ServiceRating int
	Comment       string
}

// CreateReview attaches the one allowed review to a purchase owned by the
// caller. Both ratings must fall in 1..5.
func CreateReview(tx *gorm.DB, userID uint, in CreateReviewInput) (*models.Review, error) {
	if !models.ValidRating(in.VehicleRating) || !models.ValidRating(in.ServiceRating) {
		return nil, apperrors.Validation("Ratings must be between 1 and 5")
	}

	var purchase models.Purchase
	if err := tx.First(&purchase, in.PurchaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Purchase not found")
		}
		return nil, apperrors.Persistence("Failed to load purchase", err)
	}
	if purchase.UserID != userID {
		return nil, apperrors.Authorization("Purchase does not belong to the current user")
	}

	var existingCount int64
	if err := tx.Model(&models.Review{}).
		Where("purchase_id = ?", in.PurchaseID).
		Count(&existingCount).Error; err != nil {
		return nil, apperrors.Persistence("Failed to check reviews", err)
	}
	if existingCount > 0 {
		return nil, apperrors.Conflict("A review already exists for this purchase")
	}

	review := models.Review{
		PurchaseID:    in.PurchaseID,
		VehicleRating: in.VehicleRating,
		ServiceRating: in.ServiceRating,
		Comment:       in.Comment,
	}
	if err := tx.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("A review already exists for this purchase")
		}
		return nil, apperrors.Persistence("Failed to create review", err)
	}

	return &review, nil
}

type UpdateReviewInput struct {
	VehicleRating *int
	ServiceRating *int
	Comment       *string
}

// UpdateReview edits a review in place. Ownership is re-derived by walking
// review -> purchase -> user; only supplied fields are validated and replaced.
func UpdateReview(tx *gorm.DB, userID, reviewID uint, in UpdateReviewInput) (*models.Review, error) {
	var review models.Review
	if err := tx.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Review not found")
		}
		return nil, apperrors.Persistence("Failed to load review", err)
	}

	var purchase models.Purchase
	if err := tx.First(&purchase, review.PurchaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Purchase not found")
		}
		return nil, apperrors.Persistence("Failed to load purchase", err)
	}
	if purchase.UserID != userID {
		return nil, apperrors.Authorization("Review does not belong to the current user")
	}

	if in.VehicleRating != nil {
		if !models.ValidRating(*in.VehicleRating) {
			return nil, apperrors.Validation("Vehicle rating must be between 1 and 5")
		}
		review.VehicleRating = *in.VehicleRating
	}
	if in.ServiceRating != nil {
		if !models.ValidRating(*in.ServiceRating) {
			return nil, apperrors.Validation("Service rating must be between 1 and 5")
		}
		review.ServiceRating = *in.ServiceRating
	}
	if in.Comment != nil {
		review.Comment = *in.Comment
	}

	if err := tx.Save(&review).Error; err != nil {
		return nil, apperrors.Persistence("Failed to update review", err)
	}

	return &review, nil
}

// ListUserReviews returns the reviews written over the caller's purchases.
func ListUserReviews(db *gorm.DB, userID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := db.
		Joins("JOIN purchases ON purchases.id = reviews.purchase_id").
		Where("purchases.user_id = ?", userID).
		Order("reviews.created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, apperrors.Persistence("Failed to fetch reviews", err)
	}
	return reviews, nil
}
