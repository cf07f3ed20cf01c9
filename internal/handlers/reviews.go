package handlers

import (
	"strconv"

	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/lifecycle"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateReview records a post-sale review for one of the user's purchases.
func CreateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			PurchaseID    uint   `json:"purchase_id" binding:"required"`
			VehicleRating int    `json:"vehicle_rating" binding:"required"`
			ServiceRating int    `json:"service_rating" binding:"required"`
			Comment       string `json:"comment"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var review *models.Review
		txErr := db.Transaction(func(tx *gorm.DB) error {
			var err error
			review, err = lifecycle.CreateReview(tx, userId, lifecycle.CreateReviewInput{
				PurchaseID:    input.PurchaseID,
				VehicleRating: input.VehicleRating,
				ServiceRating: input.ServiceRating,
				Comment:       input.Comment,
			})
			return err
		})
		if txErr != nil {
			respondError(c, txErr)
			return
		}

		c.JSON(201, gin.H{
			"message": "Review submitted successfully",
			"review":  review,
		})
	}
}

// GetUserReviews lists the reviews written by the authenticated user.
func GetUserReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		reviews, err := lifecycle.ListUserReviews(db, userId)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"reviews": reviews})
	}
}

// UpdateReview edits an existing review owned by the authenticated user.
func UpdateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid review ID"})
			return
		}

		var input struct {
			VehicleRating *int    `json:"vehicle_rating"`
			ServiceRating *int    `json:"service_rating"`
			Comment       *string `json:"comment"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var review *models.Review
		txErr := db.Transaction(func(tx *gorm.DB) error {
			var err error
			review, err = lifecycle.UpdateReview(tx, userId, uint(reviewID), lifecycle.UpdateReviewInput{
				VehicleRating: input.VehicleRating,
				ServiceRating: input.ServiceRating,
				Comment:       input.Comment,
			})
			return err
		})
		if txErr != nil {
			respondError(c, txErr)
			return
		}

		c.JSON(200, gin.H{
			"message": "Review updated successfully",
			"review":  review,
		})
	}
}
