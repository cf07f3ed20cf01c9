package handlers

import (
	"strconv"

	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/lifecycle"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetUserPurchases lists the purchases of the authenticated user.
func GetUserPurchases(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		purchases, err := lifecycle.ListPurchases(db, userId)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"purchases": purchases})
	}
}

// GetPurchaseDetails retrieves a single purchase of the authenticated user.
func GetPurchaseDetails(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		purchaseID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid purchase ID"})
			return
		}

		purchase, appErr := lifecycle.GetPurchase(db, userId, uint(purchaseID))
		if appErr != nil {
			respondError(c, appErr)
			return
		}

		c.JSON(200, gin.H{"purchase": purchase})
	}
}

// CreatePurchaseRecord materializes the purchase record for a completed
// reservation.
func CreatePurchaseRecord(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		reservationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid reservation ID"})
			return
		}

		var purchase *models.Purchase
		txErr := db.Transaction(func(tx *gorm.DB) error {
			var err error
			purchase, err = lifecycle.CreatePurchaseFromReservation(tx, userId, uint(reservationID))
			return err
		})
		if txErr != nil {
			respondError(c, txErr)
			return
		}

		c.JSON(201, gin.H{
			"message":  "Purchase recorded successfully",
			"purchase": purchase,
		})
	}
}
