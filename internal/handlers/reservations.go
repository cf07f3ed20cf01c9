package handlers

import (
	"strconv"

	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/lifecycle"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListReservations retrieves all reservations of the authenticated user.
func ListReservations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		reservations, err := lifecycle.ListReservations(db, userId)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"reservations": reservations})
	}
}

// CreateReservation places a deposit-backed reservation on a vehicle.
func CreateReservation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			VehicleID    uint    `json:"vehicle_id" binding:"required"`
			Amount       float64 `json:"amount" binding:"required"`
			InspectionID *uint   `json:"inspection_id"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var reservation *models.Reservation
		txErr := db.Transaction(func(tx *gorm.DB) error {
			var err error
			reservation, err = lifecycle.CreateReservation(tx, userId, lifecycle.CreateReservationInput{
				VehicleID:    input.VehicleID,
				Amount:       input.Amount,
				InspectionID: input.InspectionID,
			})
			return err
		})
		if txErr != nil {
			respondError(c, txErr)
			return
		}

		c.JSON(201, gin.H{
			"message":     "Reservation created successfully. Vehicle held with priority",
			"reservation": reservation,
		})
	}
}

// ConfirmPurchase completes an active reservation, returning the final price
// with the deposit subtracted.
func ConfirmPurchase(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		reservationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid reservation ID"})
			return
		}

		var reservation *models.Reservation
		var finalPrice float64
		txErr := db.Transaction(func(tx *gorm.DB) error {
			var err error
			reservation, finalPrice, err = lifecycle.ConfirmPurchase(tx, userId, uint(reservationID))
			return err
		})
		if txErr != nil {
			respondError(c, txErr)
			return
		}

		c.JSON(200, gin.H{
			"message":     "Purchase confirmed. Deposit subtracted from the final price",
			"reservation": reservation,
			"final_price": finalPrice,
		})
	}
}

// CancelReservation cancels an active reservation and releases the vehicle.
func CancelReservation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		reservationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid reservation ID"})
			return
		}

		var reservation *models.Reservation
		txErr := db.Transaction(func(tx *gorm.DB) error {
			var err error
			reservation, err = lifecycle.CancelReservation(tx, userId, uint(reservationID))
			return err
		})
		if txErr != nil {
			respondError(c, txErr)
			return
		}

		c.JSON(200, gin.H{
			"message":     "Reservation cancelled. Vehicle released; deposit retained per policy",
			"reservation": reservation,
		})
	}
}
