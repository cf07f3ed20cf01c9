package handlers

import (
	"strconv"
	"time"

	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/lifecycle"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetAvailableSlots lists the free inspection slots for the next seven days.
func GetAvailableSlots(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		slots, err := lifecycle.AvailableSlots(db, time.Now().UTC())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"available_slots": slots})
	}
}

// ScheduleInspection books an inspection slot for a vehicle.
func ScheduleInspection(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			VehicleID      uint   `json:"vehicle_id" binding:"required"`
			InspectionDate string `json:"inspection_date" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		inspectionDate, err := time.Parse(time.RFC3339, input.InspectionDate)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid date format. Use ISO 8601 (e.g. 2025-10-17T09:00:00Z)"})
			return
		}

		var inspection *models.Inspection
		txErr := db.Transaction(func(tx *gorm.DB) error {
			var err error
			inspection, err = lifecycle.ScheduleInspection(tx, userId, input.VehicleID, inspectionDate.UTC())
			return err
		})
		if txErr != nil {
			respondError(c, txErr)
			return
		}

		c.JSON(201, gin.H{
			"message":    "Inspection scheduled successfully",
			"inspection": inspection,
		})
	}
}

// CompleteInspection marks an inspection as completed with its report.
func CompleteInspection(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		inspectionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid inspection ID"})
			return
		}

		var input struct {
			Report string `json:"report" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var inspection *models.Inspection
		txErr := db.Transaction(func(tx *gorm.DB) error {
			var err error
			inspection, err = lifecycle.CompleteInspection(tx, userId, uint(inspectionID), input.Report)
			return err
		})
		if txErr != nil {
			respondError(c, txErr)
			return
		}

		c.JSON(200, gin.H{
			"message":    "Inspection completed successfully",
			"inspection": inspection,
		})
	}
}
