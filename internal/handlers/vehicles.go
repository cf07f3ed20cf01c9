package handlers

import (
	"strings"

	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	minVehicleYear = 1900
	maxVehicleYear = 2026
)

type VehicleInput struct {
	Marca    string  `json:"marca" binding:"required"`
	Modelo   string  `json:"modelo" binding:"required"`
	Ano      int     `json:"ano" binding:"required"`
	Preco    float64 `json:"preco" binding:"required"`
	PhotoURL string  `json:"photo_url"`
}

func validateVehicleFields(ano int, preco float64, photoURL string) string {
	if ano < minVehicleYear || ano > maxVehicleYear {
		return "Invalid year. Must be between 1900 and 2026"
	}
	if preco <= 0 {
		return "Price must be a positive number"
	}
	if len(photoURL) > 255 {
		return "photo_url must be at most 255 characters"
	}
	return ""
}

// CreateVehicle adds a vehicle to the inventory.
func CreateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input VehicleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if msg := validateVehicleFields(input.Ano, input.Preco, input.PhotoURL); msg != "" {
			c.JSON(400, gin.H{"error": msg})
			return
		}

		vehicle := models.Vehicle{
			Marca:    input.Marca,
			Modelo:   input.Modelo,
			Ano:      input.Ano,
			Preco:    input.Preco,
			PhotoURL: input.PhotoURL,
		}

		if err := db.Create(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create vehicle"})
			return
		}

		c.JSON(201, gin.H{
			"message": "Vehicle created successfully",
			"vehicle": vehicle,
		})
	}
}

// SearchVehicles filters the inventory by make, model, year, price range and
// reservation state.
func SearchVehicles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filters struct {
			Marca      string   `form:"marca"`
			Modelo     string   `form:"modelo"`
			Ano        *int     `form:"ano"`
			PrecoMin   *float64 `form:"preco_min"`
			PrecoMax   *float64 `form:"preco_max"`
			IsReserved *bool    `form:"is_reserved"`
		}
		if err := c.ShouldBindQuery(&filters); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		query := db.Model(&models.Vehicle{})
		if filters.Marca != "" {
			query = query.Where("LOWER(marca) LIKE LOWER(?)", "%"+strings.ToLower(filters.Marca)+"%")
		}
		if filters.Modelo != "" {
			query = query.Where("LOWER(modelo) LIKE LOWER(?)", "%"+strings.ToLower(filters.Modelo)+"%")
		}
		if filters.Ano != nil {
			query = query.Where("ano = ?", *filters.Ano)
		}
		if filters.PrecoMin != nil {
			query = query.Where("preco >= ?", *filters.PrecoMin)
		}
		if filters.PrecoMax != nil {
			query = query.Where("preco <= ?", *filters.PrecoMax)
		}
		if filters.IsReserved != nil {
			query = query.Where("is_reserved = ?", *filters.IsReserved)
		}

		var vehicles []models.Vehicle
		if err := query.Find(&vehicles).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch vehicles"})
			return
		}

		c.JSON(200, gin.H{"vehicles": vehicles})
	}
}

// UpdateVehicle edits a vehicle. Reserved vehicles are frozen until released.
func UpdateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleID := c.Param("id")

		var input struct {
			Marca    *string  `json:"marca"`
			Modelo   *string  `json:"modelo"`
			Ano      *int     `json:"ano"`
			Preco    *float64 `json:"preco"`
			PhotoURL *string  `json:"photo_url"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var vehicle models.Vehicle
		if err := db.First(&vehicle, vehicleID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		if vehicle.IsReserved {
			c.JSON(409, gin.H{"error": "A reserved vehicle cannot be updated"})
			return
		}

		if input.Marca != nil {
			vehicle.Marca = *input.Marca
		}
		if input.Modelo != nil {
			vehicle.Modelo = *input.Modelo
		}
		if input.Ano != nil {
			if *input.Ano < minVehicleYear || *input.Ano > maxVehicleYear {
				c.JSON(400, gin.H{"error": "Invalid year. Must be between 1900 and 2026"})
				return
			}
			vehicle.Ano = *input.Ano
		}
		if input.Preco != nil {
			if *input.Preco <= 0 {
				c.JSON(400, gin.H{"error": "Price must be a positive number"})
				return
			}
			vehicle.Preco = *input.Preco
		}
		if input.PhotoURL != nil {
			if len(*input.PhotoURL) > 255 {
				c.JSON(400, gin.H{"error": "photo_url must be at most 255 characters"})
				return
			}
			vehicle.PhotoURL = *input.PhotoURL
		}

		if err := db.Save(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update vehicle"})
			return
		}

		c.JSON(200, gin.H{
			"message": "Vehicle updated successfully",
			"vehicle": vehicle,
		})
	}
}

// DeleteVehicle removes a vehicle from the inventory. Deletion is blocked while
// a reservation holds the vehicle.
func DeleteVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleID := c.Param("id")

		var vehicle models.Vehicle
		if err := db.First(&vehicle, vehicleID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		if vehicle.IsReserved {
			c.JSON(409, gin.H{"error": "A reserved vehicle cannot be deleted"})
			return
		}

		if err := db.Delete(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete vehicle"})
			return
		}

		c.JSON(200, gin.H{"message": "Vehicle deleted successfully"})
	}
}
