package handlers

import (
	"fmt"

	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/middleware"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/models"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminListUsers returns every registered customer account.
func AdminListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Order("created_at DESC").Find(&users).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch users"})
			return
		}
		c.JSON(200, gin.H{"users": users})
	}
}

// AdminGetUser returns a single customer account with its activity.
func AdminGetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("id")

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		var reservations []models.Reservation
		db.Where("user_id = ?", user.ID).Preload("Vehicle").Find(&reservations)

		var purchases []models.Purchase
		db.Where("user_id = ?", user.ID).Preload("Vehicle").Find(&purchases)

		c.JSON(200, gin.H{
			"user":         user,
			"reservations": reservations,
			"purchases":    purchases,
		})
	}
}

// AdminUpdateUser edits a customer account on their behalf.
func AdminUpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := middleware.CurrentAdmin(c)
		userID := c.Param("id")

		var input struct {
			Username *string `json:"username"`
			Email    *string `json:"email" binding:"omitempty,email"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		if input.Username != nil && *input.Username != user.Username {
			var count int64
			db.Model(&models.User{}).Where("username = ?", *input.Username).Count(&count)
			if count > 0 {
				c.JSON(400, gin.H{"error": "Username already in use"})
				return
			}
			user.Username = *input.Username
		}
		if input.Email != nil && *input.Email != user.Email {
			var count int64
			db.Model(&models.User{}).Where("email = ?", *input.Email).Count(&count)
			if count > 0 {
				c.JSON(400, gin.H{"error": "Email already in use"})
				return
			}
			user.Email = *input.Email
		}

		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update user"})
			return
		}

		logAdminAction(db, c, admin.ID, "update_user", fmt.Sprintf("Updated user %d", user.ID))

		c.JSON(200, gin.H{
			"message": "User updated successfully",
			"user":    user,
		})
	}
}

// AdminListVehicles returns the full inventory, including reserved vehicles.
func AdminListVehicles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vehicles []models.Vehicle
		if err := db.Order("created_at DESC").Find(&vehicles).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch vehicles"})
			return
		}
		c.JSON(200, gin.H{"vehicles": vehicles})
	}
}

// AdminCreateVehicle adds a vehicle and records the action in the audit trail.
func AdminCreateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := middleware.CurrentAdmin(c)

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

		logAdminAction(db, c, admin.ID, "create_vehicle",
			fmt.Sprintf("Created vehicle %d (%s %s)", vehicle.ID, vehicle.Marca, vehicle.Modelo))

		c.JSON(201, gin.H{
			"message": "Vehicle created successfully",
			"vehicle": vehicle,
		})
	}
}

// AdminUpdateVehicle edits a vehicle. Unlike the customer route, admins may edit
// reserved vehicles.
func AdminUpdateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := middleware.CurrentAdmin(c)
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

		logAdminAction(db, c, admin.ID, "update_vehicle", fmt.Sprintf("Updated vehicle %d", vehicle.ID))

		c.JSON(200, gin.H{
			"message": "Vehicle updated successfully",
			"vehicle": vehicle,
		})
	}
}

// AdminDeleteVehicle removes a vehicle. Deletion stays blocked while a
// reservation holds it, even for admins.
func AdminDeleteVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := middleware.CurrentAdmin(c)
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

		logAdminAction(db, c, admin.ID, "delete_vehicle", fmt.Sprintf("Deleted vehicle %d", vehicle.ID))

		c.JSON(200, gin.H{"message": "Vehicle deleted successfully"})
	}
}

// AdminUploadVehiclePhoto stores a vehicle photo and links it to the record.
func AdminUploadVehiclePhoto(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := middleware.CurrentAdmin(c)
		vehicleID := c.Param("id")

		var vehicle models.Vehicle
		if err := db.First(&vehicle, vehicleID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		file, err := c.FormFile("photo")
		if err != nil {
			c.JSON(400, gin.H{"error": "photo file is required"})
			return
		}

		url, err := services.UploadVehiclePhoto(file)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload photo"})
			return
		}

		if err := db.Model(&vehicle).Update("photo_url", url).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to save photo URL"})
			return
		}
		vehicle.PhotoURL = url

		logAdminAction(db, c, admin.ID, "upload_vehicle_photo",
			fmt.Sprintf("Uploaded photo for vehicle %d", vehicle.ID))

		c.JSON(200, gin.H{
			"message":   "Photo uploaded successfully",
			"photo_url": url,
			"vehicle":   vehicle,
		})
	}
}

// AdminListInspections returns every inspection with its user and vehicle.
func AdminListInspections(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("User").Preload("Vehicle").Order("inspection_date ASC")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var inspections []models.Inspection
		if err := query.Find(&inspections).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch inspections"})
			return
		}
		c.JSON(200, gin.H{"inspections": inspections})
	}
}

// AdminListReservations returns every reservation with its vehicle.
func AdminListReservations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Vehicle").Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var reservations []models.Reservation
		if err := query.Find(&reservations).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch reservations"})
			return
		}
		c.JSON(200, gin.H{"reservations": reservations})
	}
}
