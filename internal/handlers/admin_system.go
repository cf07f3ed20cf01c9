package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/middleware"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/models"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateAdmin registers a new administrator. Only capabilities from the
// registry are accepted; omitting them grants the default set.
func CreateAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		creator := middleware.CurrentAdmin(c)

		var input struct {
			Username     string              `json:"username" binding:"required"`
			Email        string              `json:"email" binding:"required,email"`
			Password     string              `json:"password" binding:"required,min=6"`
			IsSuperAdmin bool                `json:"is_super_admin"`
			Permissions  []models.Permission `json:"permissions"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.IsSuperAdmin && !creator.IsSuperAdmin {
			c.JSON(403, gin.H{"error": "Only a super admin can create another super admin"})
			return
		}

		var count int64
		db.Model(&models.Admin{}).Where("email = ?", input.Email).Count(&count)
		if count > 0 {
			c.JSON(400, gin.H{"error": "Email already in use"})
			return
		}
		db.Model(&models.Admin{}).Where("username = ?", input.Username).Count(&count)
		if count > 0 {
			c.JSON(400, gin.H{"error": "Username already in use"})
			return
		}

		admin := models.Admin{
			Username:     input.Username,
			Email:        input.Email,
			IsSuperAdmin: input.IsSuperAdmin,
			IsActive:     true,
		}
		if err := admin.SetPassword(input.Password); err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash password"})
			return
		}

		perms := input.Permissions
		if len(perms) == 0 {
			perms = models.DefaultAdminPermissions
		}
		if err := admin.SetPermissions(perms); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if err := db.Create(&admin).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create admin"})
			return
		}

		logAdminAction(db, c, creator.ID, "create_admin",
			fmt.Sprintf("Created admin %d (%s)", admin.ID, admin.Username))

		c.JSON(201, gin.H{
			"message": "Admin created successfully",
			"admin": gin.H{
				"id":             admin.ID,
				"username":       admin.Username,
				"email":          admin.Email,
				"is_super_admin": admin.IsSuperAdmin,
				"permissions":    admin.PermissionList(),
			},
		})
	}
}

// GetAdmins lists every administrator account.
func GetAdmins(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var admins []models.Admin
		if err := db.Order("created_at ASC").Find(&admins).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch admins"})
			return
		}

		out := make([]gin.H, 0, len(admins))
		for _, a := range admins {
			out = append(out, gin.H{
				"id":             a.ID,
				"username":       a.Username,
				"email":          a.Email,
				"is_super_admin": a.IsSuperAdmin,
				"is_active":      a.IsActive,
				"permissions":    a.PermissionList(),
				"last_login":     a.LastLogin,
				"created_at":     a.CreatedAt,
			})
		}

		c.JSON(200, gin.H{"admins": out})
	}
}

// GetLogs returns the audit trail, newest first, paginated.
func GetLogs(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}
		perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "50"))
		if err != nil || perPage < 1 || perPage > 200 {
			perPage = 50
		}

		var total int64
		if err := db.Model(&models.AdminLog{}).Count(&total).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch logs"})
			return
		}

		var logs []models.AdminLog
		if err := db.Preload("Admin").
			Order("created_at DESC").
			Offset((page - 1) * perPage).
			Limit(perPage).
			Find(&logs).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch logs"})
			return
		}

		c.JSON(200, gin.H{
			"logs":     logs,
			"page":     page,
			"per_page": perPage,
			"total":    total,
		})
	}
}

type dashboardStats struct {
	TotalUsers         int64             `json:"total_users"`
	TotalVehicles      int64             `json:"total_vehicles"`
	ReservedVehicles   int64             `json:"reserved_vehicles"`
	ActiveReservations int64             `json:"active_reservations"`
	PendingInspections int64             `json:"pending_inspections"`
	TotalPurchases     int64             `json:"total_purchases"`
	TotalRevenue       float64           `json:"total_revenue"`
	RecentLogs         []models.AdminLog `json:"recent_logs"`
}

// GetDashboard aggregates system-wide counters. The payload is cached in Redis
// for a minute to keep repeated dashboard refreshes off the database.
func GetDashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const cacheKey = "admin_stats"

		if services.RedisClient != nil {
			if cached, err := services.GetCachedDashboard(c.Request.Context(), cacheKey); err == nil && cached != nil {
				var stats dashboardStats
				if json.Unmarshal(cached, &stats) == nil {
					c.JSON(200, gin.H{"dashboard": stats, "cached": true})
					return
				}
			}
		}

		var stats dashboardStats
		db.Model(&models.User{}).Count(&stats.TotalUsers)
		db.Model(&models.Vehicle{}).Count(&stats.TotalVehicles)
		db.Model(&models.Vehicle{}).Where("is_reserved = ?", true).Count(&stats.ReservedVehicles)
		db.Model(&models.Reservation{}).Where("status = ?", models.ReservationStatusActive).Count(&stats.ActiveReservations)
		db.Model(&models.Inspection{}).Where("status = ?", models.InspectionStatusPending).Count(&stats.PendingInspections)
		db.Model(&models.Purchase{}).Count(&stats.TotalPurchases)
		db.Model(&models.Purchase{}).Select("COALESCE(SUM(final_price), 0)").Scan(&stats.TotalRevenue)

		if err := db.Preload("Admin").Order("created_at DESC").Limit(10).Find(&stats.RecentLogs).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch dashboard"})
			return
		}

		if services.RedisClient != nil {
			if payload, err := json.Marshal(stats); err == nil {
				_ = services.CacheDashboard(c.Request.Context(), cacheKey, payload)
			}
		}

		c.JSON(200, gin.H{"dashboard": stats, "cached": false})
	}
}
