package handlers

import (
	"time"

	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/middleware"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/models"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/pkg/logger"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// logAdminAction appends an entry to the audit trail. Audit failures are logged
// but never fail the request.
func logAdminAction(db *gorm.DB, c *gin.Context, adminID uint, action, description string) {
	entry := models.AdminLog{
		AdminID:     adminID,
		Action:      action,
		Description: description,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	}
	if err := db.Create(&entry).Error; err != nil && logger.Log != nil {
		logger.Log.Error("failed to write admin log",
			zap.Uint("admin_id", adminID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

func AdminLogin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var admin models.Admin
		if err := db.Where("email = ?", input.Email).First(&admin).Error; err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		if err := admin.CheckPassword(input.Password); err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		if !admin.IsActive {
			c.JSON(403, gin.H{"error": "Admin account is deactivated"})
			return
		}

		now := time.Now().UTC()
		admin.LastLogin = &now
		if err := db.Model(&admin).Update("last_login", now).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update login timestamp"})
			return
		}

		token, err := utils.GenerateAdminToken(&admin)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		logAdminAction(db, c, admin.ID, "login", "Admin logged in")

		c.JSON(200, gin.H{
			"token": token,
			"admin": gin.H{
				"id":             admin.ID,
				"username":       admin.Username,
				"email":          admin.Email,
				"is_super_admin": admin.IsSuperAdmin,
				"permissions":    admin.PermissionList(),
				"last_login":     admin.LastLogin,
			},
		})
	}
}

// AdminGetProfile returns the authenticated admin's own record.
func AdminGetProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := middleware.CurrentAdmin(c)
		if admin == nil {
			c.JSON(401, gin.H{"error": "Unauthorized"})
			return
		}

		c.JSON(200, gin.H{
			"admin": gin.H{
				"id":             admin.ID,
				"username":       admin.Username,
				"email":          admin.Email,
				"is_super_admin": admin.IsSuperAdmin,
				"is_active":      admin.IsActive,
				"permissions":    admin.PermissionList(),
				"last_login":     admin.LastLogin,
				"created_at":     admin.CreatedAt,
			},
		})
	}
}

// AdminUpdateProfile lets an admin change their own username, email or password.
func AdminUpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := middleware.CurrentAdmin(c)
		if admin == nil {
			c.JSON(401, gin.H{"error": "Unauthorized"})
			return
		}

		var input struct {
			Username *string `json:"username"`
			Email    *string `json:"email" binding:"omitempty,email"`
			Password *string `json:"password" binding:"omitempty,min=6"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.Username != nil && *input.Username != admin.Username {
			var count int64
			db.Model(&models.Admin{}).Where("username = ?", *input.Username).Count(&count)
			if count > 0 {
				c.JSON(400, gin.H{"error": "Username already in use"})
				return
			}
			admin.Username = *input.Username
		}
		if input.Email != nil && *input.Email != admin.Email {
			var count int64
			db.Model(&models.Admin{}).Where("email = ?", *input.Email).Count(&count)
			if count > 0 {
				c.JSON(400, gin.H{"error": "Email already in use"})
				return
			}
			admin.Email = *input.Email
		}
		if input.Password != nil {
			if err := admin.SetPassword(*input.Password); err != nil {
				c.JSON(500, gin.H{"error": "Failed to hash password"})
				return
			}
		}

		if err := db.Save(admin).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update profile"})
			return
		}

		logAdminAction(db, c, admin.ID, "update_profile", "Admin updated own profile")

		c.JSON(200, gin.H{"message": "Profile updated successfully"})
	}
}
