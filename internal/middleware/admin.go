package middleware

import (
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/models"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const adminContextKey = "admin"

// AdminAuthMiddleware authenticates administrators. The admin row is loaded
// once per request so permission checks see the current capability set, and
// inactive accounts are rejected even while their token is still valid.
func AdminAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.JSON(401, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		token, err := utils.ValidateToken(tokenString)
		if err != nil || !token.Valid {
			c.JSON(401, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(401, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		adminID, ok := claims["adminId"].(float64)
		if !ok || claims["role"] != "admin" {
			c.JSON(401, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		var admin models.Admin
		if err := db.First(&admin, uint(adminID)).Error; err != nil {
			c.JSON(401, gin.H{"error": "Invalid admin or inactive account"})
			c.Abort()
			return
		}
		if !admin.IsActive {
			c.JSON(401, gin.H{"error": "Invalid admin or inactive account"})
			c.Abort()
			return
		}

		c.Set(adminContextKey, &admin)
		c.Next()
	}
}

// RequirePermission guards a route group behind one capability from the
// registry. Must run after AdminAuthMiddleware.
func RequirePermission(perm models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := CurrentAdmin(c)
		if admin == nil {
			c.JSON(401, gin.H{"error": "Admin authentication required"})
			c.Abort()
			return
		}
		if !admin.HasPermission(perm) {
			c.JSON(403, gin.H{"error": "Permission '" + string(perm) + "' required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentAdmin returns the authenticated admin stored by AdminAuthMiddleware.
func CurrentAdmin(c *gin.Context) *models.Admin {
	value, exists := c.Get(adminContextKey)
	if !exists {
		return nil
	}
	admin, ok := value.(*models.Admin)
	if !ok {
		return nil
	}
	return admin
}
