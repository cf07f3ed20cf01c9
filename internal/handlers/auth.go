package handlers

import (
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/models"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/services"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var count int64
		db.Model(&models.User{}).Where("email = ?", input.Email).Count(&count)
		if count > 0 {
			c.JSON(400, gin.H{"error": "Email already in use"})
			return
		}
		db.Model(&models.User{}).Where("username = ?", input.Username).Count(&count)
		if count > 0 {
			c.JSON(400, gin.H{"error": "Username already in use"})
			return
		}

		user := models.User{
			Username: input.Username,
			Email:    input.Email,
		}
		if err := user.SetPassword(input.Password); err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash password"})
			return
		}

		if err := db.Create(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create user"})
			return
		}

		c.JSON(201, gin.H{
			"message": "User registered successfully",
			"user":    user,
		})
	}
}

func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		if err := user.CheckPassword(input.Password); err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{
			"token": token,
			"user":  user,
		})
	}
}

// Logout revokes the presented token for the remainder of its lifetime.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetString("token")
		if tokenString != "" && services.RedisClient != nil {
			token, err := utils.ValidateToken(tokenString)
			if err == nil {
				_ = services.RevokeToken(c.Request.Context(), tokenString, utils.TokenRemainingLife(token))
			}
		}
		c.JSON(200, gin.H{"message": "Logout successful"})
	}
}

// GetProfile retrieves the user's profile
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var user models.User
		if err := db.First(&user, userId).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		c.JSON(200, gin.H{"user": user})
	}
}

// UpdateProfile updates the user's profile information
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			Username *string `json:"username"`
			Email    *string `json:"email" binding:"omitempty,email"`
			Password *string `json:"password" binding:"omitempty,min=6"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, userId).Error; err != nil {
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
		if input.Password != nil {
			if err := user.SetPassword(*input.Password); err != nil {
				c.JSON(500, gin.H{"error": "Failed to hash password"})
				return
			}
		}

		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update profile"})
			return
		}

		c.JSON(200, gin.H{
			"message": "Profile updated successfully",
			"user":    user,
		})
	}
}
