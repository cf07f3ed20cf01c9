package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const (
	UserTokenLifetime  = time.Hour * 24 * 7
	AdminTokenLifetime = time.Hour * 24
)

func GenerateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  "user",
		"exp":   time.Now().Add(UserTokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// GenerateAdminToken issues a shorter-lived token carrying the admin id.
func GenerateAdminToken(admin *models.Admin) (string, error) {
	claims := jwt.MapClaims{
		"adminId": admin.ID,
		"email":   admin.Email,
		"role":    "admin",
		"exp":     time.Now().Add(AdminTokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
}

// TokenRemainingLife returns how long the token stays valid, used to scope the
// revocation entry written on logout.
func TokenRemainingLife(token *jwt.Token) time.Duration {
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	return time.Until(exp.Time)
}
