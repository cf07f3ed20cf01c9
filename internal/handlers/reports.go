package handlers

import (
	"time"

	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetSalesReport aggregates sales over an optional date range
// (start_date/end_date, YYYY-MM-DD).
func GetSalesReport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Purchase{})

		if start := c.Query("start_date"); start != "" {
			t, err := time.Parse("2006-01-02", start)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid start_date. Use YYYY-MM-DD"})
				return
			}
			query = query.Where("created_at >= ?", t)
		}
		if end := c.Query("end_date"); end != "" {
			t, err := time.Parse("2006-01-02", end)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid end_date. Use YYYY-MM-DD"})
				return
			}
			// inclusive end of day
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		}

		var report struct {
			TotalSales       int64   `json:"total_sales"`
			TotalRevenue     float64 `json:"total_revenue"`
			AverageSaleValue float64 `json:"average_sale_value"`
		}
		if err := query.
			Select("COUNT(*) AS total_sales, COALESCE(SUM(final_price), 0) AS total_revenue, COALESCE(AVG(final_price), 0) AS average_sale_value").
			Scan(&report).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to build sales report"})
			return
		}

		c.JSON(200, gin.H{"report": report})
	}
}

// GetSalesDashboard summarizes recent sales activity: the last 30 days of
// purchases, the five best-selling models and the latest reviews.
func GetSalesDashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		since := time.Now().UTC().AddDate(0, 0, -30)

		var recentSales []models.Purchase
		if err := db.Preload("Vehicle").
			Where("created_at >= ?", since).
			Order("created_at DESC").
			Find(&recentSales).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch recent sales"})
			return
		}

		var popular []struct {
			Marca      string `json:"marca"`
			Modelo     string `json:"modelo"`
			SalesCount int64  `json:"sales_count"`
		}
		if err := db.Model(&models.Purchase{}).
			Select("vehicles.marca AS marca, vehicles.modelo AS modelo, COUNT(purchases.id) AS sales_count").
			Joins("JOIN vehicles ON vehicles.id = purchases.vehicle_id").
			Group("vehicles.marca, vehicles.modelo").
			Order("sales_count DESC").
			Limit(5).
			Scan(&popular).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch popular vehicles"})
			return
		}

		var recentReviews []models.Review
		if err := db.Preload("Purchase.Vehicle").
			Order("created_at DESC").
			Limit(10).
			Find(&recentReviews).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch recent reviews"})
			return
		}

		c.JSON(200, gin.H{
			"recent_sales":     recentSales,
			"popular_vehicles": popular,
			"recent_reviews":   recentReviews,
		})
	}
}

// GetAllReviews lists every review with its purchase and vehicle.
func GetAllReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reviews []models.Review
		if err := db.Preload("Purchase.Vehicle").
			Order("created_at DESC").
			Find(&reviews).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch reviews"})
			return
		}
		c.JSON(200, gin.H{"reviews": reviews})
	}
}
