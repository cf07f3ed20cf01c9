package main

import (
	"log"
	"os"
	"time"

	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/database"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/handlers"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/middleware"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/models"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/services"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := logger.Init(os.Getenv("APP_ENV")); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Log.Sync()

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// S3 when AWS credentials are configured, local uploads/ otherwise
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	r := gin.Default()
	r.Use(logger.RequestLogger())

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Locally stored vehicle photos
	r.Static("/uploads", "./uploads")

	api := r.Group("/api")
	{
		// Public routes
		users := api.Group("/users")
		{
			users.POST("/register", handlers.Register(db))
			users.POST("/login", handlers.Login(db))
		}
		api.POST("/admin/login", handlers.AdminLogin(db))

		// Customer routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			account := protected.Group("/users")
			{
				account.POST("/logout", handlers.Logout())
				account.GET("/profile", handlers.GetProfile(db))
				account.PUT("/profile", handlers.UpdateProfile(db))
				account.GET("/me/purchases", handlers.GetUserPurchases(db))
				account.GET("/purchases/:id", handlers.GetPurchaseDetails(db))
				account.POST("/from-reservation/:id", handlers.CreatePurchaseRecord(db))
			}

			vehicles := protected.Group("/vehicles")
			{
				vehicles.POST("", handlers.CreateVehicle(db))
				vehicles.GET("", handlers.SearchVehicles(db))
				vehicles.PUT("/:id", handlers.UpdateVehicle(db))
				vehicles.DELETE("/:id", handlers.DeleteVehicle(db))
			}

			inspections := protected.Group("/inspections")
			{
				inspections.GET("/slots", handlers.GetAvailableSlots(db))
				inspections.POST("", handlers.ScheduleInspection(db))
				inspections.PATCH("/:id/complete", handlers.CompleteInspection(db))
			}

			reservations := protected.Group("/reservations")
			{
				reservations.GET("", handlers.ListReservations(db))
				reservations.POST("", handlers.CreateReservation(db))
				reservations.PATCH("/:id/confirm", handlers.ConfirmPurchase(db))
				reservations.PATCH("/:id/cancel", handlers.CancelReservation(db))
			}

			protected.POST("/reviews", handlers.CreateReview(db))
			protected.GET("/me/reviews", handlers.GetUserReviews(db))
			protected.PUT("/reviews/:id", handlers.UpdateReview(db))
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware(db))
		{
			admin.GET("/profile", handlers.AdminGetProfile())
			admin.PUT("/profile", handlers.AdminUpdateProfile(db))
			admin.GET("/dashboard", handlers.GetDashboard(db))

			adminUsers := admin.Group("/users", middleware.RequirePermission(models.PermManageUsers))
			{
				adminUsers.GET("", handlers.AdminListUsers(db))
				adminUsers.GET("/:id", handlers.AdminGetUser(db))
				adminUsers.PUT("/:id", handlers.AdminUpdateUser(db))
			}

			adminVehicles := admin.Group("/vehicles", middleware.RequirePermission(models.PermManageVehicles))
			{
				adminVehicles.GET("", handlers.AdminListVehicles(db))
				adminVehicles.POST("", handlers.AdminCreateVehicle(db))
				adminVehicles.PUT("/:id", handlers.AdminUpdateVehicle(db))
				adminVehicles.DELETE("/:id", handlers.AdminDeleteVehicle(db))
				adminVehicles.POST("/:id/photo", handlers.AdminUploadVehiclePhoto(db))
			}

			admin.GET("/inspections", middleware.RequirePermission(models.PermManageInspections), handlers.AdminListInspections(db))
			admin.GET("/reservations", middleware.RequirePermission(models.PermManageReservations), handlers.AdminListReservations(db))

			adminAdmins := admin.Group("/admins", middleware.RequirePermission(models.PermManageAdmins))
			{
				adminAdmins.GET("", handlers.GetAdmins(db))
				adminAdmins.POST("", handlers.CreateAdmin(db))
			}

			admin.GET("/logs", middleware.RequirePermission(models.PermViewLogs), handlers.GetLogs(db))

			sales := admin.Group("/sales", middleware.RequirePermission(models.PermViewReports))
			{
				sales.GET("/reports", handlers.GetSalesReport(db))
				sales.GET("/dashboard", handlers.GetSalesDashboard(db))
				sales.GET("/reviews", handlers.GetAllReviews(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
