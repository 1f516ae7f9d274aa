package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roaddog-system/config"
	"roaddog-system/internal/database"
	"roaddog-system/internal/database/models"
	"roaddog-system/internal/mailer"
	"roaddog-system/internal/server/handlers"
	"roaddog-system/internal/server/middleware"
	"roaddog-system/internal/sheets"
	"roaddog-system/internal/store"
	"roaddog-system/internal/utils"
)

func main() {
	cfg := config.LoadConfig()

	if cfg.Auth.JWTSecret == "" {
		log.Fatalf("JWT_SECRET must be set")
	}
	utils.JwtSecret = []byte(cfg.Auth.JWTSecret)

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient := config.NewRedisClient(cfg.Redis)

	var sheetsClient *sheets.Client
	if cfg.Sheets.CredentialsJSON != "" || cfg.Sheets.CredentialsFile != "" || cfg.Sheets.OAuthClientJSON != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		sheetsClient, err = sheets.New(ctx, cfg.Sheets)
		cancel()
		if err != nil {
			log.Fatalf("Failed to initialize Google Sheets client: %v", err)
		}
		log.Printf("Google Sheets integration enabled")
	} else {
		log.Printf("Google Sheets integration disabled: no credentials configured")
	}

	st := store.New(db, redisClient)
	h := handlers.New(st, sheetsClient, mailer.New(cfg.Mail), time.Duration(cfg.Auth.TokenTTL)*time.Hour)

	r := gin.Default()

	r.Use(middleware.CORS())
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit())

	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/login", h.Login)
			auth.POST("/register", h.Register)
		}
	}

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth())
	{
		orgs := protected.Group("/organizations")
		{
			orgs.POST("", h.CreateOrganization)
			orgs.GET("", h.ListOrganizations)
			orgs.GET("/current", h.CurrentOrganization)
			orgs.GET("/:orgId", h.GetOrganization)
			orgs.PUT("/:orgId", h.UpdateOrganization)
			orgs.DELETE("/:orgId", h.DeleteOrganization)

			orgs.GET("/:orgId/members", h.ListMembers)
			orgs.POST("/:orgId/members", h.AddMember)
			orgs.DELETE("/:orgId/members/me", h.LeaveOrganization)

			orgs.GET("/:orgId/products", h.ListProducts)
			orgs.POST("/:orgId/products", h.CreateProduct)
			orgs.GET("/:orgId/products/:productId", h.GetProduct)
			orgs.PUT("/:orgId/products/:productId", h.UpdateProduct)
			orgs.DELETE("/:orgId/products/:productId", h.DeleteProduct)
			orgs.POST("/:orgId/products/:productId/restock", h.RestockProduct)

			orgs.POST("/:orgId/sales", h.RecordSale)
			orgs.GET("/:orgId/sales", h.ListSales)
			orgs.GET("/:orgId/sales/:saleId", h.GetSale)

			orgs.POST("/:orgId/closeouts", h.CreateCloseOut)
			orgs.GET("/:orgId/closeouts", h.ListCloseOuts)
			orgs.GET("/:orgId/closeouts/:closeOutId", h.GetCloseOut)

			orgs.POST("/:orgId/signups", h.RecordSignup)
			orgs.GET("/:orgId/signups", h.ListSignups)

			orgs.GET("/:orgId/settings", h.GetSettings)
			orgs.PUT("/:orgId/settings", h.SaveSettings)

			orgs.POST("/:orgId/sheets/sync-products", h.SyncProducts)
			orgs.POST("/:orgId/sheets/sync-sales", h.SyncSales)
			orgs.POST("/:orgId/sheets/sync-signups", h.SyncSignups)
			orgs.POST("/:orgId/sheets/import-products", h.ImportProducts)
		}

		sheetGroup := protected.Group("/sheets")
		{
			sheetGroup.GET("/find", h.FindSpreadsheet)
			sheetGroup.POST("/init", h.InitSpreadsheet)
			sheetGroup.GET("/:spreadsheetId/insights", h.QuickStats)
			sheetGroup.GET("/:spreadsheetId/insights/daily", h.DailyBreakdown)
			sheetGroup.GET("/:spreadsheetId/insights/reconcile", h.ReconcileInsights)
			sheetGroup.POST("/:spreadsheetId/insights/rebuild", h.RebuildInsights)
			sheetGroup.GET("/:spreadsheetId/settings", h.GetSheetSettings)
			sheetGroup.PUT("/:spreadsheetId/settings", h.SaveSheetSettings)
			sheetGroup.POST("/:spreadsheetId/migrate", h.MigrateLegacySales)
		}

		protected.POST("/feedback", h.SubmitFeedback)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"message":   "Server is running",
			"timestamp": time.Now(),
		})
	})

	port := ":" + cfg.HTTPPort
	log.Printf("Starting server on port %s", port)
	if err := r.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
