package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/correoplaguna-boop/Cause4ALL-MVP/gateway"
	adminhandlers "github.com/correoplaguna-boop/Cause4ALL-MVP/handlers/admin"
	"github.com/correoplaguna-boop/Cause4ALL-MVP/handlers/campaigns"
	"github.com/correoplaguna-boop/Cause4ALL-MVP/handlers/payments"
	"github.com/correoplaguna-boop/Cause4ALL-MVP/migrations"
	"github.com/correoplaguna-boop/Cause4ALL-MVP/seed"
	"github.com/correoplaguna-boop/Cause4ALL-MVP/store"
	"github.com/correoplaguna-boop/Cause4ALL-MVP/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file:", err)
	}
}

func main() {
	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set in the environment")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{baseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	db, err := utils.ConnectDatabase()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := migrations.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := seed.SeedAdmin(db, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}
	if err := seed.SeedDemoCampaign(db); err != nil {
		log.Fatalf("Failed to seed campaign: %v", err)
	}

	ledger := store.New(db)
	stripeGateway := gateway.New(gateway.Config{
		SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
	})

	pay := payments.NewHandler(ledger, stripeGateway, baseURL)
	r.POST("/api/checkout", pay.CreateCheckout)
	r.GET("/api/verify-payment", pay.VerifyPayment)
	r.POST("/api/webhook", pay.HandleWebhook)

	public := r.Group("/api")
	campaigns.RegisterCampaignsRoutes(public, campaigns.NewHandler(ledger))

	adminGroup := r.Group("/admin")
	adminhandlers.RegisterAdminRoutes(adminGroup, adminhandlers.NewHandler(ledger, []byte(jwtSecret)))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
