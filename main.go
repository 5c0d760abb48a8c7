package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"familypoints/handlers"
	"familypoints/middleware"
	"familypoints/models"
	"familypoints/services"
	"familypoints/utils"
	"familypoints/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024, // evidence photos/PDFs
	})

	// Only gateway requests allowed — no exceptions.
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Role, X-Parent-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if os.Getenv("R2_ACCESS_KEY_ID") != "" {
		if err := utils.InitR2(); err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		log.Println("✅ Evidence uploads going to R2")
	} else {
		log.Println("⚠️  R2 not configured — evidence uploads stored locally")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Submission{},
		&models.SubmissionEvidence{},
		&models.PointsLedger{},
		&models.Reward{},
		&models.RewardRedemption{},
		&models.Badge{},
		&models.ChildBadge{},
		&models.ParentSettings{},
		&models.Announcement{},
		&models.AnnouncementRead{},
		&models.AnnouncementDismissal{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	ledgerService := services.NewLedgerService(db)
	badgeService := services.NewBadgeService(db, ledgerService)
	redemptionService := services.NewRedemptionService(db, ledgerService)
	approvalService := services.NewApprovalService(db, ledgerService, badgeService)
	taskService := services.NewTaskService(db, approvalService)
	rewardService := services.NewRewardService(db)
	settingsService := services.NewSettingsService(db)
	announcementService := services.NewAnnouncementService(db)

	if err := badgeService.EnsureCatalog(); err != nil {
		log.Fatal("failed to seed badge catalog:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reconciler := workers.NewBadgeReconciler(db, badgeService)
	go workers.PollBadges(ctx, reconciler, 10*time.Minute)

	announcementService.StartExpirySweeper()

	handlers.SetupPointsRoutes(app, ledgerService, redemptionService, badgeService, approvalService, settingsService)
	handlers.SetupFamilyRoutes(app, taskService, rewardService, settingsService, announcementService)
	handlers.SetupUploadRoutes(app)

	app.Static("/uploads", "./uploads")

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Badge reconcile loop running (every 10m)")
	log.Println("✅ Announcement expiry sweeper running")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
