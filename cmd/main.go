package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"totocalcio/internal/auth"
	"totocalcio/internal/config"
	"totocalcio/internal/database"
	"totocalcio/internal/events"
	"totocalcio/internal/export"
	"totocalcio/internal/handlers"
	"totocalcio/internal/jobs"
	"totocalcio/internal/notify"
	"totocalcio/internal/repository"
	"totocalcio/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	auth.InitJWT(cfg.App.JWTSecret)

	db, err := database.Connect(cfg.Database.Driver, cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	bus := events.NewBus()
	bus.Subscribe(notify.NewLogSink(log.Default()).Handle)

	var telegram *notify.TelegramSink
	if cfg.Telegram.Token != "" {
		telegram, err = notify.NewTelegramSink(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			log.Printf("Telegram notifications disabled: %v", err)
		} else {
			bus.Subscribe(telegram.Handle)
			log.Println("Telegram notifications enabled")
		}
	}

	exporter, err := newExporter(cfg.Export)
	if err != nil {
		log.Fatalf("Failed to configure report export: %v", err)
	}

	location := cfg.Location()
	clock := func() time.Time { return time.Now().In(location) }

	repo := repository.NewRepository(db)
	pool := services.NewPoolService(repo, bus,
		services.WithClock(clock),
		services.WithExporter(exporter),
	)

	var reminder *jobs.RoundReminder
	if cfg.Reminder.Enabled {
		reminder = jobs.NewRoundReminder(repo, bus, cfg.Reminder.Interval).WithClock(clock)
		if err := reminder.Start(); err != nil {
			log.Fatalf("Failed to start round reminder: %v", err)
		}
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handlers.NewPoolHandler(pool).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	if reminder != nil {
		if err := reminder.Stop(); err != nil {
			log.Printf("Failed to stop round reminder: %v", err)
		}
	}
	if telegram != nil {
		telegram.Stop()
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("Server exited")
}

// newExporter writes reports to S3 when a bucket is configured and to the
// local report directory otherwise.
func newExporter(cfg config.ExportConfig) (export.Exporter, error) {
	if cfg.Bucket == "" {
		log.Printf("Reports will be written to %s", cfg.Dir)
		return export.NewFileExporter(cfg.Dir), nil
	}
	log.Printf("Reports will be published to s3://%s/%s", cfg.Bucket, cfg.Prefix)
	return export.NewS3Exporter(context.Background(), export.S3Options{
		Bucket:    cfg.Bucket,
		Prefix:    cfg.Prefix,
		Region:    cfg.Region,
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
	})
}
