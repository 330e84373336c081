package main

import (
	"context"
	"log"
	"net/http"

	"unicrew/backend/internal/api/handler"
	"unicrew/backend/internal/chathub"
	"unicrew/backend/internal/config"
	"unicrew/backend/internal/models"
	"unicrew/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.Account{},
		&models.Application{},
		&models.ChatRoom{},
		&models.ChatHistory{},
		&models.Review{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Unicrew Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	hub := chathub.NewManager(s)
	go hub.Run()

	r := gin.Default()
	h := handler.NewHandler(hub, s, []byte(cfg.JWTSecret))

	r.POST("/auth/token", h.IssueToken)

	authorized := r.Group("/", h.AuthRequired())
	authorized.GET("/job/:id/applicants", h.ListApplicants)
	authorized.PATCH("/job/:id/applicants/status", h.UpdateStatus)
	authorized.POST("/application/end", h.EndApplication)
	authorized.GET("/chat/:roomId/messages", h.GetMessages)
	authorized.GET("/ws", h.ServeWebSocket)
	authorized.POST("/review", h.CreateReview)
	authorized.GET("/pending-reviews", h.ListPendingReviews)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
