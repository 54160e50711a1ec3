package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahmadqo/student-course-roster/internal/cache"
	"github.com/ahmadqo/student-course-roster/internal/config"
	"github.com/ahmadqo/student-course-roster/internal/database"
	"github.com/ahmadqo/student-course-roster/internal/handler"
	"github.com/ahmadqo/student-course-roster/internal/repository"
	"github.com/ahmadqo/student-course-roster/internal/service"
	"github.com/ahmadqo/student-course-roster/internal/utils"
)

// @title           Student Course Roster API
// @version         1.0
// @description     Backend for managing students, courses and course rosters.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	ctx := context.Background()

	// ── Database ─────────────────────────────────────
	db := database.Connect(&cfg.Database)
	defer db.Close()

	migrations, err := database.Migrations(cfg.Database.Driver)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if err := database.RunMigrations(db, migrations); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	seeder := database.NewSeeder(db)
	if err := seeder.SeedAdminUser(ctx); err != nil {
		log.Printf("Warning: seed failed: %v", err)
	}

	// ── Storage (MinIO, opsional) ────────────────────
	var storage service.FileStorage
	if cfg.MinIO.Enabled() {
		minio, err := utils.NewStorageService(ctx, &cfg.MinIO)
		if err != nil {
			log.Fatalf("Failed to connect to MinIO: %v", err)
		}
		storage = minio
		log.Println("MinIO connected successfully")
	} else {
		log.Println("MINIO_ENDPOINT kosong, upload foto dinonaktifkan")
	}

	// ── Cache (Redis, opsional) ──────────────────────
	var detailCache service.DetailCache
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			log.Printf("Warning: Redis tidak tersedia, cache dinonaktifkan: %v", err)
		} else {
			defer client.Close()
			detailCache = cache.NewCourseCache(client, cfg.Redis.TTL)
			log.Println("Redis connected successfully")
		}
	}

	// ── Repositories ─────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)

	// ── Services ─────────────────────────────────────
	authService := service.NewAuthService(userRepo, cfg.JWT)
	studentService := service.NewStudentService(studentRepo, courseRepo, storage, detailCache)
	courseService := service.NewCourseService(courseRepo, studentRepo, detailCache, cfg.App.PublicURL)

	// ── Handlers ─────────────────────────────────────
	router := handler.NewRouter(
		handler.NewAuthHandler(authService),
		handler.NewStudentHandler(studentService),
		handler.NewCourseHandler(courseService),
		cfg.JWT.Secret,
		cfg.App.AuthEnabled,
	)
	if !cfg.App.AuthEnabled {
		log.Println("Warning: AUTH_ENABLED=false, endpoint siswa dan course tanpa token")
	}

	// ── HTTP Server ──────────────────────────────────
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.App.Port),
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server berjalan di port %s (mode: %s, db: %s)", cfg.App.Port, cfg.App.Env, cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}
