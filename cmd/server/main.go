package main

import (
	"alcyxob/workout-composer/internal/api"
	"alcyxob/workout-composer/internal/config"
	"alcyxob/workout-composer/internal/logger"
	"alcyxob/workout-composer/internal/presets"
	"alcyxob/workout-composer/internal/repository"
	"alcyxob/workout-composer/internal/repository/mongo"
	"alcyxob/workout-composer/internal/repository/redis"
	"alcyxob/workout-composer/internal/service"
	"alcyxob/workout-composer/internal/storage"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("starting workout composer", "address", cfg.Server.Address, "mode", cfg.Server.Mode)

	ctx := context.Background()

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(ctx, cfg.Database.URI)
	if err != nil {
		log.Fatal("could not connect to MongoDB", "error", err)
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error("failed to disconnect MongoDB", "error", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info("database connection established", "database", cfg.Database.Name)

	indexCtx, cancelIndexes := context.WithTimeout(ctx, time.Minute)
	if err := mongo.EnsureIndexes(indexCtx, appDB); err != nil {
		log.Warn("failed to create indexes", "error", err)
	}
	cancelIndexes()

	// --- Initialize Repositories ---
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)

	var catalog repository.ExerciseCatalog = exerciseRepo
	if cfg.Redis.Address != "" {
		rdb, err := redis.NewClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("could not connect to Redis", "error", err)
		}
		defer rdb.Close()
		catalog = redis.NewCatalogCache(log, rdb, exerciseRepo, cfg.Redis.CatalogTTL)
		log.Info("exercise catalog cache enabled", "address", cfg.Redis.Address, "ttl", cfg.Redis.CatalogTTL)
	}

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(ctx, log, cfg.S3)
	if err != nil {
		log.Fatal("failed to initialize S3 storage", "error", err)
	}

	// --- Seed presets ---
	if cfg.Presets.Path != "" {
		file, err := presets.Load(cfg.Presets.Path)
		if err != nil {
			log.Fatal("could not load presets", "path", cfg.Presets.Path, "error", err)
		}
		seedCtx, cancelSeed := context.WithTimeout(ctx, time.Minute)
		err = presets.Seed(seedCtx, log, file, exerciseRepo, workoutRepo)
		cancelSeed()
		if err != nil {
			log.Fatal("could not seed presets", "error", err)
		}
	}

	// --- Initialize Services ---
	workoutService := service.NewWorkoutService(workoutRepo, catalog, fileStorage, log)
	catalogService := service.NewCatalogService(exerciseRepo, catalog)

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.Default() // Includes Logger and Recovery middleware
	router.Use(api.CORS(cfg.Server.CORSOrigins))
	api.SetupRoutes(router, cfg.JWT.Secret, log, workoutService, catalogService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe failed", "error", err)
		}
	}()
	log.Info("server listening", "address", cfg.Server.Address)

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	log.Info("server exiting")
}
