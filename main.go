package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"medbook/config"
	_ "medbook/docs"
	"medbook/internal/cache"
	"medbook/internal/repository"
	"medbook/internal/repository/memory"
	"medbook/internal/service"
	"medbook/internal/storage"
	"medbook/internal/transport/rest"
	"medbook/internal/transport/websocket"
	"medbook/pkg/database"
	"medbook/pkg/logger"
)

// @title Medbook API
// @version 1.0
// @description Appointment booking for doctors and clinics

// @BasePath /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:           "medbook",
		Short:         "Medical appointment booking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the booking lifecycle job",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply pending migrations before serving")

	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx := cmd.Context()
			db, err := database.NewPostgresDB(ctx, cfg.Postgres)
			if err != nil {
				return err
			}
			defer db.Close()

			return database.RunMigrations(ctx, db, cfg.Postgres.MigrationsDir, log)
		},
	}
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	envErr := godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	if envErr != nil {
		log.Debug("no .env file loaded, using process environment")
	}

	return cfg, log, nil
}

func runServer(migrate bool) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repos *repository.Repositories
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		repos = memory.NewStore().Repositories()
	default:
		db, err := database.NewPostgresDB(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer db.Close()

		if migrate {
			if err := database.RunMigrations(ctx, db, cfg.Postgres.MigrationsDir, log); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
		}
		repos = repository.NewRepositories(db)
	}

	var availabilityCache cache.AvailabilityCache
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis)
		if err != nil {
			return err
		}
		defer redisCache.Close()
		availabilityCache = redisCache
		log.Info("availability cache enabled", zap.String("addr", cfg.Redis.Addr))
	} else {
		log.Warn("redis is not configured, availability is computed on every request")
	}

	var fileStorage storage.FileStorage
	if cfg.S3.Endpoint != "" {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.S3, log)
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
		fileStorage = s3Storage
		log.Info("object storage enabled", zap.String("endpoint", cfg.S3.Endpoint))
	} else {
		log.Warn("object storage is not configured, photo uploads and exports are disabled")
	}

	slotHub := websocket.NewSlotHub(log)
	go slotHub.Run(ctx)

	services := service.NewServices(service.Deps{
		Repos:       repos,
		Logger:      log,
		Config:      cfg,
		FileStorage: fileStorage,
		Cache:       availabilityCache,
		Events:      slotHub,
	})

	go runLifecycle(ctx, services.Booking, cfg.Booking.LifecycleInterval, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	rest.NewHandler(services, log, cfg, slotHub).InitRoutes(router)

	srv := &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderMB << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// runLifecycle periodically auto-confirms and auto-completes bookings until
// ctx is done.
func runLifecycle(ctx context.Context, bookings service.BookingService, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		log.Warn("booking lifecycle job disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, _, err := bookings.RunLifecycle(ctx); err != nil && ctx.Err() == nil {
				log.Error("booking lifecycle run failed", zap.Error(err))
			}
		}
	}
}
