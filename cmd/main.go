package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agusaisen/recopro/config"
	"github.com/agusaisen/recopro/db"
	"github.com/agusaisen/recopro/events"
	"github.com/agusaisen/recopro/handlers"
	"github.com/agusaisen/recopro/repositories"
	api "github.com/agusaisen/recopro/routes"
	"github.com/agusaisen/recopro/services"
	"github.com/agusaisen/recopro/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	hub := events.NewHub(logger)
	go hub.Run()
	logger.Info("event hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	disciplineRepo := repositories.NewPostgresDisciplineRepository(dbConn)
	localityRepo := repositories.NewPostgresLocalityRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	membershipRepo := repositories.NewPostgresMembershipRepository(dbConn)
	settingsRepo := repositories.NewPostgresSettingsRepository(dbConn)
	reportRepo := repositories.NewPostgresReportRepository(dbConn)
	logger.Info("repositories initialized")

	emailService := services.NewEmailService(cfg)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	disciplineService := services.NewDisciplineService(disciplineRepo)
	localityService := services.NewLocalityService(localityRepo)
	settingsService := services.NewSettingsService(settingsRepo, cfg.Timezone)
	teamService := services.NewTeamService(
		teamRepo,
		disciplineRepo,
		membershipRepo,
		userRepo,
		settingsService,
		hub,
		emailService,
		logger,
	)
	enrollmentService := services.NewEnrollmentService(
		teamRepo,
		disciplineRepo,
		participantRepo,
		membershipRepo,
		settingsService,
		hub,
		cfg.MinStaffAge,
	)
	documentService := services.NewDocumentService(participantRepo, uploader)
	dashboardService := services.NewDashboardService(reportRepo)
	reportService := services.NewReportService(reportRepo, teamService)
	logger.Info("services initialized")

	jwtSecret := []byte(cfg.JWTSecretKey)
	authHandler := handlers.NewAuthHandler(authService, jwtSecret)
	teamHandler := handlers.NewTeamHandler(teamService)
	memberHandler := handlers.NewMemberHandler(enrollmentService)
	disciplineHandler := handlers.NewDisciplineHandler(disciplineService)
	localityHandler := handlers.NewLocalityHandler(localityService)
	userHandler := handlers.NewUserHandler(userService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	reportHandler := handlers.NewReportHandler(reportService, dashboardService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	webSocketHandler := handlers.NewWebSocketHandler(hub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		jwtSecret,
		authHandler,
		teamHandler,
		memberHandler,
		disciplineHandler,
		localityHandler,
		userHandler,
		settingsHandler,
		reportHandler,
		documentHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
