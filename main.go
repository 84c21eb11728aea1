package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/username/finansdefter/backend/src/config"
	"github.com/username/finansdefter/backend/src/database"
	"github.com/username/finansdefter/backend/src/handlers"
	"github.com/username/finansdefter/backend/src/logger"
	"github.com/username/finansdefter/backend/src/model"
	"github.com/username/finansdefter/backend/src/security"
	"github.com/username/finansdefter/backend/src/services"
	"golang.org/x/time/rate"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	authService := security.NewAuthService(config.Cfg.JWTSecret, config.Cfg.AccessTokenExpiry)

	// "finansdefter token <username> <role>" prints an access token and exits.
	if len(os.Args) > 1 && os.Args[1] == "token" {
		issueToken(authService, os.Args[2:])
		return
	}

	logger.L.Info("FinansDefter backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations()
	defer database.DB.Close()

	store := model.NewStore(database.DB)
	reportCache := cache.New(config.Cfg.ReportCacheTTL, 2*config.Cfg.ReportCacheTTL)

	settingsService := services.NewSettingsService(store, config.Cfg.DefaultCardExpiryMonths)
	definitionService := services.NewDefinitionService(store, store, reportCache, nil)
	importService := services.NewImportService(store, store, reportCache, config.Cfg.ImportPlanTTL, nil)
	exportService := services.NewExportService(store)
	paymentService := services.NewPaymentService(store, store, store, store, reportCache, config.Cfg.ReportCacheTTL, nil)
	reminderService := services.NewReminderService(store, store, settingsService, store, nil)
	activityService := services.NewActivityService(store)

	api := &handlers.API{
		Users:       handlers.NewUserHandler(authService),
		Definitions: handlers.NewDefinitionHandler(definitionService),
		Imports:     handlers.NewImportHandler(importService, config.Cfg.MaxUploadSizeBytes),
		Exports:     handlers.NewExportHandler(exportService),
		Payments:    handlers.NewPaymentHandler(paymentService),
		Reminders:   handlers.NewReminderHandler(reminderService),
		Settings:    handlers.NewSettingsHandler(settingsService, activityService),
	}

	limiter := rate.NewLimiter(rate.Limit(config.Cfg.RateLimitRPS), config.Cfg.RateLimitBurst)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(handlers.CORSMiddleware(config.Cfg.AllowedOrigins))
	r.Use(handlers.RateLimitMiddleware(limiter))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "FinansDefter Backend is running"})
	})

	api.Mount(r)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "route not found"})
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.L.Info("Server starting", "address", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			stdlog.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.L.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.L.Error("Server shutdown failed", "error", err)
	}
}

func issueToken(authService *security.AuthService, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: finansdefter token <username> <role>")
		os.Exit(2)
	}
	token, err := authService.GenerateToken(args[0], args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
