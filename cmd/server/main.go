package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"freelance-rate-engine/internal/config"
	"freelance-rate-engine/internal/handlers"
	"freelance-rate-engine/internal/services/auth"
	"freelance-rate-engine/internal/services/database"
	"freelance-rate-engine/internal/services/mailer"
	"freelance-rate-engine/internal/services/pricing"
	"freelance-rate-engine/internal/services/storage"
	"freelance-rate-engine/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}

	if err := utils.InitLogger(cfg.LogLevel, cfg.Stage); err != nil {
		os.Exit(1)
	}
	defer utils.Sync()
	logger := utils.GetLogger()

	ctx := context.Background()

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	userRepo := database.NewUserRepository(db)
	calcRepo := database.NewCalculationRepository(db)
	invoiceRepo := database.NewInvoiceRepository(db)
	contractRepo := database.NewContractRepository(db)

	authSvc := auth.NewService(cfg)
	pricingSvc := pricing.NewService(calcRepo, logger)

	var storageSvc *storage.Service
	if cfg.S3Bucket != "" {
		storageSvc, err = storage.NewService(ctx, cfg)
		if err != nil {
			logger.Warn("Document storage disabled", zap.Error(err))
			storageSvc = nil
		}
	}

	var mailerSvc *mailer.Service
	if cfg.SESSenderEmail != "" {
		mailerSvc, err = mailer.NewService(ctx, cfg)
		if err != nil {
			logger.Warn("Invoice email disabled", zap.Error(err))
			mailerSvc = nil
		}
	}

	mw := handlers.NewMiddleware(authSvc)
	authHandler := handlers.NewAuthHandler(userRepo, authSvc)
	profileHandler := handlers.NewProfileHandler(userRepo)
	ratesHandler := handlers.NewRatesHandler(pricingSvc)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceRepo, userRepo, storageSvc, mailerSvc)
	contractHandler := handlers.NewContractHandler(contractRepo, storageSvc)
	healthHandler := handlers.NewHealthHandler(db)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/v1/auth/me", mw.RequireAuth(authHandler.Me))

	mux.HandleFunc("GET /api/v1/profile", mw.RequireAuth(profileHandler.Get))
	mux.HandleFunc("PUT /api/v1/profile", mw.RequireAuth(profileHandler.Update))

	mux.HandleFunc("POST /api/v1/rates/calculate", mw.RequireAuth(ratesHandler.Calculate))
	mux.HandleFunc("GET /api/v1/rates/history", mw.RequireAuth(ratesHandler.History))
	mux.HandleFunc("GET /api/v1/rates/history/{id}", mw.RequireAuth(ratesHandler.Get))
	mux.HandleFunc("PATCH /api/v1/rates/history/{id}", mw.RequireAuth(ratesHandler.Update))
	mux.HandleFunc("DELETE /api/v1/rates/history/{id}", mw.RequireAuth(ratesHandler.Delete))
	mux.HandleFunc("GET /api/v1/rates/favorites", mw.RequireAuth(ratesHandler.Favorites))
	mux.HandleFunc("PUT /api/v1/rates/history/{id}/favorite", mw.RequireAuth(ratesHandler.SetFavorite))
	mux.HandleFunc("GET /api/v1/rates/recent", mw.RequireAdmin(ratesHandler.Recent))
	mux.HandleFunc("GET /api/v1/rates/by-project-type/{type}", mw.RequireAdmin(ratesHandler.ByProjectType))

	mux.HandleFunc("POST /api/v1/invoices", mw.RequireAuth(invoiceHandler.Create))
	mux.HandleFunc("GET /api/v1/invoices", mw.RequireAuth(invoiceHandler.List))
	mux.HandleFunc("GET /api/v1/invoices/{id}", mw.RequireAuth(invoiceHandler.Get))
	mux.HandleFunc("PATCH /api/v1/invoices/{id}", mw.RequireAuth(invoiceHandler.Update))
	mux.HandleFunc("DELETE /api/v1/invoices/{id}", mw.RequireAuth(invoiceHandler.Delete))
	mux.HandleFunc("POST /api/v1/invoices/{id}/send", mw.RequireAuth(invoiceHandler.Send))
	mux.HandleFunc("POST /api/v1/invoices/{id}/pdf-upload-url", mw.RequireAuth(invoiceHandler.PDFUploadURL))
	mux.HandleFunc("GET /api/v1/invoices/{id}/pdf-download-url", mw.RequireAuth(invoiceHandler.PDFDownloadURL))

	mux.HandleFunc("POST /api/v1/contracts", mw.RequireAuth(contractHandler.Create))
	mux.HandleFunc("GET /api/v1/contracts", mw.RequireAuth(contractHandler.List))
	mux.HandleFunc("GET /api/v1/contracts/{id}", mw.RequireAuth(contractHandler.Get))
	mux.HandleFunc("PATCH /api/v1/contracts/{id}", mw.RequireAuth(contractHandler.Update))
	mux.HandleFunc("DELETE /api/v1/contracts/{id}", mw.RequireAuth(contractHandler.Delete))
	mux.HandleFunc("POST /api/v1/contracts/{id}/pdf-upload-url", mw.RequireAuth(contractHandler.PDFUploadURL))
	mux.HandleFunc("GET /api/v1/contracts/{id}/pdf-download-url", mw.RequireAuth(contractHandler.PDFDownloadURL))

	var handler http.Handler = mux
	handler = handlers.Metrics(handler)

	if cfg.RateLimitEnabled {
		limiter, err := handlers.NewRateLimiter(cfg.RedisURL, cfg.RateLimitPerWindow)
		if err != nil {
			logger.Warn("Rate limiting disabled", zap.Error(err))
		} else {
			defer limiter.Close()
			handler = limiter.Middleware(handler)
		}
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Total-Count", "X-Calculation-ID"},
		AllowCredentials: true,
	})
	handler = corsHandler.Handler(handler)
	handler = handlers.RequestLogger(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Starting server",
		zap.String("port", cfg.Port),
		zap.String("stage", cfg.Stage),
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
