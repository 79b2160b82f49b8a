package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/nextgen/nextgen-api/internal/http/handlers"
	imw "github.com/nextgen/nextgen-api/internal/http/middleware"
	"github.com/nextgen/nextgen-api/internal/http/response"
	"github.com/nextgen/nextgen-api/internal/platform/hash"
	"github.com/nextgen/nextgen-api/internal/platform/mailer"
	"github.com/nextgen/nextgen-api/internal/repo/postgres"
	"github.com/nextgen/nextgen-api/internal/service"
	"github.com/nextgen/nextgen-api/pkg/config"
	"github.com/nextgen/nextgen-api/pkg/database"
	"github.com/nextgen/nextgen-api/pkg/events"
	"github.com/nextgen/nextgen-api/pkg/logger"
	mw "github.com/nextgen/nextgen-api/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Redis backs the auth rate limiter; the limiter fails open, so a
	// missing redis only disables throttling.
	var redisClient *redis.Client
	if opts, err := redis.ParseURL(cfg.Redis.URL); err != nil {
		logger.Warn("Invalid redis URL, rate limiting disabled", "error", err)
	} else {
		redisClient = redis.NewClient(opts)
	}

	var eventBus events.Publisher
	if bus, err := events.NewNATSEventBus(cfg.NATS.URL); err != nil {
		logger.Warn("Failed to connect to NATS, events disabled", "error", err)
	} else {
		eventBus = bus
		defer bus.Close()
	}

	mailSvc := selectMailer(cfg)
	hasher := hash.NewHasher(cfg.Auth.HashCost)

	// Repositories
	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	bannerRepo := postgres.NewBannerRepository(pool)

	// Services
	authService := service.NewAuthService(userRepo, mailSvc, eventBus, hasher, cfg)
	catalogService := service.NewCatalogService(categoryRepo)
	productService := service.NewProductService(productRepo, eventBus)
	bannerService := service.NewBannerService(bannerRepo)

	h := handlers.New(authService, catalogService, productService, bannerService, cfg)

	authLimiter := imw.NewRateLimiter(redisClient, 10, time.Minute)
	requireAuth := imw.RequireAuth(cfg.Auth.JWTSecret)
	requireAdmin := imw.RequireAdmin(cfg.Auth.JWTSecret)

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("api"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Server.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, http.StatusOK, "Hello World!", nil)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware())
			r.Post("/signup", h.Signup)
			r.Post("/signin", h.Signin)
			r.Post("/signout", h.Signout)
			r.Patch("/send-verification-code", h.SendVerificationCode)
			r.Patch("/verify-verification-code", h.VerifyVerificationCode)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/profile", h.Profile)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Get("/{id}", h.GetCategory)
			r.With(requireAdmin).Post("/", h.CreateCategory)
			r.With(requireAdmin).Patch("/{id}", h.UpdateCategory)
			r.With(requireAdmin).Delete("/{id}", h.DeleteCategory)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Get("/{id}", h.GetProduct)
			r.With(requireAdmin).Post("/", h.CreateProduct)
			r.With(requireAdmin).Put("/{id}", h.UpdateProduct)
			r.With(requireAdmin).Delete("/{id}", h.DeleteProduct)
			r.With(requireAuth).Post("/{id}/reviews", h.AddReview)
			r.Post("/{id}/downloads", h.IncrementDownloads)
		})

		r.Route("/banners", func(r chi.Router) {
			r.Get("/", h.ListBanners)
			r.With(requireAdmin).Post("/", h.CreateBanner)
			r.With(requireAdmin).Delete("/{id}", h.DeleteBanner)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("API server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting API server", "port", cfg.Server.Port, "env", cfg.Env)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}

func selectMailer(cfg *config.Config) mailer.Service {
	switch {
	case cfg.Email.DevMode:
		return mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		return mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.From)
	default:
		return mailer.NewSMTPMailer(
			cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.From,
			cfg.Email.SMTPUser, cfg.Email.SMTPPass, cfg.Email.SMTPUseTLS,
		)
	}
}
