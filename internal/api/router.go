package api

import (
	"net/http"

	"github.com/Rohangit/ilab-test/internal/api/handler"
	customMiddleware "github.com/Rohangit/ilab-test/internal/api/middleware"
	"github.com/Rohangit/ilab-test/internal/config"
	"github.com/Rohangit/ilab-test/internal/llm"
	"github.com/Rohangit/ilab-test/internal/llm/gemini"
	"github.com/Rohangit/ilab-test/internal/llm/ollama"
	"github.com/Rohangit/ilab-test/internal/llm/openai"
	"github.com/Rohangit/ilab-test/internal/repository/postgres"
	"github.com/Rohangit/ilab-test/internal/repository/redis"
	"github.com/Rohangit/ilab-test/internal/security"
	"github.com/Rohangit/ilab-test/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client) (http.Handler, error) {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	tokenManager, err := security.NewTokenManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.Algorithm,
		cfg.Auth.AccessTokenTTL,
	)
	if err != nil {
		return nil, err
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	interactionRepo := postgres.NewInteractionRepository(db)
	usageRepo := postgres.NewUsageRepository(db)

	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Quota.RateLimit.RequestsPerMinute,
		cfg.Quota.RateLimit.Burst,
	)

	// Generation providers
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)

	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.LLM.DefaultProvider)

	if cfg.LLM.Ollama.Host != "" {
		llmRouter.RegisterProvider(ollama.NewProvider(cfg.LLM.Ollama.Host, cfg.LLM.Ollama.DefaultModel))
	}
	if cfg.LLM.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model))
	}
	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini))
	}

	// Services
	authService := service.NewAuthService(userRepo, tokenManager)
	quotaLedger := service.NewQuotaLedger(usageRepo, cfg.Quota.DailyLimit)
	promptService := service.NewPromptService(
		interactionRepo,
		quotaLedger,
		llmRouter,
		cfg.LLM.RequestTimeout,
		cfg.LLM.FallbackMessage,
	)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	promptHandler := handler.NewPromptHandler(promptService)

	authMiddleware := customMiddleware.NewAuthMiddleware(tokenManager)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db, redisClient))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/token", authHandler.Token)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			r.Get("/me", authHandler.Me)
			r.Post("/prompt", promptHandler.Ask)
			r.Get("/history", promptHandler.History)
			r.Get("/analytics", promptHandler.Analytics)
		})
	})

	return r, nil
}
