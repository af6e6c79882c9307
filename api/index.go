package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"leadflow-backend/pkg/config"
	"leadflow-backend/pkg/database"
	"leadflow-backend/pkg/handlers"
	customMiddleware "leadflow-backend/pkg/middleware"
	"leadflow-backend/pkg/utils"
)

const maxRequestBody = 1 << 20 // 1 MiB

// NewRouter assembles the chi router: global middleware, public auth routes,
// and the authenticated CRM surface.
func NewRouter(cfg *config.Config, db database.Store) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg)
	setupRoutes(router, cfg, db)

	return router
}

// setupMiddleware installs the global middleware stack
func setupMiddleware(router *chi.Mux, cfg *config.Config) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	// Normalize path and restore scheme/host before logging and routing
	router.Use(customMiddleware.Normalize())
	router.Use(customMiddleware.Logger(cfg))
	router.Use(customMiddleware.Recovery(cfg))

	router.Use(customMiddleware.CORS(cfg))

	router.Use(middleware.Timeout(25 * time.Second))
	router.Use(middleware.Compress(5))

	router.Use(customMiddleware.MaxBodySize(maxRequestBody))
	router.Use(customMiddleware.ContentTypeJSON)

	if cfg.IsDevelopment() {
		router.Use(middleware.Heartbeat("/ping"))
	}
}

// setupRoutes wires every endpoint
func setupRoutes(router *chi.Mux, cfg *config.Config, db database.Store) {
	authHandler := handlers.NewAuthHandler(cfg, db)
	campaignsHandler := handlers.NewCampaignsHandler(cfg, db)
	leadsHandler := handlers.NewLeadsHandler(cfg, db)
	dashboardHandler := handlers.NewDashboardHandler(cfg, db)

	// Health check endpoint
	router.Get("/", authHandler.HealthCheck)

	router.Route("/api", func(r chi.Router) {
		// Public routes (no authentication)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.AuthMiddleware(cfg))

			r.Get("/auth/me", authHandler.Me)

			r.Route("/campaigns", func(r chi.Router) {
				r.Get("/", campaignsHandler.List)
				r.Post("/", campaignsHandler.Create)
				r.Get("/{id}", campaignsHandler.Get)
				r.Patch("/{id}", campaignsHandler.Update)
				r.Delete("/{id}", campaignsHandler.Delete)
			})

			r.Route("/leads", func(r chi.Router) {
				r.Get("/", leadsHandler.List)
				r.Post("/", leadsHandler.Create)
				r.Get("/{id}", leadsHandler.Get)
				r.Patch("/{id}", leadsHandler.Update)
				r.Delete("/{id}", leadsHandler.Delete)
			})

			r.Get("/dashboard/stats", dashboardHandler.Stats)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteNotFoundResponse(w, fmt.Sprintf("Route not found: %s %s", r.Method, r.URL.Path))
	})

	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteErrorResponse(w, http.StatusMethodNotAllowed,
			fmt.Sprintf("Method %s not allowed for %s", r.Method, r.URL.Path))
	})
}
