package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"brewhaven-backend/internal/handlers"
	"brewhaven-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	requireAdmin func(http.Handler) http.Handler,
	authHandler *handlers.AuthHandler,
	relayHandler *handlers.RelayHandler,
	historyHandler *handlers.ChatHistoryHandler,
	coffeeHandler *handlers.CoffeeHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ──── Relay Function ────
	// Mounted outside the API CORS layer: the relay emits its own fixed
	// cross-origin header set on every response, preflight included.
	r.Route("/functions/v1", func(r chi.Router) {
		r.Options("/coffee-chat", relayHandler.ServeHTTP)
		r.Post("/coffee-chat", relayHandler.ServeHTTP)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{frontendURL},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/reset-password", authHandler.RequestPasswordReset)
			r.Post("/reset-password/confirm", authHandler.ConfirmPasswordReset)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Chat History Routes ────
		r.Route("/chat/history", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", historyHandler.List)
			r.Post("/", historyHandler.Save)
		})

		// ──── Catalog Routes (public) ────
		r.Get("/coffees", coffeeHandler.List)
		r.Get("/categories", coffeeHandler.ListCategories)

		// ──── Admin Routes ────
		r.Route("/admin", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(requireAdmin)
			r.Post("/coffees", coffeeHandler.Create)
			r.Put("/coffees/{id}", coffeeHandler.Update)
			r.Delete("/coffees/{id}", coffeeHandler.Delete)
			r.Get("/stats", coffeeHandler.Stats)
		})
	})

	return r
}
