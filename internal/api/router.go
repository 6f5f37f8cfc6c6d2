// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"banking-service/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router. Everything under /users
// requires a valid Bearer token; authMW attaches the caller's login to the
// request context.
func NewRouter(authHandler *handler.AuthHandler, userHandler *handler.UserHandler, authMW func(http.Handler) http.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Public authentication endpoints
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)

	// Authenticated user endpoints
	r.Route("/users", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/", userHandler.Search)
		r.Get("/{id}", userHandler.GetByID)
		r.Patch("/account", userHandler.Transfer)
		r.Post("/email", userHandler.AddEmail)
		r.Patch("/email", userHandler.EditEmail)
		r.Delete("/email", userHandler.DeleteEmail)
		r.Post("/phone-number", userHandler.AddPhoneNumber)
		r.Patch("/phone-number", userHandler.EditPhoneNumber)
		r.Delete("/phone-number", userHandler.DeletePhoneNumber)
	})

	return r
}
