package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/book-catalog-api/internal/api/auth"
	"github.com/FACorreiaa/book-catalog-api/internal/api/book"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler            auth.Handler
	BookHandler            book.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// --- Public Auth Routes ---
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/forgot-password", cfg.AuthHandler.ForgotPassword)
		})

		// --- Protected Routes ---
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Get("/auth/users", cfg.AuthHandler.ListUsers)

			r.Route("/books", func(r chi.Router) {
				r.Get("/", cfg.BookHandler.ListBooks)
				r.Post("/", cfg.BookHandler.CreateBook)
				r.Get("/search", cfg.BookHandler.SearchBooks)
				r.Get("/paged", cfg.BookHandler.ListBooksPaged)
				r.Get("/{id}", cfg.BookHandler.GetBook)
				r.Put("/{id}", cfg.BookHandler.UpdateBook)
				r.Delete("/{id}", cfg.BookHandler.DeleteBook)
			})
		})
	})

	return r
}
