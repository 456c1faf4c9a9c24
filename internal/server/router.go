// Package server assembles the HTTP router.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rmehta/blogr/internal/auth"
	"github.com/rmehta/blogr/internal/blog"
	"github.com/rmehta/blogr/internal/middleware"
)

// New builds the router: ambient middleware, public auth and read routes,
// and session-guarded post mutations.
func New(authSvc *auth.Service, authHandler *auth.Handler, blogHandler *blog.Handler, corsOrigins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.ResolveIdentity(authSvc))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.With(middleware.RequireAuth).Get("/me", authHandler.Me)
	})

	r.Route("/api/posts", func(r chi.Router) {
		// The index and single-post pages are public.
		r.Get("/", blogHandler.List)
		r.Get("/{id}", blogHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/", blogHandler.Create)
			r.Put("/{id}", blogHandler.Update)
			r.Delete("/{id}", blogHandler.Delete)
		})
	})

	return r
}
