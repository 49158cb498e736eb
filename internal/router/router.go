// Package router sets up all HTTP routes and middleware chains for the
// blog. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"time"

	"github.com/go-chi/chi/v5"

	"aiblog/internal/handlers"
	"aiblog/internal/middleware"
	"aiblog/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, public *handlers.Public, auth *handlers.Auth, admin *handlers.Admin) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check: no auth, no CSRF.
	r.Get("/health", public.Health)

	// Crawler endpoints.
	r.Get("/robots.txt", public.Robots)
	r.Get("/sitemap.xml", public.Sitemap)

	// Vote and contact submissions are the only anonymous write paths;
	// they get a tight per-IP limit on top of CSRF.
	writeLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Public pages.
	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF)

		r.Get("/", public.Home)
		r.Get("/article/{id}/{slug}", public.ArticleDetail)
		r.Get("/article/{id}", public.ArticleDetail)
		r.Get("/resume", public.Resume)
		r.Get("/contact", public.ContactForm)

		r.Group(func(r chi.Router) {
			r.Use(writeLimiter.Middleware)
			r.Post("/article/{id}/vote", public.Vote)
			r.Post("/contact", public.ContactSubmit)
		})

		// Auth pages, accessible without a session.
		r.Get("/login", auth.LoginForm)
		r.Post("/login", auth.Login)
		r.Get("/logout", auth.Logout)

		// Authenticated admin area.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireAdmin)

			r.Get("/", admin.Dashboard)
			r.Get("/generate", admin.GeneratePage)
			r.Post("/generate", admin.Generate)
		})
	})

	return r
}
