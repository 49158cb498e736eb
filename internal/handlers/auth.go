// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"aiblog/internal/middleware"
	"aiblog/internal/render"
	"aiblog/internal/session"
	"aiblog/internal/store"
)

// Auth handles login and logout.
type Auth struct {
	renderer *render.Renderer
	users    *store.UserStore
	sessions *session.Store
}

// NewAuth creates the auth handler group.
func NewAuth(rnd *render.Renderer, users *store.UserStore, sessions *session.Store) *Auth {
	return &Auth{renderer: rnd, users: users, sessions: sessions}
}

// LoginForm renders the login page. Already-authenticated users are sent
// to the dashboard.
func (a *Auth) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "login", &render.PageData{
		Title:   "Login",
		Flashes: popFlashes(w, r),
		Data:    map[string]any{},
	})
}

// Login verifies credentials and creates a session. Failures get the same
// flash message whether the email or the password was wrong.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	password := r.FormValue("password")

	user, err := a.users.FindByEmail(r.Context(), email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		setFlash(w, "error", "Invalid email or password.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.FullName(),
		IsAdmin:     user.IsAdmin,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("user logged in", "email", user.Email)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout destroys the session and returns to the homepage.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
