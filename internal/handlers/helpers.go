// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handler groups for the public site
// and the admin pages.
package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"aiblog/internal/render"
)

// flashCookie carries one-time notifications across a redirect.
const flashCookie = "ab_flash"

// setFlash queues a one-time notification shown on the next rendered page.
func setFlash(w http.ResponseWriter, kind, message string) {
	payload, err := json.Marshal(render.Flash{Type: kind, Message: message})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60,
	})
}

// popFlashes reads and clears any queued flash messages.
func popFlashes(w http.ResponseWriter, r *http.Request) []render.Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	raw, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var f render.Flash
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return []render.Flash{f}
}

// writeJSON marshals v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
