// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"aiblog/internal/cache"
	"aiblog/internal/generator"
	"aiblog/internal/middleware"
	"aiblog/internal/models"
	"aiblog/internal/render"
	"aiblog/internal/slug"
	"aiblog/internal/store"
)

// recentRequestLimit caps the request history shown on the generate page.
const recentRequestLimit = 10

// Admin groups the authenticated handlers: the dashboard and the article
// generation flow.
type Admin struct {
	renderer   *render.Renderer
	articles   *store.ArticleStore
	categories *store.CategoryStore
	contacts   *store.ContactStore
	generator  *generator.Client
	fragments  *cache.FragmentCache
}

// NewAdmin creates the admin handler group.
func NewAdmin(
	rnd *render.Renderer,
	articles *store.ArticleStore,
	categories *store.CategoryStore,
	contacts *store.ContactStore,
	gen *generator.Client,
	fragments *cache.FragmentCache,
) *Admin {
	return &Admin{
		renderer:   rnd,
		articles:   articles,
		categories: categories,
		contacts:   contacts,
		generator:  gen,
		fragments:  fragments,
	}
}

// Dashboard shows content and inbox counts.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	articleCount, err := a.articles.CountAll(ctx)
	if err != nil {
		slog.Error("dashboard article count failed", "error", err)
	}
	recentCount, err := a.articles.CountCreatedSince(ctx, time.Now().AddDate(0, 0, -7))
	if err != nil {
		slog.Error("dashboard recent count failed", "error", err)
	}
	categoryCount, err := a.categories.Count(ctx)
	if err != nil {
		slog.Error("dashboard category count failed", "error", err)
	}
	unread, err := a.contacts.CountUnread(ctx)
	if err != nil {
		slog.Error("dashboard unread count failed", "error", err)
	}

	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Flashes: popFlashes(w, r),
		Data: map[string]any{
			"ArticleCount":   articleCount,
			"RecentCount":    recentCount,
			"CategoryCount":  categoryCount,
			"UnreadMessages": unread,
		},
	})
}

// GeneratePage renders the generation form with recent request history.
func (a *Admin) GeneratePage(w http.ResponseWriter, r *http.Request) {
	recent, err := a.articles.ListRecent(r.Context(), recentRequestLimit)
	if err != nil {
		slog.Error("list recent articles failed", "error", err)
	}

	a.renderer.Page(w, r, "generate", &render.PageData{
		Title:   "Generate",
		Section: "generate",
		Flashes: popFlashes(w, r),
		Data: map[string]any{
			"Recent":  recent,
			"Request": "",
		},
	})
}

// Generate runs the full generation flow inline: record the request,
// call the AI provider, parse and persist the result. The request row
// tracks progress (pending, processing, done or error), so even a failed
// attempt leaves an auditable trace.
func (a *Admin) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	topic := strings.TrimSpace(r.FormValue("request"))
	if utf8.RuneCountInString(topic) < generator.MinTopicLength {
		setFlash(w, "error", fmt.Sprintf("Please describe the topic in at least %d characters.", generator.MinTopicLength))
		http.Redirect(w, r, "/admin/generate", http.StatusSeeOther)
		return
	}

	article, err := a.articles.Create(ctx, sess.UserID, topic)
	if err != nil {
		slog.Error("create generation request failed", "error", err)
		setFlash(w, "error", "Could not record the request. Please try again.")
		http.Redirect(w, r, "/admin/generate", http.StatusSeeOther)
		return
	}

	if err := a.articles.SetProcessing(ctx, article.ID); err != nil {
		slog.Error("set processing failed", "id", article.ID, "error", err)
	}

	fields, err := a.generator.Generate(ctx, topic)
	if err != nil {
		a.failGeneration(ctx, w, r, article.ID, err)
		return
	}

	category, err := a.categories.GetOrCreate(ctx, fields.CategoryName)
	if err != nil {
		a.failGeneration(ctx, w, r, article.ID, err)
		return
	}

	content := models.GeneratedContent{
		Title:           fields.Title,
		Slug:            slug.Generate(fields.Title),
		CategoryID:      &category.ID,
		Keywords:        fields.Keywords,
		EnglishAbstract: fields.EnglishAbstract,
		TurkishAbstract: fields.TurkishAbstract,
		FullContent:     fields.Content,
		Bibliography:    fields.Bibliography,
		StructuredData:  fields.StructuredData,
	}
	if err := a.articles.CompleteGeneration(ctx, article.ID, content); err != nil {
		a.failGeneration(ctx, w, r, article.ID, err)
		return
	}

	// A fresh article changes the sitemap; its body fragment may hold a
	// stale render from a previous generation of the same row.
	a.fragments.Invalidate(ctx, cache.ArticleBodyKey(article.ID))
	a.fragments.InvalidateSitemap(ctx)

	slog.Info("article generated", "id", article.ID, "title", content.Title)
	setFlash(w, "success", "Article generated successfully.")
	http.Redirect(w, r, fmt.Sprintf("/article/%s/%s", article.ID, content.Slug), http.StatusSeeOther)
}

// failGeneration records the failure on the request row and flashes a
// user-facing message matched to the error class.
func (a *Admin) failGeneration(ctx context.Context, w http.ResponseWriter, r *http.Request, id uuid.UUID, cause error) {
	var message string
	var upstream *generator.UpstreamError
	switch {
	case errors.Is(cause, generator.ErrNoActiveCredential):
		message = "No active API credential is configured. Add one before generating."
	case errors.As(cause, &upstream):
		message = "The AI service request failed. Please try again."
	default:
		message = "Generation failed. Please try again."
	}

	slog.Error("generation failed", "id", id, "error", cause)
	if err := a.articles.MarkError(ctx, id, message); err != nil {
		slog.Error("mark error failed", "id", id, "error", err)
	}

	setFlash(w, "error", message)
	http.Redirect(w, r, "/admin/generate", http.StatusSeeOther)
}
