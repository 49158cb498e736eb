// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"aiblog/internal/cache"
	"aiblog/internal/config"
	"aiblog/internal/feedback"
	"aiblog/internal/listing"
	"aiblog/internal/models"
	"aiblog/internal/render"
	"aiblog/internal/renderer"
	"aiblog/internal/store"
)

// Public groups handlers for the public-facing site: the article listing,
// detail pages, voting, the resume, and the contact form.
type Public struct {
	site       config.Site
	renderer   *render.Renderer
	articles   *store.ArticleStore
	categories *store.CategoryStore
	profiles   *store.ProfileStore
	contacts   *store.ContactStore
	listing    *listing.Service
	feedback   *feedback.Service
	fragments  *cache.FragmentCache
}

// NewPublic creates the public handler group.
func NewPublic(
	site config.Site,
	rnd *render.Renderer,
	articles *store.ArticleStore,
	categories *store.CategoryStore,
	profiles *store.ProfileStore,
	contacts *store.ContactStore,
	listingSvc *listing.Service,
	feedbackSvc *feedback.Service,
	fragments *cache.FragmentCache,
) *Public {
	return &Public{
		site:       site,
		renderer:   rnd,
		articles:   articles,
		categories: categories,
		profiles:   profiles,
		contacts:   contacts,
		listing:    listingSvc,
		feedback:   feedbackSvc,
		fragments:  fragments,
	}
}

// Home renders the paginated article listing with search, category, and
// sort controls.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := listingQueryFromRequest(r)

	page, err := p.listing.List(ctx, query)
	if err != nil {
		slog.Error("listing failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	categories, err := p.categories.List(ctx)
	if err != nil {
		slog.Error("list categories failed", "error", err)
	}

	p.renderer.Page(w, r, "home", &render.PageData{
		Title:   "Articles",
		Section: "home",
		Flashes: popFlashes(w, r),
		Data: map[string]any{
			"Page":        page,
			"Categories":  categories,
			"PrevPageURL": listingURL(page.Filters, page.Number-1),
			"NextPageURL": listingURL(page.Filters, page.Number+1),
		},
	})
}

// ArticleDetail renders one completed article. The canonical URL embeds
// both ID and slug; a stale slug gets a permanent redirect to the current
// one so old links keep working after regeneration.
func (p *Public) ArticleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	article, err := p.articles.FindByID(ctx, id)
	if err != nil {
		slog.Error("find article failed", "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if article == nil || !article.IsDone() {
		http.NotFound(w, r)
		return
	}

	if got := chi.URLParam(r, "slug"); got != article.Slug {
		http.Redirect(w, r, fmt.Sprintf("/article/%s/%s", article.ID, article.Slug), http.StatusMovedPermanently)
		return
	}

	count, err := p.articles.IncrementViewCount(ctx, id)
	if err != nil {
		slog.Warn("increment view count failed", "id", id, "error", err)
	} else {
		article.ViewCount = count
	}

	p.renderer.Page(w, r, "article", &render.PageData{
		Title:   article.DisplayTitle(),
		Section: "home",
		Flashes: popFlashes(w, r),
		Data: map[string]any{
			"Article":  article,
			"Body":     p.articleBody(r, article),
			"JSONLD":   p.jsonLD(article),
			"ShareURL": url.QueryEscape(fmt.Sprintf("%s/article/%s/%s", p.site.BaseURL, article.ID, article.Slug)),
		},
	})
}

// articleBody returns the rendered article body, from the fragment cache
// when possible. The body only changes when the article is regenerated.
func (p *Public) articleBody(r *http.Request, article *models.Article) template.HTML {
	ctx := r.Context()
	key := cache.ArticleBodyKey(article.ID)

	if cached, ok := p.fragments.Get(ctx, key); ok {
		return template.HTML(cached)
	}

	content := ""
	if article.FullContent != nil {
		content = *article.FullContent
	}
	body := renderer.HTML(renderer.Render(content, article.StructuredData))
	p.fragments.Set(ctx, key, []byte(body))
	return body
}

// voteRequest is the JSON body of a vote call.
type voteRequest struct {
	Kind     string               `json:"kind"`
	Clicks   feedback.ClickCounts `json:"clicks"`
	Baseline feedback.ClickCounts `json:"baseline"`
}

// Vote applies a like or dislike and returns the updated counters as JSON.
func (p *Public) Vote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	kind := feedback.VoteKind(req.Kind)
	if kind != feedback.VoteLike && kind != feedback.VoteDislike {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	result, applied, err := p.feedback.Apply(ctx, id, kind, req.Clicks, req.Baseline)
	if err != nil {
		if errors.Is(err, feedback.ErrArticleNotFound) {
			writeJSON(w, http.StatusNotFound, result)
			return
		}
		slog.Error("vote failed", "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !applied {
		// Replayed click: report current counts without mutating them.
		article, err := p.articles.FindByID(ctx, id)
		if err != nil || article == nil {
			writeJSON(w, http.StatusNotFound, feedback.VoteResult{Disabled: true})
			return
		}
		writeJSON(w, http.StatusOK, feedback.VoteResult{
			Likes:    article.Likes,
			Dislikes: article.Dislikes,
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ContactForm renders the contact page.
func (p *Public) ContactForm(w http.ResponseWriter, r *http.Request) {
	p.renderer.Page(w, r, "contact", &render.PageData{
		Title:   "Contact",
		Section: "contact",
		Flashes: popFlashes(w, r),
		Data:    map[string]any{},
	})
}

// ContactSubmit stores a contact message and redirects back with a flash.
func (p *Public) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	subject := strings.TrimSpace(r.FormValue("subject"))
	message := strings.TrimSpace(r.FormValue("message"))

	if name == "" || email == "" || subject == "" || message == "" {
		setFlash(w, "error", "All fields are required.")
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
		return
	}

	_, err := p.contacts.Create(r.Context(), &models.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
	})
	if err != nil {
		slog.Error("create contact message failed", "error", err)
		setFlash(w, "error", "Something went wrong. Please try again.")
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
		return
	}

	setFlash(w, "success", "Thanks! Your message has been sent.")
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}

// Resume renders the site owner's CV page.
func (p *Public) Resume(w http.ResponseWriter, r *http.Request) {
	profile, err := p.profiles.FindPrimary(r.Context())
	if err != nil {
		slog.Error("load resume failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.renderer.Page(w, r, "resume", &render.PageData{
		Title:   "Resume",
		Section: "resume",
		Flashes: popFlashes(w, r),
		Data:    map[string]any{"Profile": profile},
	})
}

// Robots serves robots.txt pointing crawlers at the sitemap.
func (p *Public) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", p.site.BaseURL)
}

// sitemapURL is one <url> entry in the sitemap.
type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// sitemapSet is the <urlset> root element.
type sitemapSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap serves the sitemap.xml for all completed articles plus the
// static pages. The result is cached in Valkey and invalidated when a
// new article completes.
func (p *Public) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := p.fragments.Get(ctx, cache.SitemapKey()); ok {
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Write(cached)
		return
	}

	articles, err := p.articles.AllDone(ctx)
	if err != nil {
		slog.Error("sitemap listing failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	set := sitemapSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, path := range []string{"/", "/resume", "/contact"} {
		set.URLs = append(set.URLs, sitemapURL{Loc: p.site.BaseURL + path})
	}
	for _, a := range articles {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     fmt.Sprintf("%s/article/%s/%s", p.site.BaseURL, a.ID, a.Slug),
			LastMod: a.CreatedAt.Format("2006-01-02"),
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	out := append([]byte(xml.Header), body...)

	p.fragments.Set(ctx, cache.SitemapKey(), out)
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(out)
}

// Health is a liveness probe.
func (p *Public) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonLD builds the schema.org Article metadata script tag, including an
// aggregate rating derived from the vote counters when any votes exist.
func (p *Public) jsonLD(a *models.Article) template.HTML {
	doc := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "Article",
		"headline":      a.DisplayTitle(),
		"datePublished": a.CreatedAt.Format("2006-01-02"),
		"author":        map[string]any{"@type": "Organization", "name": p.site.Name},
	}
	if a.EnglishAbstract != nil {
		doc["description"] = *a.EnglishAbstract
	}
	if kw := a.KeywordList(); len(kw) > 0 {
		doc["keywords"] = strings.Join(kw, ", ")
	}
	if a.Likes+a.Dislikes > 0 {
		doc["aggregateRating"] = map[string]any{
			"@type":       "AggregateRating",
			"ratingValue": fmt.Sprintf("%.1f", a.AverageRating()),
			"ratingCount": a.Likes + a.Dislikes,
			"bestRating":  "5",
			"worstRating": "1",
		}
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	// Guard against content closing the script element early.
	safe := strings.ReplaceAll(string(payload), "</", `<\/`)
	return template.HTML(`<script type="application/ld+json">` + safe + `</script>`)
}

// listingQueryFromRequest parses the listing controls from the URL. The
// form echoes the filters the page number was computed under as prev_*
// fields, so the service can reset to page 1 when a filter changes.
func listingQueryFromRequest(r *http.Request) listing.Query {
	q := r.URL.Query()

	query := listing.Query{
		Filters: listing.Filters{
			Search:     strings.TrimSpace(q.Get("search")),
			CategoryID: parseUUIDParam(q.Get("category")),
			Sort:       store.ArticleSort(q.Get("sort")),
		},
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		query.Page = page
	}

	if q.Has("prev_sort") {
		query.Prev = &listing.Filters{
			Search:     strings.TrimSpace(q.Get("prev_search")),
			CategoryID: parseUUIDParam(q.Get("prev_category")),
			Sort:       store.ArticleSort(q.Get("prev_sort")),
		}
	}

	return query
}

// listingURL builds a listing URL for the given filters and page,
// carrying prev_* fields matching the filters so following the link
// never triggers a page reset.
func listingURL(f listing.Filters, page int) string {
	v := url.Values{}
	if f.Search != "" {
		v.Set("search", f.Search)
		v.Set("prev_search", f.Search)
	}
	if f.CategoryID != nil {
		v.Set("category", f.CategoryID.String())
		v.Set("prev_category", f.CategoryID.String())
	}
	v.Set("sort", string(f.Sort))
	v.Set("prev_sort", string(f.Sort))
	v.Set("page", strconv.Itoa(page))
	return "/?" + v.Encode()
}

// parseUUIDParam parses an optional UUID query parameter.
func parseUUIDParam(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
