// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ArticleStatus represents the lifecycle state of a generation request.
// Transitions are one-way: pending → processing → done or error.
type ArticleStatus string

const (
	StatusPending    ArticleStatus = "pending"
	StatusProcessing ArticleStatus = "processing"
	StatusDone       ArticleStatus = "done"
	StatusError      ArticleStatus = "error"
)

// Article is a persisted AI generation request together with its result.
// Content fields stay NULL until generation completes; an errored request
// keeps its original request text plus an error message.
type Article struct {
	ID              uuid.UUID     `json:"id"`
	Request         string        `json:"request"`
	Status          ArticleStatus `json:"status"`
	Title           *string       `json:"title,omitempty"`
	Slug            string        `json:"slug"`
	CategoryID      *uuid.UUID    `json:"category_id,omitempty"`
	Keywords        *string       `json:"keywords,omitempty"`
	EnglishAbstract *string       `json:"english_abstract,omitempty"`
	TurkishAbstract *string       `json:"turkish_abstract,omitempty"`
	FullContent     *string       `json:"full_content,omitempty"`
	Bibliography    *string       `json:"bibliography,omitempty"`
	StructuredData  VisualMap     `json:"structured_data,omitempty"`
	OwnerID         uuid.UUID     `json:"owner_id"`
	ErrorMessage    *string       `json:"error_message,omitempty"`
	ViewCount       int           `json:"view_count"`
	Likes           int           `json:"likes"`
	Dislikes        int           `json:"dislikes"`
	CreatedAt       time.Time     `json:"created_at"`

	// Virtual field populated by store queries (LEFT JOIN categories).
	CategoryName *string `json:"category_name,omitempty"`
}

// IsDone returns true once generation has completed successfully.
func (a *Article) IsDone() bool {
	return a.Status == StatusDone
}

// DisplayTitle returns the generated title or a placeholder derived from
// the request text while generation is still in flight.
func (a *Article) DisplayTitle() string {
	if a.Title != nil && *a.Title != "" {
		return *a.Title
	}
	req := strings.TrimSpace(a.Request)
	if runes := []rune(req); len(runes) > 60 {
		req = string(runes[:60]) + "…"
	}
	return "Request: " + req
}

// KeywordList splits the comma-separated keyword string into trimmed,
// non-empty entries.
func (a *Article) KeywordList() []string {
	if a.Keywords == nil {
		return nil
	}
	var out []string
	for _, kw := range strings.Split(*a.Keywords, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// leadingNumber matches the "1. " prefix the model puts on bibliography lines.
var leadingNumber = regexp.MustCompile(`^\d+\.\s*`)

// BibliographyEntries splits the bibliography into one entry per non-empty
// line, stripping any leading "N." numbering so entries can be rendered in
// an ordered list without double numbers.
func (a *Article) BibliographyEntries() []string {
	if a.Bibliography == nil {
		return nil
	}
	var out []string
	for _, line := range strings.Split(*a.Bibliography, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, leadingNumber.ReplaceAllString(line, ""))
		}
	}
	return out
}

// AverageRating maps the like/dislike ratio onto a 1-5 scale for the
// schema.org aggregateRating markup. Returns 0 when there are no votes.
func (a *Article) AverageRating() float64 {
	total := a.Likes + a.Dislikes
	if total == 0 {
		return 0
	}
	return float64(a.Likes)/float64(total)*4 + 1
}

// GeneratedContent carries the parsed result of a generation call into the
// store when a request transitions to done.
type GeneratedContent struct {
	Title           string
	Slug            string
	CategoryID      *uuid.UUID
	Keywords        string
	EnglishAbstract string
	TurkishAbstract string
	FullContent     string
	Bibliography    string
	StructuredData  VisualMap
}
