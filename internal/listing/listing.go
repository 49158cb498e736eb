// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package listing implements the public article index: search, category
// filter, sorting, and fixed-size pagination over completed articles.
package listing

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"aiblog/internal/models"
	"aiblog/internal/store"
)

// PageSize is the fixed number of articles per listing page.
const PageSize = 5

// MinSearchLength is the minimum number of characters before a search
// term takes effect. Shorter terms are ignored rather than rejected.
const MinSearchLength = 3

// ArticleSource is the subset of the article store the listing needs.
type ArticleSource interface {
	ListDone(ctx context.Context, f store.ArticleFilter, limit, offset int) ([]models.Article, error)
	CountDone(ctx context.Context, f store.ArticleFilter) (int, error)
}

// Filters are the user-facing listing controls.
type Filters struct {
	Search     string
	CategoryID *uuid.UUID
	Sort       store.ArticleSort
}

// Equal reports whether two filter sets select the same result set.
func (f Filters) Equal(other Filters) bool {
	if f.Search != other.Search || f.Sort != other.Sort {
		return false
	}
	switch {
	case f.CategoryID == nil && other.CategoryID == nil:
		return true
	case f.CategoryID == nil || other.CategoryID == nil:
		return false
	default:
		return *f.CategoryID == *other.CategoryID
	}
}

// Query is one listing request. Prev carries the filters the requested
// page number was computed under; when they differ from the current
// filters the page resets to 1, so changing a filter never strands the
// reader on a page that no longer exists.
type Query struct {
	Filters Filters
	Page    int
	Prev    *Filters
}

// Page is one resolved listing page.
type Page struct {
	Articles   []models.Article
	Number     int
	TotalPages int
	Total      int
	Filters    Filters
}

// HasPrev reports whether an earlier page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Service resolves listing queries against the article store.
type Service struct {
	articles ArticleSource
}

// NewService returns a listing Service backed by the given source.
func NewService(articles ArticleSource) *Service {
	return &Service{articles: articles}
}

// List resolves a query to one page of completed articles. Page numbers
// out of range are clamped instead of erroring; an empty result set
// still reports one (empty) page.
func (s *Service) List(ctx context.Context, q Query) (*Page, error) {
	filters := q.Filters
	filters.Sort = normalizeSort(filters.Sort)

	storeFilter := store.ArticleFilter{
		CategoryID: filters.CategoryID,
		Sort:       filters.Sort,
	}
	if utf8.RuneCountInString(filters.Search) >= MinSearchLength {
		storeFilter.Search = filters.Search
	}

	page := q.Page
	if q.Prev != nil {
		prev := *q.Prev
		prev.Sort = normalizeSort(prev.Sort)
		if !filters.Equal(prev) {
			page = 1
		}
	}
	if page < 1 {
		page = 1
	}

	total, err := s.articles.CountDone(ctx, storeFilter)
	if err != nil {
		return nil, fmt.Errorf("count listing: %w", err)
	}

	totalPages := (total + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	articles, err := s.articles.ListDone(ctx, storeFilter, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, fmt.Errorf("list page: %w", err)
	}

	return &Page{
		Articles:   articles,
		Number:     page,
		TotalPages: totalPages,
		Total:      total,
		Filters:    filters,
	}, nil
}

// normalizeSort maps unknown sort keys to the default ordering.
func normalizeSort(sort store.ArticleSort) store.ArticleSort {
	switch sort {
	case store.SortNewest, store.SortOldest, store.SortViews, store.SortLikes:
		return sort
	default:
		return store.SortNewest
	}
}
