// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store contains the persistence layer. Each store wraps the
// shared *sql.DB and exposes typed methods; errors are wrapped with the
// failing operation and sql.ErrNoRows is mapped to nil or ErrNotFound
// depending on whether absence is an error for the caller.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"aiblog/internal/models"
)

// ErrNotFound is returned by mutating operations whose target row is
// missing (read paths return nil instead).
var ErrNotFound = errors.New("store: not found")

// ArticleSort selects the ordering of completed-article listings.
type ArticleSort string

const (
	SortNewest ArticleSort = "newest"
	SortOldest ArticleSort = "oldest"
	SortViews  ArticleSort = "views"
	SortLikes  ArticleSort = "likes"
)

// ArticleFilter narrows completed-article listings. A nil CategoryID
// means all categories; an empty Search means no text filter. Search
// matches title, Turkish abstract, and full content case-insensitively.
type ArticleFilter struct {
	Search     string
	CategoryID *uuid.UUID
	Sort       ArticleSort
}

// ArticleStore handles all article-related database operations.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore with the given database connection.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// psql builds queries with PostgreSQL-style $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const articleColumns = `a.id, a.request, a.status, a.title, a.slug, a.category_id,
	a.keywords, a.english_abstract, a.turkish_abstract, a.full_content,
	a.bibliography, a.structured_data, a.owner_id, a.error_message,
	a.view_count, a.likes, a.dislikes, a.created_at, c.name`

// scanArticle scans one joined article row, decoding the structured-data
// JSONB blob into the typed visual mapping.
func scanArticle(scanner interface{ Scan(...any) error }) (*models.Article, error) {
	var a models.Article
	var structured []byte
	err := scanner.Scan(
		&a.ID, &a.Request, &a.Status, &a.Title, &a.Slug, &a.CategoryID,
		&a.Keywords, &a.EnglishAbstract, &a.TurkishAbstract, &a.FullContent,
		&a.Bibliography, &structured, &a.OwnerID, &a.ErrorMessage,
		&a.ViewCount, &a.Likes, &a.Dislikes, &a.CreatedAt, &a.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	if len(structured) > 0 {
		if err := json.Unmarshal(structured, &a.StructuredData); err != nil {
			return nil, fmt.Errorf("decode structured data: %w", err)
		}
	}
	return &a, nil
}

// Create inserts a new pending generation request and returns it.
func (s *ArticleStore) Create(ctx context.Context, ownerID uuid.UUID, request string) (*models.Article, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO articles (request, status, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, request, models.StatusPending, ownerID)

	a := &models.Article{
		Request: request,
		Status:  models.StatusPending,
		OwnerID: ownerID,
	}
	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return a, nil
}

// FindByID retrieves an article by ID with its category name. Returns nil
// if not found.
func (s *ArticleStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles a
		LEFT JOIN categories c ON c.id = a.category_id
		WHERE a.id = $1
	`, id)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return a, nil
}

// SetProcessing moves a pending request to processing before the
// generation call starts.
func (s *ArticleStore) SetProcessing(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE articles SET status = $1 WHERE id = $2
	`, models.StatusProcessing, id)
	if err != nil {
		return fmt.Errorf("set article processing: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteGeneration writes the parsed generation result and moves the
// request to done in one statement, so a crash can't leave a done row
// with half the fields missing.
func (s *ArticleStore) CompleteGeneration(ctx context.Context, id uuid.UUID, gc models.GeneratedContent) error {
	structured, err := json.Marshal(gc.StructuredData)
	if err != nil {
		return fmt.Errorf("encode structured data: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE articles SET
			status = $1, title = $2, slug = $3, category_id = $4, keywords = $5,
			english_abstract = $6, turkish_abstract = $7, full_content = $8,
			bibliography = $9, structured_data = $10, error_message = NULL
		WHERE id = $11
	`, models.StatusDone, gc.Title, gc.Slug, gc.CategoryID, gc.Keywords,
		gc.EnglishAbstract, gc.TurkishAbstract, gc.FullContent,
		gc.Bibliography, structured, id)
	if err != nil {
		return fmt.Errorf("complete generation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkError moves a request to the error state, recording the failure
// reason. No other content fields are touched.
func (s *ArticleStore) MarkError(ctx context.Context, id uuid.UUID, message string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE articles SET status = $1, error_message = $2 WHERE id = $3
	`, models.StatusError, message, id)
	if err != nil {
		return fmt.Errorf("mark article error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViewCount atomically bumps the view counter and returns the
// new value. The increment happens in the database so concurrent page
// views never lose updates.
func (s *ArticleStore) IncrementViewCount(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		UPDATE articles SET view_count = view_count + 1
		WHERE id = $1
		RETURNING view_count
	`, id).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment view count: %w", err)
	}
	return count, nil
}

// AddVote atomically increments the like or dislike counter and returns
// the post-increment counts. kind must be "like" or "dislike".
func (s *ArticleStore) AddVote(ctx context.Context, id uuid.UUID, kind string) (int, int, error) {
	column := "likes"
	if kind == "dislike" {
		column = "dislikes"
	}

	var likes, dislikes int
	err := s.db.QueryRowContext(ctx, `
		UPDATE articles SET `+column+` = `+column+` + 1
		WHERE id = $1
		RETURNING likes, dislikes
	`, id).Scan(&likes, &dislikes)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, ErrNotFound
	}
	if err != nil {
		return 0, 0, fmt.Errorf("add vote: %w", err)
	}
	return likes, dislikes, nil
}

// ListDone returns a page of completed articles matching the filter.
func (s *ArticleStore) ListDone(ctx context.Context, f ArticleFilter, limit, offset int) ([]models.Article, error) {
	q := psql.Select(
		"a.id", "a.request", "a.status", "a.title", "a.slug", "a.category_id",
		"a.keywords", "a.english_abstract", "a.turkish_abstract", "a.full_content",
		"a.bibliography", "a.structured_data", "a.owner_id", "a.error_message",
		"a.view_count", "a.likes", "a.dislikes", "a.created_at", "c.name",
	).
		From("articles a").
		LeftJoin("categories c ON c.id = a.category_id").
		Where(sq.Eq{"a.status": models.StatusDone}).
		OrderBy(orderClause(f.Sort)...).
		Limit(uint64(limit)).
		Offset(uint64(offset))

	q = applyFilter(q, f)

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build article list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// CountDone returns how many completed articles match the filter.
func (s *ArticleStore) CountDone(ctx context.Context, f ArticleFilter) (int, error) {
	q := psql.Select("COUNT(*)").
		From("articles a").
		Where(sq.Eq{"a.status": models.StatusDone})
	q = applyFilter(q, f)

	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build article count query: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

// applyFilter adds the category and search predicates shared by ListDone
// and CountDone.
func applyFilter(q sq.SelectBuilder, f ArticleFilter) sq.SelectBuilder {
	if f.CategoryID != nil {
		q = q.Where(sq.Eq{"a.category_id": *f.CategoryID})
	}
	if f.Search != "" {
		needle := "%" + f.Search + "%"
		q = q.Where(sq.Or{
			sq.ILike{"a.title": needle},
			sq.ILike{"a.turkish_abstract": needle},
			sq.ILike{"a.full_content": needle},
		})
	}
	return q
}

// orderClause maps a sort key to SQL ordering. Ties fall back to id so
// pagination stays stable between requests.
func orderClause(sort ArticleSort) []string {
	switch sort {
	case SortOldest:
		return []string{"a.created_at ASC", "a.id ASC"}
	case SortViews:
		return []string{"a.view_count DESC", "a.id ASC"}
	case SortLikes:
		return []string{"a.likes DESC", "a.id ASC"}
	default: // SortNewest
		return []string{"a.created_at DESC", "a.id ASC"}
	}
}

// AllDone returns every completed article, newest first. Used by the
// sitemap, which needs the full set regardless of paging.
func (s *ArticleStore) AllDone(ctx context.Context) ([]models.Article, error) {
	return s.ListDone(ctx, ArticleFilter{Sort: SortNewest}, 10000, 0)
}

// ListRecent returns the most recent articles in any status, newest
// first. Backs the generation page's request history.
func (s *ArticleStore) ListRecent(ctx context.Context, limit int) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles a
		LEFT JOIN categories c ON c.id = a.category_id
		ORDER BY a.created_at DESC, a.id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent articles: %w", err)
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// CountAll returns the total number of articles in any status.
func (s *ArticleStore) CountAll(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count all articles: %w", err)
	}
	return count, nil
}

// CountCreatedSince returns the number of articles created at or after t.
// Backs the dashboard's "written in the last 7 days" card.
func (s *ArticleStore) CountCreatedSince(ctx context.Context, t time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM articles WHERE created_at >= $1
	`, t).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count articles since: %w", err)
	}
	return count, nil
}
