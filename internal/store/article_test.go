// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"aiblog/internal/models"
)

func TestArticleLifecycle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	owner := testUser(t, db)

	articles := NewArticleStore(db)
	categories := NewCategoryStore(db)

	a, err := articles.Create(ctx, owner.ID, "a lifecycle test topic")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.Status != models.StatusPending || a.ID == uuid.Nil {
		t.Fatalf("created article = %+v", a)
	}

	if err := articles.SetProcessing(ctx, a.ID); err != nil {
		t.Fatalf("SetProcessing: %v", err)
	}

	catName := "Lifecycle Testing " + uuid.NewString()[:8]
	cat, err := categories.GetOrCreate(ctx, catName)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	cleanCategories(t, db, cat.Name)

	structured := models.VisualMap{
		"1": {
			Kind:  models.VisualTable,
			Title: "T",
			Table: &models.TableData{Columns: []string{"a"}, Rows: [][]any{{"x", float64(1)}}},
		},
	}
	content := models.GeneratedContent{
		Title:           "Generated Title",
		Slug:            "generated-title",
		CategoryID:      &cat.ID,
		Keywords:        "k1, k2",
		EnglishAbstract: "en",
		TurkishAbstract: "tr",
		FullContent:     "Body _||_STRUCTURED_DATA_1_||_ end.",
		Bibliography:    "1. Ref.",
		StructuredData:  structured,
	}
	if err := articles.CompleteGeneration(ctx, a.ID, content); err != nil {
		t.Fatalf("CompleteGeneration: %v", err)
	}

	got, err := articles.FindByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil || !got.IsDone() {
		t.Fatalf("article after completion = %+v", got)
	}
	if got.Title == nil || *got.Title != "Generated Title" {
		t.Errorf("Title = %v", got.Title)
	}
	if got.CategoryName == nil || *got.CategoryName != cat.Name {
		t.Errorf("CategoryName = %v, want %q", got.CategoryName, cat.Name)
	}
	if got.ErrorMessage != nil {
		t.Errorf("ErrorMessage = %v, want cleared", got.ErrorMessage)
	}
	// Structured data survives the JSONB round trip value-equal.
	if !reflect.DeepEqual(got.StructuredData, structured) {
		t.Errorf("StructuredData:\n got %+v\nwant %+v", got.StructuredData, structured)
	}
}

func TestArticleMarkError(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	owner := testUser(t, db)
	articles := NewArticleStore(db)

	a, err := articles.Create(ctx, owner.ID, "a failing topic here")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := articles.MarkError(ctx, a.ID, "provider unavailable"); err != nil {
		t.Fatalf("MarkError: %v", err)
	}

	got, err := articles.FindByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Status != models.StatusError {
		t.Errorf("Status = %s", got.Status)
	}
	if got.ErrorMessage == nil || *got.ErrorMessage != "provider unavailable" {
		t.Errorf("ErrorMessage = %v", got.ErrorMessage)
	}
	if got.Request != "a failing topic here" {
		t.Errorf("Request = %q, must survive failure", got.Request)
	}
}

func TestArticleCounters(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	owner := testUser(t, db)
	articles := NewArticleStore(db)

	a, err := articles.Create(ctx, owner.ID, "a counter test topic")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for want := 1; want <= 3; want++ {
		got, err := articles.IncrementViewCount(ctx, a.ID)
		if err != nil {
			t.Fatalf("IncrementViewCount: %v", err)
		}
		if got != want {
			t.Errorf("view count = %d, want %d", got, want)
		}
	}

	likes, dislikes, err := articles.AddVote(ctx, a.ID, "like")
	if err != nil {
		t.Fatalf("AddVote like: %v", err)
	}
	if likes != 1 || dislikes != 0 {
		t.Errorf("after like: %d/%d", likes, dislikes)
	}

	likes, dislikes, err = articles.AddVote(ctx, a.ID, "dislike")
	if err != nil {
		t.Fatalf("AddVote dislike: %v", err)
	}
	if likes != 1 || dislikes != 1 {
		t.Errorf("after dislike: %d/%d", likes, dislikes)
	}
}

func TestArticleMissingRows(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	articles := NewArticleStore(db)
	missing := uuid.New()

	got, err := articles.FindByID(ctx, missing)
	if err != nil || got != nil {
		t.Errorf("FindByID(missing) = %v, %v; want nil, nil", got, err)
	}

	if err := articles.SetProcessing(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetProcessing(missing) = %v, want ErrNotFound", err)
	}
	if _, err := articles.IncrementViewCount(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("IncrementViewCount(missing) = %v, want ErrNotFound", err)
	}
	if _, _, err := articles.AddVote(ctx, missing, "like"); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddVote(missing) = %v, want ErrNotFound", err)
	}
}

func TestArticleListDoneFilters(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	owner := testUser(t, db)

	articles := NewArticleStore(db)
	categories := NewCategoryStore(db)

	catName := "Filter Testing " + uuid.NewString()[:8]
	cat, err := categories.GetOrCreate(ctx, catName)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	cleanCategories(t, db, cat.Name)

	marker := uuid.NewString()[:8]
	complete := func(title, body string, catID *uuid.UUID) uuid.UUID {
		a, err := articles.Create(ctx, owner.ID, "filter fixture topic")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		err = articles.CompleteGeneration(ctx, a.ID, models.GeneratedContent{
			Title:       title,
			Slug:        "s-" + uuid.NewString()[:8],
			CategoryID:  catID,
			FullContent: body,
		})
		if err != nil {
			t.Fatalf("CompleteGeneration: %v", err)
		}
		return a.ID
	}

	inCat := complete("Alpha "+marker, "about neural networks", &cat.ID)
	complete("Beta "+marker, "about databases", nil)

	// Category filter.
	f := ArticleFilter{CategoryID: &cat.ID}
	got, err := articles.ListDone(ctx, f, 50, 0)
	if err != nil {
		t.Fatalf("ListDone: %v", err)
	}
	found := false
	for _, a := range got {
		if a.ID == inCat {
			found = true
		}
		if a.CategoryID == nil || *a.CategoryID != cat.ID {
			t.Errorf("category filter leaked article %v", a.ID)
		}
	}
	if !found {
		t.Error("category filter dropped the matching article")
	}

	// Search matches full content case-insensitively.
	f = ArticleFilter{Search: "NEURAL"}
	count, err := articles.CountDone(ctx, f)
	if err != nil {
		t.Fatalf("CountDone: %v", err)
	}
	if count < 1 {
		t.Errorf("search count = %d, want at least the fixture", count)
	}

	// A search term that matches nothing.
	f = ArticleFilter{Search: uuid.NewString()}
	if count, err = articles.CountDone(ctx, f); err != nil || count != 0 {
		t.Errorf("no-match search = %d, %v", count, err)
	}
}
