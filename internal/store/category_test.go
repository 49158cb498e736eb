package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"aiblog/internal/models"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"machine learning", "Machine Learning"},
		{"  AI ETHICS  ", "Ai Ethics"},
		{"Quantum Computing", "Quantum Computing"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCategoryGetOrCreate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	categories := NewCategoryStore(db)

	base := "Idempotency Check " + uuid.NewString()[:8]
	cleanCategories(t, db, NormalizeName(base))

	first, err := categories.GetOrCreate(ctx, base)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	// Different casing and whitespace resolve to the same row.
	second, err := categories.GetOrCreate(ctx, "  "+NormalizeName(base)+"  ")
	if err != nil {
		t.Fatalf("GetOrCreate again: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("same normalized name produced two categories: %v vs %v", first.ID, second.ID)
	}
}

func TestCategoryGetOrCreateEmptyName(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	categories := NewCategoryStore(db)

	got, err := categories.GetOrCreate(ctx, "   ")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if got.Name != "General" {
		t.Errorf("blank name resolved to %q, want General", got.Name)
	}
}

func TestCategoryDeleteDetachesArticles(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	owner := testUser(t, db)

	articles := NewArticleStore(db)
	categories := NewCategoryStore(db)

	cat, err := categories.GetOrCreate(ctx, "Detach Testing "+uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	a, err := articles.Create(ctx, owner.ID, "a category delete topic")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	err = articles.CompleteGeneration(ctx, a.ID, models.GeneratedContent{
		Title:      "Detachable",
		Slug:       "detachable-" + uuid.NewString()[:8],
		CategoryID: &cat.ID,
	})
	if err != nil {
		t.Fatalf("CompleteGeneration: %v", err)
	}

	if err := categories.Delete(ctx, cat.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := articles.FindByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil || got.CategoryID != nil {
		t.Errorf("deleting the category must null the reference, got %+v", got)
	}
	if !got.IsDone() {
		t.Error("article must survive its category's deletion")
	}
}
