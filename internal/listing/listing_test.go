// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package listing

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"aiblog/internal/models"
	"aiblog/internal/store"
)

// fakeSource serves a fixed number of articles and records the filters
// and paging it was asked for.
type fakeSource struct {
	total      int
	lastFilter store.ArticleFilter
	lastLimit  int
	lastOffset int
}

func (f *fakeSource) ListDone(ctx context.Context, filter store.ArticleFilter, limit, offset int) ([]models.Article, error) {
	f.lastFilter = filter
	f.lastLimit = limit
	f.lastOffset = offset

	remaining := f.total - offset
	if remaining < 0 {
		remaining = 0
	}
	if remaining > limit {
		remaining = limit
	}
	return make([]models.Article, remaining), nil
}

func (f *fakeSource) CountDone(ctx context.Context, filter store.ArticleFilter) (int, error) {
	return f.total, nil
}

func TestListPaging(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		page       int
		wantPage   int
		wantTotal  int
		wantOffset int
		wantCount  int
	}{
		{"first page", 12, 1, 1, 3, 0, 5},
		{"middle page", 12, 2, 2, 3, 5, 5},
		{"short last page", 12, 3, 3, 3, 10, 2},
		{"page clamped high", 12, 99, 3, 3, 10, 2},
		{"page clamped low", 12, -4, 1, 3, 0, 5},
		{"empty result still one page", 0, 1, 1, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{total: tt.total}
			svc := NewService(src)

			page, err := svc.List(context.Background(), Query{Page: tt.page})
			if err != nil {
				t.Fatalf("List: %v", err)
			}

			if page.Number != tt.wantPage {
				t.Errorf("Number = %d, want %d", page.Number, tt.wantPage)
			}
			if page.TotalPages != tt.wantTotal {
				t.Errorf("TotalPages = %d, want %d", page.TotalPages, tt.wantTotal)
			}
			if src.lastOffset != tt.wantOffset {
				t.Errorf("offset = %d, want %d", src.lastOffset, tt.wantOffset)
			}
			if src.lastLimit != PageSize {
				t.Errorf("limit = %d, want %d", src.lastLimit, PageSize)
			}
			if len(page.Articles) != tt.wantCount {
				t.Errorf("articles = %d, want %d", len(page.Articles), tt.wantCount)
			}
		})
	}
}

func TestListFilterChangeResetsPage(t *testing.T) {
	src := &fakeSource{total: 20}
	svc := NewService(src)

	prev := Filters{Sort: store.SortNewest}
	page, err := svc.List(context.Background(), Query{
		Filters: Filters{Search: "transformers", Sort: store.SortNewest},
		Page:    3,
		Prev:    &prev,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Number != 1 {
		t.Errorf("Number = %d, want reset to 1 on filter change", page.Number)
	}
}

func TestListSameFiltersKeepPage(t *testing.T) {
	src := &fakeSource{total: 20}
	svc := NewService(src)

	id := uuid.New()
	filters := Filters{Search: "graphs", CategoryID: &id, Sort: store.SortViews}
	prev := filters

	page, err := svc.List(context.Background(), Query{Filters: filters, Page: 3, Prev: &prev})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Number != 3 {
		t.Errorf("Number = %d, want 3 when filters are unchanged", page.Number)
	}
}

func TestListSearchThreshold(t *testing.T) {
	tests := []struct {
		name       string
		search     string
		wantActive string
	}{
		{"two chars ignored", "ab", ""},
		{"three chars applied", "abc", "abc"},
		{"multibyte counted as runes", "öğr", "öğr"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{total: 1}
			svc := NewService(src)

			if _, err := svc.List(context.Background(), Query{Filters: Filters{Search: tt.search}}); err != nil {
				t.Fatalf("List: %v", err)
			}
			if src.lastFilter.Search != tt.wantActive {
				t.Errorf("store search = %q, want %q", src.lastFilter.Search, tt.wantActive)
			}
		})
	}
}

func TestListSortNormalized(t *testing.T) {
	src := &fakeSource{total: 1}
	svc := NewService(src)

	page, err := svc.List(context.Background(), Query{Filters: Filters{Sort: "bogus"}})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Filters.Sort != store.SortNewest {
		t.Errorf("Sort = %q, want default newest", page.Filters.Sort)
	}
	if src.lastFilter.Sort != store.SortNewest {
		t.Errorf("store sort = %q, want newest", src.lastFilter.Sort)
	}
}

func TestFiltersEqual(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	aCopy := a

	tests := []struct {
		name string
		x, y Filters
		want bool
	}{
		{"both empty", Filters{}, Filters{}, true},
		{"same category different pointers", Filters{CategoryID: &a}, Filters{CategoryID: &aCopy}, true},
		{"different categories", Filters{CategoryID: &a}, Filters{CategoryID: &b}, false},
		{"nil vs set", Filters{}, Filters{CategoryID: &a}, false},
		{"different search", Filters{Search: "x"}, Filters{Search: "y"}, false},
		{"different sort", Filters{Sort: store.SortViews}, Filters{Sort: store.SortLikes}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.x.Equal(tt.y); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}
