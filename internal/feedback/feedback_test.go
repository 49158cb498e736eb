// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"aiblog/internal/store"
)

// fakeCounter records votes in memory.
type fakeCounter struct {
	likes    int
	dislikes int
	missing  bool
	calls    int
}

func (f *fakeCounter) AddVote(ctx context.Context, articleID uuid.UUID, kind string) (int, int, error) {
	f.calls++
	if f.missing {
		return 0, 0, store.ErrNotFound
	}
	if kind == "dislike" {
		f.dislikes++
	} else {
		f.likes++
	}
	return f.likes, f.dislikes, nil
}

func TestApplyDebounce(t *testing.T) {
	tests := []struct {
		name        string
		kind        VoteKind
		clicks      ClickCounts
		baseline    ClickCounts
		wantApplied bool
	}{
		{"first like", VoteLike, ClickCounts{Like: 1}, ClickCounts{}, true},
		{"replayed like", VoteLike, ClickCounts{Like: 1}, ClickCounts{Like: 1}, false},
		{"stale baseline", VoteLike, ClickCounts{Like: 6, Dislike: 2}, ClickCounts{Like: 2, Dislike: 2}, true},
		{"dislike above baseline", VoteDislike, ClickCounts{Dislike: 3}, ClickCounts{Dislike: 2}, true},
		{"wrong counter moved", VoteDislike, ClickCounts{Like: 5}, ClickCounts{}, false},
		{"clicks below baseline", VoteLike, ClickCounts{Like: 1}, ClickCounts{Like: 4}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := &fakeCounter{likes: 10, dislikes: 5}
			svc := New(counter)

			result, applied, err := svc.Apply(context.Background(), uuid.New(), tt.kind, tt.clicks, tt.baseline)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if applied != tt.wantApplied {
				t.Fatalf("applied = %v, want %v", applied, tt.wantApplied)
			}

			if !tt.wantApplied {
				if counter.calls != 0 {
					t.Errorf("rejected vote must not hit the store (%d calls)", counter.calls)
				}
				if result.Disabled {
					t.Error("rejected vote must leave buttons enabled")
				}
				return
			}

			if counter.calls != 1 {
				t.Errorf("store calls = %d, want 1", counter.calls)
			}
			if !result.Disabled {
				t.Error("accepted vote must disable the buttons")
			}
			wantLikes, wantDislikes := 10, 5
			if tt.kind == VoteLike {
				wantLikes++
			} else {
				wantDislikes++
			}
			if result.Likes != wantLikes || result.Dislikes != wantDislikes {
				t.Errorf("counts = %d/%d, want %d/%d", result.Likes, result.Dislikes, wantLikes, wantDislikes)
			}
		})
	}
}

func TestApplyMissingArticle(t *testing.T) {
	svc := New(&fakeCounter{missing: true})

	result, applied, err := svc.Apply(context.Background(), uuid.New(), VoteLike, ClickCounts{Like: 1}, ClickCounts{})
	if !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("err = %v, want ErrArticleNotFound", err)
	}
	if applied {
		t.Error("vote on a missing article must not count as applied")
	}
	if !result.Disabled || result.Likes != 0 || result.Dislikes != 0 {
		t.Errorf("result = %+v, want zeroed and disabled", result)
	}
}
