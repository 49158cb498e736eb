// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package feedback applies like/dislike votes to articles. Duplicate
// clicks from the same rendered page are debounced by comparing the
// observed click count against the client-held baseline; this is a replay
// guard, not a durable per-user uniqueness constraint. A reloaded page
// can vote again.
package feedback

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"aiblog/internal/store"
)

// VoteKind selects which counter a vote increments.
type VoteKind string

const (
	VoteLike    VoteKind = "like"
	VoteDislike VoteKind = "dislike"
)

// ErrArticleNotFound is returned when the vote target no longer exists.
var ErrArticleNotFound = errors.New("feedback: article not found")

// ClickCounts carries the per-button click totals a client has observed.
type ClickCounts struct {
	Like    int `json:"like"`
	Dislike int `json:"dislike"`
}

// VoteResult is the post-vote state returned to the client. Disabled
// tells the page to lock both buttons for the rest of this page view.
type VoteResult struct {
	Likes    int  `json:"likes"`
	Dislikes int  `json:"dislikes"`
	Disabled bool `json:"disabled"`
}

// CounterStore is the storage dependency: a single-statement atomic
// increment that returns the post-increment counts, so concurrent votes
// serialize at the database rather than racing read-modify-write at the
// application layer. Implemented by store.ArticleStore.
type CounterStore interface {
	// AddVote increments the named counter by one and returns the new
	// like/dislike counts. Returns store.ErrNotFound when the article
	// does not exist.
	AddVote(ctx context.Context, articleID uuid.UUID, kind string) (likes, dislikes int, err error)
}

// Service applies votes through a CounterStore.
type Service struct {
	store CounterStore
}

// New creates a feedback service.
func New(store CounterStore) *Service {
	return &Service{store: store}
}

// Apply records one vote if the observed click count for the voted button
// exceeds the client's baseline. When the guard rejects the vote (a
// replayed callback), nothing is mutated and applied is false with the
// buttons left enabled.
//
// On success exactly one counter is incremented and both buttons are
// disabled. A missing article yields ErrArticleNotFound with zeroed,
// disabled counters so the page can still render a sensible state.
func (s *Service) Apply(ctx context.Context, articleID uuid.UUID, kind VoteKind, clicks, baseline ClickCounts) (VoteResult, bool, error) {
	exceeded := false
	switch kind {
	case VoteLike:
		exceeded = clicks.Like > baseline.Like
	case VoteDislike:
		exceeded = clicks.Dislike > baseline.Dislike
	}
	if !exceeded {
		return VoteResult{}, false, nil
	}

	likes, dislikes, err := s.store.AddVote(ctx, articleID, string(kind))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return VoteResult{Likes: 0, Dislikes: 0, Disabled: true}, false, ErrArticleNotFound
		}
		return VoteResult{}, false, err
	}

	return VoteResult{Likes: likes, Dislikes: dislikes, Disabled: true}, true, nil
}
