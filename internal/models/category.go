// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups articles by topic. Categories are created lazily when
// a generation response names a new one; names are unique and stored in
// title case. Deleting a category leaves its articles with a NULL
// category, never cascades.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`

	// Virtual field populated by store queries.
	ArticleCount int `json:"article_count"`
}
