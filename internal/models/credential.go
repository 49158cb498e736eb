// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// APICredential is an API key for an external generation service, managed
// through the admin area rather than the environment so keys can be
// rotated without a redeploy. Generation fails with a clear error when no
// active credential exists for the selected provider.
type APICredential struct {
	ID        uuid.UUID `json:"id"`
	Service   string    `json:"service"` // provider name, e.g. "gemini"
	Key       string    `json:"-"`       // Never serialize the key
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
