// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"aiblog/internal/models"
)

// CredentialStore manages API credentials for the generation providers.
// Keys live in the database rather than the environment so an admin can
// rotate or disable them without a redeploy.
type CredentialStore struct {
	db *sql.DB
}

// NewCredentialStore returns a new CredentialStore.
func NewCredentialStore(db *sql.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// ActiveKey returns the key of the active credential for a service, or
// "" when no active credential exists. Implements generator.CredentialSource.
func (s *CredentialStore) ActiveKey(ctx context.Context, service string) (string, error) {
	var key string
	err := s.db.QueryRowContext(ctx, `
		SELECT key FROM api_credentials
		WHERE service = $1 AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`, service).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find active credential: %w", err)
	}
	return key, nil
}

// Upsert stores or replaces the credential for a service.
func (s *CredentialStore) Upsert(ctx context.Context, service, key string, active bool) (*models.APICredential, error) {
	c := &models.APICredential{Service: service, Key: key, IsActive: active}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO api_credentials (service, key, is_active)
		VALUES ($1, $2, $3)
		ON CONFLICT (service) DO UPDATE SET key = EXCLUDED.key, is_active = EXCLUDED.is_active
		RETURNING id, created_at
	`, service, key, active).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert credential: %w", err)
	}
	return c, nil
}

// SetActive toggles a credential without replacing its key.
func (s *CredentialStore) SetActive(ctx context.Context, service string, active bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE api_credentials SET is_active = $1 WHERE service = $2
	`, active, service)
	if err != nil {
		return fmt.Errorf("set credential active: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
