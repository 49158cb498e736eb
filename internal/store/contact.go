// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"aiblog/internal/models"
)

// ContactStore persists messages from the public contact form.
type ContactStore struct {
	db *sql.DB
}

// NewContactStore returns a new ContactStore.
func NewContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

// Create inserts a new contact message.
func (s *ContactStore) Create(ctx context.Context, m *models.ContactMessage) (*models.ContactMessage, error) {
	result := *m
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO contact_messages (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_read, created_at
	`, m.Name, m.Email, m.Subject, m.Message,
	).Scan(&result.ID, &result.IsRead, &result.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	return &result, nil
}

// CountUnread returns the number of unread messages for the dashboard.
func (s *ContactStore) CountUnread(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM contact_messages WHERE is_read = FALSE
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return count, nil
}

// MarkRead flags a message as read.
func (s *ContactStore) MarkRead(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE contact_messages SET is_read = TRUE WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
