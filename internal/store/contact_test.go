package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"aiblog/internal/models"
)

func TestContactMessageFlow(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	contacts := NewContactStore(db)

	marker := "contact-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		db.Exec("DELETE FROM contact_messages WHERE email LIKE $1", marker+"%")
	})

	before, err := contacts.CountUnread(ctx)
	if err != nil {
		t.Fatalf("CountUnread: %v", err)
	}

	msg, err := contacts.Create(ctx, &models.ContactMessage{
		Name:    "Jane Doe",
		Email:   marker + "@example.com",
		Subject: "Feedback",
		Message: "Loved the article on transformers.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if msg.ID == uuid.Nil || msg.IsRead {
		t.Fatalf("created message = %+v", msg)
	}

	after, err := contacts.CountUnread(ctx)
	if err != nil {
		t.Fatalf("CountUnread: %v", err)
	}
	if after != before+1 {
		t.Errorf("unread count = %d, want %d", after, before+1)
	}

	if err := contacts.MarkRead(ctx, msg.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if after, _ = contacts.CountUnread(ctx); after != before {
		t.Errorf("unread count after MarkRead = %d, want %d", after, before)
	}
}

func TestContactMarkReadMissing(t *testing.T) {
	db := testDB(t)
	contacts := NewContactStore(db)

	if err := contacts.MarkRead(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkRead(missing) = %v, want ErrNotFound", err)
	}
}
