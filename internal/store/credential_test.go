package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestCredentialActiveKey(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	creds := NewCredentialStore(db)

	service := "svc-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		db.Exec("DELETE FROM api_credentials WHERE service = $1", service)
	})

	// No credential yet: empty key, no error.
	key, err := creds.ActiveKey(ctx, service)
	if err != nil || key != "" {
		t.Fatalf("ActiveKey(none) = %q, %v; want empty, nil", key, err)
	}

	if _, err := creds.Upsert(ctx, service, "sk-first", true); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if key, err = creds.ActiveKey(ctx, service); err != nil || key != "sk-first" {
		t.Fatalf("ActiveKey = %q, %v", key, err)
	}

	// Rotating replaces the key in place.
	if _, err := creds.Upsert(ctx, service, "sk-second", true); err != nil {
		t.Fatalf("Upsert rotate: %v", err)
	}
	if key, _ = creds.ActiveKey(ctx, service); key != "sk-second" {
		t.Errorf("ActiveKey after rotate = %q", key)
	}

	// Deactivating hides the key without deleting it.
	if err := creds.SetActive(ctx, service, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if key, _ = creds.ActiveKey(ctx, service); key != "" {
		t.Errorf("ActiveKey after deactivate = %q, want empty", key)
	}
}
