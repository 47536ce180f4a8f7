package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/edgard/welcomebot/internal/database"

	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := sqlx.Connect("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)

	if err := database.ApplyMigrations(db.DB, ":memory:"); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	return database.NewStore(db, nil)
}

func TestStore_GetItemMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.GetItem(ctx, "100_msg_template"); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("GetItem on empty store = %v, want ErrNotFound", err)
	}
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.SetItem(ctx, "100_msg_template", "Hi $firstname"); err != nil {
		t.Fatalf("SetItem() error: %v", err)
	}

	value, err := store.GetItem(ctx, "100_msg_template")
	if err != nil {
		t.Fatalf("GetItem() error: %v", err)
	}
	if value != "Hi $firstname" {
		t.Errorf("GetItem() = %q, want %q", value, "Hi $firstname")
	}
}

func TestStore_SetItemOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.SetItem(ctx, "100_owner_id", "1"); err != nil {
		t.Fatalf("SetItem() error: %v", err)
	}
	if err := store.SetItem(ctx, "100_owner_id", "2"); err != nil {
		t.Fatalf("SetItem() overwrite error: %v", err)
	}

	value, err := store.GetItem(ctx, "100_owner_id")
	if err != nil {
		t.Fatalf("GetItem() error: %v", err)
	}
	if value != "2" {
		t.Errorf("GetItem() after overwrite = %q, want %q", value, "2")
	}
}

func TestStore_RemoveItem(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.SetItem(ctx, "100_msg_template", "custom"); err != nil {
		t.Fatalf("SetItem() error: %v", err)
	}
	if err := store.RemoveItem(ctx, "100_msg_template"); err != nil {
		t.Fatalf("RemoveItem() error: %v", err)
	}
	if _, err := store.GetItem(ctx, "100_msg_template"); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("GetItem after removal = %v, want ErrNotFound", err)
	}

	// Removing an absent key is not an error.
	if err := store.RemoveItem(ctx, "100_msg_template"); err != nil {
		t.Errorf("RemoveItem on absent key = %v, want nil", err)
	}
}

func TestStore_EmptyKeyRejected(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.GetItem(ctx, ""); err == nil {
		t.Error("GetItem with empty key succeeded")
	}
	if err := store.SetItem(ctx, "", "v"); err == nil {
		t.Error("SetItem with empty key succeeded")
	}
	if err := store.RemoveItem(ctx, ""); err == nil {
		t.Error("RemoveItem with empty key succeeded")
	}
}

func TestStore_RunMaintenance(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.SetItem(ctx, "100_msg_template", "custom"); err != nil {
		t.Fatalf("SetItem() error: %v", err)
	}
	if err := store.RunMaintenance(ctx); err != nil {
		t.Fatalf("RunMaintenance() error: %v", err)
	}

	// Data survives maintenance.
	if _, err := store.GetItem(ctx, "100_msg_template"); err != nil {
		t.Errorf("GetItem after maintenance = %v, want nil", err)
	}
}
