package announcement

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"portal/internal/adapters/storage"
	domain "portal/internal/domain/announcement"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	return NewSQLiteStore(db)
}

// TestSQLiteStore_SaveAndList verifies round trip and insertion order.
func TestSQLiteStore_SaveAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := []domain.Announcement{
		{ID: "2", Title: "Flu clinic", Date: "2026-10-01", Details: "Walk-ins *welcome*"},
		{ID: "1", Title: "Holiday hours", Date: "2026-12-20"},
	}
	for _, a := range want {
		if err := s.Save(ctx, a); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("List() returned %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if n, err := s.Count(ctx); err != nil || n != 2 {
		t.Errorf("Count() = %d, %v; want 2", n, err)
	}
}
