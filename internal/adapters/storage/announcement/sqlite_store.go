package announcement

import (
	"context"

	"portal/internal/adapters/storage"
	domain "portal/internal/domain/announcement"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save inserts or updates an announcement.
// PRE: a.ID is non-empty
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, a domain.Announcement) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO announcement (id, title, announced_on, details)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, announced_on=excluded.announced_on, details=excluded.details`,
		a.ID, a.Title, a.Date, a.Details)
	return err
}

// List returns every announcement in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Announcement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, announced_on, details FROM announcement ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []domain.Announcement{}
	for rows.Next() {
		var a domain.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Date, &a.Details); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Count returns the number of stored announcements.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM announcement`).Scan(&n)
	return n, err
}
