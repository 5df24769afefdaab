package event

import (
	"context"

	"portal/internal/adapters/storage"
	domain "portal/internal/domain/event"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const eventColumns = `id, event_name, start_date, end_date, venue, cme_points, website`

// Save inserts or updates an event.
// PRE: e.ID is non-empty
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, e domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO event (`+eventColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   event_name=excluded.event_name, start_date=excluded.start_date, end_date=excluded.end_date,
		   venue=excluded.venue, cme_points=excluded.cme_points, website=excluded.website`,
		e.ID, e.EventName, e.StartDate, e.EndDate, e.Venue, e.CMEPoints, e.Website)
	return err
}

// List returns every event in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM event ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []domain.Event{}
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.EventName, &e.StartDate, &e.EndDate, &e.Venue, &e.CMEPoints, &e.Website); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Count returns the number of stored events.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM event`).Scan(&n)
	return n, err
}
