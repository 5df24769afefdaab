package appointment

import (
	"context"
	"database/sql"

	"portal/internal/adapters/storage"
	domain "portal/internal/domain/appointment"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
// PRE: db is a valid, open database connection with InitDB applied
// POST: store is ready for use
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const appointmentColumns = `id, appointment_date, application_number, membership_number, type,
		name, email, mobile, time_and_date, category`

// Save inserts or updates an appointment.
// PRE: a has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, a domain.Appointment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO appointment (`+appointmentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   appointment_date=excluded.appointment_date, application_number=excluded.application_number,
		   membership_number=excluded.membership_number, type=excluded.type, name=excluded.name,
		   email=excluded.email, mobile=excluded.mobile, time_and_date=excluded.time_and_date,
		   category=excluded.category`,
		a.ID, a.Date, a.ApplicationNumber, a.MembershipNumber, a.Type,
		a.Name, a.Email, a.Mobile, a.TimeAndDate, a.Category)
	return err
}

// ListByDate returns the appointments on date in insertion order.
// PRE: date is YYYY-MM-DD
// POST: Returns matching appointments; empty slice when none
func (s *SQLiteStore) ListByDate(ctx context.Context, date string) ([]domain.Appointment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointment WHERE appointment_date = ? ORDER BY rowid`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// Count returns the number of stored appointments.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM appointment`).Scan(&n)
	return n, err
}

func scanAppointments(rows *sql.Rows) ([]domain.Appointment, error) {
	list := []domain.Appointment{}
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(&a.ID, &a.Date, &a.ApplicationNumber, &a.MembershipNumber, &a.Type,
			&a.Name, &a.Email, &a.Mobile, &a.TimeAndDate, &a.Category); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
