package appointment

import (
	"context"

	domain "portal/internal/domain/appointment"
)

// Store persists the appointments the dashboard loads from.
type Store interface {
	Save(ctx context.Context, value domain.Appointment) error
	ListByDate(ctx context.Context, date string) ([]domain.Appointment, error)
	Count(ctx context.Context) (int, error)
}
