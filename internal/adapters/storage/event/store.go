package event

import (
	"context"

	domain "portal/internal/domain/event"
)

// Store persists the events the dashboard loads from.
type Store interface {
	Save(ctx context.Context, value domain.Event) error
	List(ctx context.Context) ([]domain.Event, error)
	Count(ctx context.Context) (int, error)
}
