package announcement

import (
	"context"

	domain "portal/internal/domain/announcement"
)

// Store persists the announcements the dashboard loads from.
type Store interface {
	Save(ctx context.Context, value domain.Announcement) error
	List(ctx context.Context) ([]domain.Announcement, error)
	Count(ctx context.Context) (int, error)
}
