package projections

import (
	"context"
	"fmt"

	domain "portal/internal/domain/announcement"
)

// GetAnnouncementsResult carries the query result.
type GetAnnouncementsResult struct {
	Announcements []domain.Announcement
}

// GetAnnouncementsDeps holds dependencies for GetAnnouncements.
type GetAnnouncementsDeps struct {
	AnnouncementStore AnnouncementStore
}

// QueryGetAnnouncements loads the initial record list for the announcements view.
// PRE: none
// POST: Returns every stored announcement in insertion order
func QueryGetAnnouncements(ctx context.Context, deps GetAnnouncementsDeps) (GetAnnouncementsResult, error) {
	list, err := deps.AnnouncementStore.List(ctx)
	if err != nil {
		return GetAnnouncementsResult{}, fmt.Errorf("list announcements: %w", err)
	}
	return GetAnnouncementsResult{Announcements: list}, nil
}
