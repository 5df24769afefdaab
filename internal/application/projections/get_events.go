package projections

import (
	"context"
	"fmt"

	domain "portal/internal/domain/event"
)

// GetEventsResult carries the query result.
type GetEventsResult struct {
	Events []domain.Event
}

// GetEventsDeps holds dependencies for GetEvents.
type GetEventsDeps struct {
	EventStore EventStore
}

// QueryGetEvents loads the initial record list for the events view.
func QueryGetEvents(ctx context.Context, deps GetEventsDeps) (GetEventsResult, error) {
	list, err := deps.EventStore.List(ctx)
	if err != nil {
		return GetEventsResult{}, fmt.Errorf("list events: %w", err)
	}
	return GetEventsResult{Events: list}, nil
}
