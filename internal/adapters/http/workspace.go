package web

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"portal/internal/adapters/http/middleware"
	"portal/internal/application/addform"
	"portal/internal/application/projections"
	"portal/internal/application/tableview"
	domainAnnouncement "portal/internal/domain/announcement"
	domainAppointment "portal/internal/domain/appointment"
	domainEvent "portal/internal/domain/event"
)

// WorkspaceTTL is how long an idle workspace keeps its views mounted.
const WorkspaceTTL = 24 * time.Hour

// sweepInterval bounds how often the registry scans for idle workspaces.
const sweepInterval = time.Minute

var errNoWorkspace = errors.New("request has no workspace token")

// workspace is one browser's set of dashboard views.
// Handlers hold mu for the whole request so every update runs to completion.
type workspace struct {
	mu       sync.Mutex
	lastSeen time.Time

	appointmentsDate string
	appointments     *tableview.View[domainAppointment.Appointment]
	announcements    *tableview.View[domainAnnouncement.Announcement]
	events           *tableview.View[domainEvent.Event]

	announcementForm *addform.Form[domainAnnouncement.Announcement]
	eventForm        *addform.Form[domainEvent.Event]
}

func newWorkspace(now time.Time) *workspace {
	ws := &workspace{lastSeen: now}
	ws.announcementForm = addform.New(domainAnnouncement.Announcement{}, func(a domainAnnouncement.Announcement) {
		a.ID = generateID()
		ws.announcements.Append(a)
	})
	ws.eventForm = addform.New(domainEvent.Event{}, func(e domainEvent.Event) {
		e.ID = generateID()
		ws.events.Append(e)
	})
	return ws
}

// appointmentView mounts today's appointments on first use, and again when the day rolls over.
// PRE: ws.mu is held
func (ws *workspace) appointmentView(ctx context.Context) (*tableview.View[domainAppointment.Appointment], error) {
	today := timeNow().Format(domainAppointment.DateLayout)
	if ws.appointments != nil && ws.appointmentsDate == today {
		return ws.appointments, nil
	}
	res, err := projections.QueryGetTodaysAppointments(ctx, projections.GetTodaysAppointmentsQuery{Date: today},
		projections.GetTodaysAppointmentsDeps{AppointmentStore: stores.AppointmentStore})
	if err != nil {
		return nil, err
	}
	ws.appointments = tableview.New(domainAppointment.ViewName, res.Appointments)
	ws.appointmentsDate = today
	slog.Debug("view_event", "event", "view_mounted", "view", domainAppointment.ViewName, "records", len(res.Appointments))
	return ws.appointments, nil
}

// announcementView mounts the announcements view on first use.
// PRE: ws.mu is held
func (ws *workspace) announcementView(ctx context.Context) (*tableview.View[domainAnnouncement.Announcement], error) {
	if ws.announcements != nil {
		return ws.announcements, nil
	}
	res, err := projections.QueryGetAnnouncements(ctx, projections.GetAnnouncementsDeps{AnnouncementStore: stores.AnnouncementStore})
	if err != nil {
		return nil, err
	}
	ws.announcements = tableview.New(domainAnnouncement.ViewName, res.Announcements)
	slog.Debug("view_event", "event", "view_mounted", "view", domainAnnouncement.ViewName, "records", len(res.Announcements))
	return ws.announcements, nil
}

// eventView mounts the events view on first use.
// PRE: ws.mu is held
func (ws *workspace) eventView(ctx context.Context) (*tableview.View[domainEvent.Event], error) {
	if ws.events != nil {
		return ws.events, nil
	}
	res, err := projections.QueryGetEvents(ctx, projections.GetEventsDeps{EventStore: stores.EventStore})
	if err != nil {
		return nil, err
	}
	ws.events = tableview.New(domainEvent.ViewName, res.Events)
	slog.Debug("view_event", "event", "view_mounted", "view", domainEvent.ViewName, "records", len(res.Events))
	return ws.events, nil
}

// workspaceRegistry maps workspace tokens to their workspaces.
type workspaceRegistry struct {
	mu        sync.Mutex
	ttl       time.Duration
	items     map[string]*workspace
	lastSweep time.Time
}

func newWorkspaceRegistry(ttl time.Duration) *workspaceRegistry {
	return &workspaceRegistry{ttl: ttl, items: make(map[string]*workspace), lastSweep: timeNow()}
}

// Get returns the workspace for token, creating it when absent or expired.
// PRE: token is non-empty
// POST: the returned workspace's idle clock is reset
func (reg *workspaceRegistry) Get(token string) *workspace {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	now := timeNow()
	if now.Sub(reg.lastSweep) >= sweepInterval {
		reg.sweep(now)
	}

	ws, ok := reg.items[token]
	if ok && now.Sub(ws.lastSeen) > reg.ttl {
		slog.Debug("workspace_event", "event", "workspace_expired")
		ok = false
	}
	if !ok {
		ws = newWorkspace(now)
		reg.items[token] = ws
	}
	ws.lastSeen = now
	return ws
}

// Len returns the number of live workspaces.
func (reg *workspaceRegistry) Len() int {
	if reg == nil {
		return 0
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.items)
}

// sweep unmounts every workspace idle for longer than the TTL.
// PRE: reg.mu is held
func (reg *workspaceRegistry) sweep(now time.Time) {
	removed := 0
	for token, ws := range reg.items {
		if now.Sub(ws.lastSeen) > reg.ttl {
			delete(reg.items, token)
			removed++
		}
	}
	reg.lastSweep = now
	if removed > 0 {
		slog.Info("workspace_event", "event", "workspaces_swept", "count", removed)
	}
}

// requestWorkspace returns the workspace bound to the request's token.
func requestWorkspace(ctx context.Context) (*workspace, error) {
	token, ok := middleware.WorkspaceFromContext(ctx)
	if !ok {
		return nil, errNoWorkspace
	}
	return workspaces.Get(token), nil
}
