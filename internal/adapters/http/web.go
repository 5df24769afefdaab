package web

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"portal/internal/adapters/http/middleware"
	announcementStore "portal/internal/adapters/storage/announcement"
	appointmentStore "portal/internal/adapters/storage/appointment"
	eventStore "portal/internal/adapters/storage/event"
)

// Stores holds all storage dependencies.
type Stores struct {
	AppointmentStore  appointmentStore.Store
	AnnouncementStore announcementStore.Store
	EventStore        eventStore.Store
}

// CSRF key configuration errors.
var (
	errCSRFKeyRequired = errors.New("PORTAL_CSRF_KEY is required in production")
	errCSRFKeyInvalid  = errors.New("PORTAL_CSRF_KEY must be 64 hex characters (32 bytes)")
)

// parseCSRFKey decodes a hex-encoded 32-byte key. An empty value yields a nil key.
func parseCSRFKey(keyHex, env string) ([]byte, error) {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, errCSRFKeyInvalid
		}
		return key, nil
	}
	if env == "production" {
		return nil, errCSRFKeyRequired
	}
	return nil, nil
}

// loadCSRFKey reads the CSRF secret from PORTAL_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	key, err := parseCSRFKey(os.Getenv("PORTAL_CSRF_KEY"), os.Getenv("PORTAL_ENV"))
	if err != nil {
		log.Fatal(err)
	}
	if key != nil {
		return key
	}
	key = make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (open forms won't survive restart). Set PORTAL_CSRF_KEY for production.")
	return key
}

// trustedOrigins lists the hosts allowed to post forms cross-origin.
// PORTAL_TRUSTED_ORIGINS is a comma-separated list of host[:port].
func trustedOrigins() []string {
	origins := []string{"localhost:8080", "127.0.0.1:8080"}
	for _, o := range strings.Split(os.Getenv("PORTAL_TRUSTED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global workspace registry (set by NewMux)
var workspaces *workspaceRegistry

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores) http.Handler {
	stores = s
	workspaces = newWorkspaceRegistry(WorkspaceTTL)
	secure := os.Getenv("PORTAL_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	csrfKey := loadCSRFKey()
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Workspace -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, middleware.CSRFOptions{Secure: secure, TrustedOrigins: trustedOrigins()}),
		middleware.Workspace(secure),
		middleware.RateLimit(limiter),
		middleware.Timing(middleware.SlowRequestThreshold(os.Getenv("PORTAL_SLOW_REQUEST_MS"))),
	)
}

// registerRoutes attaches every dashboard route to mux.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/appointments/today", http.StatusFound)
	})
	mux.HandleFunc("GET /healthz", handleHealthz)

	mux.HandleFunc("GET /appointments/today", handleAppointmentsToday)
	mux.HandleFunc("GET /appointments/today/export.csv", handleAppointmentsExport)

	mux.HandleFunc("GET /announcements", handleAnnouncements)
	mux.HandleFunc("GET /announcements/new", handleAnnouncementsNew)
	mux.HandleFunc("POST /announcements", handleAnnouncementsCreate)

	mux.HandleFunc("GET /events", handleEvents)
	mux.HandleFunc("GET /events/new", handleEventsNew)
	mux.HandleFunc("POST /events", handleEventsCreate)
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "workspaces": workspaces.Len()})
}
