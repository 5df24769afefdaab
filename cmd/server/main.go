package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	web "portal/internal/adapters/http"
	"portal/internal/adapters/storage"
	announcementStore "portal/internal/adapters/storage/announcement"
	appointmentStore "portal/internal/adapters/storage/appointment"
	eventStore "portal/internal/adapters/storage/event"
	"portal/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Initialize database with WAL mode and busy timeout
	dbPath := envOrDefault("PORTAL_DB", "portal.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	log.Println("Database initialized successfully!")

	// Query timing: slow statements warn through slog
	timedDB := storage.NewTimedDB(db, storage.ParseSlowQuery(os.Getenv("PORTAL_SLOW_QUERY_MS")))
	stores := &web.Stores{
		AppointmentStore:  appointmentStore.NewSQLiteStore(timedDB),
		AnnouncementStore: announcementStore.NewSQLiteStore(timedDB),
		EventStore:        eventStore.NewSQLiteStore(timedDB),
	}

	// Seed the loader tables from PORTAL_SEED_FILE, or the built-in demo data outside production
	fixture, ok, err := loadSeedFixture(os.Getenv("PORTAL_SEED_FILE"), os.Getenv("PORTAL_ENV"))
	if err != nil {
		log.Fatalf("failed to load seed fixture: %v", err)
	}
	if ok {
		seedDeps := orchestrators.SeedDashboardDeps{
			AppointmentStore:  stores.AppointmentStore,
			AnnouncementStore: stores.AnnouncementStore,
			EventStore:        stores.EventStore,
			GenerateID:        func() string { return uuid.New().String() },
			Now:               time.Now,
		}
		res, err := orchestrators.ExecuteSeedDashboard(context.Background(), orchestrators.SeedDashboardInput{Fixture: fixture}, seedDeps)
		if err != nil {
			log.Fatalf("failed to seed dashboard: %v", err)
		}
		log.Printf("Seeded %d appointments, %d announcements, %d events", res.Appointments, res.Announcements, res.Events)
	}

	handler := web.NewMux(envOrDefault("PORTAL_STATIC_DIR", "static"), stores)

	addr := envOrDefault("PORTAL_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("Portal %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("PORTAL_ENV", "development"), storage.SchemaVersion)

	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadSeedFixture returns the fixture to seed with. A configured file always wins;
// without one, development gets the demo data and production seeds nothing.
func loadSeedFixture(path, env string) (orchestrators.SeedFixture, bool, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return orchestrators.SeedFixture{}, false, err
		}
		defer f.Close()
		fx, err := orchestrators.ParseSeedFixture(f)
		return fx, err == nil, err
	}
	if env == "production" {
		return orchestrators.SeedFixture{}, false, nil
	}
	fx, err := orchestrators.DefaultSeedFixture()
	return fx, err == nil, err
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
