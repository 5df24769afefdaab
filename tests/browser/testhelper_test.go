package browser_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	web "portal/internal/adapters/http"
	"portal/internal/adapters/storage"
	announcementStore "portal/internal/adapters/storage/announcement"
	appointmentStore "portal/internal/adapters/storage/appointment"
	eventStore "portal/internal/adapters/storage/event"
	"portal/internal/application/orchestrators"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  *web.Stores
}

// newTestApp creates a fully wired app with a temp SQLite DB seeded from fixture and starts an HTTP server.
func newTestApp(t *testing.T, fixture orchestrators.SeedFixture) *testApp {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to initialize test DB: %v", err)
	}

	stores := &web.Stores{
		AppointmentStore:  appointmentStore.NewSQLiteStore(db),
		AnnouncementStore: announcementStore.NewSQLiteStore(db),
		EventStore:        eventStore.NewSQLiteStore(db),
	}

	var n int
	_, err = orchestrators.ExecuteSeedDashboard(context.Background(), orchestrators.SeedDashboardInput{Fixture: fixture},
		orchestrators.SeedDashboardDeps{
			AppointmentStore:  stores.AppointmentStore,
			AnnouncementStore: stores.AnnouncementStore,
			EventStore:        stores.EventStore,
			GenerateID: func() string {
				n++
				return fmt.Sprintf("seed-%03d", n)
			},
			Now: time.Now,
		})
	if err != nil {
		t.Fatalf("failed to seed test DB: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// Trust the test origin for CSRF before creating the mux
	t.Setenv("PORTAL_TRUSTED_ORIGINS", fmt.Sprintf("127.0.0.1:%d,localhost:%d", port, port))
	web.RateLimitPerSecond = 1000

	mux := web.NewMux(filepath.Join(findProjectRoot(t), "static"), stores)
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		DB:      db,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		Stores:  stores,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// newPage creates a new browser page in its own context, so each page gets its own workspace cookie.
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	bctx, err := a.Browser.NewContext()
	if err != nil {
		t.Fatalf("failed to create browser context: %v", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { bctx.Close() })
	return page
}

// gotoPath navigates page to a path under the test server.
func (a *testApp) gotoPath(t *testing.T, page playwright.Page, path string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + path); err != nil {
		t.Fatalf("failed to navigate to %s: %v", path, err)
	}
}

// rowCount returns the number of data rows (placeholder excluded) in the page's table.
func rowCount(t *testing.T, page playwright.Page) int {
	t.Helper()
	n, err := page.Locator("tbody tr:not(.empty)").Count()
	if err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}

// findProjectRoot walks up from the working directory to find the project root (contains go.mod).
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}
