//go:build browser

package browser_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/playwright-community/playwright-go"
	"golang.org/x/crypto/bcrypt"

	web "sigsite/internal/adapters/http"
	"sigsite/internal/adapters/http/middleware"
	"sigsite/internal/adapters/http/perf"
	"sigsite/internal/adapters/render"
	"sigsite/internal/adapters/storage/storagetest"
	syncconfigStore "sigsite/internal/adapters/storage/syncconfig"
	syncrunStore "sigsite/internal/adapters/storage/syncrun"
	"sigsite/internal/application/orchestrators"
	"sigsite/internal/domain/directory"
)

const (
	adminUser     = "admin"
	adminPassword = "TestPass123!"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	Surface *render.Surface
	PW      *playwright.Playwright
	Browser playwright.Browser
}

// idleSyncer accepts triggers without running a cycle.
type idleSyncer struct{}

func (idleSyncer) SyncNow(context.Context, string) (orchestrators.SyncDirectoryResult, error) {
	return orchestrators.SyncDirectoryResult{}, nil
}
func (idleSyncer) Trigger(string) bool { return true }
func (idleSyncer) InFlight() bool      { return false }

// seedDirectory is the fixed directory every browser test renders.
func seedDirectory() directory.Directory {
	return directory.Directory{
		Leadership: []directory.Record{
			{Name: "Ada Lovelace", Category: directory.CategoryLeadership, RoleOrTitle: "President", Affiliation: "Mathematics", Period: "2027", Bio: "Writes the first *program*.", ContactLink: "https://linkedin.com/in/ada"},
		},
		General: []directory.Record{
			{Name: "Bo Diddley", Category: directory.CategoryGeneral, Affiliation: "Music", Period: "2028", FilterLabel: "junior", ContactLink: "#"},
			{Name: "Cy Young", Category: directory.CategoryGeneral, Affiliation: "Physics", Period: "2027", FilterLabel: "senior", ContactLink: "#"},
			{Name: "Di Prince", Category: directory.CategoryGeneral, Affiliation: "History", Period: "2027", FilterLabel: "senior", ContactLink: "#"},
		},
		Alumni: []directory.Record{
			{Name: "Ed Wood", Category: directory.CategoryAlumni, RoleOrTitle: "Director", Affiliation: "Studio", ContactLink: "#"},
		},
	}
}

// newTestApp renders the seed directory, serves the full mux and launches Chromium.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := storagetest.Open(t)
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash admin password: %v", err)
	}

	surface := render.NewDirectorySurface()
	surface.RenderDirectory(seedDirectory(), nil)

	srv := httptest.NewServer(web.NewMux(web.Deps{
		Surface:     surface,
		ConfigStore: syncconfigStore.NewSQLiteStore(db),
		RunStore:    syncrunStore.NewSQLiteStore(db),
		Syncer:      idleSyncer{},
		Perf:        perf.NewCollector(100),
		Admin:       middleware.AdminCredentials{Username: adminUser, PasswordHash: hash},
		CSRFKey:     []byte("0123456789abcdef0123456789abcdef"),
	}))

	pw, err := playwright.Run()
	if err != nil {
		srv.Close()
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		srv.Close()
		t.Fatalf("failed to launch browser: %v", err)
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
	})

	return &testApp{
		BaseURL: srv.URL,
		Surface: surface,
		PW:      pw,
		Browser: browser,
	}
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// newAdminPage creates a page whose context sends admin basic auth credentials.
func (a *testApp) newAdminPage(t *testing.T) playwright.Page {
	t.Helper()
	ctx, err := a.Browser.NewContext(playwright.BrowserNewContextOptions{
		HttpCredentials: &playwright.HttpCredentials{
			Username: adminUser,
			Password: adminPassword,
		},
	})
	if err != nil {
		t.Fatalf("failed to create browser context: %v", err)
	}
	t.Cleanup(func() { ctx.Close() })
	page, err := ctx.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	return page
}

// goTo navigates and fails the test on a transport error.
func (a *testApp) goTo(t *testing.T, page playwright.Page, path string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + path); err != nil {
		t.Fatalf("failed to navigate to %s: %v", path, err)
	}
}
