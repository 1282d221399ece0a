//go:build browser

package browser_test

import (
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"
)

func waitVisible(t *testing.T, loc playwright.Locator, what string) {
	t.Helper()
	if err := loc.WaitFor(playwright.LocatorWaitForOptions{Timeout: playwright.Float(5000)}); err != nil {
		t.Fatalf("%s not visible: %v", what, err)
	}
}

// TestMembers_RendersEveryCategory verifies the three grids are filled from the rendered surface.
func TestMembers_RendersEveryCategory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	app := newTestApp(t)
	page := app.newPage(t)
	app.goTo(t, page, "/members")

	waitVisible(t, page.Locator("#general-grid"), "general grid")

	tests := []struct {
		selector string
		want     int
	}{
		{"#leadership-grid .member-card", 1},
		{"#general-grid .member-card", 3},
		{"#alumni-grid .member-card", 1},
	}
	for _, tt := range tests {
		n, err := page.Locator(tt.selector).Count()
		if err != nil {
			t.Fatalf("count %s: %v", tt.selector, err)
		}
		if n != tt.want {
			t.Errorf("%s = %d cards, want %d", tt.selector, n, tt.want)
		}
	}

	text, err := page.Locator("#member-count").TextContent()
	if err != nil {
		t.Fatalf("read member count: %v", err)
	}
	if strings.TrimSpace(text) != "Showing 3 of 3 members" {
		t.Errorf("member count = %q", text)
	}
}

// TestMembers_FilterUpdatesCount clicks a filter button and checks the client-side filter.
func TestMembers_FilterUpdatesCount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	app := newTestApp(t)
	page := app.newPage(t)
	app.goTo(t, page, "/members")

	senior := page.Locator(`.filter-btn[data-filter="senior"]`)
	waitVisible(t, senior, "senior filter")
	if err := senior.Click(); err != nil {
		t.Fatalf("click senior filter: %v", err)
	}

	count := page.Locator("#member-count")
	if err := count.Filter(playwright.LocatorFilterOptions{HasText: "Showing 2 of 3 members"}).WaitFor(
		playwright.LocatorWaitForOptions{Timeout: playwright.Float(5000)}); err != nil {
		text, _ := count.TextContent()
		t.Fatalf("member count after filter = %q: %v", text, err)
	}

	hidden, err := page.Locator("#general-grid .member-card.hidden").Count()
	if err != nil {
		t.Fatalf("count hidden cards: %v", err)
	}
	if hidden != 1 {
		t.Errorf("hidden cards = %d, want 1", hidden)
	}

	if err := page.Locator(`.filter-btn[data-filter="all"]`).Click(); err != nil {
		t.Fatalf("click all filter: %v", err)
	}
	if err := count.Filter(playwright.LocatorFilterOptions{HasText: "Showing 3 of 3 members"}).WaitFor(
		playwright.LocatorWaitForOptions{Timeout: playwright.Float(5000)}); err != nil {
		t.Fatalf("count not restored after clearing filter: %v", err)
	}
}

// TestMembers_DetailPage follows a card link to the member detail page and back.
func TestMembers_DetailPage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	app := newTestApp(t)
	page := app.newPage(t)
	app.goTo(t, page, "/members")

	link := page.Locator("#leadership-grid .member-link").First()
	waitVisible(t, link, "leadership card link")
	if err := link.Click(); err != nil {
		t.Fatalf("click card: %v", err)
	}
	if err := page.WaitForURL(app.BaseURL+"/members/leadership/0", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Fatalf("card did not open detail page: %v", err)
	}

	name, err := page.Locator("h1.member-name").TextContent()
	if err != nil {
		t.Fatalf("read name: %v", err)
	}
	if strings.TrimSpace(name) != "Ada Lovelace" {
		t.Errorf("detail name = %q", name)
	}
	// The bio markdown is rendered to HTML.
	waitVisible(t, page.Locator(".member-bio em"), "rendered bio emphasis")
}

// TestAdminSync_RequiresCredentials verifies the admin page loads only with basic auth.
func TestAdminSync_RequiresCredentials(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	app := newTestApp(t)

	anon := app.newPage(t)
	resp, err := anon.Goto(app.BaseURL + "/admin/sync")
	if err != nil {
		t.Fatalf("navigate anonymously: %v", err)
	}
	if resp.Status() != 401 {
		t.Errorf("anonymous status = %d, want 401", resp.Status())
	}

	admin := app.newAdminPage(t)
	app.goTo(t, admin, "/admin/sync")
	waitVisible(t, admin.Locator("button[type=submit]", playwright.PageLocatorOptions{HasText: "Sync now"}), "sync now button")
}
