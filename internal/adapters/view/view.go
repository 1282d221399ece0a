// Package view renders the directory pages from embedded templates.
// The HTTP server and the static site build share it.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"

	"sigsite/internal/application/projections"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// Page names.
const (
	PageMembers      = "members"
	PageMemberDetail = "member_detail"
	PageAdminSync    = "admin_sync"
)

// Page is the data every template receives.
type Page struct {
	Title string
	// Static is set for the exported site: no admin links, no server-side filtering.
	Static    bool
	CSRFField template.HTML
	AdminUser string
	Data      any
}

// Home returns the directory page path for this rendition of the site.
func (p Page) Home() string {
	if p.Static {
		return "/members.html"
	}
	return "/members"
}

// AdminSync is the data of the admin sync page.
type AdminSync struct {
	Status   projections.SyncStatus
	InFlight bool
	Saved    bool
	Error    string
}

var pages = map[string]*template.Template{}

var baseFuncs = template.FuncMap{
	"asset":      AssetURL,
	"formatTime": formatTime,
	"join":       strings.Join,
}

func init() {
	for _, name := range []string{PageMembers, PageMemberDetail, PageAdminSync} {
		t := template.Must(template.New("layout.html").Funcs(baseFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
		pages[name] = t
	}
}

// Render executes a page into w.
// PRE: name is one of the Page* constants
// POST: Returns an error for an unknown page or a template failure; partial output may have been written
func Render(w io.Writer, name string, p Page) error {
	t, ok := pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout.html", p)
}

// Assets returns the embedded static assets rooted at the assets directory.
func Assets() fs.FS {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// AssetURL makes a relative photo or asset reference site-absolute.
// Absolute URLs and paths are returned unchanged.
func AssetURL(ref string) string {
	if ref == "" || strings.HasPrefix(ref, "/") || strings.Contains(ref, "://") || strings.HasPrefix(ref, "data:") {
		return ref
	}
	return "/" + ref
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
