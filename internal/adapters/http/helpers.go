package web

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	"sigsite/internal/adapters/http/middleware"
	"sigsite/internal/adapters/view"
)

// internalError logs the real error and returns a generic 500.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// renderTemplate renders a page into a buffer first so template errors become a clean 500.
func renderTemplate(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	user, _ := middleware.AdminUser(r.Context())
	page := view.Page{
		Title:     title,
		CSRFField: csrf.TemplateField(r),
		AdminUser: user,
		Data:      data,
	}
	var buf bytes.Buffer
	if err := view.Render(&buf, name, page); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
