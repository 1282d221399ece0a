package web

import (
	"errors"
	"net/http"
	"strconv"

	"sigsite/internal/adapters/view"
	"sigsite/internal/application/projections"
	"sigsite/internal/domain/directory"
)

// handleMembers serves the directory page; ?filter= narrows the general members.
func (s *server) handleMembers(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryDirectoryView(r.Context(),
		projections.DirectoryViewQuery{Filter: r.URL.Query().Get("filter")},
		projections.DirectoryViewDeps{Cards: s.Surface},
	)
	if err != nil {
		internalError(w, err)
		return
	}
	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, result)
		return
	}
	renderTemplate(w, r, http.StatusOK, view.PageMembers, "Members", result)
}

func (s *server) handleMemberDetail(w http.ResponseWriter, r *http.Request) {
	cat, err := directory.ParseCategory(r.PathValue("category"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	result, err := projections.QueryMemberDetail(r.Context(),
		projections.MemberDetailQuery{Category: cat, Index: index},
		projections.MemberDetailDeps{Records: s.Surface},
	)
	if errors.Is(err, projections.ErrMemberNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, result.Record)
		return
	}
	renderTemplate(w, r, http.StatusOK, view.PageMemberDetail, result.Record.Name, result)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"members":     s.Surface.Directory().Len(),
		"rendered_at": s.Surface.RenderedAt(),
		"syncing":     s.Syncer.InFlight(),
	})
}
