package web

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sigsite/internal/adapters/view"
	"sigsite/internal/application/listutil"
	"sigsite/internal/application/orchestrators"
	"sigsite/internal/application/projections"
	"sigsite/internal/domain/syncconfig"
	"sigsite/internal/domain/syncrun"
)

const recentRunsOnPage = 10

func (s *server) syncStatus(r *http.Request, limit int) (projections.SyncStatus, error) {
	return projections.QuerySyncStatus(r.Context(),
		projections.SyncStatusQuery{RecentLimit: limit},
		projections.SyncStatusDeps{Config: s.ConfigStore, Runs: s.RunStore, Now: s.now, BannerWindow: s.BannerWindow},
	)
}

func (s *server) renderAdminSync(w http.ResponseWriter, r *http.Request, status int, data view.AdminSync) {
	st, err := s.syncStatus(r, recentRunsOnPage)
	if err != nil {
		internalError(w, err)
		return
	}
	data.Status = st
	data.InFlight = s.Syncer.InFlight()
	renderTemplate(w, r, status, view.PageAdminSync, "Member sync", data)
}

func (s *server) handleAdminSyncPage(w http.ResponseWriter, r *http.Request) {
	s.renderAdminSync(w, r, http.StatusOK, view.AdminSync{Saved: r.URL.Query().Get("saved") == "1"})
}

// syncConfigForm mirrors the admin form; JSON clients post the same fields.
type syncConfigForm struct {
	SheetsAPIKey        string `json:"sheets_api_key"`
	ClearSheetsKey      bool   `json:"clear_sheets_key"`
	SpreadsheetID       string `json:"spreadsheet_id"`
	LeadershipRange     string `json:"leadership_range"`
	GeneralRange        string `json:"general_range"`
	AlumniRange         string `json:"alumni_range"`
	DriveAPIKey         string `json:"drive_api_key"`
	ClearDriveKey       bool   `json:"clear_drive_key"`
	PhotoFolderID       string `json:"photo_folder_id"`
	SyncIntervalMinutes int    `json:"sync_interval_minutes"`
}

func parseSyncConfigForm(r *http.Request) (syncConfigForm, error) {
	var f syncConfigForm
	if isJSONRequest(r) {
		if err := strictDecode(r, &f); err != nil {
			return f, fmt.Errorf("invalid JSON: %w", err)
		}
		return f, nil
	}
	if err := r.ParseForm(); err != nil {
		return f, err
	}
	f = syncConfigForm{
		SheetsAPIKey:    r.PostFormValue("sheets_api_key"),
		ClearSheetsKey:  r.PostFormValue("clear_sheets_key") != "",
		SpreadsheetID:   r.PostFormValue("spreadsheet_id"),
		LeadershipRange: r.PostFormValue("leadership_range"),
		GeneralRange:    r.PostFormValue("general_range"),
		AlumniRange:     r.PostFormValue("alumni_range"),
		DriveAPIKey:     r.PostFormValue("drive_api_key"),
		ClearDriveKey:   r.PostFormValue("clear_drive_key") != "",
		PhotoFolderID:   r.PostFormValue("photo_folder_id"),
	}
	if v := strings.TrimSpace(r.PostFormValue("sync_interval_minutes")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, errors.New("sync interval must be a whole number of minutes")
		}
		f.SyncIntervalMinutes = n
	}
	return f, nil
}

func (f syncConfigForm) input() orchestrators.ConfigureSyncInput {
	return orchestrators.ConfigureSyncInput{
		Config: syncconfig.Config{
			SheetsAPIKey:    f.SheetsAPIKey,
			SpreadsheetID:   f.SpreadsheetID,
			LeadershipRange: f.LeadershipRange,
			GeneralRange:    f.GeneralRange,
			AlumniRange:     f.AlumniRange,
			DriveAPIKey:     f.DriveAPIKey,
			PhotoFolderID:   f.PhotoFolderID,
			SyncInterval:    time.Duration(f.SyncIntervalMinutes) * time.Minute,
		},
		ClearSheetsKey: f.ClearSheetsKey,
		ClearDriveKey:  f.ClearDriveKey,
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		syncconfig.ErrInvalidSpreadsheetID,
		syncconfig.ErrInvalidFolderID,
		syncconfig.ErrIntervalTooShort,
		syncconfig.ErrRangeTooLong,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// handleAdminSyncSave stores new adapter configuration and starts a cycle with it.
func (s *server) handleAdminSyncSave(w http.ResponseWriter, r *http.Request) {
	form, err := parseSyncConfigForm(r)
	if err == nil {
		_, err = orchestrators.ExecuteConfigureSync(r.Context(), form.input(), orchestrators.ConfigureSyncDeps{
			ConfigStore: s.ConfigStore,
			Now:         s.now,
		})
		if err != nil && !isValidationError(err) {
			internalError(w, err)
			return
		}
	}
	if err != nil {
		if isJSONRequest(r) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.renderAdminSync(w, r, http.StatusBadRequest, view.AdminSync{Error: err.Error()})
		return
	}

	triggered := s.Syncer.Trigger(syncrun.TriggerManual)
	if isJSONRequest(r) {
		writeJSON(w, http.StatusOK, map[string]any{"saved": true, "sync_started": triggered})
		return
	}
	http.Redirect(w, r, "/admin/sync?saved=1", http.StatusSeeOther)
}

// handleAdminSyncRun starts a cycle. JSON clients wait for the result; the form redirects back.
func (s *server) handleAdminSyncRun(w http.ResponseWriter, r *http.Request) {
	if !isJSONRequest(r) {
		if !s.Syncer.Trigger(syncrun.TriggerManual) {
			slog.Info("manual_sync_skipped", "reason", "in_flight_or_stopped")
		}
		http.Redirect(w, r, "/admin/sync", http.StatusSeeOther)
		return
	}

	result, err := s.Syncer.SyncNow(r.Context(), syncrun.TriggerManual)
	switch {
	case errors.Is(err, orchestrators.ErrSyncInProgress):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case err != nil:
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error(), "run": newRunJSON(result.Run)})
	default:
		writeJSON(w, http.StatusOK, map[string]any{"run": newRunJSON(result.Run), "rendered": result.Rendered})
	}
}

// runJSON is the wire shape of a sync run.
type runJSON struct {
	ID              string    `json:"id"`
	Trigger         string    `json:"trigger"`
	Source          string    `json:"source"`
	Status          string    `json:"status"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	DurationMs      int64     `json:"duration_ms"`
	LeadershipCount int       `json:"leadership_count"`
	GeneralCount    int       `json:"general_count"`
	AlumniCount     int       `json:"alumni_count"`
	Warnings        []string  `json:"warnings"`
	Error           string    `json:"error,omitempty"`
}

func newRunJSON(run syncrun.Run) runJSON {
	warnings := run.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return runJSON{
		ID:              run.ID,
		Trigger:         run.Trigger,
		Source:          run.Source,
		Status:          run.Status,
		StartedAt:       run.StartedAt,
		FinishedAt:      run.FinishedAt,
		DurationMs:      run.Duration().Milliseconds(),
		LeadershipCount: run.LeadershipCount,
		GeneralCount:    run.GeneralCount,
		AlumniCount:     run.AlumniCount,
		Warnings:        warnings,
		Error:           run.Error,
	}
}

// runPage is one page of the sync cycle log.
type runPage struct {
	Runs []runJSON `json:"runs"`
	listutil.PageInfo
}

// handleAdminSyncRuns pages through the sync cycle log, newest first.
func (s *server) handleAdminSyncRuns(w http.ResponseWriter, r *http.Request) {
	params := listutil.ParsePageParams(r.URL.Query())
	total, err := s.RunStore.Count(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	info := listutil.NewPageInfo(params, total)
	runs, err := s.RunStore.ListPage(r.Context(), info.Offset(), info.PerPage)
	if err != nil {
		internalError(w, err)
		return
	}
	out := runPage{Runs: make([]runJSON, 0, len(runs)), PageInfo: info}
	for _, run := range runs {
		out.Runs = append(out.Runs, newRunJSON(run))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleAdminExport downloads the displayed directory as a static document.
func (s *server) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	result, err := orchestrators.ExecuteExportDirectory(r.Context(),
		orchestrators.ExportDirectoryInput{W: &buf},
		orchestrators.ExportDirectoryDeps{Directory: s.Surface},
	)
	if err != nil {
		internalError(w, err)
		return
	}
	slog.Info("directory_exported",
		"leadership", result.Leadership,
		"general", result.General,
		"alumni", result.Alumni,
	)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+orchestrators.ExportFilename+`"`)
	buf.WriteTo(w)
}

// handleAdminPerf returns the timing snapshot for ?window= (default one hour).
func (s *server) handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if s.Perf == nil {
		http.Error(w, "performance collection disabled", http.StatusNotFound)
		return
	}
	window := time.Hour
	if v := r.URL.Query().Get("window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			http.Error(w, "invalid window", http.StatusBadRequest)
			return
		}
		window = d
	}
	writeJSON(w, http.StatusOK, s.Perf.Snapshot(time.Now().Add(-window), 10))
}
