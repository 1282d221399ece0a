package source

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"
)

const testSpreadsheetID = "sheet-1"

type fakeRange struct {
	status int
	values [][]string
}

// fakeGoogle serves the Sheets values.get and Drive files.list endpoints.
type fakeGoogle struct {
	mu          sync.Mutex
	ranges      map[string]fakeRange
	files       map[string]string
	driveStatus int
	driveCalls  int
	sheetCalls  int
}

func newFakeGoogle(t *testing.T) (*fakeGoogle, []option.ClientOption) {
	t.Helper()
	f := &fakeGoogle{ranges: map[string]fakeRange{}, files: map[string]string{}}
	ts := httptest.NewServer(f)
	t.Cleanup(ts.Close)
	return f, []option.ClientOption{option.WithEndpoint(ts.URL + "/"), option.WithHTTPClient(ts.Client())}
}

func (f *fakeGoogle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if name, ok := strings.CutPrefix(r.URL.Path, "/v4/spreadsheets/"+testSpreadsheetID+"/values/"); ok {
		f.sheetCalls++
		rng, found := f.ranges[name]
		if !found {
			writeGoogleError(w, http.StatusNotFound, "Requested entity was not found.")
			return
		}
		if rng.status != 0 && rng.status != http.StatusOK {
			writeGoogleError(w, rng.status, "fake failure")
			return
		}
		values := make([][]any, len(rng.values))
		for i, row := range rng.values {
			values[i] = make([]any, len(row))
			for j, cell := range row {
				values[i][j] = cell
			}
		}
		writeJSON(w, map[string]any{"range": name, "majorDimension": "ROWS", "values": values})
		return
	}

	if r.URL.Path == "/files" {
		f.driveCalls++
		if f.driveStatus != 0 {
			writeGoogleError(w, f.driveStatus, "drive failure")
			return
		}
		files := []map[string]string{}
		if id, ok := f.files[queriedName(r.URL.Query().Get("q"))]; ok {
			files = append(files, map[string]string{"id": id})
		}
		writeJSON(w, map[string]any{"files": files})
		return
	}

	http.NotFound(w, r)
}

// queriedName extracts the filename from "name = '<f>' and ..." (no escapes in test names).
func queriedName(q string) string {
	_, rest, ok := strings.Cut(q, "name = '")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(rest, "'")
	return name
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeGoogleError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": status, "message": msg},
	})
}

func (f *fakeGoogle) driveCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.driveCalls
}
