package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"sigsite/internal/domain/directory"
	"sigsite/internal/domain/syncconfig"
)

// CategoryRows is the settled outcome of fetching one category.
// Err is nil, *directory.RemoteFetchError, *directory.EmptySourceError or *directory.AuthRejectedError.
type CategoryRows struct {
	Category directory.Category
	Rows     []map[string]string
	Err      error
}

// SheetsSource reads one named range per category from a Google spreadsheet.
type SheetsSource struct {
	values *sheets.SpreadsheetsValuesService
	cfg    syncconfig.Config
	photos *PhotoResolver
}

// NewSheetsSource creates a spreadsheet source authenticated with the configured API key.
// PRE: cfg.RemoteConfigured(); photos may be nil
func NewSheetsSource(ctx context.Context, cfg syncconfig.Config, photos *PhotoResolver, opts ...option.ClientOption) (*SheetsSource, error) {
	if !cfg.RemoteConfigured() {
		return nil, errors.New("spreadsheet source needs an api key and spreadsheet id")
	}
	all := append([]option.ClientOption{option.WithAPIKey(cfg.SheetsAPIKey)}, opts...)
	svc, err := sheets.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return &SheetsSource{values: svc.Spreadsheets.Values, cfg: cfg, photos: photos}, nil
}

// Name implements Source.
func (s *SheetsSource) Name() string { return NameSheets }

// LoadFromRemoteSheet fetches every category concurrently and waits for all to settle.
// PRE: none
// POST: Returns one CategoryRows per category in directory.Categories order
// INVARIANT: A failed category never prevents the others from completing,
// except an auth rejection, which cancels the remaining requests
func (s *SheetsSource) LoadFromRemoteSheet(ctx context.Context) []CategoryRows {
	out := make([]CategoryRows, len(directory.Categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range directory.Categories {
		g.Go(func() error {
			rows, err := s.fetchCategory(gctx, c)
			out[i] = CategoryRows{Category: c, Rows: rows, Err: err}
			var auth *directory.AuthRejectedError
			if errors.As(err, &auth) {
				return err
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (s *SheetsSource) fetchCategory(ctx context.Context, c directory.Category) ([]map[string]string, error) {
	resp, err := s.values.Get(s.cfg.SpreadsheetID, s.cfg.RangeFor(c)).Context(ctx).Do()
	if err != nil {
		return nil, classifyFetchError(c, err)
	}
	if len(resp.Values) < 2 {
		return nil, &directory.EmptySourceError{Category: c}
	}
	return NormalizeRows(cellsToStrings(resp.Values[0]), rowsToStrings(resp.Values[1:])), nil
}

// Load implements Source.
// POST: Returns *directory.AuthRejectedError when the key was refused and
// *directory.SourceUnavailableError when every category failed
func (s *SheetsSource) Load(ctx context.Context) (Result, error) {
	settled := s.LoadFromRemoteSheet(ctx)
	res := newResult()
	var failures []error

	for _, cr := range settled {
		var auth *directory.AuthRejectedError
		var empty *directory.EmptySourceError
		switch {
		case cr.Err == nil:
			res.Directory.Set(cr.Category, s.canonicalize(ctx, cr))
			res.Fetched[cr.Category] = true
		case errors.As(cr.Err, &auth):
			return Result{}, auth
		case errors.As(cr.Err, &empty):
			res.Directory.Set(cr.Category, []directory.Record{})
			res.Fetched[cr.Category] = true
			res.Warnings = append(res.Warnings, empty.Error())
			slog.Warn("directory_category_empty", "category", cr.Category)
		default:
			failures = append(failures, cr.Err)
			res.Warnings = append(res.Warnings, cr.Err.Error())
			slog.Warn("directory_sync_category_failed", "category", cr.Category, "error", cr.Err)
		}
	}

	if len(res.Fetched) == 0 {
		return Result{}, &directory.SourceUnavailableError{Source: NameSheets, Err: errors.Join(failures...)}
	}
	return res, nil
}

func (s *SheetsSource) canonicalize(ctx context.Context, cr CategoryRows) []directory.Record {
	out := make([]directory.Record, 0, len(cr.Rows))
	for _, raw := range cr.Rows {
		rec := directory.ToCanonical(raw, cr.Category)
		if hint := directory.PhotoHint(raw, cr.Category); hint != "" && s.photos != nil {
			rec.PhotoRef = s.photos.ResolvePhoto(ctx, hint)
		}
		out = append(out, rec)
	}
	return out
}

func classifyFetchError(c directory.Category, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden {
			return &directory.AuthRejectedError{StatusCode: gerr.Code, Err: err}
		}
		return &directory.RemoteFetchError{
			Category:   c,
			StatusText: http.StatusText(gerr.Code),
			StatusCode: gerr.Code,
			Err:        err,
		}
	}
	return &directory.RemoteFetchError{Category: c, StatusText: err.Error(), Err: err}
}

func cellsToStrings(cells []interface{}) []string {
	out := make([]string, len(cells))
	for i, v := range cells {
		if v != nil {
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

func rowsToStrings(rows [][]interface{}) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = cellsToStrings(r)
	}
	return out
}
