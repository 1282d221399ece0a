package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"sigsite/internal/domain/directory"
)

// Document is the static member document layout.
type Document struct {
	ExecutiveBoard []map[string]any `json:"executiveBoard"`
	GeneralMembers []map[string]any `json:"generalMembers"`
	Alumni         []map[string]any `json:"alumni"`
}

// DocumentSource reads the static JSON document.
type DocumentSource struct {
	Path string
}

// Name implements Source.
func (d *DocumentSource) Name() string { return NameDocument }

// Load implements Source. Every category counts as fetched.
func (d *DocumentSource) Load(ctx context.Context) (Result, error) {
	dir, err := LoadFromDocument(d.Path)
	if err != nil {
		return Result{}, err
	}
	res := newResult()
	res.Directory = dir
	for _, c := range directory.Categories {
		res.Fetched[c] = true
	}
	return res, nil
}

// LoadFromDocument reads and parses the static document.
// PRE: path names a JSON file
// POST: Returns *directory.SourceUnavailableError when the file cannot be read or parsed
// INVARIANT: Missing arrays yield empty categories
func LoadFromDocument(path string) (directory.Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return directory.Directory{}, &directory.SourceUnavailableError{Source: NameDocument, Err: err}
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return directory.Directory{}, &directory.SourceUnavailableError{
			Source: NameDocument,
			Err:    fmt.Errorf("parse %s: %w", path, err),
		}
	}

	var d directory.Directory
	d.Set(directory.CategoryLeadership, canonicalize(doc.ExecutiveBoard, directory.CategoryLeadership))
	d.Set(directory.CategoryGeneral, canonicalize(doc.GeneralMembers, directory.CategoryGeneral))
	d.Set(directory.CategoryAlumni, canonicalize(doc.Alumni, directory.CategoryAlumni))
	return d, nil
}

// NewDocument builds the static document layout from a directory.
// INVARIANT: LoadFromDocument of the encoded result yields the same records
func NewDocument(d directory.Directory) Document {
	conv := func(recs []directory.Record) []map[string]any {
		out := make([]map[string]any, 0, len(recs))
		for _, r := range recs {
			m := make(map[string]any)
			for k, v := range directory.ToDocument(r) {
				m[k] = v
			}
			out = append(out, m)
		}
		return out
	}
	return Document{
		ExecutiveBoard: conv(d.Leadership),
		GeneralMembers: conv(d.General),
		Alumni:         conv(d.Alumni),
	}
}

func canonicalize(items []map[string]any, c directory.Category) []directory.Record {
	out := make([]directory.Record, 0, len(items))
	for _, item := range items {
		out = append(out, directory.ToCanonical(stringify(item), c))
	}
	return out
}

// stringify keeps scalar values; nested values are dropped.
func stringify(item map[string]any) map[string]string {
	out := make(map[string]string, len(item))
	for k, v := range item {
		switch t := v.(type) {
		case string:
			out[k] = t
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(t)
		}
	}
	return out
}
