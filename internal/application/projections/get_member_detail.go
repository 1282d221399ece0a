package projections

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"sigsite/internal/domain/directory"
)

var ErrMemberNotFound = errors.New("member not found")

// mdRenderer renders member bios; output is sanitised by bioPolicy before display.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var bioPolicy = bluemonday.UGCPolicy()

// RecordSource exposes the rendered records per category.
type RecordSource interface {
	Records(c directory.Category) ([]directory.Record, bool)
}

// MemberDetailQuery carries query parameters.
type MemberDetailQuery struct {
	Category directory.Category
	Index    int
}

// MemberDetail carries the query result.
type MemberDetail struct {
	Card      Card
	Record    directory.Record
	FirstName string
	BioHTML   template.HTML
}

// MemberDetailDeps holds dependencies for QueryMemberDetail.
type MemberDetailDeps struct {
	Records RecordSource
}

// QueryMemberDetail returns one member's card and rendered bio.
// PRE: deps.Records is non-nil
// POST: Returns ErrMemberNotFound for an unknown category container or index
// INVARIANT: BioHTML never contains markup outside the UGC policy
func QueryMemberDetail(ctx context.Context, query MemberDetailQuery, deps MemberDetailDeps) (MemberDetail, error) {
	records, ok := deps.Records.Records(query.Category)
	if !ok || query.Index < 0 || query.Index >= len(records) {
		return MemberDetail{}, ErrMemberNotFound
	}
	rec := records[query.Index]
	card := BuildCard(rec)
	card.Index = query.Index

	first, _, _ := strings.Cut(strings.TrimSpace(rec.Name), " ")
	return MemberDetail{
		Card:      card,
		Record:    rec,
		FirstName: first,
		BioHTML:   RenderBio(rec.Bio),
	}, nil
}

// RenderBio converts markdown to sanitised HTML.
func RenderBio(md string) template.HTML {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(bioPolicy.SanitizeBytes(buf.Bytes()))
}
