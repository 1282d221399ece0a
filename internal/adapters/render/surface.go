// Package render holds the in-memory display surface the directory page reads from.
package render

import (
	"context"
	"sync"
	"time"

	"sigsite/internal/application/projections"
	"sigsite/internal/domain/directory"
)

type container struct {
	records []directory.Record
	cards   []projections.Card
}

// Surface is the set of category containers shown on the directory page.
// One writer (the sync cycle) replaces containers; HTTP handlers read concurrently.
type Surface struct {
	mu         sync.RWMutex
	containers map[directory.Category]*container
	renderedAt time.Time
	now        func() time.Time
}

// NewSurface creates a surface with a container for each given category.
// Rendering into a category without a container is a no-op.
func NewSurface(categories ...directory.Category) *Surface {
	s := &Surface{containers: make(map[directory.Category]*container), now: time.Now}
	for _, c := range categories {
		s.containers[c] = &container{records: []directory.Record{}, cards: []projections.Card{}}
	}
	return s
}

// NewDirectorySurface creates a surface with all three category containers.
func NewDirectorySurface() *Surface {
	return NewSurface(directory.Categories...)
}

// Render replaces every card of a category with one card per record, in input order.
// PRE: none
// POST: Returns false and changes nothing when the category has no container
// INVARIANT: Idempotent; an empty slice clears the container
func (s *Surface) Render(c directory.Category, records []directory.Record) bool {
	recs := make([]directory.Record, len(records))
	copy(recs, records)
	cards := projections.BuildCards(recs)

	s.mu.Lock()
	defer s.mu.Unlock()
	ct, ok := s.containers[c]
	if !ok {
		return false
	}
	ct.records = recs
	ct.cards = cards
	s.renderedAt = s.now()
	return true
}

// RenderDirectory renders the categories of d selected by only (all categories when only is nil).
func (s *Surface) RenderDirectory(d directory.Directory, only map[directory.Category]bool) {
	for _, c := range directory.Categories {
		if only != nil && !only[c] {
			continue
		}
		s.Render(c, d.Records(c))
	}
}

// Cards returns a copy of the cards in a category container.
func (s *Surface) Cards(c directory.Category) ([]projections.Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ct, ok := s.containers[c]
	if !ok {
		return nil, false
	}
	out := make([]projections.Card, len(ct.cards))
	copy(out, ct.cards)
	return out, true
}

// Records returns a copy of the records in a category container.
func (s *Surface) Records(c directory.Category) ([]directory.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ct, ok := s.containers[c]
	if !ok {
		return nil, false
	}
	out := make([]directory.Record, len(ct.records))
	copy(out, ct.records)
	return out, true
}

// Directory returns everything currently displayed.
func (s *Surface) Directory() directory.Directory {
	var d directory.Directory
	for _, c := range directory.Categories {
		if recs, ok := s.Records(c); ok {
			d.Set(c, recs)
		}
	}
	return d
}

// Load returns the displayed directory; it never fails.
func (s *Surface) Load(_ context.Context) (directory.Directory, error) {
	return s.Directory(), nil
}

// RenderedAt returns when the surface last changed.
func (s *Surface) RenderedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renderedAt
}
