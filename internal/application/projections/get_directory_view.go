package projections

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"sigsite/internal/domain/directory"
)

// FilterAll shows every general member.
const FilterAll = "all"

// CardSource exposes the rendered cards per category.
type CardSource interface {
	Cards(c directory.Category) ([]Card, bool)
}

// DirectoryViewQuery carries query parameters.
type DirectoryViewQuery struct {
	Filter string
}

// DirectorySection is one category block of the directory page.
type DirectorySection struct {
	Category directory.Category
	Heading  string
	Cards    []Card
}

// DirectoryView carries the query result.
type DirectoryView struct {
	Sections       []DirectorySection
	Filter         string
	Filters        []string
	VisibleGeneral int
	TotalGeneral   int
	CountText      string
}

// DirectoryViewDeps holds dependencies for QueryDirectoryView.
type DirectoryViewDeps struct {
	Cards CardSource
}

// QueryDirectoryView assembles the directory page from the rendered cards.
// PRE: deps.Cards is non-nil
// POST: Only sections whose container exists are returned; general cards are filtered by label substring
// INVARIANT: Rendered state is not mutated
func QueryDirectoryView(ctx context.Context, query DirectoryViewQuery, deps DirectoryViewDeps) (DirectoryView, error) {
	filter := strings.ToLower(strings.TrimSpace(query.Filter))
	if filter == "" {
		filter = FilterAll
	}

	view := DirectoryView{Filter: filter}
	labels := map[string]bool{}
	for _, c := range directory.Categories {
		cards, ok := deps.Cards.Cards(c)
		if !ok {
			continue
		}
		if c == directory.CategoryGeneral {
			view.TotalGeneral = len(cards)
			for _, card := range cards {
				if card.DataCategory != "" {
					labels[card.DataCategory] = true
				}
			}
			cards = FilterGeneral(cards, filter)
			view.VisibleGeneral = len(cards)
		}
		view.Sections = append(view.Sections, DirectorySection{Category: c, Heading: c.Label(), Cards: cards})
	}

	for l := range labels {
		view.Filters = append(view.Filters, l)
	}
	sort.Strings(view.Filters)
	view.CountText = fmt.Sprintf("Showing %d of %d members", view.VisibleGeneral, view.TotalGeneral)
	return view, nil
}

// FilterGeneral keeps the cards whose filter label contains filter.
// INVARIANT: Input order is preserved; FilterAll keeps everything
func FilterGeneral(cards []Card, filter string) []Card {
	if filter == "" || filter == FilterAll {
		return cards
	}
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if strings.Contains(c.DataCategory, filter) {
			out = append(out, c)
		}
	}
	return out
}
