package projections

import (
	"strconv"

	"sigsite/internal/domain/directory"
)

// CardLine is one text line of a member card.
type CardLine struct {
	Class string
	Text  string
}

// Card is the view model for one rendered member card.
type Card struct {
	Category      directory.Category
	Index         int
	Class         string
	Name          string
	Lines         []CardLine
	PhotoURL      string
	FallbackPhoto string
	ContactURL    string
	ShowContact   bool
	// DataCategory is the general-member filter label, empty for other categories.
	DataCategory string
	DetailPath   string
}

// BuildCard maps a canonical record onto its card view model.
// PRE: none
// POST: Returns a Card whose text lines follow the category layout
// INVARIANT: Pure; equal records give equal cards
func BuildCard(r directory.Record) Card {
	c := Card{
		Category:      r.Category,
		Name:          r.Name,
		PhotoURL:      r.PhotoRef,
		FallbackPhoto: directory.PlaceholderPhoto,
		ContactURL:    r.ContactLink,
	}
	if c.PhotoURL == "" {
		c.PhotoURL = directory.PlaceholderPhoto
	}
	if c.ContactURL == "" {
		c.ContactURL = directory.NoContactLink
	}

	switch r.Category {
	case directory.CategoryLeadership:
		c.Class = "member-card executive"
		c.Lines = []CardLine{
			{Class: "member-role", Text: r.RoleOrTitle},
			{Class: "member-major", Text: r.Affiliation},
			{Class: "member-year", Text: r.Period},
		}
		c.ShowContact = true
	case directory.CategoryGeneral:
		c.Class = "member-card general"
		if r.FilterLabel != "" {
			c.Class += " " + r.FilterLabel
		}
		c.DataCategory = r.FilterLabel
		c.Lines = []CardLine{
			{Class: "member-major", Text: r.Affiliation},
			{Class: "member-year", Text: r.Period},
			{Class: "member-interest", Text: r.InterestTag},
		}
		c.ShowContact = c.ContactURL != directory.NoContactLink
	case directory.CategoryAlumni:
		c.Class = "alumni-card"
		c.Lines = []CardLine{
			{Class: "alumni-role", Text: r.RoleOrTitle},
			{Class: "alumni-company", Text: r.Affiliation},
			{Class: "alumni-year", Text: r.Period},
		}
		c.ShowContact = true
	}
	return c
}

// BuildCards builds one card per record in input order, numbering them for detail links.
func BuildCards(records []directory.Record) []Card {
	cards := make([]Card, 0, len(records))
	for i, r := range records {
		c := BuildCard(r)
		c.Index = i
		c.DetailPath = "/members/" + string(r.Category) + "/" + strconv.Itoa(i)
		cards = append(cards, c)
	}
	return cards
}
