package directory

import (
	"errors"
	"strings"
)

// PlaceholderPhoto is the photo shown when a member has no usable photo reference.
const PlaceholderPhoto = "assets/members/placeholder-member.jpg"

// NoContactLink is the link used when a member has no contact URL.
const NoContactLink = "#"

// Category determines which display template and which optional fields apply to a record.
type Category string

const (
	CategoryLeadership Category = "leadership"
	CategoryGeneral    Category = "general"
	CategoryAlumni     Category = "alumni"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryLeadership, CategoryGeneral, CategoryAlumni}

var ErrUnknownCategory = errors.New("unknown member category")

// ParseCategory maps a user-supplied category name onto a Category.
// PRE: none
// POST: Returns ErrUnknownCategory for anything other than the three categories
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryLeadership:
		return CategoryLeadership, nil
	case CategoryGeneral:
		return CategoryGeneral, nil
	case CategoryAlumni:
		return CategoryAlumni, nil
	}
	return "", ErrUnknownCategory
}

// Label returns the human-readable section heading for the category.
func (c Category) Label() string {
	switch c {
	case CategoryLeadership:
		return "Executive Board"
	case CategoryGeneral:
		return "General Members"
	case CategoryAlumni:
		return "Alumni"
	}
	return string(c)
}

// Record is the canonical member representation consumed by rendering,
// independent of which upstream supplied it.
type Record struct {
	Name        string
	Category    Category
	RoleOrTitle string
	Affiliation string
	Period      string
	InterestTag string
	PhotoRef    string
	ContactLink string
	Bio         string
	FilterLabel string
}

// Directory holds the canonical records of one sync cycle, one slice per category.
type Directory struct {
	Leadership []Record
	General    []Record
	Alumni     []Record
}

// Records returns the slice for a category.
// INVARIANT: Directory is not mutated
func (d Directory) Records(c Category) []Record {
	switch c {
	case CategoryLeadership:
		return d.Leadership
	case CategoryGeneral:
		return d.General
	case CategoryAlumni:
		return d.Alumni
	}
	return nil
}

// Set replaces the slice for a category. Unknown categories are ignored.
func (d *Directory) Set(c Category, records []Record) {
	switch c {
	case CategoryLeadership:
		d.Leadership = records
	case CategoryGeneral:
		d.General = records
	case CategoryAlumni:
		d.Alumni = records
	}
}

// Len returns the total number of records across all categories.
func (d Directory) Len() int {
	return len(d.Leadership) + len(d.General) + len(d.Alumni)
}
