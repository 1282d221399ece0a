package directory

import "strings"

// Aliases is an ordered list of accepted source-field names for one logical field.
// Resolution is deterministic: the first alias with a non-empty value wins.
type Aliases []string

// Lookup returns the first non-empty, trimmed value among the aliases.
// INVARIANT: raw is not mutated
func (a Aliases) Lookup(raw map[string]string) string {
	for _, name := range a {
		if v := strings.TrimSpace(raw[name]); v != "" {
			return v
		}
	}
	return ""
}

// FieldMap lists the aliases for every logical field of one category.
// Spreadsheet headers ("LinkedIn URL") and static document keys ("linkedin")
// live side by side so both upstreams normalise through the same table.
type FieldMap struct {
	Name        Aliases
	RoleOrTitle Aliases
	Affiliation Aliases
	Period      Aliases
	InterestTag Aliases
	Photo       Aliases
	PhotoHint   Aliases
	ContactLink Aliases
	Bio         Aliases
	FilterLabel Aliases
}

var (
	nameAliases    = Aliases{"Name", "name", "Full Name"}
	majorAliases   = Aliases{"Major", "major"}
	yearAliases    = Aliases{"Year", "year"}
	photoAliases   = Aliases{"image", "Image", "Photo URL", "photo"}
	hintAliases    = Aliases{"Photo Filename", "Image_Filename"}
	contactAliases = Aliases{"LinkedIn URL", "LinkedIn", "linkedin"}
	bioAliases     = Aliases{"Bio", "bio", "About"}
)

// FieldMaps is the field-mapping table per category.
var FieldMaps = map[Category]FieldMap{
	CategoryLeadership: {
		Name:        nameAliases,
		RoleOrTitle: Aliases{"Role", "role", "Position"},
		Affiliation: majorAliases,
		Period:      yearAliases,
		Photo:       photoAliases,
		PhotoHint:   hintAliases,
		ContactLink: contactAliases,
		Bio:         bioAliases,
	},
	CategoryGeneral: {
		Name:        nameAliases,
		Affiliation: majorAliases,
		Period:      yearAliases,
		InterestTag: Aliases{"Interest", "Interest Area", "interest"},
		Photo:       photoAliases,
		PhotoHint:   hintAliases,
		ContactLink: contactAliases,
		Bio:         bioAliases,
		FilterLabel: Aliases{"Category", "category"},
	},
	CategoryAlumni: {
		Name:        nameAliases,
		RoleOrTitle: Aliases{"Current Role", "Role", "role"},
		Affiliation: Aliases{"Company", "company"},
		Period:      Aliases{"Graduation Year", "Year", "year"},
		Photo:       photoAliases,
		PhotoHint:   hintAliases,
		ContactLink: contactAliases,
		Bio:         bioAliases,
	},
}

// PhotoHint returns the photo filename hint of a raw record, if any.
func PhotoHint(raw map[string]string, c Category) string {
	return FieldMaps[c].PhotoHint.Lookup(raw)
}

// ToCanonical applies the field-mapping table to a raw record.
// PRE: none (raw may be nil or empty)
// POST: Returns a Record with every field populated from source or default
// INVARIANT: Never fails; missing fields degrade to "" or the placeholder values
func ToCanonical(raw map[string]string, c Category) Record {
	fm, ok := FieldMaps[c]
	if !ok {
		fm = FieldMaps[CategoryGeneral]
		c = CategoryGeneral
	}

	rec := Record{
		Name:        fm.Name.Lookup(raw),
		Category:    c,
		RoleOrTitle: fm.RoleOrTitle.Lookup(raw),
		Affiliation: fm.Affiliation.Lookup(raw),
		Period:      fm.Period.Lookup(raw),
		InterestTag: fm.InterestTag.Lookup(raw),
		PhotoRef:    fm.Photo.Lookup(raw),
		ContactLink: fm.ContactLink.Lookup(raw),
		Bio:         fm.Bio.Lookup(raw),
	}
	if rec.PhotoRef == "" {
		rec.PhotoRef = PlaceholderPhoto
	}
	if rec.ContactLink == "" {
		rec.ContactLink = NoContactLink
	}
	if c == CategoryGeneral {
		label := fm.FilterLabel.Lookup(raw)
		if label == "" {
			label = rec.Period
		}
		rec.FilterLabel = strings.ToLower(label)
	}
	return rec
}

// ToDocument converts a Record back into the static document field layout.
// INVARIANT: ToCanonical(ToDocument(r), r.Category) == r for records built by ToCanonical
func ToDocument(r Record) map[string]string {
	out := map[string]string{
		"name":  r.Name,
		"year":  r.Period,
		"image": r.PhotoRef,
	}
	switch r.Category {
	case CategoryLeadership:
		out["role"] = r.RoleOrTitle
		out["major"] = r.Affiliation
		out["linkedin"] = r.ContactLink
	case CategoryGeneral:
		out["major"] = r.Affiliation
		out["interest"] = r.InterestTag
		out["category"] = r.FilterLabel
		if r.ContactLink != NoContactLink {
			out["linkedin"] = r.ContactLink
		}
	case CategoryAlumni:
		out["role"] = r.RoleOrTitle
		out["company"] = r.Affiliation
		out["linkedin"] = r.ContactLink
	}
	if r.Bio != "" {
		out["bio"] = r.Bio
	}
	return out
}
