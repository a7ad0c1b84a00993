package ecfr

import "strings"

// Title is one numbered division of the CFR as reported by the
// versioner service.
type Title struct {
	Number          int    `json:"number"`
	Name            string `json:"name"`
	LatestIssueDate string `json:"latest_issue_date"`
	LatestAmendedOn string `json:"latest_amended_on"`
	UpToDateAsOf    string `json:"up_to_date_as_of"`
	Reserved        bool   `json:"reserved"`
}

// IsReserved reports whether the title has no content. Some feed
// variants mark these only by name.
func (t Title) IsReserved() bool {
	return t.Reserved || strings.EqualFold(strings.TrimSpace(t.Name), "Reserved")
}

// Agency is a regulatory body from the admin feed. Agencies nest;
// CFRReferences point at the title/chapter ranges the agency regulates.
type Agency struct {
	Name          string   `json:"name"`
	ShortName     string   `json:"short_name"`
	DisplayName   string   `json:"display_name"`
	SortableName  string   `json:"sortable_name"`
	Slug          string   `json:"slug"`
	Children      []Agency `json:"children"`
	CFRReferences []CFRRef `json:"cfr_references"`
}

// CFRRef is a (title, chapter) pointer into the code.
type CFRRef struct {
	Title    int    `json:"title"`
	Chapter  string `json:"chapter,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
}

// EffectiveSlug returns the feed slug, deriving one from the name when
// the feed omits it.
func (a Agency) EffectiveSlug() string {
	if a.Slug != "" {
		return a.Slug
	}
	slug := strings.ToLower(strings.TrimSpace(a.Name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}

// Flatten returns the agency list with all nested children hoisted to
// the top level, parents first.
func Flatten(agencies []Agency) []Agency {
	var out []Agency
	var walk func(list []Agency)
	walk = func(list []Agency) {
		for _, a := range list {
			children := a.Children
			a.Children = nil
			out = append(out, a)
			walk(children)
		}
	}
	walk(agencies)
	return out
}
