// Package slug turns heading text into GitHub-style anchor slugs.
//
// A Slugger tracks the slugs it has produced since the last Reset so repeated
// headings within one document pass receive numeric suffixes ("notes", "notes-1",
// "notes-2"). Use one Slugger (or a Reset) per document scan; sharing state across
// documents shifts every suffix that follows.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Slugger produces collision-free slugs for one document pass.
// It is not safe for concurrent use.
type Slugger struct {
	occurrences map[string]int
}

// New returns a Slugger with empty disambiguation state.
func New() *Slugger {
	return &Slugger{occurrences: make(map[string]int)}
}

// Reset clears the disambiguation state.
func (s *Slugger) Reset() {
	clear(s.occurrences)
}

// Slug returns the slug for text, suffixed with -N when the base slug was already
// produced in this pass. Candidates are probed until an unused one is found, so a
// literal "Notes-1" heading never collides with the second "Notes".
func (s *Slugger) Slug(text string) string {
	if s.occurrences == nil {
		s.occurrences = make(map[string]int)
	}

	base := Base(text)
	result := base
	for {
		if _, taken := s.occurrences[result]; !taken {
			break
		}
		s.occurrences[base]++
		result = base + "-" + strconv.Itoa(s.occurrences[base])
	}
	s.occurrences[result] = 0
	return result
}

// Base returns the undisambiguated slug of text: case-folded, reduced to
// [a-z0-9 _-], trimmed, with whitespace runs collapsed to single hyphens.
//
// Letters with diacritics keep their base letter ("Café" -> "cafe").
func Base(text string) string {
	folded := norm.NFKD.String(cases.Fold().String(text))

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), "-")
}
