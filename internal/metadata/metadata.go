// Package metadata builds the host-side cached metadata record of a note: its
// frontmatter fields, headings and intra-vault links with their positions.
package metadata

import (
	"time"

	"git.home.luguber.info/inful/headlink/internal/docmodel"
	"git.home.luguber.info/inful/headlink/internal/markdown"
	"git.home.luguber.info/inful/headlink/internal/vault"
)

// Pos is a 0-based line and byte column.
type Pos struct {
	Line int `yaml:"line" json:"line"`
	Col  int `yaml:"col" json:"col"`
}

// Loc spans Start to End, End exclusive.
type Loc struct {
	Start Pos `yaml:"start" json:"start"`
	End   Pos `yaml:"end" json:"end"`
}

// HeadingCache is one heading entry of a metadata record.
type HeadingCache struct {
	Heading  string `yaml:"heading" json:"heading"`
	Level    int    `yaml:"level" json:"level"`
	Position Loc    `yaml:"position" json:"position"`
	// Synthetic entries are derived from a real heading and carry its text in
	// OriginalHeading. They never feed further derivation.
	Synthetic       bool   `yaml:"synthetic,omitempty" json:"synthetic,omitempty"`
	OriginalHeading string `yaml:"original_heading,omitempty" json:"original_heading,omitempty"`
}

// LinkCache is one link entry of a metadata record.
type LinkCache struct {
	// Link is the percent-decoded destination, e.g. "notes/a.md#Plumbing Notes".
	Link string `yaml:"link" json:"link"`
	// Original is the raw Markdown of the link.
	Original    string `yaml:"original" json:"original"`
	DisplayText string `yaml:"display_text" json:"display_text"`
	Position    Loc    `yaml:"position" json:"position"`
	Synthetic   bool   `yaml:"synthetic,omitempty" json:"synthetic,omitempty"`
}

// Fragment returns the part of Link after the first '#'.
func (l LinkCache) Fragment() (string, bool) {
	_, frag, ok := markdown.SplitTarget(l.Link)
	return frag, ok
}

// CachedMetadata is the metadata record for one document.
type CachedMetadata struct {
	Path        string         `yaml:"path" json:"path"`
	ModTime     time.Time      `yaml:"mod_time" json:"mod_time"`
	Frontmatter map[string]any `yaml:"frontmatter,omitempty" json:"frontmatter,omitempty"`
	Headings    []HeadingCache `yaml:"headings" json:"headings"`
	Links       []LinkCache    `yaml:"links" json:"links"`
}

// Key returns the canonical key of the record's document.
func (m *CachedMetadata) Key() vault.DocumentKey { return vault.Key(m.Path) }

// CountSynthetic returns the number of synthetic headings and links.
func (m *CachedMetadata) CountSynthetic() (headings, links int) {
	for _, h := range m.Headings {
		if h.Synthetic {
			headings++
		}
	}
	for _, l := range m.Links {
		if l.Synthetic {
			links++
		}
	}
	return headings, links
}

// Build parses content into a fresh record for f. The record is always usable:
// malformed frontmatter leaves Frontmatter empty and is reported through err.
func Build(f vault.File, content string) (*CachedMetadata, error) {
	rec := &CachedMetadata{
		Path:     vault.Clean(f.Path),
		ModTime:  f.ModTime,
		Headings: []HeadingCache{},
		Links:    []LinkCache{},
	}

	doc, err := docmodel.Parse(content)
	if err != nil {
		doc = docmodel.ParseLenient(content)
	} else if fields, ferr := doc.Fields(); ferr != nil {
		err = ferr
	} else if len(fields) > 0 {
		rec.Frontmatter = fields
	}

	for _, h := range doc.Headings() {
		rec.Headings = append(rec.Headings, HeadingCache{
			Heading: h.Text,
			Level:   h.Level,
			Position: Loc{
				Start: Pos{Line: h.Line},
				End:   Pos{Line: h.Line, Col: h.EndColumn},
			},
		})
	}

	for _, l := range doc.Links() {
		if l.Destination == "" || markdown.IsExternal(l.Destination) {
			continue
		}
		rec.Links = append(rec.Links, LinkCache{
			Link:        decodeTarget(l.Destination),
			Original:    l.Raw,
			DisplayText: l.Text,
			Position: Loc{
				Start: Pos{Line: l.Line, Col: l.StartColumn},
				End:   Pos{Line: l.Line, Col: l.EndColumn},
			},
		})
	}

	return rec, err
}

func decodeTarget(dest string) string {
	p, frag, ok := markdown.SplitTarget(dest)
	if !ok {
		return markdown.DecodeFragment(p)
	}
	return markdown.JoinTarget(markdown.DecodeFragment(p), markdown.DecodeFragment(frag))
}
