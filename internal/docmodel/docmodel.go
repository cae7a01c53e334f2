// Package docmodel holds the parsed view of a note shared by heading scanning and
// metadata building: frontmatter split, document lines and their coordinates.
package docmodel

import (
	"strings"

	"git.home.luguber.info/inful/headlink/internal/foundation/errors"
	"git.home.luguber.info/inful/headlink/internal/frontmatter"
	"git.home.luguber.info/inful/headlink/internal/markdown"
)

// ParsedDoc represents a Markdown document split into YAML frontmatter and body.
type ParsedDoc struct {
	original string
	fm       frontmatter.Block
	lines    []string
}

// Parse parses raw document text. A frontmatter block without a closing
// delimiter is a validation error.
func Parse(content string) (*ParsedDoc, error) {
	fm, err := frontmatter.Split(content)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to split frontmatter").
			Warning().
			Build()
	}
	return newParsedDoc(content, fm), nil
}

// ParseLenient is Parse for callers that must not fail: an unterminated
// frontmatter block is treated as ordinary body text.
func ParseLenient(content string) *ParsedDoc {
	fm, err := frontmatter.Split(content)
	if err != nil {
		fm = frontmatter.Block{Body: content, Newline: fm.Newline}
	}
	return newParsedDoc(content, fm)
}

func newParsedDoc(content string, fm frontmatter.Block) *ParsedDoc {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &ParsedDoc{original: content, fm: fm, lines: lines}
}

// Original returns the unmodified document text.
func (d *ParsedDoc) Original() string { return d.original }

// Body returns the Markdown body (frontmatter removed).
func (d *ParsedDoc) Body() string { return d.fm.Body }

// HadFrontmatter reports whether the document starts with a YAML frontmatter block.
func (d *ParsedDoc) HadFrontmatter() bool { return d.fm.Present }

// Fields parses the frontmatter YAML. Documents without frontmatter yield an empty map.
func (d *ParsedDoc) Fields() (map[string]any, error) {
	fields, err := frontmatter.ParseYAML(d.fm.Raw)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid frontmatter").
			Warning().
			Build()
	}
	return fields, nil
}

// LineOffset translates 0-based body lines into document lines:
// documentLine = LineOffset() + bodyLine.
func (d *ParsedDoc) LineOffset() int { return d.fm.Lines() }

// Lines returns the document lines with line endings removed.
func (d *ParsedDoc) Lines() []string { return d.lines }

// Mask selects which lines SkippableLines reports.
type Mask struct {
	Frontmatter bool
	CodeBlocks  bool
}

// SkippableLines marks document lines that are not prose: the frontmatter block
// and/or fenced and indented code blocks in the body.
func (d *ParsedDoc) SkippableLines(m Mask) []bool {
	skip := make([]bool, len(d.lines))
	offset := d.LineOffset()
	if m.Frontmatter {
		for i := 0; i < offset && i < len(skip); i++ {
			skip[i] = true
		}
	}
	if m.CodeBlocks && offset < len(d.lines) {
		for i, code := range markdown.CodeLines(d.lines[offset:]) {
			if code {
				skip[offset+i] = true
			}
		}
	}
	return skip
}

// Headings returns the CommonMark headings of the body in document coordinates.
func (d *ParsedDoc) Headings() []markdown.Heading {
	hs := markdown.ExtractHeadings([]byte(d.fm.Body))
	offset := d.LineOffset()
	for i := range hs {
		hs[i].Line += offset
	}
	return hs
}

// Links returns the inline links of the body in document coordinates.
func (d *ParsedDoc) Links() []markdown.InlineLink {
	links := markdown.ScanInlineLinks(d.fm.Body)
	offset := d.LineOffset()
	for i := range links {
		links[i].Line += offset
	}
	return links
}
