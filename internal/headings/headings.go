// Package headings scans raw note text for ATX headings in document order.
package headings

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"git.home.luguber.info/inful/headlink/internal/docmodel"
)

// Heading is one heading line. Line is 0-based; columns are byte offsets within
// the line and EndColumn is exclusive.
type Heading struct {
	Text        string
	Level       int
	Line        int
	StartColumn int
	EndColumn   int
}

// Options widens or narrows what counts as a heading line. The zero value applies
// the plain rule: 1 to 6 '#' followed by whitespace at the start of any line.
type Options struct {
	// SkipFrontmatter ignores lines of a leading YAML frontmatter block.
	SkipFrontmatter bool
	// SkipCodeBlocks ignores fenced and indented code blocks.
	SkipCodeBlocks bool
}

// Scan returns the headings of text in document order. The sequence is lazy and
// may be ranged over any number of times; each pass rescans text.
func Scan(text string, opts Options) iter.Seq[Heading] {
	return func(yield func(Heading) bool) {
		doc := docmodel.ParseLenient(text)
		skip := doc.SkippableLines(docmodel.Mask{
			Frontmatter: opts.SkipFrontmatter,
			CodeBlocks:  opts.SkipCodeBlocks,
		})
		for i, line := range doc.Lines() {
			if skip[i] {
				continue
			}
			h, ok := ParseLine(line)
			if !ok {
				continue
			}
			h.Line = i
			if !yield(h) {
				return
			}
		}
	}
}

// Collect gathers a full scan into a slice.
func Collect(text string, opts Options) []Heading {
	var out []Heading
	for h := range Scan(text, opts) {
		out = append(out, h)
	}
	return out
}

// ParseLine reports whether line is a heading: 1 to 6 '#' followed by at least one
// whitespace character. The heading text is the line with that prefix removed.
func ParseLine(line string) (Heading, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level == len(line) {
		return Heading{}, false
	}

	rest := line[level:]
	r, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsSpace(r) {
		return Heading{}, false
	}

	return Heading{
		Text:        strings.TrimLeftFunc(rest, unicode.IsSpace),
		Level:       level,
		StartColumn: 0,
		EndColumn:   len(line),
	}, true
}
