package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is a heading block found by the CommonMark parser.
//
// Line is 0-based within the parsed body; Text is the inline source of the heading
// with ATX markers and closing sequences removed.
type Heading struct {
	Text      string
	Level     int
	Line      int
	EndColumn int
}

// ExtractHeadings parses a Markdown body with goldmark and returns its ATX and
// setext headings in document order. Headings inside code blocks are not reported.
func ExtractHeadings(body []byte) []Heading {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	out := make([]Heading, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}

		lines := h.Lines()
		if lines.Len() == 0 {
			return gmast.WalkSkipChildren, nil
		}

		var buf bytes.Buffer
		for i := 0; i < lines.Len(); i++ {
			if i > 0 {
				buf.WriteByte(' ')
			}
			seg := lines.At(i)
			buf.Write(bytes.TrimRight(seg.Value(body), "\r\n"))
		}

		start := lines.At(0).Start
		line := bytes.Count(body[:start], []byte("\n"))
		lineStart := bytes.LastIndexByte(body[:start], '\n') + 1
		lineEnd := len(body)
		if idx := bytes.IndexByte(body[start:], '\n'); idx >= 0 {
			lineEnd = start + idx
		}
		if lineEnd > lineStart && body[lineEnd-1] == '\r' {
			lineEnd--
		}

		out = append(out, Heading{
			Text:      strings.TrimSpace(buf.String()),
			Level:     h.Level,
			Line:      line,
			EndColumn: lineEnd - lineStart,
		})
		return gmast.WalkSkipChildren, nil
	})
	return out
}
