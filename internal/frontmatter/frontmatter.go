// Package frontmatter separates a leading YAML frontmatter block from a note body.
package frontmatter

import (
	"errors"
	"strings"

	"gopkg.in/yaml.v3"
)

// Block is the result of splitting a document.
type Block struct {
	// Raw is the YAML between the delimiters (without them).
	Raw string
	// Body is everything after the closing delimiter, or the whole input when
	// Present is false.
	Body    string
	Present bool
	// Newline is the detected line ending ("\n" or "\r\n").
	Newline string
}

// Lines returns how many lines of the original document the block occupies,
// delimiters included. Body line n (0-based) is document line Lines()+n.
func (b Block) Lines() int {
	if !b.Present {
		return 0
	}
	return 2 + strings.Count(b.Raw, "\n")
}

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// If the document does not start with a delimiter line, Present is false and Body
// is the full input.
func Split(content string) (Block, error) {
	nl := detectNewline(content)
	b := Block{Body: content, Newline: nl}

	open := "---" + nl
	if !strings.HasPrefix(content, open) {
		return b, nil
	}

	rest := content[len(open):]
	if strings.HasPrefix(rest, open) {
		b.Present = true
		b.Body = rest[len(open):]
		return b, nil
	}

	closeSeq := nl + "---" + nl
	idx := strings.Index(rest, closeSeq)
	if idx < 0 {
		if strings.HasSuffix(rest, nl+"---") {
			idx = len(rest) - len(nl+"---")
			b.Present = true
			b.Raw = rest[:idx+len(nl)]
			b.Body = ""
			return b, nil
		}
		return Block{Body: content, Newline: nl}, ErrMissingClosingDelimiter
	}

	b.Present = true
	b.Raw = rest[:idx+len(nl)]
	b.Body = rest[idx+len(closeSeq):]
	return b, nil
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

func detectNewline(content string) string {
	if i := strings.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
