package markdown

import (
	"net/url"
	"strings"
)

// InlineLink is a `[text](destination)` link located in a Markdown body.
//
// Line is 0-based; StartColumn and EndColumn are byte offsets within the line,
// EndColumn exclusive, so Raw == line[StartColumn:EndColumn].
type InlineLink struct {
	Text        string
	Destination string
	Raw         string
	Line        int
	StartColumn int
	EndColumn   int
}

// SplitTarget separates a link target into path and fragment at the first '#'.
// ok is false when the target carries no fragment.
func SplitTarget(target string) (pathPart, fragment string, ok bool) {
	return strings.Cut(target, "#")
}

// JoinTarget is the inverse of SplitTarget.
func JoinTarget(pathPart, fragment string) string {
	return pathPart + "#" + fragment
}

// DecodeFragment percent-decodes a link fragment. Malformed escapes leave the
// input unchanged.
func DecodeFragment(fragment string) string {
	decoded, err := url.PathUnescape(fragment)
	if err != nil {
		return fragment
	}
	return decoded
}

// EncodeFragment percent-encodes heading text for use in a link destination.
// Spaces become %20; path punctuation such as '/' and ':' is kept.
func EncodeFragment(fragment string) string {
	return (&url.URL{Path: fragment}).EscapedPath()
}

// IsExternal reports whether a destination leaves the vault (URLs, mail links).
func IsExternal(dest string) bool {
	if strings.HasPrefix(dest, "//") {
		return true
	}
	scheme, _, ok := strings.Cut(dest, ":")
	if !ok || scheme == "" || strings.ContainsAny(scheme, "/#?. ") {
		return false
	}
	return true
}

// ReplaceFragment rewrites the fragment portion of a raw `[text](path#fragment)`
// link, encoding the replacement. Angle brackets and a link title around the
// destination are preserved. Raw text without a fragment is returned as is.
func ReplaceFragment(raw, replacement string) string {
	open := strings.LastIndex(raw, "](")
	if open < 0 {
		return raw
	}
	dest := open + 2
	hash := strings.IndexByte(raw[dest:], '#')
	if hash < 0 {
		return raw
	}
	hash += dest

	stop := " \t)"
	if strings.HasPrefix(raw[dest:], "<") {
		stop = ">"
	}
	end := len(raw)
	if i := strings.IndexAny(raw[hash+1:], stop); i >= 0 {
		end = hash + 1 + i
	}
	return raw[:hash+1] + EncodeFragment(replacement) + raw[end:]
}
