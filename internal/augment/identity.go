package augment

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"git.home.luguber.info/inful/headlink/internal/metadata"
)

// HeadingHash is the identity of a real heading: its text and start position.
func HeadingHash(text string, start metadata.Pos) uint64 {
	return identity("heading", text, start)
}

// LinkHash is the identity of a real link: its raw text and start position.
func LinkHash(original string, start metadata.Pos) uint64 {
	return identity("link", original, start)
}

func identity(kind, text string, start metadata.Pos) uint64 {
	d := xxhash.New()
	w := func(s string) { _, _ = d.WriteString(s); _, _ = d.Write([]byte{0}) }
	w(kind)
	w(text)
	w(strconv.Itoa(start.Line))
	w(strconv.Itoa(start.Col))
	return d.Sum64()
}
