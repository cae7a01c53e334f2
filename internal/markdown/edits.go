package markdown

import (
	"slices"

	"git.home.luguber.info/inful/headlink/internal/foundation/errors"
)

// Edit represents a targeted byte-range replacement.
//
// Start and End are byte offsets into the original source, with End exclusive.
// Replacement replaces source[Start:End].
type Edit struct {
	Start       int
	End         int
	Replacement string
}

// ApplyEdits applies non-overlapping byte-range edits to source.
//
// Offsets refer to the original source; edits are applied from the end toward the
// beginning so earlier edits do not invalidate later offsets.
func ApplyEdits(source string, edits []Edit) (string, error) {
	if len(edits) == 0 {
		return source, nil
	}

	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b Edit) int {
		if a.Start == b.Start {
			return b.End - a.End
		}
		return b.Start - a.Start
	})

	for i, e := range sorted {
		switch {
		case e.Start < 0 || e.End < 0:
			return "", invalidEdit(i, "negative range")
		case e.End < e.Start:
			return "", invalidEdit(i, "end before start")
		case e.End > len(source):
			return "", invalidEdit(i, "range out of bounds")
		case i > 0 && e.End > sorted[i-1].Start:
			return "", invalidEdit(i, "overlapping ranges")
		}
	}

	out := source
	for _, e := range sorted {
		out = out[:e.Start] + e.Replacement + out[e.End:]
	}
	return out, nil
}

func invalidEdit(index int, reason string) error {
	return errors.ValidationError("invalid edit").
		WithContext("index", index).
		WithContext("reason", reason).
		Build()
}
