package editor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/headlink/internal/foundation/errors"
)

func TestBuffer_TypeMovesCursorAndNotifies(t *testing.T) {
	b := NewBuffer("notes/a.md", "# Title\n")
	require.Equal(t, Position{Line: 1, Ch: 0}, b.Cursor())

	var changes []Change
	b.SetChangeHook(func(got *Buffer, c Change) {
		require.Same(t, b, got)
		changes = append(changes, c)
	})

	require.NoError(t, b.Type("See [x]("))
	require.NoError(t, b.Type("#a)"))

	require.Equal(t, "# Title\nSee [x](#a)", b.Text())
	require.Equal(t, "See [x](#a)", b.Line(1))
	require.Equal(t, Position{Line: 1, Ch: 11}, b.Cursor())
	require.Equal(t, []Change{
		{From: Position{Line: 1}, To: Position{Line: 1}, Text: "See [x]("},
		{From: Position{Line: 1, Ch: 8}, To: Position{Line: 1, Ch: 8}, Text: "#a)"},
	}, changes)
}

func TestBuffer_TypeMultiline(t *testing.T) {
	b := NewBuffer("a.md", "")
	require.NoError(t, b.Type("one\ntwo"))
	require.Equal(t, Position{Line: 1, Ch: 3}, b.Cursor())
}

func TestBuffer_ReplaceRangeShiftsCursor(t *testing.T) {
	b := NewBuffer("a.md", "[x](#Long Heading)")
	require.Equal(t, Position{Ch: 18}, b.Cursor())

	called := false
	b.SetChangeHook(func(*Buffer, Change) { called = true })

	require.NoError(t, b.ReplaceRange("long-heading", Position{Ch: 5}, Position{Ch: 17}))
	require.Equal(t, "[x](#long-heading)", b.Text())
	require.Equal(t, Position{Ch: 18}, b.Cursor())
	require.False(t, called, "programmatic edits are not reported")
}

func TestBuffer_ReplaceRangeCursorInside(t *testing.T) {
	b := NewBuffer("a.md", "abcdef")
	require.NoError(t, b.SetCursor(Position{Ch: 3}))
	require.NoError(t, b.ReplaceRange("X", Position{Ch: 1}, Position{Ch: 5}))
	require.Equal(t, "aXf", b.Text())
	require.Equal(t, Position{Ch: 2}, b.Cursor())
}

func TestBuffer_InvalidPositions(t *testing.T) {
	b := NewBuffer("a.md", "one\ntwo")

	err := b.ReplaceRange("x", Position{Line: 5}, Position{Line: 5})
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))

	err = b.ReplaceRange("x", Position{Ch: 3}, Position{Ch: 1})
	require.Error(t, err)

	require.Error(t, b.SetCursor(Position{Line: 0, Ch: 4}))
	require.Empty(t, b.Line(9))
	require.Equal(t, "one\ntwo", b.Text())
}
