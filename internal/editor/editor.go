// Package editor defines the live text-buffer contract used by the incremental
// rewriter and an in-memory Buffer implementing it.
package editor

import (
	"strings"
	"sync"

	"git.home.luguber.info/inful/headlink/internal/foundation/errors"
	"git.home.luguber.info/inful/headlink/internal/markdown"
)

// Position is a 0-based line and byte column.
type Position struct {
	Line int
	Ch   int
}

// Change describes an edit: the range From..To of the old text was replaced by Text.
type Change struct {
	From Position
	To   Position
	Text string
}

// Editor is an open document in the host's editor.
type Editor interface {
	// Path is the vault path of the edited document, "" when unsaved.
	Path() string
	Cursor() Position
	// Line returns line n without its line ending, or "" when out of range.
	Line(n int) string
	ReplaceRange(text string, from, to Position) error
}

// Buffer is an in-memory Editor. Typed input is reported to the change hook;
// programmatic ReplaceRange calls are not, so a change handler may edit the
// buffer without re-entering itself.
type Buffer struct {
	mu     sync.Mutex
	path   string
	text   string
	cursor Position
	hook   func(*Buffer, Change)
}

// NewBuffer opens text for editing with the cursor at the end.
func NewBuffer(path, text string) *Buffer {
	b := &Buffer{path: path, text: text}
	b.cursor = endOf(text)
	return b
}

// SetChangeHook installs fn to receive typed changes. nil removes it.
func (b *Buffer) SetChangeHook(fn func(*Buffer, Change)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hook = fn
}

// Path implements Editor.
func (b *Buffer) Path() string { return b.path }

// Text returns the whole buffer.
func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// Cursor implements Editor.
func (b *Buffer) Cursor() Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor
}

// SetCursor moves the cursor.
func (b *Buffer) SetCursor(p Position) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.offset(p); err != nil {
		return err
	}
	b.cursor = p
	return nil
}

// Line implements Editor.
func (b *Buffer) Line(n int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	lines := strings.Split(b.text, "\n")
	if n < 0 || n >= len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[n], "\r")
}

// ReplaceRange implements Editor. A cursor at or after to moves with the text.
func (b *Buffer) ReplaceRange(text string, from, to Position) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.replace(text, from, to)
	return err
}

// Type inserts text at the cursor, leaves the cursor after it and reports the
// change to the hook.
func (b *Buffer) Type(text string) error {
	b.mu.Lock()
	at := b.cursor
	change, err := b.replace(text, at, at)
	hook := b.hook
	b.mu.Unlock()
	if err != nil {
		return err
	}
	if hook != nil {
		hook(b, change)
	}
	return nil
}

func (b *Buffer) replace(text string, from, to Position) (Change, error) {
	start, err := b.offset(from)
	if err != nil {
		return Change{}, err
	}
	end, err := b.offset(to)
	if err != nil {
		return Change{}, err
	}

	updated, err := markdown.ApplyEdits(b.text, []markdown.Edit{{Start: start, End: end, Replacement: text}})
	if err != nil {
		return Change{}, err
	}

	cur, _ := b.offset(b.cursor)
	switch {
	case cur >= end:
		cur += len(text) - (end - start)
	case cur > start:
		cur = start + len(text)
	}
	b.text = updated
	b.cursor = positionAt(updated, cur)
	return Change{From: from, To: to, Text: text}, nil
}

func (b *Buffer) offset(p Position) (int, error) {
	lines := strings.Split(b.text, "\n")
	if p.Line < 0 || p.Line >= len(lines) || p.Ch < 0 || p.Ch > len(lines[p.Line]) {
		return 0, errors.ValidationError("position outside buffer").
			WithContext("line", p.Line).
			WithContext("ch", p.Ch).
			Build()
	}
	off := 0
	for _, l := range lines[:p.Line] {
		off += len(l) + 1
	}
	return off + p.Ch, nil
}

func positionAt(text string, off int) Position {
	before := text[:off]
	line := strings.Count(before, "\n")
	return Position{Line: line, Ch: off - (strings.LastIndexByte(before, '\n') + 1)}
}

func endOf(text string) Position { return positionAt(text, len(text)) }
