package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/headlink/internal/editor"
	"git.home.luguber.info/inful/headlink/internal/foundation/errors"
	"git.home.luguber.info/inful/headlink/internal/metrics"
)

// CompleteCmd implements the 'complete' command: it opens the document in an
// editor buffer, types the given text and prints the resulting line. Nothing is
// written back to disk.
type CompleteCmd struct {
	Path string `arg:"" help:"Document path, vault-relative or on disk"`
	Text string `arg:"" help:"Text to type, e.g. '[x](#Plumbing%20Notes)'"`
	Line int    `short:"l" help:"1-based line to type at the end of (default: end of document)"`
}

// Run types the text and prints the cursor line.
func (c *CompleteCmd) Run(ctx context.Context, g *Global) error {
	rt, err := g.NewRuntime(metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	defer rt.Close()

	b, err := rt.Host.OpenEditor(ctx, rt.DocPath(c.Path))
	if err != nil {
		return err
	}
	if c.Line > 0 {
		n := c.Line - 1
		if err := b.SetCursor(editor.Position{Line: n, Ch: len(b.Line(n))}); err != nil {
			return errors.ValidationError("line outside document").
				WithContext("line", c.Line).
				WithCause(err).
				Build()
		}
	}
	if err := b.Type(c.Text); err != nil {
		return err
	}

	fmt.Fprintln(g.Out, b.Line(b.Cursor().Line))
	return nil
}
