package commands

import (
	"context"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/headlink/internal/metrics"
)

// SlugsCmd implements the 'slugs' command.
type SlugsCmd struct {
	Path string `arg:"" help:"Document path, vault-relative or on disk"`
}

// Run prints one line per heading: line number, level markers, slug and text.
func (c *SlugsCmd) Run(ctx context.Context, g *Global) error {
	rt, err := g.NewRuntime(metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	defer rt.Close()

	f, err := rt.Translator.ResolveTarget(rt.DocPath(c.Path), "")
	if err != nil {
		return err
	}
	seq, err := rt.Translator.Slugs(ctx, f)
	if err != nil {
		return err
	}
	for h, s := range seq {
		fmt.Fprintf(g.Out, "%d\t%s\t%s\t%s\n", h.Line+1, strings.Repeat("#", h.Level), s, h.Text)
	}
	return nil
}
