package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/headlink/internal/foundation/errors"
	"git.home.luguber.info/inful/headlink/internal/host"
	"git.home.luguber.info/inful/headlink/internal/metrics"
)

// ResolveCmd implements the 'resolve' command.
type ResolveCmd struct {
	Link    string `arg:"" help:"Link target, e.g. notes/plumbing.md#plumbing-notes"`
	From    string `short:"f" help:"Document the link appears in" default:""`
	Raw     bool   `help:"Open the link without translating its fragment"`
	NewPane bool   `help:"Pass the new-pane hint to navigation"`
}

// Run opens the link through the host and prints "path:line<TAB>heading". A
// fragment that matches no heading prints the path alone.
func (c *ResolveCmd) Run(ctx context.Context, g *Global) error {
	rt, err := g.NewRuntime(metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	defer rt.Close()
	if c.Raw {
		rt.Plugin.Unload()
	}

	if err := rt.Host.OpenLink(ctx, c.Link, rt.DocPath(c.From), host.OpenOptions{NewPane: c.NewPane}); err != nil {
		return err
	}
	nav, ok := rt.Host.Navigator().Last()
	if !ok {
		return errors.InternalError("navigation not recorded").Build()
	}

	if nav.Line < 0 {
		fmt.Fprintln(g.Out, nav.Path)
		return nil
	}
	fmt.Fprintf(g.Out, "%s:%d\t%s\n", nav.Path, nav.Line+1, nav.Heading)
	return nil
}
