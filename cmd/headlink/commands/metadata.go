package commands

import (
	"context"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/headlink/internal/metrics"
)

// MetadataCmd implements the 'metadata' command.
type MetadataCmd struct {
	Path   string `arg:"" help:"Document path, vault-relative or on disk"`
	Format string `short:"o" default:"yaml" enum:"yaml,json" help:"Output format (yaml or json)"`
	Raw    bool   `help:"Show the host's record without synthetic entries"`
}

// Run prints the metadata record.
func (c *MetadataCmd) Run(ctx context.Context, g *Global) error {
	rt, err := g.NewRuntime(metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	defer rt.Close()
	if c.Raw {
		rt.Plugin.Unload()
	}

	rec, err := rt.Host.GetCachedMetadata(ctx, rt.DocPath(c.Path))
	if err != nil {
		return err
	}

	if c.Format == "json" {
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}
	enc := yaml.NewEncoder(g.Out)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return err
	}
	return enc.Close()
}
