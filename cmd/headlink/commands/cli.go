// Package commands implements the headlink command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/headlink/internal/augment"
	"git.home.luguber.info/inful/headlink/internal/config"
	"git.home.luguber.info/inful/headlink/internal/host"
	"git.home.luguber.info/inful/headlink/internal/metrics"
	"git.home.luguber.info/inful/headlink/internal/rewrite"
	"git.home.luguber.info/inful/headlink/internal/translate"
	"git.home.luguber.info/inful/headlink/internal/vault"
	"git.home.luguber.info/inful/headlink/internal/version"
)

// Global is shared with every command once flags and configuration are loaded.
type Global struct {
	Logger *slog.Logger
	Config *config.Config
	Out    io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"headlink.yaml"`
	Vault   string           `help:"Vault directory (overrides configuration)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Slugs    SlugsCmd    `cmd:"" help:"List a document's headings with their slugs"`
	Resolve  ResolveCmd  `cmd:"" help:"Open a heading link and report where it lands"`
	Metadata MetadataCmd `cmd:"" help:"Print a document's metadata record including synthetic entries"`
	Complete CompleteCmd `cmd:"" help:"Type text into a document and show the rewritten line"`
	Watch    WatchCmd    `cmd:"" help:"Watch the vault and keep resolution caches current"`

	Stdout io.Writer `kong:"-"`
}

// AfterApply runs after flag parsing; loads configuration and sets up logging once.
func (c *CLI) AfterApply(kctx *kong.Context) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Vault != "" {
		cfg.Vault = c.Vault
	}

	level := cfg.Log.Level.Slog()
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Log.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	out := c.Stdout
	if out == nil {
		out = os.Stdout
	}
	kctx.Bind(&Global{Logger: logger, Config: cfg, Out: out})
	return nil
}

// Execute parses args and runs the selected command.
func Execute(ctx context.Context, args []string, stdout io.Writer) error {
	cli := &CLI{Stdout: stdout}
	parser, err := kong.New(cli,
		kong.Name("headlink"),
		kong.Description("Resolve GitHub-style heading links in a Markdown vault."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Writers(stdout, os.Stderr),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kctx.Run()
}

// VerboseRequested reports whether args ask for verbose output, for error
// formatting after Execute has returned.
func VerboseRequested(args []string) bool {
	return slices.Contains(args, "-v") || slices.Contains(args, "--verbose")
}

// Runtime is the in-process host with the plugin loaded.
type Runtime struct {
	Vault      *vault.FSVault
	Host       *host.Local
	Translator *translate.Translator
	Augmenter  *augment.Augmenter
	Plugin     *host.Plugin
}

// NewRuntime opens the configured vault and wires every component.
func (g *Global) NewRuntime(recorder metrics.Recorder) (*Runtime, error) {
	v, err := vault.NewFSVault(g.Config.Vault)
	if err != nil {
		return nil, err
	}

	scan := g.Config.Scan.Options()
	tr := translate.New(v,
		translate.WithLogger(g.Logger),
		translate.WithRecorder(recorder),
		translate.WithScanOptions(scan))
	aug := augment.New(augment.WithLogger(g.Logger), augment.WithRecorder(recorder))
	rw := rewrite.New(tr, rewrite.WithRecorder(recorder))
	h := host.NewLocal(v, host.WithHostLogger(g.Logger), host.WithHostScanOptions(scan))

	p := host.NewPlugin(host.PluginMetadata{Name: "headlink", Version: version.Version}, tr, aug, rw)
	if err := p.Load(h); err != nil {
		return nil, err
	}
	return &Runtime{Vault: v, Host: h, Translator: tr, Augmenter: aug, Plugin: p}, nil
}

// Close unloads the plugin.
func (r *Runtime) Close() { r.Plugin.Unload() }

// DocPath accepts a vault-relative path or a path on disk inside the vault.
func (r *Runtime) DocPath(arg string) string {
	if arg == "" {
		return ""
	}
	if abs, err := filepath.Abs(arg); err == nil {
		if _, statErr := os.Stat(abs); statErr == nil {
			if rel, ok := r.Vault.Rel(abs); ok {
				return rel
			}
		}
	}
	return vault.Clean(arg)
}
