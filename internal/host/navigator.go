package host

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/headlink/internal/foundation/errors"
	"git.home.luguber.info/inful/headlink/internal/headings"
	"git.home.luguber.info/inful/headlink/internal/logfields"
	"git.home.luguber.info/inful/headlink/internal/markdown"
	"git.home.luguber.info/inful/headlink/internal/vault"
)

// Navigation is where an opened link landed. Line is -1 when the fragment named
// no heading and the document was opened at the top.
type Navigation struct {
	Path    string
	Heading string
	Line    int
	NewPane bool
}

// Navigator is the host's own link opener. Like the host it stands in for, it
// only understands fragments spelled as heading text.
type Navigator struct {
	vault  vault.Vault
	scan   headings.Options
	logger *slog.Logger

	mu      sync.Mutex
	history []Navigation
}

// NewNavigator creates a Navigator over v.
func NewNavigator(v vault.Vault, scan headings.Options, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Navigator{vault: v, scan: scan, logger: logger}
}

// OpenLink implements LinkOpener.
func (n *Navigator) OpenLink(ctx context.Context, linktext, sourcePath string, opts OpenOptions) error {
	pathPart, fragment, _ := markdown.SplitTarget(linktext)
	target := sourcePath
	if pathPart != "" {
		target = vault.Resolve(vault.Dir(sourcePath), pathPart)
	}

	f, ok := n.vault.ResolveFile(target)
	if !ok {
		return errors.NotFoundError("cannot open link").
			WithContext("link", linktext).
			WithContext("source_path", sourcePath).
			Build()
	}
	text, err := n.vault.ReadText(ctx, f)
	if err != nil {
		return err
	}

	nav := Navigation{Path: f.Path, Line: -1, NewPane: opts.NewPane}
	if fragment != "" {
		for h := range headings.Scan(text, n.scan) {
			if h.Text == fragment {
				nav.Heading, nav.Line = h.Text, h.Line
				break
			}
		}
	}

	n.mu.Lock()
	n.history = append(n.history, nav)
	n.mu.Unlock()

	n.logger.Debug("Link opened",
		logfields.Path(nav.Path),
		logfields.Heading(nav.Heading),
		logfields.Line(nav.Line))
	return nil
}

// Last returns the most recent navigation.
func (n *Navigator) Last() (Navigation, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.history) == 0 {
		return Navigation{}, false
	}
	return n.history[len(n.history)-1], true
}

func notFound(p string) error {
	return errors.NotFoundError("document not found").
		WithContext("path", p).
		Build()
}
