package host

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/headlink/internal/augment"
	"git.home.luguber.info/inful/headlink/internal/editor"
	"git.home.luguber.info/inful/headlink/internal/foundation/errors"
	"git.home.luguber.info/inful/headlink/internal/metadata"
	"git.home.luguber.info/inful/headlink/internal/rewrite"
	"git.home.luguber.info/inful/headlink/internal/translate"
	"git.home.luguber.info/inful/headlink/internal/vault"
)

// PluginMetadata identifies the plugin to the host.
type PluginMetadata struct {
	Name    string
	Version string
}

// String returns a human-readable representation of the plugin metadata.
func (m PluginMetadata) String() string {
	return fmt.Sprintf("%s@%s", m.Name, m.Version)
}

// Plugin intercepts a host's metadata cache, link navigation and editor changes.
// Load installs decorators around the host's current collaborators; Unload puts
// the originals back.
type Plugin struct {
	meta       PluginMetadata
	translator *translate.Translator
	augmenter  *augment.Augmenter
	rewriter   *rewrite.Rewriter
	logger     *slog.Logger

	mu          sync.Mutex
	host        Host
	prevCache   MetadataCache
	prevOpener  LinkOpener
	unsubscribe func()
}

// NewPlugin wires the three interceptors.
func NewPlugin(meta PluginMetadata, tr *translate.Translator, aug *augment.Augmenter, rw *rewrite.Rewriter) *Plugin {
	return &Plugin{
		meta:       meta,
		translator: tr,
		augmenter:  aug,
		rewriter:   rw,
		logger:     tr.Logger(),
	}
}

// Metadata returns the plugin's identity.
func (p *Plugin) Metadata() PluginMetadata { return p.meta }

// Load installs the plugin into h.
func (p *Plugin) Load(h Host) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.host != nil {
		return errors.ValidationError("plugin already loaded").
			WithContext("plugin", p.meta.String()).
			Build()
	}

	p.host = h
	p.prevCache = h.SwapMetadataCache(&augmentingCache{next: h.MetadataCache(), augmenter: p.augmenter})
	p.prevOpener = h.SwapLinkOpener(&translatingOpener{next: h.LinkOpener(), translator: p.translator})
	p.unsubscribe = h.OnEditorChange(func(ctx context.Context, ed editor.Editor, _ editor.Change) {
		p.rewriter.OnChange(ctx, ed)
	})

	p.logger.Info("Plugin loaded", slog.String("plugin", p.meta.String()))
	return nil
}

// Unload restores the collaborators Load replaced. Unloading twice is a no-op.
func (p *Plugin) Unload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.host == nil {
		return
	}

	p.unsubscribe()
	p.host.SwapLinkOpener(p.prevOpener)
	p.host.SwapMetadataCache(p.prevCache)
	p.host, p.prevCache, p.prevOpener, p.unsubscribe = nil, nil, nil, nil

	p.logger.Info("Plugin unloaded", slog.String("plugin", p.meta.String()))
}

type augmentingCache struct {
	next      MetadataCache
	augmenter *augment.Augmenter
}

func (c *augmentingCache) CacheByPath(ctx context.Context, p string) (*metadata.CachedMetadata, error) {
	rec, err := c.next.CacheByPath(ctx, p)
	if err != nil || rec == nil {
		return rec, err
	}
	return c.augmenter.Augment(rec, vault.Key(p)), nil
}

func (c *augmentingCache) CacheByFile(ctx context.Context, f vault.File) (*metadata.CachedMetadata, error) {
	rec, err := c.next.CacheByFile(ctx, f)
	if err != nil || rec == nil {
		return rec, err
	}
	return c.augmenter.Augment(rec, f.Key()), nil
}

type translatingOpener struct {
	next       LinkOpener
	translator *translate.Translator
}

func (o *translatingOpener) OpenLink(ctx context.Context, linktext, sourcePath string, opts OpenOptions) error {
	return o.next.OpenLink(ctx, o.translator.TranslateLink(ctx, linktext, sourcePath), sourcePath, opts)
}
