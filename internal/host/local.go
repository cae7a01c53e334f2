package host

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/headlink/internal/editor"
	"git.home.luguber.info/inful/headlink/internal/headings"
	"git.home.luguber.info/inful/headlink/internal/metadata"
	"git.home.luguber.info/inful/headlink/internal/vault"
)

// Local is an in-process Host over a vault: a metadata index, a Navigator and
// editor buffers whose typed input is dispatched to change subscribers.
type Local struct {
	vault     vault.Vault
	index     *metadata.Index
	navigator *Navigator
	logger    *slog.Logger

	mu       sync.RWMutex
	cache    MetadataCache
	opener   LinkOpener
	handlers []subscription
	nextID   int
}

type subscription struct {
	id int
	fn ChangeHandler
}

// LocalOption configures a Local host.
type LocalOption func(*localConfig)

type localConfig struct {
	logger *slog.Logger
	scan   headings.Options
}

// WithHostLogger sets the logger of the host's own components.
func WithHostLogger(l *slog.Logger) LocalOption {
	return func(c *localConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHostScanOptions sets how the host's navigator finds headings.
func WithHostScanOptions(o headings.Options) LocalOption {
	return func(c *localConfig) { c.scan = o }
}

// NewLocal creates a host over v.
func NewLocal(v vault.Vault, opts ...LocalOption) *Local {
	cfg := localConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	l := &Local{
		vault:     v,
		index:     metadata.NewIndex(v, metadata.WithLogger(cfg.logger)),
		navigator: NewNavigator(v, cfg.scan, cfg.logger),
		logger:    cfg.logger,
	}
	l.cache = l.index
	l.opener = l.navigator
	return l
}

// Vault implements Host.
func (l *Local) Vault() vault.Vault { return l.vault }

// Index returns the host's own metadata index.
func (l *Local) Index() *metadata.Index { return l.index }

// Navigator returns the host's own link opener.
func (l *Local) Navigator() *Navigator { return l.navigator }

// MetadataCache implements Host.
func (l *Local) MetadataCache() MetadataCache {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache
}

// LinkOpener implements Host.
func (l *Local) LinkOpener() LinkOpener {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.opener
}

// SwapMetadataCache implements Host.
func (l *Local) SwapMetadataCache(c MetadataCache) MetadataCache {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.cache
	l.cache = c
	return prev
}

// SwapLinkOpener implements Host.
func (l *Local) SwapLinkOpener(o LinkOpener) LinkOpener {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.opener
	l.opener = o
	return prev
}

// OnEditorChange implements Host.
func (l *Local) OnEditorChange(fn ChangeHandler) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	id := l.nextID
	l.handlers = append(l.handlers, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			for i, s := range l.handlers {
				if s.id == id {
					l.handlers = append(l.handlers[:i:i], l.handlers[i+1:]...)
					return
				}
			}
		})
	}
}

// GetCachedMetadata fetches a record through the current metadata cache.
func (l *Local) GetCachedMetadata(ctx context.Context, p string) (*metadata.CachedMetadata, error) {
	return l.MetadataCache().CacheByPath(ctx, p)
}

// OpenLink navigates through the current link opener.
func (l *Local) OpenLink(ctx context.Context, linktext, sourcePath string, opts OpenOptions) error {
	return l.LinkOpener().OpenLink(ctx, linktext, sourcePath, opts)
}

// OpenEditor loads the document at p into a buffer. Text typed into the buffer
// is dispatched to change subscribers with ctx.
func (l *Local) OpenEditor(ctx context.Context, p string) (*editor.Buffer, error) {
	f, ok := l.vault.ResolveFile(p)
	if !ok {
		return nil, notFound(p)
	}
	text, err := l.vault.ReadText(ctx, f)
	if err != nil {
		return nil, err
	}

	b := editor.NewBuffer(f.Path, text)
	b.SetChangeHook(func(b *editor.Buffer, c editor.Change) {
		l.dispatch(ctx, b, c)
	})
	return b, nil
}

func (l *Local) dispatch(ctx context.Context, ed editor.Editor, c editor.Change) {
	l.mu.RLock()
	handlers := make([]ChangeHandler, 0, len(l.handlers))
	for _, s := range l.handlers {
		handlers = append(handlers, s.fn)
	}
	l.mu.RUnlock()

	for _, fn := range handlers {
		fn(ctx, ed, c)
	}
}
