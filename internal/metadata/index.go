package metadata

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/headlink/internal/foundation/errors"
	"git.home.luguber.info/inful/headlink/internal/logfields"
	"git.home.luguber.info/inful/headlink/internal/vault"
)

// Index caches one metadata record per document and rebuilds it when the
// document's ModTime changes. Callers receive the cached pointer, so decorations
// applied to a record persist until it is rebuilt.
type Index struct {
	vault  vault.Vault
	logger *slog.Logger

	mu      sync.Mutex
	records map[vault.DocumentKey]*CachedMetadata
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithLogger sets the logger used for build warnings.
func WithLogger(l *slog.Logger) IndexOption {
	return func(x *Index) {
		if l != nil {
			x.logger = l
		}
	}
}

// NewIndex creates an empty index over v.
func NewIndex(v vault.Vault, opts ...IndexOption) *Index {
	x := &Index{
		vault:   v,
		logger:  slog.Default(),
		records: make(map[vault.DocumentKey]*CachedMetadata),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// CacheByPath returns the record for the document at p.
func (x *Index) CacheByPath(ctx context.Context, p string) (*CachedMetadata, error) {
	f, ok := x.vault.ResolveFile(p)
	if !ok {
		return nil, errors.NotFoundError("document not found").
			WithContext("path", p).
			Build()
	}
	return x.CacheByFile(ctx, f)
}

// CacheByFile returns the record for f, building it on first use or after a change.
func (x *Index) CacheByFile(ctx context.Context, f vault.File) (*CachedMetadata, error) {
	key := f.Key()

	x.mu.Lock()
	rec, ok := x.records[key]
	x.mu.Unlock()
	if ok && rec.ModTime.Equal(f.ModTime) {
		return rec, nil
	}

	text, err := x.vault.ReadText(ctx, f)
	if err != nil {
		return nil, err
	}
	rec, warn := Build(f, text)
	if warn != nil {
		x.logger.Warn("Metadata built with warnings", logfields.Path(f.Path), logfields.Error(warn))
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	// Another caller may have stored the same revision meanwhile; keep theirs so
	// everyone shares one record.
	if cur, ok := x.records[key]; ok && cur.ModTime.Equal(f.ModTime) {
		return cur, nil
	}
	x.records[key] = rec
	return rec, nil
}

// Invalidate drops the record for key.
func (x *Index) Invalidate(key vault.DocumentKey) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.records, key)
}

// Len returns the number of cached records.
func (x *Index) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.records)
}
