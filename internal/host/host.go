// Package host defines the collaborator contracts of the application that embeds
// heading-link resolution, and the Plugin that decorates them.
package host

import (
	"context"

	"git.home.luguber.info/inful/headlink/internal/editor"
	"git.home.luguber.info/inful/headlink/internal/metadata"
	"git.home.luguber.info/inful/headlink/internal/vault"
)

// MetadataCache serves metadata records by path or by file.
type MetadataCache interface {
	CacheByPath(ctx context.Context, p string) (*metadata.CachedMetadata, error)
	CacheByFile(ctx context.Context, f vault.File) (*metadata.CachedMetadata, error)
}

// OpenOptions are passed through to the host's navigation unchanged.
type OpenOptions struct {
	NewPane bool
}

// LinkOpener navigates to a link target.
type LinkOpener interface {
	OpenLink(ctx context.Context, linktext, sourcePath string, opts OpenOptions) error
}

// ChangeHandler receives editor change events.
type ChangeHandler func(ctx context.Context, ed editor.Editor, change editor.Change)

// Host is the embedding application.
type Host interface {
	Vault() vault.Vault
	MetadataCache() MetadataCache
	LinkOpener() LinkOpener
	// SwapMetadataCache installs c and returns the cache it replaced.
	SwapMetadataCache(c MetadataCache) MetadataCache
	// SwapLinkOpener installs o and returns the opener it replaced.
	SwapLinkOpener(o LinkOpener) LinkOpener
	// OnEditorChange subscribes fn to editor changes until unsubscribe is called.
	OnEditorChange(fn ChangeHandler) (unsubscribe func())
}
