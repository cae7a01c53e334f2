package vault

import (
	"context"
	"sync"
	"time"

	"git.home.luguber.info/inful/headlink/internal/foundation/errors"
)

// MemVault is an in-memory Vault for embedding hosts and tests. Every Put moves
// the document's ModTime forward.
type MemVault struct {
	mu    sync.RWMutex
	docs  map[string]memDoc
	clock time.Time
}

type memDoc struct {
	text    string
	modTime time.Time
}

// NewMemVault creates a vault holding the given path -> text documents.
func NewMemVault(docs map[string]string) *MemVault {
	v := &MemVault{
		docs:  make(map[string]memDoc, len(docs)),
		clock: time.Unix(0, 0).UTC(),
	}
	for p, text := range docs {
		v.Put(p, text)
	}
	return v
}

// Put stores or replaces a document.
func (v *MemVault) Put(p, text string) File {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clock = v.clock.Add(time.Second)
	clean := Clean(p)
	v.docs[clean] = memDoc{text: text, modTime: v.clock}
	return File{Path: clean, ModTime: v.clock}
}

// Remove deletes a document.
func (v *MemVault) Remove(p string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.docs, Clean(p))
}

// ResolveFile implements Vault.
func (v *MemVault) ResolveFile(p string) (File, bool) {
	if Escapes(p) {
		return File{}, false
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	clean := Clean(p)
	doc, ok := v.docs[clean]
	if !ok {
		return File{}, false
	}
	return File{Path: clean, ModTime: doc.modTime}, true
}

// ReadText implements Vault.
func (v *MemVault) ReadText(ctx context.Context, f File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	doc, ok := v.docs[Clean(f.Path)]
	if !ok {
		return "", errors.NotFoundError("document not found").
			WithContext("path", f.Path).
			Build()
	}
	return doc.text, nil
}
