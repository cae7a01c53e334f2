// Package vault models the note vault that links point into: vault-relative
// document paths, canonical document keys, relative link target resolution, and
// read access to document text.
package vault

import (
	"context"
	"path"
	"strings"
	"time"
)

// File identifies a document inside the vault.
type File struct {
	// Path is vault-relative and slash separated, e.g. "notes/plumbing.md".
	Path    string
	ModTime time.Time
}

// Key returns the canonical identity of the document.
func (f File) Key() DocumentKey { return Key(f.Path) }

// Vault is the host's document storage as seen by link resolution.
type Vault interface {
	// ResolveFile looks up a vault-relative path. ok is false when no document exists there.
	ResolveFile(p string) (f File, ok bool)
	// ReadText returns the current text of the document.
	ReadText(ctx context.Context, f File) (string, error)
}

// DocumentKey is the single key space used by per-document caches. Paths and file
// handles normalise to the same key.
type DocumentKey string

// Key canonicalises a vault path into a DocumentKey.
func Key(p string) DocumentKey {
	return DocumentKey(Clean(p))
}

// Clean normalises a vault path: slash separated, no leading "/" or "./", no
// redundant segments. The vault root is "". Leading ".." segments are kept so
// escaping paths stay detectable.
func Clean(p string) string {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	p = strings.TrimLeft(p, "/")
	if p == "." {
		return ""
	}
	return p
}

// Escapes reports whether a cleaned path points above the vault root.
func Escapes(p string) bool {
	p = Clean(p)
	return p == ".." || strings.HasPrefix(p, "../")
}

// Dir returns the directory containing the document at p ("" for the vault root).
func Dir(p string) string {
	d := path.Dir(Clean(p))
	if d == "." {
		return ""
	}
	return d
}

// Resolve resolves a link target relative to sourceDir.
//
// Every leading ".." segment of the target's directory climbs sourceDir one level;
// the remaining segments and the file name are then joined onto what is left. A
// target starting with "/" is resolved from the vault root. Targets that climb past
// the vault root produce a path starting with ".." which no vault will resolve.
func Resolve(sourceDir, target string) string {
	target = strings.ReplaceAll(target, "\\", "/")
	if strings.HasPrefix(target, "/") {
		return Clean(target)
	}

	dir, name := path.Split(target)
	base := strings.Trim(sourceDir, "/")
	var rest []string
	climbing := true
	for _, seg := range strings.Split(strings.TrimSuffix(dir, "/"), "/") {
		switch {
		case seg == "" || seg == ".":
			continue
		case seg == ".." && climbing:
			base = parent(base)
		default:
			climbing = false
			rest = append(rest, seg)
		}
	}

	joined := path.Join(append(append([]string{base}, rest...), name)...)
	if joined == "." {
		return ""
	}
	return joined
}

func parent(dir string) string {
	switch {
	case dir == "" || dir == ".":
		return ".."
	case dir == ".." || strings.HasSuffix(dir, "/.."):
		return dir + "/.."
	}
	d := path.Dir(dir)
	if d == "." {
		return ""
	}
	return d
}
