package vault

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/headlink/internal/foundation/errors"
)

// FSVault serves documents from a directory on disk.
type FSVault struct {
	root string
}

// NewFSVault opens the vault rooted at dir.
func NewFSVault(dir string) (*FSVault, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to resolve vault root").
			WithContext("path", dir).
			Build()
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "vault root not accessible").
			WithContext("path", abs).
			Fatal().
			Build()
	}
	if !info.IsDir() {
		return nil, errors.ConfigError("vault root is not a directory").
			WithContext("path", abs).
			Build()
	}
	return &FSVault{root: abs}, nil
}

// Root returns the absolute directory backing the vault.
func (v *FSVault) Root() string { return v.root }

// ResolveFile implements Vault.
func (v *FSVault) ResolveFile(p string) (File, bool) {
	if Escapes(p) {
		return File{}, false
	}
	clean := Clean(p)
	if clean == "" {
		return File{}, false
	}
	info, err := os.Stat(v.Abs(clean))
	if err != nil || !info.Mode().IsRegular() {
		return File{}, false
	}
	return File{Path: clean, ModTime: info.ModTime()}, true
}

// ReadText implements Vault.
func (v *FSVault) ReadText(ctx context.Context, f File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// #nosec G304 -- path is confined to the vault root by ResolveFile.
	data, err := os.ReadFile(v.Abs(f.Path))
	if err != nil {
		return "", errors.FileSystemError("failed to read document").WithCause(err).
			WithContext("path", f.Path).
			Build()
	}
	return string(data), nil
}

// Abs maps a vault path to its location on disk.
func (v *FSVault) Abs(p string) string {
	return filepath.Join(v.root, filepath.FromSlash(Clean(p)))
}

// Rel maps an absolute disk path back to a vault path. ok is false for paths
// outside the vault.
func (v *FSVault) Rel(abs string) (string, bool) {
	rel, err := filepath.Rel(v.root, abs)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if Escapes(rel) {
		return "", false
	}
	return Clean(rel), true
}

// Documents lists every Markdown document in the vault, skipping hidden directories.
func (v *FSVault) Documents() ([]File, error) {
	var out []File
	err := filepath.WalkDir(v.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != v.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsDocument(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, ok := v.Rel(p)
		if !ok {
			return nil
		}
		out = append(out, File{Path: rel, ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, errors.FileSystemError("failed to list vault documents").WithCause(err).
			WithContext("root", v.root).
			Build()
	}
	return out, nil
}

// IsDocument reports whether name looks like a Markdown note.
func IsDocument(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}
