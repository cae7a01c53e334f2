package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/headlink/internal/foundation/errors"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		sourceDir string
		target    string
		want      string
	}{
		{"parent traversal", "notes/sub", "../other.md", "notes/other.md"},
		{"one level", "a/b", "../c.md", "a/c.md"},
		{"two levels", "notes/sub", "../../top.md", "top.md"},
		{"same directory", "notes/sub", "sibling.md", "notes/sub/sibling.md"},
		{"dot prefix", "notes", "./child/page.md", "notes/child/page.md"},
		{"nested after climb", "a/b/c", "../d/e.md", "a/b/d/e.md"},
		{"vault absolute", "notes/sub", "/index.md", "index.md"},
		{"root source", "", "page.md", "page.md"},
		{"climbs past root", "notes", "../../outside.md", "../outside.md"},
		{"interior parent segment", "notes", "sub/../page.md", "notes/page.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Resolve(tt.sourceDir, tt.target))
		})
	}
}

func TestKeyAndDir(t *testing.T) {
	require.Equal(t, DocumentKey("notes/a.md"), Key("./notes//a.md"))
	require.Equal(t, DocumentKey("notes/a.md"), Key("/notes/a.md"))
	require.Equal(t, Key("notes/a.md"), File{Path: "notes/a.md"}.Key())

	require.Equal(t, "notes/sub", Dir("notes/sub/a.md"))
	require.Equal(t, "", Dir("a.md"))

	require.True(t, Escapes("../x.md"))
	require.True(t, Escapes("a/../../x.md"))
	require.False(t, Escapes("a/../x.md"))
}

func TestFSVault(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "notes", ".obsidian"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes", "a.md"), []byte("# A\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes", "image.png"), []byte("png"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes", ".obsidian", "hidden.md"), []byte("x"), 0o600))

	v, err := NewFSVault(root)
	require.NoError(t, err)

	f, ok := v.ResolveFile("notes/a.md")
	require.True(t, ok)
	require.Equal(t, "notes/a.md", f.Path)
	require.False(t, f.ModTime.IsZero())

	text, err := v.ReadText(context.Background(), f)
	require.NoError(t, err)
	require.Equal(t, "# A\n", text)

	_, ok = v.ResolveFile("notes/missing.md")
	require.False(t, ok)
	_, ok = v.ResolveFile("notes")
	require.False(t, ok, "directories are not documents")
	_, ok = v.ResolveFile("../etc/passwd")
	require.False(t, ok)

	docs, err := v.Documents()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "notes/a.md", docs[0].Path)

	rel, ok := v.Rel(filepath.Join(root, "notes", "a.md"))
	require.True(t, ok)
	require.Equal(t, "notes/a.md", rel)
}

func TestFSVault_ReadMissingIsClassified(t *testing.T) {
	v, err := NewFSVault(t.TempDir())
	require.NoError(t, err)

	_, err = v.ReadText(context.Background(), File{Path: "gone.md"})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestNewFSVault_RejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "note.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	_, err := NewFSVault(file)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestMemVault(t *testing.T) {
	v := NewMemVault(map[string]string{"a.md": "# A"})

	f, ok := v.ResolveFile("./a.md")
	require.True(t, ok)
	text, err := v.ReadText(context.Background(), f)
	require.NoError(t, err)
	require.Equal(t, "# A", text)

	updated := v.Put("a.md", "# B")
	require.True(t, updated.ModTime.After(f.ModTime))

	v.Remove("a.md")
	_, ok = v.ResolveFile("a.md")
	require.False(t, ok)
	_, err = v.ReadText(context.Background(), f)
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}
