package watch

import (
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/headlink/internal/augment"
	"git.home.luguber.info/inful/headlink/internal/foundation/errors"
	"git.home.luguber.info/inful/headlink/internal/metadata"
	"git.home.luguber.info/inful/headlink/internal/vault"
)

type collector struct {
	mu   sync.Mutex
	keys []vault.DocumentKey
}

func (c *collector) add(k vault.DocumentKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = append(c.keys, k)
}

func (c *collector) snapshot() []vault.DocumentKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := slices.Clone(c.keys)
	slices.Sort(out)
	return out
}

func newWatcher(t *testing.T, debounce time.Duration) (*Watcher, *collector, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "notes"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".obsidian"), 0o750))

	v, err := vault.NewFSVault(root)
	require.NoError(t, err)

	c := &collector{}
	w, err := NewWatcher(v, WithDebounce(debounce), OnInvalidate(c.add))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })
	return w, c, v.Root()
}

func TestHandleEvent(t *testing.T) {
	w, c, root := newWatcher(t, 0)

	w.handleEvent(fsnotify.Event{Name: filepath.Join(root, "notes", "a.md"), Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: filepath.Join(root, "b.markdown"), Op: fsnotify.Remove})
	w.handleEvent(fsnotify.Event{Name: filepath.Join(root, "c.md"), Op: fsnotify.Chmod})
	w.handleEvent(fsnotify.Event{Name: filepath.Join(root, "image.png"), Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: filepath.Join(filepath.Dir(root), "outside.md"), Op: fsnotify.Write})

	require.Equal(t, []vault.DocumentKey{"b.markdown", "notes/a.md"}, c.snapshot())
	require.NotEmpty(t, w.SessionID())
}

func TestHandleEvent_WatchesNewDirectories(t *testing.T) {
	w, _, root := newWatcher(t, 0)

	dir := filepath.Join(root, "fresh")
	require.NoError(t, os.Mkdir(dir, 0o750))
	w.handleEvent(fsnotify.Event{Name: dir, Op: fsnotify.Create})

	require.Contains(t, w.watcher.WatchList(), dir)
}

func TestDebounceCoalescesEvents(t *testing.T) {
	w, c, root := newWatcher(t, 20*time.Millisecond)

	for range 3 {
		w.handleEvent(fsnotify.Event{Name: filepath.Join(root, "a.md"), Op: fsnotify.Write})
	}
	w.handleEvent(fsnotify.Event{Name: filepath.Join(root, "b.md"), Op: fsnotify.Create})

	require.Eventually(t, func() bool {
		return len(c.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, []vault.DocumentKey{"a.md", "b.md"}, c.snapshot())
}

func TestStartWatchesTree(t *testing.T) {
	w, _, root := newWatcher(t, 0)
	require.NoError(t, w.Start(t.Context()))

	list := w.watcher.WatchList()
	require.Contains(t, list, root)
	require.Contains(t, list, filepath.Join(root, "notes"))
	require.NotContains(t, list, filepath.Join(root, ".obsidian"))

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestSweeper(t *testing.T) {
	v := vault.NewMemVault(map[string]string{"a.md": "# A\n", "b.md": "# B\n"})
	aug := augment.New()
	for _, p := range []string{"a.md", "b.md"} {
		f, ok := v.ResolveFile(p)
		require.True(t, ok)
		rec, err := metadata.Build(f, "# X\n")
		require.NoError(t, err)
		aug.Augment(rec, f.Key())
	}

	sw, err := NewSweeper(aug, v, time.Hour, nil)
	require.NoError(t, err)
	sw.Start()
	t.Cleanup(func() { _ = sw.Stop() })

	require.Zero(t, sw.Sweep())

	v.Put("a.md", "# A2\n")
	v.Remove("b.md")
	require.Equal(t, 2, sw.Sweep())
	require.Zero(t, aug.Len())
}

func TestNewSweeper_RejectsZeroInterval(t *testing.T) {
	sw, err := NewSweeper(augment.New(), vault.NewMemVault(nil), 0, nil)
	require.Error(t, err)
	require.Nil(t, sw)
	require.True(t, errors.HasCategory(err, errors.CategoryRuntime))
}
