package translate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/headlink/internal/foundation/errors"
	"git.home.luguber.info/inful/headlink/internal/headings"
	"git.home.luguber.info/inful/headlink/internal/metrics"
	"git.home.luguber.info/inful/headlink/internal/vault"
)

const kitchen = `# Kitchen Sink
intro
## Plumbing Notes
## Notes
## Notes
### Café Menu
`

func newVault() *vault.MemVault {
	return vault.NewMemVault(map[string]string{
		"home/kitchen.md":   kitchen,
		"home/sub/index.md": "# Index\nSee [sink](../kitchen.md#plumbing-notes)\n",
		"src.md":            "# Source\n",
	})
}

type countingRecorder struct {
	metrics.NoopRecorder
	mu           sync.Mutex
	translations map[metrics.ResultLabel]int
	scans        int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{translations: map[metrics.ResultLabel]int{}}
}

func (r *countingRecorder) IncTranslation(result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.translations[result]++
}

func (r *countingRecorder) ObserveScanDuration(time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scans++
}

func TestHeadingForFragment_RoundTrip(t *testing.T) {
	ctx := context.Background()
	tr := New(newVault())

	f, err := tr.ResolveTarget("home/kitchen.md", "")
	require.NoError(t, err)
	seq, err := tr.Slugs(ctx, f)
	require.NoError(t, err)

	var pairs [][2]string
	for h, s := range seq {
		pairs = append(pairs, [2]string{h.Text, s})
	}
	require.Equal(t, [][2]string{
		{"Kitchen Sink", "kitchen-sink"},
		{"Plumbing Notes", "plumbing-notes"},
		{"Notes", "notes"},
		{"Notes", "notes-1"},
		{"Café Menu", "cafe-menu"},
	}, pairs)

	for _, p := range pairs {
		got, err := tr.HeadingForFragment(ctx, "kitchen.md", p[1], "home/sub/../index.md")
		require.NoError(t, err)
		require.Equal(t, p[0], got)
	}
}

func TestSlugs_Deterministic(t *testing.T) {
	ctx := context.Background()
	tr := New(newVault())
	f, err := tr.ResolveTarget("home/kitchen.md", "")
	require.NoError(t, err)
	seq, err := tr.Slugs(ctx, f)
	require.NoError(t, err)

	collect := func() []string {
		var out []string
		for _, s := range seq {
			out = append(out, s)
		}
		return out
	}
	require.Equal(t, collect(), collect())
}

func TestFragmentToHeadingText_RelativeTarget(t *testing.T) {
	tr := New(newVault())
	got := tr.FragmentToHeadingText(context.Background(), "../kitchen.md", "plumbing-notes", "home/sub/index.md")
	require.Equal(t, "Plumbing Notes", got)
}

func TestFragmentToHeadingText_FailSoft(t *testing.T) {
	tr := New(newVault())
	ctx := context.Background()

	require.Equal(t, "foo", tr.FragmentToHeadingText(ctx, "missing.md", "foo", "src.md"))
	require.Equal(t, "nope", tr.FragmentToHeadingText(ctx, "home/kitchen.md", "nope", "src.md"))
}

func TestTranslateLink(t *testing.T) {
	rec := newCountingRecorder()
	tr := New(newVault(), WithRecorder(rec))
	ctx := context.Background()

	tests := []struct {
		name     string
		linktext string
		source   string
		want     string
	}{
		{"slug in other document", "home/kitchen.md#notes-1", "src.md", "home/kitchen.md#Notes"},
		{"same document", "#source", "src.md", "#Source"},
		{"relative path", "../kitchen.md#cafe-menu", "home/sub/index.md", "../kitchen.md#Café Menu"},
		{"missing document", "missing.md#foo", "src.md", "missing.md#foo"},
		{"unknown fragment", "home/kitchen.md#Plumbing Notes", "src.md", "home/kitchen.md#Plumbing Notes"},
		{"no fragment", "home/kitchen.md", "src.md", "home/kitchen.md"},
		{"escapes vault", "../../x.md#a", "src.md", "../../x.md#a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tr.TranslateLink(ctx, tt.linktext, tt.source))
		})
	}

	require.Equal(t, map[metrics.ResultLabel]int{
		metrics.ResultTranslated: 3,
		metrics.ResultUnresolved: 3,
		metrics.ResultUnchanged:  1,
	}, rec.translations)
	require.Positive(t, rec.scans)
}

func TestSlugForHeading(t *testing.T) {
	tr := New(newVault())
	ctx := context.Background()

	s, err := tr.SlugForHeading(ctx, "", "Plumbing Notes", "home/kitchen.md")
	require.NoError(t, err)
	require.Equal(t, "plumbing-notes", s)

	_, err = tr.SlugForHeading(ctx, "", "plumbing notes", "home/kitchen.md")
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))

	_, err = tr.SlugForHeading(ctx, "gone.md", "x", "src.md")
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestScanOptionsApply(t *testing.T) {
	v := vault.NewMemVault(map[string]string{
		"code.md": "```\n# not a heading\n```\n# Real\n",
	})
	ctx := context.Background()

	plain := New(v)
	_, err := plain.HeadingForFragment(ctx, "code.md", "not-a-heading", "")
	require.NoError(t, err)

	prose := New(v, WithScanOptions(headings.Options{SkipCodeBlocks: true}))
	_, err = prose.HeadingForFragment(ctx, "code.md", "not-a-heading", "")
	require.Error(t, err)
}

// unreadableVault lists every document but fails to read any of them.
type unreadableVault struct{}

func (unreadableVault) ResolveFile(p string) (vault.File, bool) { return vault.File{Path: p}, true }
func (unreadableVault) ReadText(context.Context, vault.File) (string, error) {
	return "", context.DeadlineExceeded
}

func TestSlugs_UnreadableDocument(t *testing.T) {
	tr := New(unreadableVault{})
	f, err := tr.ResolveTarget("a.md", "")
	require.NoError(t, err)

	_, err = tr.Slugs(context.Background(), f)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
	require.ErrorIs(t, err, context.DeadlineExceeded)

	require.Equal(t, "a.md#foo", tr.TranslateLink(context.Background(), "a.md#foo", "src.md"))
}
