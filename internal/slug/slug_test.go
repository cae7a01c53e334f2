package slug

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Plumbing Notes", "plumbing-notes"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Tabs\tand   runs", "tabs-and-runs"},
		{"What's new? (v2.0)", "whats-new-v20"},
		{"snake_case stays", "snake_case-stays"},
		{"already-hyphenated", "already-hyphenated"},
		{"Café au lait", "cafe-au-lait"},
		{"Straße", "strasse"},
		{"Emoji 🚀 launch", "emoji-launch"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, Base(tt.in))
		})
	}
}

func TestSlug_DisambiguatesDuplicates(t *testing.T) {
	s := New()

	require.Equal(t, "notes", s.Slug("Notes"))
	require.Equal(t, "notes-1", s.Slug("Notes"))
	require.Equal(t, "notes-2", s.Slug("Notes"))
}

func TestSlug_LiteralSuffixDoesNotCollide(t *testing.T) {
	s := New()

	require.Equal(t, "notes", s.Slug("Notes"))
	require.Equal(t, "notes-1", s.Slug("Notes 1"))
	require.Equal(t, "notes-2", s.Slug("Notes"))
}

func TestSlug_ResetClearsState(t *testing.T) {
	s := New()
	require.Equal(t, "intro", s.Slug("Intro"))
	require.Equal(t, "intro-1", s.Slug("Intro"))

	s.Reset()
	require.Equal(t, "intro", s.Slug("Intro"))
}

func TestSlug_DeterministicAcrossPasses(t *testing.T) {
	headings := []string{"Setup", "Usage", "Setup", "FAQ", "Usage", "Setup"}

	pass := func() []string {
		s := New()
		out := make([]string, 0, len(headings))
		for _, h := range headings {
			out = append(out, s.Slug(h))
		}
		return out
	}

	first := pass()
	require.Equal(t, []string{"setup", "usage", "setup-1", "faq", "usage-1", "setup-2"}, first)
	require.Equal(t, first, pass())
}

func TestSlug_ZeroValueUsable(t *testing.T) {
	var s Slugger
	require.Equal(t, "a", s.Slug("A"))
	require.Equal(t, "a-1", s.Slug("A"))
}
