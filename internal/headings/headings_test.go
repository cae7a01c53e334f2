package headings

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line  string
		ok    bool
		text  string
		level int
	}{
		{"# Title", true, "Title", 1},
		{"###### Deepest", true, "Deepest", 6},
		{"##\tTabbed", true, "Tabbed", 2},
		{"##   Spaced out  ", true, "Spaced out  ", 2},
		{"####### Too deep", false, "", 0},
		{"#NoSpace", false, "", 0},
		{"#", false, "", 0},
		{" # Indented", false, "", 0},
		{"Plain text", false, "", 0},
		{"#hashtag and more", false, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			h, ok := ParseLine(tt.line)
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			require.Equal(t, tt.text, h.Text)
			require.Equal(t, tt.level, h.Level)
			require.Equal(t, 0, h.StartColumn)
			require.Equal(t, len(tt.line), h.EndColumn)
		})
	}
}

func TestScan_DocumentOrder(t *testing.T) {
	text := "# Notes\nintro\n## Notes\n\n### Other\r\n# Notes\n"

	got := Collect(text, Options{})
	require.Len(t, got, 4)
	require.Equal(t, Heading{Text: "Notes", Level: 1, Line: 0, EndColumn: 7}, got[0])
	require.Equal(t, 2, got[1].Line)
	require.Equal(t, "Other", got[2].Text, "carriage return is not part of the heading")
	require.Equal(t, 4, got[2].Line)
	require.Equal(t, 5, got[3].Line)
}

func TestScan_IsRestartableAndStopsEarly(t *testing.T) {
	seq := Scan("# A\n# B\n# C\n", Options{})

	var first []string
	for h := range seq {
		first = append(first, h.Text)
		if h.Text == "B" {
			break
		}
	}
	require.Equal(t, []string{"A", "B"}, first)

	var second []string
	for h := range seq {
		second = append(second, h.Text)
	}
	require.Equal(t, []string{"A", "B", "C"}, second)
}

func TestScan_Options(t *testing.T) {
	text := "---\n# yaml comment\n---\n# Real\n```sh\n# shell comment\n```\n    # indented code\n"

	plain := Collect(text, Options{})
	require.Len(t, plain, 3)

	noFM := Collect(text, Options{SkipFrontmatter: true})
	require.Len(t, noFM, 2)
	require.Equal(t, "Real", noFM[0].Text)

	prose := Collect(text, Options{SkipFrontmatter: true, SkipCodeBlocks: true})
	require.Len(t, prose, 1)
	require.Equal(t, "Real", prose[0].Text)
	require.Equal(t, 3, prose[0].Line)
}

func TestScan_Empty(t *testing.T) {
	require.Empty(t, Collect("", Options{}))
}
