package errors

import (
	stderrors "errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad flag").Build(), expected: 2},
		{name: "not found", err: NotFoundError("missing").Build(), expected: 3},
		{name: "editor", err: EditorError("no editor").Build(), expected: 4},
		{name: "config", err: ConfigError("bad config").Build(), expected: 7},
		{name: "filesystem", err: FileSystemError("read failed").Build(), expected: 11},
		{name: "internal", err: InternalError("boom").Build(), expected: 10},
		{name: "unclassified", err: stderrors.New("unknown"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, nil)
	verbose := NewCLIErrorAdapter(true, nil)

	internal := InternalError("index corrupted").Build()
	require.Equal(t, "Internal error occurred (use -v for details)", quiet.FormatError(internal))
	require.Contains(t, verbose.FormatError(internal), "index corrupted")

	notFound := NotFoundError("document not found").Build()
	require.Equal(t, "Error: [not_found:warning] document not found", quiet.FormatError(notFound))
	require.Equal(t, "Error: plain", quiet.FormatError(stderrors.New("plain")))
	require.Empty(t, quiet.FormatError(nil))
}
