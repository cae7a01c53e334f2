package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeySourcePath = "source_path"
	KeyDocKey     = "doc_key"
	KeyFragment   = "fragment"
	KeyHeading    = "heading"
	KeySlug       = "slug"
	KeyLine       = "line"
	KeyColumn     = "column"
	KeyCount      = "count"
	KeySessionID  = "session_id"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func SourcePath(p string) slog.Attr   { return slog.String(KeySourcePath, p) }
func DocKey(k string) slog.Attr       { return slog.String(KeyDocKey, k) }
func Fragment(f string) slog.Attr     { return slog.String(KeyFragment, f) }
func Heading(h string) slog.Attr      { return slog.String(KeyHeading, h) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Line(n int) slog.Attr            { return slog.Int(KeyLine, n) }
func Column(n int) slog.Attr          { return slog.Int(KeyColumn, n) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func SessionID(id string) slog.Attr   { return slog.String(KeySessionID, id) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
