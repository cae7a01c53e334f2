package metrics

import "time"

// ResultLabel enumerates operation outcomes for counters.
type ResultLabel string

const (
	ResultTranslated ResultLabel = "translated"
	ResultUnresolved ResultLabel = "unresolved"
	ResultUnchanged  ResultLabel = "unchanged"
	ResultApplied    ResultLabel = "applied"
	ResultSkipped    ResultLabel = "skipped"
	ResultFailed     ResultLabel = "failed"
)

// EntryKind distinguishes synthetic metadata entries.
type EntryKind string

const (
	EntryHeading EntryKind = "heading"
	EntryLink    EntryKind = "link"
)

// Recorder defines observability hooks for translation, rewriting and augmentation.
// Implementations must be safe for concurrent use.
type Recorder interface {
	IncTranslation(result ResultLabel)
	IncRewrite(result ResultLabel)
	AddSyntheticEntries(kind EntryKind, n int)
	ObserveScanDuration(d time.Duration)
	SetIndexedDocuments(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncTranslation(ResultLabel)         {}
func (NoopRecorder) IncRewrite(ResultLabel)             {}
func (NoopRecorder) AddSyntheticEntries(EntryKind, int) {}
func (NoopRecorder) ObserveScanDuration(time.Duration)  {}
func (NoopRecorder) SetIndexedDocuments(int)            {}
