// Package metrics provides observability hooks for heading-link resolution.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	type Translator struct {
//		recorder metrics.Recorder
//	}
//
//	func New(v vault.Vault, opts ...Option) *Translator {
//		t := &Translator{recorder: metrics.NoopRecorder{}}
//		...
//	}
//
// The watch command swaps in a PrometheusRecorder and serves its registry
// through HTTPHandler.
//
// # Metrics
//
//   - translations_total{result}: link translations by outcome (translated, unresolved, unchanged)
//   - rewrites_total{result}: editor rewrite attempts (applied, skipped, failed)
//   - synthetic_entries_total{kind}: synthetic headings and links added to metadata
//   - scan_duration_seconds: time spent scanning one note for headings
//   - indexed_documents: documents currently held in the resolution index
package metrics
