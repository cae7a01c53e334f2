// Package augment decorates metadata records with synthetic heading and link
// entries so that slug-form and text-form heading links both resolve.
package augment

import (
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/headlink/internal/logfields"
	"git.home.luguber.info/inful/headlink/internal/markdown"
	"git.home.luguber.info/inful/headlink/internal/metadata"
	"git.home.luguber.info/inful/headlink/internal/metrics"
	"git.home.luguber.info/inful/headlink/internal/slug"
	"git.home.luguber.info/inful/headlink/internal/vault"
)

// Augmenter owns the resolution index: per document, the synthetic entries
// already derived from each real heading and link.
type Augmenter struct {
	logger   *slog.Logger
	recorder metrics.Recorder

	mu   sync.Mutex
	docs map[vault.DocumentKey]*docIndex
}

// docIndex is stamped with the ModTime of the record it was built from. A record
// with a different ModTime starts a fresh index.
type docIndex struct {
	modTime  time.Time
	headings map[uint64]metadata.HeadingCache
	links    map[uint64]metadata.LinkCache
}

// Option configures an Augmenter.
type Option func(*Augmenter)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Augmenter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(a *Augmenter) {
		if r != nil {
			a.recorder = r
		}
	}
}

// New creates an Augmenter with an empty index.
func New(opts ...Option) *Augmenter {
	a := &Augmenter{
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		docs:     make(map[vault.DocumentKey]*docIndex),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Augment appends synthetic entries to rec and returns it.
//
// Every real heading gets a synthetic twin named by its slug, with slugs taken
// from one pass over the record's headings in order. Every real link whose
// fragment is a heading's text gets a twin pointing at the slug, and every link
// whose fragment is a slug gets a twin pointing at the heading text. Entries
// already present in rec are not appended again.
func (a *Augmenter) Augment(rec *metadata.CachedMetadata, key vault.DocumentKey) *metadata.CachedMetadata {
	if rec == nil {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	idx := a.indexFor(key, rec.ModTime)

	presentHeadings := make(map[metadata.HeadingCache]struct{})
	for _, h := range rec.Headings {
		if h.Synthetic {
			presentHeadings[h] = struct{}{}
		}
	}
	presentLinks := make(map[metadata.LinkCache]struct{})
	for _, l := range rec.Links {
		if l.Synthetic {
			presentLinks[l] = struct{}{}
		}
	}

	textToSlug := make(map[string]string)
	slugToText := make(map[string]string)
	s := slug.New()

	addedHeadings := 0
	for _, h := range rec.Headings {
		if h.Synthetic {
			continue
		}
		sl := s.Slug(h.Heading)
		if _, ok := textToSlug[h.Heading]; !ok {
			textToSlug[h.Heading] = sl
		}
		if _, ok := slugToText[sl]; !ok {
			slugToText[sl] = h.Heading
		}

		hash := HeadingHash(h.Heading, h.Position.Start)
		entry, ok := idx.headings[hash]
		if !ok || entry.Heading != sl {
			entry = metadata.HeadingCache{
				Heading:         sl,
				Level:           h.Level,
				Position:        h.Position,
				Synthetic:       true,
				OriginalHeading: h.Heading,
			}
			idx.headings[hash] = entry
		}
		if _, ok := presentHeadings[entry]; ok {
			continue
		}
		rec.Headings = append(rec.Headings, entry)
		presentHeadings[entry] = struct{}{}
		addedHeadings++
	}

	addedLinks := 0
	for _, l := range rec.Links {
		if l.Synthetic {
			continue
		}
		pathPart, frag, ok := markdown.SplitTarget(l.Link)
		if !ok || frag == "" {
			continue
		}

		var replacement string
		if sl, ok := textToSlug[frag]; ok && sl != frag {
			replacement = sl
		} else if text, ok := slugToText[frag]; ok && text != frag {
			replacement = text
		} else {
			continue
		}

		target := markdown.JoinTarget(pathPart, replacement)
		hash := LinkHash(l.Original, l.Position.Start)
		entry, ok := idx.links[hash]
		if !ok || entry.Link != target {
			entry = metadata.LinkCache{
				Link:        target,
				Original:    markdown.ReplaceFragment(l.Original, replacement),
				DisplayText: l.DisplayText,
				Position:    l.Position,
				Synthetic:   true,
			}
			idx.links[hash] = entry
		}
		if _, ok := presentLinks[entry]; ok {
			continue
		}
		rec.Links = append(rec.Links, entry)
		presentLinks[entry] = struct{}{}
		addedLinks++
	}

	if addedHeadings > 0 || addedLinks > 0 {
		a.recorder.AddSyntheticEntries(metrics.EntryHeading, addedHeadings)
		a.recorder.AddSyntheticEntries(metrics.EntryLink, addedLinks)
		a.logger.Debug("Metadata augmented",
			logfields.DocKey(string(key)),
			slog.Int("headings", addedHeadings),
			slog.Int("links", addedLinks))
	}
	return rec
}

func (a *Augmenter) indexFor(key vault.DocumentKey, modTime time.Time) *docIndex {
	idx, ok := a.docs[key]
	if ok && idx.modTime.Equal(modTime) {
		return idx
	}
	idx = &docIndex{
		modTime:  modTime,
		headings: make(map[uint64]metadata.HeadingCache),
		links:    make(map[uint64]metadata.LinkCache),
	}
	a.docs[key] = idx
	a.recorder.SetIndexedDocuments(len(a.docs))
	return idx
}

// Forget drops the index of one document.
func (a *Augmenter) Forget(key vault.DocumentKey) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.docs[key]; !ok {
		return
	}
	delete(a.docs, key)
	a.recorder.SetIndexedDocuments(len(a.docs))
}

// Sweep drops the index of every document that stat reports as gone or as
// modified since its index was built. It returns the number evicted.
func (a *Augmenter) Sweep(stat func(vault.DocumentKey) (time.Time, bool)) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	evicted := 0
	for key, idx := range a.docs {
		modTime, ok := stat(key)
		if ok && modTime.Equal(idx.modTime) {
			continue
		}
		delete(a.docs, key)
		evicted++
	}
	if evicted > 0 {
		a.recorder.SetIndexedDocuments(len(a.docs))
		a.logger.Debug("Resolution index swept", logfields.Count(evicted))
	}
	return evicted
}

// Len returns the number of indexed documents.
func (a *Augmenter) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.docs)
}
