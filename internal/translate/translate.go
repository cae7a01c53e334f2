// Package translate converts heading links between their slug form and their
// heading-text form by scanning the target note.
package translate

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/headlink/internal/foundation/errors"
	"git.home.luguber.info/inful/headlink/internal/headings"
	"git.home.luguber.info/inful/headlink/internal/logfields"
	"git.home.luguber.info/inful/headlink/internal/markdown"
	"git.home.luguber.info/inful/headlink/internal/metrics"
	"git.home.luguber.info/inful/headlink/internal/slug"
	"git.home.luguber.info/inful/headlink/internal/vault"
)

// Translator resolves link targets in a vault and matches fragments against the
// target's headings. Every lookup performs one full scan with a fresh slugger;
// heading lists are never reused between calls because duplicate suffixes depend
// on the whole document.
type Translator struct {
	vault    vault.Vault
	logger   *slog.Logger
	recorder metrics.Recorder
	scan     headings.Options
}

// Option configures a Translator.
type Option func(*Translator)

// WithLogger sets the logger used for fail-soft warnings.
func WithLogger(l *slog.Logger) Option {
	return func(t *Translator) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(t *Translator) {
		if r != nil {
			t.recorder = r
		}
	}
}

// WithScanOptions sets which lines the heading scan ignores.
func WithScanOptions(o headings.Options) Option {
	return func(t *Translator) { t.scan = o }
}

// New creates a Translator over v.
func New(v vault.Vault, opts ...Option) *Translator {
	t := &Translator{
		vault:    v,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Vault returns the vault the translator reads from.
func (t *Translator) Vault() vault.Vault { return t.vault }

// Logger returns the translator's logger.
func (t *Translator) Logger() *slog.Logger { return t.logger }

// ResolveTarget finds the document a link's path part points to. An empty path
// part means the source document itself.
func (t *Translator) ResolveTarget(pathPart, sourcePath string) (vault.File, error) {
	target := sourcePath
	if pathPart != "" {
		target = vault.Resolve(vault.Dir(sourcePath), pathPart)
	}
	f, ok := t.vault.ResolveFile(target)
	if !ok {
		return vault.File{}, errors.NotFoundError("link target not found").
			WithContext("path", pathPart).
			WithContext("resolved", target).
			WithContext("source_path", sourcePath).
			Build()
	}
	return f, nil
}

// Slugs reads f and returns its headings paired with their slugs in document
// order. Each range over the result starts a fresh slug pass.
func (t *Translator) Slugs(ctx context.Context, f vault.File) (iter.Seq2[headings.Heading, string], error) {
	text, err := t.vault.ReadText(ctx, f)
	if err != nil {
		return nil, errors.FileSystemError("failed to read document").
			WithCause(err).
			Warning().
			WithContext("path", f.Path).
			Build()
	}

	return func(yield func(headings.Heading, string) bool) {
		start := time.Now()
		defer func() { t.recorder.ObserveScanDuration(time.Since(start)) }()

		s := slug.New()
		for h := range headings.Scan(text, t.scan) {
			if !yield(h, s.Slug(h.Text)) {
				return
			}
		}
	}, nil
}

// HeadingForFragment returns the text of the first heading in the target whose
// slug equals fragment. fragment may be percent-encoded.
func (t *Translator) HeadingForFragment(ctx context.Context, pathPart, fragment, sourcePath string) (string, error) {
	f, err := t.ResolveTarget(pathPart, sourcePath)
	if err != nil {
		return "", err
	}
	seq, err := t.Slugs(ctx, f)
	if err != nil {
		return "", err
	}

	want := markdown.DecodeFragment(fragment)
	for h, s := range seq {
		if s == want {
			return h.Text, nil
		}
	}
	return "", errors.NotFoundError("no heading matches fragment").
		WithContext("path", f.Path).
		WithContext("fragment", fragment).
		Build()
}

// SlugForHeading returns the slug of the first heading in the target whose text
// equals heading exactly.
func (t *Translator) SlugForHeading(ctx context.Context, pathPart, heading, sourcePath string) (string, error) {
	f, err := t.ResolveTarget(pathPart, sourcePath)
	if err != nil {
		return "", err
	}
	seq, err := t.Slugs(ctx, f)
	if err != nil {
		return "", err
	}

	for h, s := range seq {
		if h.Text == heading {
			return s, nil
		}
	}
	return "", errors.NotFoundError("no heading matches text").
		WithContext("path", f.Path).
		WithContext("heading", heading).
		Build()
}

// FragmentToHeadingText is the fail-soft form of HeadingForFragment: when the
// target or a matching heading is missing it logs a warning and returns fragment
// alone. Callers holding a whole link should use TranslateLink, which returns the
// link unchanged instead ("missing.md#foo" stays "missing.md#foo").
func (t *Translator) FragmentToHeadingText(ctx context.Context, pathPart, fragment, sourcePath string) string {
	text, err := t.HeadingForFragment(ctx, pathPart, fragment, sourcePath)
	if err != nil {
		t.logger.Warn("Fragment left untranslated",
			logfields.Path(pathPart),
			logfields.Fragment(fragment),
			logfields.SourcePath(sourcePath),
			logfields.Error(err))
		return fragment
	}
	return text
}

// TranslateLink rewrites "path#slug" into "path#Heading Text" before navigation.
// Link text without a fragment, or whose fragment cannot be resolved, is
// returned unchanged.
func (t *Translator) TranslateLink(ctx context.Context, linktext, sourcePath string) string {
	pathPart, fragment, ok := markdown.SplitTarget(linktext)
	if !ok || fragment == "" {
		t.recorder.IncTranslation(metrics.ResultUnchanged)
		return linktext
	}

	text, err := t.HeadingForFragment(ctx, pathPart, fragment, sourcePath)
	if err != nil {
		t.recorder.IncTranslation(metrics.ResultUnresolved)
		t.logger.Warn("Link left untranslated",
			slog.String("link", linktext),
			logfields.SourcePath(sourcePath),
			logfields.Error(err))
		return linktext
	}

	t.recorder.IncTranslation(metrics.ResultTranslated)
	t.logger.Debug("Link translated",
		slog.String("link", linktext),
		logfields.Heading(text),
		logfields.SourcePath(sourcePath))
	return markdown.JoinTarget(pathPart, text)
}
