// Package rewrite turns a heading link typed with its heading text into the slug
// form the host expects, as soon as the closing parenthesis is typed.
package rewrite

import (
	"context"
	"log/slog"
	"regexp"

	"git.home.luguber.info/inful/headlink/internal/editor"
	"git.home.luguber.info/inful/headlink/internal/foundation/errors"
	"git.home.luguber.info/inful/headlink/internal/logfields"
	"git.home.luguber.info/inful/headlink/internal/markdown"
	"git.home.luguber.info/inful/headlink/internal/metrics"
	"git.home.luguber.info/inful/headlink/internal/translate"
)

// trailingLink matches `[display](path#fragment)` ending exactly at the cursor.
var trailingLink = regexp.MustCompile(`\[[^\]]*\]\(([^#)]*)#([^)]+)\)$`)

// Rewriter reacts to editor changes.
type Rewriter struct {
	tr       *translate.Translator
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithLogger sets the logger. Defaults to the translator's.
func WithLogger(l *slog.Logger) Option {
	return func(r *Rewriter) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Rewriter) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// New creates a Rewriter resolving targets through tr.
func New(tr *translate.Translator, opts ...Option) *Rewriter {
	r := &Rewriter{
		tr:       tr,
		logger:   tr.Logger(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnChange inspects the cursor line of ed. When the text before the cursor ends
// in a heading link whose fragment is the text of a heading in the target, the
// fragment is replaced with that heading's slug. It reports whether the buffer
// was changed. All failures are logged and leave the buffer untouched.
func (r *Rewriter) OnChange(ctx context.Context, ed editor.Editor) bool {
	if ed == nil || ed.Path() == "" {
		r.recorder.IncRewrite(metrics.ResultFailed)
		err := errors.EditorError("no active editor document").Build()
		r.logger.Warn("Rewrite skipped", logfields.Error(err))
		return false
	}

	pos := ed.Cursor()
	line := ed.Line(pos.Line)
	if pos.Ch < 0 || pos.Ch > len(line) {
		return false
	}
	prefix := line[:pos.Ch]

	m := trailingLink.FindStringSubmatchIndex(prefix)
	if m == nil {
		return false
	}
	pathPart := prefix[m[2]:m[3]]
	fragStart, fragEnd := m[4], m[5]
	raw := prefix[fragStart:fragEnd]
	candidate := markdown.DecodeFragment(raw)

	target, err := r.tr.ResolveTarget(pathPart, ed.Path())
	if err != nil {
		r.skip("Rewrite target not found", pathPart, ed.Path(), err)
		return false
	}
	seq, err := r.tr.Slugs(ctx, target)
	if err != nil {
		r.skip("Rewrite target unreadable", pathPart, ed.Path(), err)
		return false
	}

	s, found := "", false
	for h, hs := range seq {
		if h.Text == candidate {
			s, found = hs, true
			break
		}
	}
	if !found || s == raw {
		r.recorder.IncRewrite(metrics.ResultSkipped)
		return false
	}

	from := editor.Position{Line: pos.Line, Ch: fragStart}
	to := editor.Position{Line: pos.Line, Ch: fragEnd}
	if err := ed.ReplaceRange(s, from, to); err != nil {
		r.recorder.IncRewrite(metrics.ResultFailed)
		r.logger.Warn("Rewrite failed",
			logfields.SourcePath(ed.Path()),
			logfields.Line(pos.Line),
			logfields.Error(err))
		return false
	}

	r.recorder.IncRewrite(metrics.ResultApplied)
	r.logger.Debug("Fragment rewritten",
		logfields.Heading(candidate),
		logfields.Slug(s),
		logfields.SourcePath(ed.Path()),
		logfields.Line(pos.Line),
		logfields.Column(fragStart))
	return true
}

func (r *Rewriter) skip(msg, pathPart, sourcePath string, err error) {
	r.recorder.IncRewrite(metrics.ResultSkipped)
	r.logger.Warn(msg,
		logfields.Path(pathPart),
		logfields.SourcePath(sourcePath),
		logfields.Error(err))
}
