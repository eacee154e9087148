package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alnah/go-md2deck/internal/resolve"
	"github.com/alnah/go-md2deck/internal/tags"
)

// ErrTagResolve indicates a tag could not be resolved. The wrapped error
// carries the cause (for example resolve.ErrDataRead).
var ErrTagResolve = errors.New("tag resolution failed")

// TagSubstitutor replaces every tag in a document with its HTML fragment.
type TagSubstitutor interface {
	Substitute(ctx context.Context, content string) (string, error)
}

// TagEngine resolves tags through a resolver registry.
//
// All occurrences are found by one scan of the input before anything is
// replaced, so text produced by a resolver is never scanned again.
// Resolution runs kind by kind (image, table, chart, video, script) and in
// document order within a kind; that order decides which chart gets which
// generated id.
type TagEngine struct {
	registry resolve.Registry
	rc       *resolve.Context
	logger   *slog.Logger
}

// NewTagEngine creates a TagEngine. rc must be fresh for each build.
// A nil logger discards output.
func NewTagEngine(registry resolve.Registry, rc *resolve.Context, logger *slog.Logger) *TagEngine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &TagEngine{registry: registry, rc: rc, logger: logger}
}

// Substitute returns content with every tag replaced. The first failing tag
// aborts substitution; the error names its kind, primary argument and line.
func (e *TagEngine) Substitute(ctx context.Context, content string) (string, error) {
	occs := tags.Scan(content)
	if len(occs) == 0 {
		return content, nil
	}

	fragments := make([]string, len(occs))
	for _, kind := range tags.Kinds {
		for i, occ := range occs {
			if occ.Kind != kind {
				continue
			}
			if err := ctx.Err(); err != nil {
				return "", err
			}

			line := tags.LineOf(content, occ.Start)
			fragment, err := e.registry.Resolve(e.rc, occ)
			if err != nil {
				return "", fmt.Errorf("%w: %s tag %q at line %d: %w", ErrTagResolve, occ.Kind, occ.Primary, line, err)
			}
			e.logger.Debug("resolved tag", "kind", occ.Kind.String(), "primary", occ.Primary, "line", line)
			fragments[i] = fragment
		}
	}

	return splice(content, occs, fragments), nil
}

// splice replaces each occurrence span with its fragment. Occurrences are in
// ascending, non-overlapping span order as returned by tags.Scan.
func splice(content string, occs []tags.Occurrence, fragments []string) string {
	var b strings.Builder
	b.Grow(len(content))

	last := 0
	for i, occ := range occs {
		b.WriteString(content[last:occ.Start])
		b.WriteString(fragments[i])
		last = occ.End
	}
	b.WriteString(content[last:])

	return b.String()
}

// Compile-time interface check.
var _ TagSubstitutor = (*TagEngine)(nil)
