package plan

import (
	"log/slog"
	"path/filepath"
	"strings"

	"reorg/internal/logging"
	"reorg/internal/similarity"
)

// Options configures a Planner.
type Options struct {
	// Gate controls similarity gating for structural matches. Nil disables
	// gating.
	Gate *similarity.Gate
	// Exclude lists keywords; any directory whose full path contains one is
	// skipped during descent, subtree included.
	Exclude []string
	// ArchiveExtensions and MediaExtensions identify single-file wrapper
	// payloads (lowercase, dot-prefixed).
	ArchiveExtensions []string
	MediaExtensions   []string
	Logger            *slog.Logger
}

// Planner walks directory trees and emits ordered, immutable Plans using one
// of the detection/construction strategies.
type Planner struct {
	gate        *similarity.Gate
	exclude     []string
	archiveExts map[string]struct{}
	mediaExts   map[string]struct{}
	logger      *slog.Logger
}

// NewPlanner constructs a planner from the supplied options.
func NewPlanner(opts Options) *Planner {
	gate := opts.Gate
	if gate == nil {
		gate = similarity.Disabled()
	}
	exclude := make([]string, 0, len(opts.Exclude))
	for _, kw := range opts.Exclude {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			exclude = append(exclude, kw)
		}
	}
	return &Planner{
		gate:        gate,
		exclude:     exclude,
		archiveExts: extensionSet(opts.ArchiveExtensions),
		mediaExts:   extensionSet(opts.MediaExtensions),
		logger:      logging.NewComponentLogger(opts.Logger, "planner"),
	}
}

// ParseExcludeKeywords splits a comma-separated keyword string into the
// exclusion list understood by Options.Exclude.
func ParseExcludeKeywords(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// excluded reports whether the full path contains any exclusion keyword.
// Applied during descent so excluded subtrees are never walked.
func (p *Planner) excluded(path string) bool {
	for _, kw := range p.exclude {
		if strings.Contains(path, kw) {
			return true
		}
	}
	return false
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

func hasExtension(name string, set map[string]struct{}) bool {
	_, ok := set[strings.ToLower(filepath.Ext(name))]
	return ok
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func moveOp(src, dst string) Operation {
	return Operation{Type: OpMove, Src: src, Dst: dst}
}

func copyOp(src, dst string) Operation {
	return Operation{Type: OpCopy, Src: src, Dst: dst}
}

func deleteDirOp(src string) Operation {
	return Operation{Type: OpDeleteDir, Src: src}
}

func createDirOp(src string) Operation {
	return Operation{Type: OpCreateDir, Src: src}
}
