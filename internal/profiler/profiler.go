// Package profiler provides lightweight scoped timing spans, per
// §4.11. original_source's Profiler (muon/profiling/profiler.hpp) wraps
// a Tracy GPU profiling context (TracyVkContext/TracyVkCollect); no
// tracing backend appears anywhere in the corpus, so Muon replaces it
// with a minimal stdlib time.Since/log/slog implementation rather than
// carrying a dropped dependency forward.
package profiler

import (
	"log/slog"
	"time"
)

// Profiler brackets named spans of work and logs their elapsed
// duration at debug level.
type Profiler struct {
	log *slog.Logger
}

// New constructs a Profiler. A nil logger falls back to slog.Default.
func New(log *slog.Logger) *Profiler {
	if log == nil {
		log = slog.Default()
	}
	return &Profiler{log: log}
}

// Scope starts a named span and returns a closure that logs its
// elapsed duration at slog.LevelDebug when called. Intended to
// bracket begin_frame/end_frame and AssetManager upload sessions, per
// §4.11.
func (p *Profiler) Scope(name string) func() {
	start := time.Now()
	return func() {
		p.log.Debug("profiler: scope finished", "name", name, "elapsed", time.Since(start))
	}
}
