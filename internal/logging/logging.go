// Package logging centralizes muon's diagnostic output. The teacher
// opens three plain *log.Logger files (info/warn/error) in core.go and
// routes Vulkan debug-report callbacks through log.Printf in
// platform.go; muon generalizes both onto one structured *slog.Logger,
// following the same severity-routing shape the later goki/cogentcore
// vgpu lineage already adopted (slog.Error in its Memory manager).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	vk "github.com/vulkan-go/vulkan"
)

// New builds the process-wide logger. debug selects a human-readable
// text handler at Debug level; otherwise a JSON handler at Info level
// is used, matching how the teacher's three separate files collapse
// here into one stream distinguished by a "level" field instead of by
// destination file.
func New(w io.Writer, debug bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelInfo
	var handler slog.Handler
	if debug {
		level = slog.LevelDebug
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}

// LogDebugReport routes a Vulkan debug-report callback's flags and
// message onto the logger at the matching slog level, generalizing the
// teacher's dbgCallbackFunc severity switch in platform.go.
func LogDebugReport(log *slog.Logger, flags vk.DebugReportFlags, objType vk.DebugReportObjectType, message string) {
	attrs := []any{slog.String("object_type", fmt.Sprintf("%d", objType)), slog.String("stage", "vulkan-validation")}
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		log.Error(message, attrs...)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		log.Warn(message, attrs...)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		log.Warn(message, attrs...)
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		log.Info(message, attrs...)
	default:
		log.Debug(message, attrs...)
	}
}
