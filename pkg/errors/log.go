package errors

import (
	"log/slog"
)

// LogHandler is an ErrorHandler that writes through slog.
type LogHandler struct {
	// Logger receives the records. Nil means slog.Default().
	Logger *slog.Logger
	// Verbose enables stack traces on errors and panics.
	Verbose bool
}

func (h *LogHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// HandleDiagnostic logs a diagnostic at warn level.
func (h *LogHandler) HandleDiagnostic(d *Diagnostic) {
	if d == nil {
		return
	}
	attrs := []any{"kind", d.Kind.String()}
	if d.Component != "" {
		attrs = append(attrs, "component", d.Component)
	}
	if d.Op != "" {
		attrs = append(attrs, "op", d.Op)
	}
	h.logger().Warn(d.Message, attrs...)
}

// HandleRenderError logs a render error at error level.
func (h *LogHandler) HandleRenderError(err *RenderError) {
	if err == nil {
		return
	}
	attrs := []any{"component", err.Component, "phase", string(err.Phase)}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.logger().Error(err.Error(), attrs...)
}

// HandlePanic logs a recovered panic at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	attrs := []any{"value", err.Value}
	if err.Op != "" {
		attrs = append(attrs, "op", err.Op)
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.logger().Error("recovered panic", attrs...)
}
