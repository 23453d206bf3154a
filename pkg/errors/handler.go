package errors

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultHandler is the global error handler.
	// It defaults to a LogHandler writing through slog.Default().
	DefaultHandler ErrorHandler = &LogHandler{}

	handlerMu sync.RWMutex
)

// SetHandler configures the global error handler.
// Pass nil to restore the default LogHandler.
func SetHandler(h ErrorHandler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	if h == nil {
		DefaultHandler = &LogHandler{}
	} else {
		DefaultHandler = h
	}
}

func getHandler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// ReportDiagnostic sends a diagnostic to the global handler.
// If d.Timestamp is zero, it is set to the current time.
func ReportDiagnostic(d *Diagnostic) {
	if d == nil {
		return
	}
	if d.Timestamp.IsZero() {
		d.Timestamp = time.Now()
	}
	if h := getHandler(); h != nil {
		h.HandleDiagnostic(d)
	}
}

// ReportRenderError sends a render error to the global handler.
func ReportRenderError(err *RenderError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h := getHandler(); h != nil {
		h.HandleRenderError(err)
	}
}

// ReportPanic sends a panic error to the global handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if h := getHandler(); h != nil {
		h.HandlePanic(err)
	}
}

// Recover is a helper for deferred panic recovery.
// Usage: defer errors.Recover("operation.name")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(&PanicError{
			Op:         op,
			Value:      r,
			StackTrace: CaptureStack(),
			Timestamp:  time.Now(),
		})
	}
}

// HandlerWarner forwards diagnostics to the global handler. It is the
// runtime's default diagnostics collaborator.
type HandlerWarner struct{}

// Warn reports a bare message as a diagnostic of unknown kind.
func (HandlerWarner) Warn(message string) {
	ReportDiagnostic(&Diagnostic{Message: message})
}

// WarnDiagnostic reports a fully classified diagnostic.
func (HandlerWarner) WarnDiagnostic(d *Diagnostic) {
	ReportDiagnostic(d)
}

// CaptureStack returns the current call stack as a string.
// It skips the first few frames to exclude the CaptureStack call itself.
func CaptureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(frame.Line))
		sb.WriteString("\n")
		if !more {
			break
		}
	}
	return sb.String()
}
