// Package errors provides structured error and diagnostic handling for the
// reconciler runtime.
package errors

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUpdateLoop is returned when a flush keeps re-dirtying instances
	// beyond the configured pass limit.
	ErrUpdateLoop = errors.New("maximum update depth exceeded: an instance keeps scheduling updates during its own update")
	// ErrNilDefinition is returned when Mount is called without a definition.
	ErrNilDefinition = errors.New("component definition is nil")
	// ErrNoContainer is returned when a root operation receives a nil container.
	ErrNoContainer = errors.New("target container is nil")
)

// DiagnosticKind identifies the category of a diagnostic.
type DiagnosticKind int

const (
	// KindUnknown indicates a diagnostic of unknown type.
	KindUnknown DiagnosticKind = iota
	// KindInvalidContextMutation indicates a state mutation while child
	// context was being computed.
	KindInvalidContextMutation
	// KindUnmountedMutation indicates a mutation request on a destroyed instance.
	KindUnmountedMutation
	// KindRenderSideEffect indicates a state mutation issued from a render.
	KindRenderSideEffect
	// KindNonBooleanDecision indicates ShouldUpdate returned an undecided value.
	KindNonBooleanDecision
	// KindNestedRender indicates a top-level render issued from inside a render.
	KindNestedRender
	// KindLifecycleTypo indicates a method that looks like a misspelled hook.
	KindLifecycleTypo
	// KindUndeclaredChildContext indicates a child context key that is not
	// listed in the definition's child context types.
	KindUndeclaredChildContext
)

func (k DiagnosticKind) String() string {
	switch k {
	case KindInvalidContextMutation:
		return "invalid-context-mutation"
	case KindUnmountedMutation:
		return "unmounted-mutation"
	case KindRenderSideEffect:
		return "render-side-effect"
	case KindNonBooleanDecision:
		return "non-boolean-decision"
	case KindNestedRender:
		return "nested-render"
	case KindLifecycleTypo:
		return "lifecycle-typo"
	case KindUndeclaredChildContext:
		return "undeclared-child-context"
	default:
		return "unknown"
	}
}

// Diagnostic is a non-fatal misuse report. Rendering and state updates
// proceed after a diagnostic is raised.
type Diagnostic struct {
	// Kind categorizes the diagnostic.
	Kind DiagnosticKind
	// Component is the definition name involved, if known.
	Component string
	// Op is the operation that triggered it (e.g., "SetState").
	Op string
	// Message is the human-readable warning text.
	Message string
	// Timestamp is when the diagnostic was raised.
	Timestamp time.Time
}

func (d *Diagnostic) Error() string {
	return "Warning: " + d.Message
}

// Phase names the lifecycle step in which a fatal error occurred.
type Phase string

const (
	PhaseConstruct        Phase = "construct"
	PhaseInitialState     Phase = "initial-state"
	PhaseWillMount        Phase = "will-mount"
	PhaseRender           Phase = "render"
	PhaseChildContext     Phase = "child-context"
	PhaseDidMount         Phase = "did-mount"
	PhaseWillReceiveProps Phase = "will-receive-props"
	PhaseShouldUpdate     Phase = "should-update"
	PhaseWillUpdate       Phase = "will-update"
	PhaseDidUpdate        Phase = "did-update"
	PhaseWillUnmount      Phase = "will-unmount"
	PhaseCallback         Phase = "callback"
	PhaseBatch            Phase = "batch"
)

// RenderError represents a fatal failure inside render or a lifecycle hook.
type RenderError struct {
	// Component is the definition name of the failing instance.
	Component string
	// Phase is the lifecycle step that failed.
	Phase Phase
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics with non-error values).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RenderError) Error() string {
	where := e.Phase
	if where == "" {
		where = PhaseRender
	}
	name := e.Component
	if name == "" {
		name = "<root>"
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %s (%s): %v", name, where, e.Err)
	}
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s (%s): %v", name, where, e.Recovered)
	}
	return fmt.Sprintf("unknown error in %s (%s)", name, where)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic outside a component hook.
type PanicError struct {
	// Op is the operation that panicked.
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives diagnostics and errors reported by the runtime.
type ErrorHandler interface {
	// HandleDiagnostic is called for every non-fatal diagnostic.
	HandleDiagnostic(d *Diagnostic)
	// HandleRenderError is called when a render fails outside an entry point
	// that can return the error to its caller.
	HandleRenderError(err *RenderError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
