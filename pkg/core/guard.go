package core

import (
	"fmt"

	"github.com/go-drift/reconciler/pkg/errors"
)

// hookPanic carries a RenderError up the stack to the entry point that
// started the batch. Guards re-panic it unchanged, so the innermost failing
// hook is the one reported.
type hookPanic struct {
	err *errors.RenderError
}

// guard runs fn and converts a panic into a hookPanic attributed to inst and
// phase.
func (rt *Runtime) guard(inst *instance, phase errors.Phase, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if hp, ok := r.(*hookPanic); ok {
				panic(hp)
			}
			panic(&hookPanic{err: newRenderError(inst, phase, r)})
		}
	}()
	fn()
}

func newRenderError(inst *instance, phase errors.Phase, r any) *errors.RenderError {
	re := &errors.RenderError{
		Phase:      phase,
		Recovered:  r,
		StackTrace: errors.CaptureStack(),
	}
	if inst != nil {
		re.Component = inst.def.name
	}
	if err, ok := r.(error); ok {
		re.Err = err
	}
	return re
}

// recoveredError converts a value recovered at an entry point to an error.
func recoveredError(r any) error {
	switch v := r.(type) {
	case *hookPanic:
		return v.err
	case error:
		return &errors.RenderError{Phase: errors.PhaseBatch, Recovered: v, Err: v, StackTrace: errors.CaptureStack()}
	default:
		return &errors.RenderError{Phase: errors.PhaseBatch, Recovered: v, Err: fmt.Errorf("%v", v), StackTrace: errors.CaptureStack()}
	}
}
