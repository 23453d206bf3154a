package core

import (
	"fmt"

	"github.com/go-drift/reconciler/pkg/errors"
)

func renderSideEffectDiagnostic(owner *instance, op string) *errors.Diagnostic {
	return &errors.Diagnostic{
		Kind:      errors.KindRenderSideEffect,
		Component: owner.def.name,
		Op:        op,
		Message: fmt.Sprintf(
			"%s(...): Cannot update during an existing state transition (such as within Render of %s). Render methods should be a pure function of props and state; move side effects to WillMount or DidUpdate.",
			op, owner.def.name),
	}
}

func undecidedDiagnostic(inst *instance) *errors.Diagnostic {
	return &errors.Diagnostic{
		Kind:      errors.KindNonBooleanDecision,
		Component: inst.def.name,
		Op:        "ShouldUpdate",
		Message: fmt.Sprintf(
			"%s.ShouldUpdate(): Returned an undecided value. The instance will update. Return core.Proceed or core.Skip.",
			inst.def.name),
	}
}

func nestedRenderDiagnostic(owner *instance) *errors.Diagnostic {
	return &errors.Diagnostic{
		Kind:      errors.KindNestedRender,
		Component: owner.def.name,
		Op:        "Render",
		Message: fmt.Sprintf(
			"Render(): Render methods should be a pure function of props and state; triggering nested component updates from render is not allowed. If necessary, trigger nested updates in DidUpdate. Check the render method of %s.",
			owner.def.name),
	}
}

func undeclaredChildContextDiagnostic(inst *instance, key string) *errors.Diagnostic {
	return &errors.Diagnostic{
		Kind:      errors.KindUndeclaredChildContext,
		Component: inst.def.name,
		Op:        "ChildContext",
		Message: fmt.Sprintf(
			"%s.ChildContext(): key %q is not defined in its child context types.",
			inst.def.name, key),
	}
}

func unmountedDiagnostic(name, op string) *errors.Diagnostic {
	return &errors.Diagnostic{
		Kind:      errors.KindUnmountedMutation,
		Component: name,
		Op:        op,
		Message: fmt.Sprintf(
			"%s(...): Can only update a mounted or mounting component. This usually means you called %s() on an unmounted component. This is a no-op. Please check the code for the %s component.",
			op, op, name),
	}
}
