package devtools

// ChildContextMessage is the warning raised for a mutation issued while a
// child context is being computed.
const ChildContextMessage = "SetState(...): Cannot call SetState inside ChildContext(); cannot mutate state while computing child context"

// InvalidSetStateWarner warns when a state mutation is requested while a
// child context is being computed. Each runtime owns its own warner, so the
// flag is scoped to that runtime's render passes.
type InvalidSetStateWarner struct {
	warn       func(message string)
	processing int
}

// NewInvalidSetStateWarner returns a warner reporting through warn.
func NewInvalidSetStateWarner(warn func(message string)) *InvalidSetStateWarner {
	return &InvalidSetStateWarner{warn: warn}
}

// Processing reports whether a child context computation is in progress.
func (w *InvalidSetStateWarner) Processing() bool {
	return w.processing > 0
}

func (w *InvalidSetStateWarner) OnBeginProcessingChildContext() {
	w.processing++
}

func (w *InvalidSetStateWarner) OnEndProcessingChildContext() {
	if w.processing > 0 {
		w.processing--
	}
}

func (w *InvalidSetStateWarner) OnSetState() {
	if w.processing == 0 || w.warn == nil {
		return
	}
	w.warn(ChildContextMessage)
}
