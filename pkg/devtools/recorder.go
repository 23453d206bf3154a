package devtools

import "sync"

// Recorder is a Hook and LifecycleHook that keeps every notification it
// receives. It is intended for tests and tracing tools.
type Recorder struct {
	mu           sync.Mutex
	events       []Event
	setStates    int
	childContext int
}

func (r *Recorder) OnBeginProcessingChildContext() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.childContext++
}

func (r *Recorder) OnEndProcessingChildContext() {}

func (r *Recorder) OnSetState() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setStates++
}

func (r *Recorder) OnLifecycle(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns the recorded lifecycle events in order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many events of kind were recorded.
func (r *Recorder) Count(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// SetStateCalls returns the number of OnSetState notifications.
func (r *Recorder) SetStateCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setStates
}

// ChildContextComputations returns the number of child context computations.
func (r *Recorder) ChildContextComputations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.childContext
}
