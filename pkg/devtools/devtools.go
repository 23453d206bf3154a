// Package devtools defines the observer hooks the runtime invokes around
// child-context computation and state mutation requests.
//
// Hooks are diagnostic only: the runtime ignores anything they do besides
// their own side effects, and no runtime behavior depends on them.
package devtools

import "github.com/google/uuid"

// Hook receives synchronous notifications from a runtime.
type Hook interface {
	OnBeginProcessingChildContext()
	OnEndProcessingChildContext()
	OnSetState()
}

// EventKind identifies a lifecycle event reported to a LifecycleHook.
type EventKind int

const (
	EventMount EventKind = iota + 1
	EventUpdate
	EventUnmount
	EventFlush
)

func (k EventKind) String() string {
	switch k {
	case EventMount:
		return "mount"
	case EventUpdate:
		return "update"
	case EventUnmount:
		return "unmount"
	case EventFlush:
		return "flush"
	default:
		return "unknown"
	}
}

// Event describes one lifecycle transition.
type Event struct {
	Kind      EventKind
	Instance  uuid.UUID
	Component string
	// Count is the number of instances flushed, for EventFlush.
	Count int
}

// LifecycleHook is optionally implemented by hooks that want lifecycle events
// in addition to the mutation notifications.
type LifecycleHook interface {
	OnLifecycle(Event)
}
