package core

import "github.com/google/uuid"

// registry indexes live instances by ID.
type registry struct {
	live map[uuid.UUID]*instance
}

func newRegistry() registry {
	return registry{live: make(map[uuid.UUID]*instance)}
}

func (r *registry) add(inst *instance) {
	r.live[inst.id] = inst
}

func (r *registry) remove(inst *instance) {
	delete(r.live, inst.id)
}

func (r *registry) lookup(id uuid.UUID) (*instance, bool) {
	inst, ok := r.live[id]
	return inst, ok
}

func (r *registry) len() int {
	return len(r.live)
}
