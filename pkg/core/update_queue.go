package core

import (
	"maps"
	"reflect"
)

type updateKind int

const (
	updateMerge updateKind = iota
	updateFunc
	updateReplace
	updateForce
)

// update is one pending state request.
type update struct {
	kind     updateKind
	partial  map[string]any
	updater  func(prev any, props Props) map[string]any
	value    any
	callback func()
}

// updateQueue holds an instance's pending requests in arrival order.
type updateQueue struct {
	ops []update
}

func (q *updateQueue) push(u update) {
	q.ops = append(q.ops, u)
}

func (q *updateQueue) pending() bool {
	return len(q.ops) > 0
}

func (q *updateQueue) clear() {
	clear(q.ops)
	q.ops = q.ops[:0]
}

// drain folds every pending request over state and empties the queue. It
// returns the folded state, whether a forced update was requested, and the
// completion callbacks in request order.
func (q *updateQueue) drain(state any, props Props) (next any, force bool, callbacks []func()) {
	ops := q.ops
	q.ops = nil
	for _, op := range ops {
		if op.kind == updateForce {
			force = true
		}
		if op.callback != nil {
			callbacks = append(callbacks, op.callback)
		}
	}
	return fold(state, ops, props), force, callbacks
}

// fold applies ops to state left to right. Replace sets the accumulator to
// the exact value given. Merge and updater results shallow-merge into a map
// copy of the accumulator, so a merge after a replace converts the replaced
// value to a plain map and its type is not preserved.
func fold(state any, ops []update, props Props) any {
	acc := state
	owned := false
	for _, op := range ops {
		switch op.kind {
		case updateReplace:
			acc = op.value
			owned = false
		case updateMerge:
			if op.partial == nil {
				continue
			}
			acc = mergeInto(acc, op.partial, owned)
			owned = true
		case updateFunc:
			if op.updater == nil {
				continue
			}
			partial := op.updater(acc, props)
			if partial == nil {
				continue
			}
			acc = mergeInto(acc, partial, owned)
			owned = true
		}
	}
	return acc
}

// mergeInto shallow-merges partial over acc. When owned is false acc is not
// modified.
func mergeInto(acc any, partial map[string]any, owned bool) map[string]any {
	var out map[string]any
	if m, ok := acc.(map[string]any); ok && owned {
		out = m
	} else {
		out = stateMap(acc)
	}
	maps.Copy(out, partial)
	return out
}

// stateMap returns a fresh map holding the fields of a state value. Maps with
// string keys are copied; structs contribute their exported fields; anything
// else yields an empty map.
func stateMap(state any) map[string]any {
	switch s := state.(type) {
	case nil:
		return make(map[string]any)
	case map[string]any:
		if s == nil {
			return make(map[string]any)
		}
		return maps.Clone(s)
	}
	v := reflect.ValueOf(state)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return make(map[string]any)
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map:
		out := make(map[string]any, v.Len())
		if v.Type().Key().Kind() != reflect.String {
			return out
		}
		iter := v.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out
	case reflect.Struct:
		t := v.Type()
		out := make(map[string]any, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			out[f.Name] = v.Field(i).Interface()
		}
		return out
	default:
		return make(map[string]any)
	}
}
