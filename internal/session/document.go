package session

import (
	"sort"

	"github.com/akashvibhute/simlane-web-sub000/internal/event"
)

// Entity is one editable unit of the shared plan: a stint or an allocation
// entry. Fields is an open field map so the document does not need to know
// the plan schema; Version identifies the operation that produced the
// current state.
type Entity struct {
	ID      string
	Fields  map[string]any
	Version event.Version
}

// clone returns a deep copy of the entity.
func (e *Entity) clone() *Entity {
	if e == nil {
		return nil
	}
	return &Entity{
		ID:      e.ID,
		Fields:  copyFields(e.Fields),
		Version: e.Version,
	}
}

// document is the local replica of the shared plan. It is not safe for
// concurrent use; the Coordinator serializes access.
type document struct {
	entities map[string]*Entity
}

func newDocument() *document {
	return &document{entities: make(map[string]*Entity)}
}

// snapshot returns a deep copy of the entity, or nil if it does not exist.
func (d *document) snapshot(id string) *Entity {
	return d.entities[id].clone()
}

// version returns the current version of the entity; the zero Version if
// the entity does not exist.
func (d *document) version(id string) event.Version {
	if e, ok := d.entities[id]; ok {
		return e.Version
	}
	return event.Version{}
}

// apply mutates the document with the given operation. Adds and replaces
// set the entity's fields wholesale, modifies merge fields over the
// existing ones, deletes remove it.
func (d *document) apply(op event.Operation) {
	switch op.Kind {
	case event.OpDelete:
		delete(d.entities, op.EntityID)
	case event.OpAdd, event.OpReplace:
		d.entities[op.EntityID] = &Entity{
			ID:      op.EntityID,
			Fields:  copyFields(op.Fields),
			Version: op.Version(),
		}
	case event.OpModify:
		e, ok := d.entities[op.EntityID]
		if !ok {
			e = &Entity{ID: op.EntityID, Fields: make(map[string]any)}
			d.entities[op.EntityID] = e
		}
		for k, v := range op.Fields {
			e.Fields[k] = v
		}
		e.Version = op.Version()
	}
}

// stamp overrides the version of an existing entity. Merge resolutions use
// it so both members of a settled conflict agree on the entity's base.
func (d *document) stamp(id string, v event.Version) {
	if e, ok := d.entities[id]; ok {
		e.Version = v
	}
}

// list returns deep copies of all entities, sorted by ID.
func (d *document) list() []Entity {
	out := make([]Entity, 0, len(d.entities))
	for _, e := range d.entities {
		out = append(out, *e.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// copyFields returns a shallow copy of a field map. A nil input yields an
// empty map so callers can write to the result.
func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
