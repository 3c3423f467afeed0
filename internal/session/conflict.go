package session

import (
	"reflect"
	"sort"

	"github.com/akashvibhute/simlane-web-sub000/internal/errors"
)

// conflictSet indexes open conflicts by ID and by entity. At most one
// conflict is open per entity: later operations on a contested entity are
// queued on the existing conflict instead of opening new ones.
type conflictSet struct {
	byID     map[string]*Conflict
	byEntity map[string]*Conflict
}

func newConflictSet() *conflictSet {
	return &conflictSet{
		byID:     make(map[string]*Conflict),
		byEntity: make(map[string]*Conflict),
	}
}

func (s *conflictSet) add(c *Conflict) {
	s.byID[c.ID] = c
	s.byEntity[c.EntityID] = c
}

func (s *conflictSet) get(id string) (*Conflict, bool) {
	c, ok := s.byID[id]
	return c, ok
}

func (s *conflictSet) forEntity(entityID string) (*Conflict, bool) {
	c, ok := s.byEntity[entityID]
	return c, ok
}

func (s *conflictSet) remove(id string) {
	if c, ok := s.byID[id]; ok {
		delete(s.byID, id)
		delete(s.byEntity, c.EntityID)
	}
}

// list returns copies of all open conflicts, oldest first.
func (s *conflictSet) list() []Conflict {
	out := make([]Conflict, 0, len(s.byID))
	for _, c := range s.byID {
		cp := *c
		cp.queued = nil
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DetectedAt.Equal(out[j].DetectedAt) {
			return out[i].DetectedAt.Before(out[j].DetectedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// mergeFields combines the field sets of two concurrent modifications.
// Fields touched by only one side pass through; a field both sides set to
// the same value passes through; a field both sides set to different
// values fails the merge with ErrFieldCollision.
func mergeFields(local, remote map[string]any) (map[string]any, error) {
	merged := copyFields(local)
	for k, rv := range remote {
		lv, ok := merged[k]
		if ok && !reflect.DeepEqual(lv, rv) {
			return nil, errors.NewSessionError("cannot auto-merge field "+k, errors.ErrFieldCollision)
		}
		merged[k] = rv
	}
	return merged, nil
}
