package session

import (
	"sort"
	"sync"
	"time"
)

// presenceTracker maintains the local view of the other session members.
// It has its own lock so the event handler can update presence without
// touching the document lock.
type presenceTracker struct {
	mu         sync.RWMutex
	members    map[string]*Collaborator
	idleAfter  time.Duration
	evictAfter time.Duration
}

func newPresenceTracker(idleAfter, evictAfter time.Duration) *presenceTracker {
	return &presenceTracker{
		members:    make(map[string]*Collaborator),
		idleAfter:  idleAfter,
		evictAfter: evictAfter,
	}
}

// observe upserts a member and marks it active. An empty displayName keeps
// the name already on record.
func (p *presenceTracker) observe(actorID, displayName string, at time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, ok := p.members[actorID]
	if !ok {
		m = &Collaborator{ActorID: actorID}
		p.members[actorID] = m
	}
	if displayName != "" {
		m.DisplayName = displayName
	}
	m.State = PresenceActive
	m.LastSeen = at
}

// touch refreshes a member's liveness. Unknown actors are added: a
// heartbeat can arrive before the user-active announcement on rejoin.
func (p *presenceTracker) touch(actorID string, at time.Time) {
	p.observe(actorID, "", at)
}

// markIdle demotes a member without changing LastSeen.
func (p *presenceTracker) markIdle(actorID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.members[actorID]; ok {
		m.State = PresenceIdle
	}
}

// setCursor records the entity a member is pointing at.
func (p *presenceTracker) setCursor(actorID, entityID string, at time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.members[actorID]
	if !ok {
		m = &Collaborator{ActorID: actorID}
		p.members[actorID] = m
	}
	m.Cursor = entityID
	m.State = PresenceActive
	m.LastSeen = at
}

// clearCursor hides a member's cursor.
func (p *presenceTracker) clearCursor(actorID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.members[actorID]; ok {
		m.Cursor = ""
	}
}

// remove drops a member from the view.
func (p *presenceTracker) remove(actorID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.members, actorID)
}

// sweep demotes members whose heartbeats lapsed past the idle timeout and
// evicts members silent past the evict timeout. It returns the IDs it
// demoted and evicted.
func (p *presenceTracker) sweep(now time.Time) (idled, evicted []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, m := range p.members {
		silent := now.Sub(m.LastSeen)
		switch {
		case p.evictAfter > 0 && silent >= p.evictAfter:
			delete(p.members, id)
			evicted = append(evicted, id)
		case p.idleAfter > 0 && silent >= p.idleAfter && m.State == PresenceActive:
			m.State = PresenceIdle
			idled = append(idled, id)
		}
	}
	sort.Strings(idled)
	sort.Strings(evicted)
	return idled, evicted
}

// list returns copies of all members, sorted by actor ID.
func (p *presenceTracker) list() []Collaborator {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Collaborator, 0, len(p.members))
	for _, m := range p.members {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ActorID < out[j].ActorID })
	return out
}

// get returns a copy of one member's presence.
func (p *presenceTracker) get(actorID string) (Collaborator, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if m, ok := p.members[actorID]; ok {
		return *m, true
	}
	return Collaborator{}, false
}
