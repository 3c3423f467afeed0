package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/akashvibhute/simlane-web-sub000/internal/errors"
	"github.com/akashvibhute/simlane-web-sub000/internal/event"
	"github.com/akashvibhute/simlane-web-sub000/internal/logging"
)

// Coordinator is one member's endpoint in a collaborative editing session.
// It keeps the local replica of the shared plan, applies local edits
// optimistically, broadcasts them on the session bus, and folds in edits
// from other members. All methods are safe for concurrent use.
type Coordinator struct {
	sessionID   string
	actorID     string
	displayName string
	bus         *event.Bus
	log         *logging.Logger
	cfg         coordinatorConfig
	presence    *presenceTracker

	mu        sync.Mutex
	state     State
	clk       clock
	doc       *document
	hist      *history
	conflicts *conflictSet

	// last maps entity ID to the operation that produced its current
	// state. It survives deletes so a concurrent edit to a deleted
	// entity still surfaces the delete as the local side of the conflict.
	last map[string]event.Operation

	// offline queues operations issued while disconnected, in issue
	// order. Join flushes it.
	offline []event.Operation

	subID    string
	cancel   context.CancelFunc
	loopDone chan struct{}
}

// NewCoordinator creates a coordinator for one actor in the given session.
// The bus is the session's shared channel; every member of the session must
// use the same bus instance.
func NewCoordinator(sessionID, actorID, displayName string, bus *event.Bus, opts ...Option) (*Coordinator, error) {
	if sessionID == "" {
		return nil, errors.NewValidationError("session ID is required")
	}
	if actorID == "" {
		return nil, errors.NewValidationError("actor ID is required")
	}
	if bus == nil {
		return nil, errors.NewValidationError("event bus is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Coordinator{
		sessionID:   sessionID,
		actorID:     actorID,
		displayName: displayName,
		bus:         bus,
		log:         cfg.logger.WithComponent("session").WithSession(sessionID).WithActor(actorID),
		cfg:         cfg,
		presence:    newPresenceTracker(cfg.idleTimeout, cfg.evictTimeout),
		state:       StateDisconnected,
		doc:         newDocument(),
		hist:        newHistory(cfg.historyLimit),
		conflicts:   newConflictSet(),
		last:        make(map[string]event.Operation),
	}, nil
}

// SessionID returns the session this coordinator belongs to.
func (c *Coordinator) SessionID() string { return c.sessionID }

// ActorID returns the actor this coordinator edits as.
func (c *Coordinator) ActorID() string { return c.actorID }

// State returns the current connection state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Join attaches the coordinator to the session bus, announces the member,
// starts heartbeats, and flushes any operations queued while disconnected.
// The context bounds the background heartbeat and presence loops.
func (c *Coordinator) Join(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return errors.NewSessionError("already joined", nil).
			WithSessionID(c.sessionID).WithActor(c.actorID)
	}
	c.state = StateConnecting

	c.subID = c.bus.SubscribeAll(c.handle)

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	// The done channel is handed to the goroutine directly: Leave nils
	// c.loopDone out under the mutex, which may happen before the
	// goroutine is scheduled.
	done := make(chan struct{})
	c.loopDone = done
	go c.run(ctx, done)

	queued := c.offline
	c.offline = nil
	c.state = StateActive
	c.mu.Unlock()

	c.bus.Publish(event.NewUserActiveEvent(c.actorID, c.displayName))
	for _, op := range queued {
		c.bus.Publish(operationEvent(op))
	}

	c.log.Info("joined session", "queued_ops", len(queued))
	return nil
}

// Leave announces the departure, stops the background loops, and detaches
// from the bus. Mutations already shared stay in effect for the remaining
// members. Leave is idempotent.
func (c *Coordinator) Leave() error {
	c.mu.Lock()
	if c.state == StateDisconnected {
		c.mu.Unlock()
		return nil
	}
	cancel := c.cancel
	done := c.loopDone
	subID := c.subID
	c.cancel = nil
	c.loopDone = nil
	c.subID = ""
	c.state = StateDisconnected
	c.mu.Unlock()

	c.bus.Publish(event.NewUserDisconnectEvent(c.actorID))

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	if subID != "" {
		c.bus.Unsubscribe(subID)
	}

	c.log.Info("left session")
	return nil
}

// run emits heartbeats and sweeps the presence view until the context is
// canceled.
func (c *Coordinator) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	heartbeat := time.NewTicker(c.cfg.heartbeatInterval)
	defer heartbeat.Stop()
	sweep := time.NewTicker(c.cfg.sweepInterval)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			c.bus.Publish(event.NewHeartbeatEvent(c.actorID))
		case <-sweep.C:
			idled, evicted := c.presence.sweep(time.Now())
			for _, id := range idled {
				c.log.Debug("collaborator idle", "collaborator", id)
			}
			for _, id := range evicted {
				c.log.Info("collaborator evicted", "collaborator", id)
			}
		}
	}
}

// -----------------------------------------------------------------------------
// Local edits
// -----------------------------------------------------------------------------

// Add creates a plan entity with the given fields and broadcasts the edit.
func (c *Coordinator) Add(entityID string, fields map[string]any) (event.Operation, error) {
	return c.applyLocal(event.OpAdd, entityID, fields)
}

// Modify merges the given fields over an existing entity and broadcasts
// the edit.
func (c *Coordinator) Modify(entityID string, fields map[string]any) (event.Operation, error) {
	return c.applyLocal(event.OpModify, entityID, fields)
}

// Delete removes an entity and broadcasts the edit.
func (c *Coordinator) Delete(entityID string) (event.Operation, error) {
	return c.applyLocal(event.OpDelete, entityID, nil)
}

func (c *Coordinator) applyLocal(kind event.OpKind, entityID string, fields map[string]any) (event.Operation, error) {
	if entityID == "" {
		return event.Operation{}, errors.NewValidationError("entity ID is required")
	}

	c.mu.Lock()
	if _, open := c.conflicts.forEntity(entityID); open {
		c.mu.Unlock()
		return event.Operation{}, errors.NewSessionError("entity has an unresolved conflict", errors.ErrEntityLocked).
			WithSessionID(c.sessionID).WithActor(c.actorID)
	}

	base := c.doc.version(entityID)
	exists := base != (event.Version{})
	switch kind {
	case event.OpAdd:
		if exists {
			c.mu.Unlock()
			return event.Operation{}, errors.NewValidationError("entity " + entityID + " already exists")
		}
	case event.OpModify, event.OpDelete:
		if !exists {
			c.mu.Unlock()
			return event.Operation{}, errors.NewNotFoundError("entity", entityID)
		}
	}

	op := event.Operation{
		ID:       uuid.NewString(),
		Actor:    c.actorID,
		Clock:    c.clk.tick(),
		Kind:     kind,
		EntityID: entityID,
		Base:     base,
		At:       time.Now(),
	}
	if kind != event.OpDelete {
		op.Fields = copyFields(fields)
	}

	prior := c.doc.snapshot(entityID)
	c.doc.apply(op)
	c.last[entityID] = op
	c.hist.record(historyEntry{op: op, prior: prior})

	connected := c.state.Connected()
	wasIdle := c.state == StateIdle
	if wasIdle {
		c.state = StateActive
	}
	if !connected {
		c.offline = append(c.offline, op)
	}
	c.mu.Unlock()

	if connected {
		if wasIdle {
			c.bus.Publish(event.NewUserActiveEvent(c.actorID, c.displayName))
		}
		c.bus.Publish(operationEvent(op))
	}
	return op, nil
}

// operationEvent wraps an operation in its broadcast event.
func operationEvent(op event.Operation) event.Event {
	switch op.Kind {
	case event.OpAdd:
		return event.NewStintAddedEvent(op)
	case event.OpDelete:
		return event.NewStintDeletedEvent(op)
	default:
		return event.NewStintModifiedEvent(op)
	}
}

// -----------------------------------------------------------------------------
// Interaction intents
// -----------------------------------------------------------------------------

// MoveCursor broadcasts the entity the member is currently pointing at.
// Cursor intents are ephemeral and are not queued while disconnected.
func (c *Coordinator) MoveCursor(entityID string) error {
	if err := c.requireConnected(); err != nil {
		return err
	}
	c.bus.Publish(event.NewCursorMoveEvent(c.actorID, entityID))
	return nil
}

// HideCursor broadcasts that the member's cursor is gone.
func (c *Coordinator) HideCursor() error {
	if err := c.requireConnected(); err != nil {
		return err
	}
	c.bus.Publish(event.NewCursorHideEvent(c.actorID))
	return nil
}

// MarkIdle demotes the member to idle and announces it. Heartbeats
// continue while idle.
func (c *Coordinator) MarkIdle() error {
	c.mu.Lock()
	if !c.state.Connected() {
		c.mu.Unlock()
		return c.closedErr()
	}
	if c.state == StateIdle {
		c.mu.Unlock()
		return nil
	}
	c.state = StateIdle
	c.mu.Unlock()

	c.bus.Publish(event.NewUserIdleEvent(c.actorID))
	return nil
}

// MarkActive promotes an idle member back to active and announces it.
func (c *Coordinator) MarkActive() error {
	c.mu.Lock()
	if !c.state.Connected() {
		c.mu.Unlock()
		return c.closedErr()
	}
	if c.state == StateActive {
		c.mu.Unlock()
		return nil
	}
	c.state = StateActive
	c.mu.Unlock()

	c.bus.Publish(event.NewUserActiveEvent(c.actorID, c.displayName))
	return nil
}

func (c *Coordinator) requireConnected() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Connected() {
		return c.closedErr()
	}
	return nil
}

func (c *Coordinator) closedErr() error {
	return errors.NewSessionError("not connected", errors.ErrSessionClosed).
		WithSessionID(c.sessionID).WithActor(c.actorID)
}

// -----------------------------------------------------------------------------
// Remote edits
// -----------------------------------------------------------------------------

// handle is the bus subscription entry point. It runs on the publisher's
// goroutine, so it must not publish while holding the document lock.
func (c *Coordinator) handle(ev event.Event) {
	if ev.ActorID() == c.actorID {
		return
	}
	now := ev.Timestamp()

	switch e := ev.(type) {
	case event.OperationEvent:
		c.presence.touch(e.ActorID(), now)
		c.receive(e.Operation())
	case event.CursorMoveEvent:
		c.presence.setCursor(e.ActorID(), e.EntityID, now)
	case event.CursorHideEvent:
		c.presence.clearCursor(e.ActorID())
	case event.HeartbeatEvent:
		c.presence.touch(e.ActorID(), now)
	case event.UserActiveEvent:
		c.presence.observe(e.ActorID(), e.DisplayName, now)
	case event.UserIdleEvent:
		c.presence.markIdle(e.ActorID())
	case event.UserDisconnectEvent:
		c.presence.remove(e.ActorID())
	}
}

func (c *Coordinator) receive(op event.Operation) {
	c.mu.Lock()
	publish := c.receiveLocked(op, nil)
	c.mu.Unlock()

	for _, ev := range publish {
		c.bus.Publish(ev)
	}
}

// receiveLocked folds one remote operation into the replica. The caller
// holds c.mu; any events to broadcast are returned instead of published.
func (c *Coordinator) receiveLocked(op event.Operation, publish []event.Event) []event.Event {
	c.clk.observe(op.Clock)

	// Operations on a contested entity wait behind the open conflict.
	if cf, open := c.conflicts.forEntity(op.EntityID); open {
		cf.queued = append(cf.queued, op)
		return publish
	}

	cur := c.doc.version(op.EntityID)
	if op.Base == cur {
		prior := c.doc.snapshot(op.EntityID)
		c.doc.apply(op)
		c.last[op.EntityID] = op
		c.hist.record(historyEntry{op: op, prior: prior})
		return publish
	}

	// The sender had not observed the operation that produced our current
	// state: the edits are concurrent. Hold the remote operation in a
	// conflict and let the member decide.
	cf := &Conflict{
		ID:         uuid.NewString(),
		EntityID:   op.EntityID,
		Local:      c.last[op.EntityID],
		Remote:     op,
		DetectedAt: time.Now(),
	}
	c.conflicts.add(cf)
	c.log.Warn("concurrent edit detected",
		"entity", op.EntityID, "remote_actor", op.Actor, "conflict", cf.ID)
	return append(publish, event.NewConflictDetectedEvent(c.actorID, cf.ID, cf.EntityID, cf.Local, cf.Remote))
}

// -----------------------------------------------------------------------------
// Conflict resolution
// -----------------------------------------------------------------------------

// Conflicts returns the open conflicts, oldest first.
func (c *Coordinator) Conflicts() []Conflict {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conflicts.list()
}

// Resolve settles an open conflict. KeepLocal discards the remote
// operation; AcceptRemote applies it over the local state; Merge applies
// the remote fields when they do not collide with the local ones, and
// otherwise fails with ErrFieldCollision leaving the conflict open.
// Resolution is local to this member: the deterministic operation order
// means a member that resolves the mirrored conflict the same way
// converges to the same state. Operations queued behind the conflict are
// replayed in order once it is settled.
func (c *Coordinator) Resolve(conflictID string, res Resolution) error {
	c.mu.Lock()
	cf, ok := c.conflicts.get(conflictID)
	if !ok {
		c.mu.Unlock()
		return errors.NewSessionError("unknown conflict "+conflictID, errors.ErrConflictNotFound).
			WithSessionID(c.sessionID).WithActor(c.actorID)
	}

	switch res {
	case ResolutionKeepLocal:
		// Remote operation is rejected; the replica keeps the local state.

	case ResolutionAcceptRemote:
		prior := c.doc.snapshot(cf.EntityID)
		c.doc.apply(cf.Remote)
		c.last[cf.EntityID] = cf.Remote
		c.hist.record(historyEntry{op: cf.Remote, prior: prior})

	case ResolutionMerge:
		if cf.Local.Kind != event.OpModify || cf.Remote.Kind != event.OpModify {
			c.mu.Unlock()
			return errors.NewSessionError("only concurrent modifications can be merged", errors.ErrFieldCollision).
				WithSessionID(c.sessionID).WithActor(c.actorID)
		}
		if _, err := mergeFields(cf.Local.Fields, cf.Remote.Fields); err != nil {
			c.mu.Unlock()
			return err
		}
		// Disjoint field sets: folding the remote fields over the local
		// state yields the union both members converge to. The merged
		// entity is stamped with the later of the two versions so both
		// members agree on the base and the next edit from either side
		// does not raise a spurious conflict.
		winner := cf.Remote
		if cf.Remote.Version().Before(cf.Local.Version()) {
			winner = cf.Local
		}
		prior := c.doc.snapshot(cf.EntityID)
		c.doc.apply(cf.Remote)
		c.doc.stamp(cf.EntityID, winner.Version())
		c.last[cf.EntityID] = winner
		c.hist.record(historyEntry{op: cf.Remote, prior: prior})

	default:
		c.mu.Unlock()
		return errors.NewValidationError("invalid resolution").WithField("resolution", string(res))
	}

	queued := cf.queued
	c.conflicts.remove(conflictID)

	var publish []event.Event
	for _, qop := range queued {
		publish = c.receiveLocked(qop, publish)
	}
	c.mu.Unlock()

	for _, ev := range publish {
		c.bus.Publish(ev)
	}
	c.log.Info("conflict resolved", "conflict", conflictID, "resolution", string(res))
	return nil
}

// Dismiss settles a conflict by accepting the remote operation. Dismissing
// is never silent discard: the remote edit wins.
func (c *Coordinator) Dismiss(conflictID string) error {
	return c.Resolve(conflictID, ResolutionAcceptRemote)
}

// -----------------------------------------------------------------------------
// Undo / redo
// -----------------------------------------------------------------------------

// Undo reverts the most recent applied operation, local or remote, and
// broadcasts the inverse mutation. The inverse enters the shared order
// like any other edit.
func (c *Coordinator) Undo() (event.Operation, error) {
	c.mu.Lock()
	entry, ok := c.hist.popUndo()
	if !ok {
		c.mu.Unlock()
		return event.Operation{}, errors.NewSessionError("nothing to undo", errors.ErrNothingToUndo).
			WithSessionID(c.sessionID).WithActor(c.actorID)
	}
	if _, open := c.conflicts.forEntity(entry.op.EntityID); open {
		c.hist.pushUndo(entry)
		c.mu.Unlock()
		return event.Operation{}, errors.NewSessionError("entity has an unresolved conflict", errors.ErrEntityLocked).
			WithSessionID(c.sessionID).WithActor(c.actorID)
	}

	entityID := entry.op.EntityID
	inv := event.Operation{
		ID:       uuid.NewString(),
		Actor:    c.actorID,
		Clock:    c.clk.tick(),
		EntityID: entityID,
		Base:     c.doc.version(entityID),
		At:       time.Now(),
	}
	switch {
	case entry.prior == nil:
		inv.Kind = event.OpDelete
	case entry.op.Kind == event.OpDelete:
		inv.Kind = event.OpAdd
		inv.Fields = copyFields(entry.prior.Fields)
	default:
		// A plain modify would merge the prior fields over whatever the
		// replica holds, leaving fields the undone edit introduced in
		// place. Replace pins every replica to the exact prior state.
		inv.Kind = event.OpReplace
		inv.Fields = copyFields(entry.prior.Fields)
	}

	current := c.doc.snapshot(entityID)
	c.doc.apply(inv)
	c.last[entityID] = inv
	c.hist.pushRedo(historyEntry{op: entry.op, prior: current})

	connected := c.state.Connected()
	if !connected {
		c.offline = append(c.offline, inv)
	}
	c.mu.Unlock()

	if connected {
		c.bus.Publish(event.NewUndoEvent(inv))
	}
	return inv, nil
}

// Redo re-applies the most recently undone operation under a fresh clock
// and broadcasts it.
func (c *Coordinator) Redo() (event.Operation, error) {
	c.mu.Lock()
	entry, ok := c.hist.popRedo()
	if !ok {
		c.mu.Unlock()
		return event.Operation{}, errors.NewSessionError("nothing to redo", errors.ErrNothingToRedo).
			WithSessionID(c.sessionID).WithActor(c.actorID)
	}
	if _, open := c.conflicts.forEntity(entry.op.EntityID); open {
		c.hist.pushRedo(entry)
		c.mu.Unlock()
		return event.Operation{}, errors.NewSessionError("entity has an unresolved conflict", errors.ErrEntityLocked).
			WithSessionID(c.sessionID).WithActor(c.actorID)
	}

	entityID := entry.op.EntityID
	re := entry.op
	re.ID = uuid.NewString()
	re.Actor = c.actorID
	re.Clock = c.clk.tick()
	re.Base = c.doc.version(entityID)
	re.At = time.Now()

	current := c.doc.snapshot(entityID)
	c.doc.apply(re)
	c.last[entityID] = re
	c.hist.pushUndo(historyEntry{op: re, prior: current})

	connected := c.state.Connected()
	if !connected {
		c.offline = append(c.offline, re)
	}
	c.mu.Unlock()

	if connected {
		c.bus.Publish(event.NewRedoEvent(re))
	}
	return re, nil
}

// -----------------------------------------------------------------------------
// Views
// -----------------------------------------------------------------------------

// Entities returns copies of all plan entities, sorted by ID.
func (c *Coordinator) Entities() []Entity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.list()
}

// Entity returns a copy of one plan entity.
func (c *Coordinator) Entity(entityID string) (Entity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e := c.doc.snapshot(entityID); e != nil {
		return *e, true
	}
	return Entity{}, false
}

// Collaborators returns the local view of the other members, sorted by
// actor ID.
func (c *Coordinator) Collaborators() []Collaborator {
	return c.presence.list()
}

// Collaborator returns the local view of one member.
func (c *Coordinator) Collaborator(actorID string) (Collaborator, bool) {
	return c.presence.get(actorID)
}

// UndoDepth returns the number of undoable operations.
func (c *Coordinator) UndoDepth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hist.undoDepth()
}

// RedoDepth returns the number of redoable operations.
func (c *Coordinator) RedoDepth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hist.redoDepth()
}

// QueuedOps returns the number of operations waiting to be flushed on the
// next Join.
func (c *Coordinator) QueuedOps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.offline)
}
