package event

import "time"

// Event is the interface all session messages implement. Every message
// carries the originating actor and a wall-clock timestamp; ordering
// guarantees come from the logical clock on [Operation], not from these
// timestamps.
type Event interface {
	// Type returns the fixed vocabulary identifier for this message
	// (e.g. "stint-added", "heartbeat").
	Type() string

	// ActorID returns the ID of the actor that produced the message.
	ActorID() string

	// Timestamp returns when the message was produced.
	Timestamp() time.Time
}

// baseEvent provides common fields for all messages.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	actorID   string
	timestamp time.Time
}

func (e baseEvent) Type() string         { return e.eventType }
func (e baseEvent) ActorID() string      { return e.actorID }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType, actorID string) baseEvent {
	return baseEvent{
		eventType: eventType,
		actorID:   actorID,
		timestamp: time.Now(),
	}
}

// The fixed message vocabulary. External collaborators depend on these
// exact strings.
const (
	TypeStintAdded       = "stint-added"
	TypeStintModified    = "stint-modified"
	TypeStintDeleted     = "stint-deleted"
	TypeCursorMove       = "cursor-move"
	TypeCursorHide       = "cursor-hide"
	TypeHeartbeat        = "heartbeat"
	TypeUserActive       = "user-active"
	TypeUserIdle         = "user-idle"
	TypeUserDisconnect   = "user-disconnect"
	TypeConflictDetected = "conflict-detected"
	TypeUndo             = "undo-operation"
	TypeRedo             = "redo-operation"
)

// -----------------------------------------------------------------------------
// Edit Operations
// -----------------------------------------------------------------------------

// OpKind identifies the mutation an operation performs.
type OpKind string

const (
	// OpAdd creates a plan entity (a stint or an allocation entry).
	OpAdd OpKind = "add"

	// OpModify changes fields of an existing entity.
	OpModify OpKind = "modify"

	// OpReplace overwrites an entity's whole field map. Inverse operations
	// use it so every replica lands on the exact reverted state instead of
	// merging the prior fields over whatever it currently holds.
	OpReplace OpKind = "replace"

	// OpDelete removes an entity.
	OpDelete OpKind = "delete"
)

// Version identifies a point in an entity's edit history: the logical
// clock and actor of the operation that produced it. The zero Version
// means the entity has never been edited.
type Version struct {
	Clock uint64 `json:"clock"`
	Actor string `json:"actor,omitempty"`
}

// Before reports whether v precedes other in the total order: logical
// clock first, actor ID as the tie-break.
func (v Version) Before(other Version) bool {
	if v.Clock != other.Clock {
		return v.Clock < other.Clock
	}
	return v.Actor < other.Actor
}

// Operation is a single plan mutation: the unit of broadcast, conflict
// detection, and undo history. Fields holds the entity field values the
// operation sets; for deletes it is empty. Base records the entity
// version the actor had observed when it issued the operation; a receiver
// whose entity version differs from Base knows the edits were concurrent.
type Operation struct {
	ID       string         `json:"id"`
	Actor    string         `json:"actor"`
	Clock    uint64         `json:"clock"`
	Kind     OpKind         `json:"kind"`
	EntityID string         `json:"entity_id"`
	Fields   map[string]any `json:"fields,omitempty"`
	Base     Version        `json:"base"`
	At       time.Time      `json:"at"`
}

// Version returns the entity version this operation produces when applied.
func (o Operation) Version() Version {
	return Version{Clock: o.Clock, Actor: o.Actor}
}

// Before reports whether o precedes other in the per-entity total order:
// logical clock first, actor ID as the tie-break.
func (o Operation) Before(other Operation) bool {
	return o.Version().Before(other.Version())
}

// -----------------------------------------------------------------------------
// Plan Mutation Events
// -----------------------------------------------------------------------------

// StintAddedEvent broadcasts a newly created stint or allocation entry.
type StintAddedEvent struct {
	baseEvent
	Op Operation
}

// NewStintAddedEvent creates a StintAddedEvent.
func NewStintAddedEvent(op Operation) StintAddedEvent {
	return StintAddedEvent{baseEvent: newBaseEvent(TypeStintAdded, op.Actor), Op: op}
}

// StintModifiedEvent broadcasts a field change on an existing entity.
type StintModifiedEvent struct {
	baseEvent
	Op Operation
}

// NewStintModifiedEvent creates a StintModifiedEvent.
func NewStintModifiedEvent(op Operation) StintModifiedEvent {
	return StintModifiedEvent{baseEvent: newBaseEvent(TypeStintModified, op.Actor), Op: op}
}

// StintDeletedEvent broadcasts an entity removal.
type StintDeletedEvent struct {
	baseEvent
	Op Operation
}

// NewStintDeletedEvent creates a StintDeletedEvent.
func NewStintDeletedEvent(op Operation) StintDeletedEvent {
	return StintDeletedEvent{baseEvent: newBaseEvent(TypeStintDeleted, op.Actor), Op: op}
}

// OperationEvent is implemented by the three plan-mutation events; it lets
// receivers extract the operation without switching on concrete types.
type OperationEvent interface {
	Event
	Operation() Operation
}

// Operation returns the carried operation.
func (e StintAddedEvent) Operation() Operation { return e.Op }

// Operation returns the carried operation.
func (e StintModifiedEvent) Operation() Operation { return e.Op }

// Operation returns the carried operation.
func (e StintDeletedEvent) Operation() Operation { return e.Op }

// -----------------------------------------------------------------------------
// Interaction Intent Events
// -----------------------------------------------------------------------------

// CursorMoveEvent broadcasts the actor's current interaction point so other
// members can see where a collaborator is working.
type CursorMoveEvent struct {
	baseEvent
	EntityID string // entity under the actor's cursor
}

// NewCursorMoveEvent creates a CursorMoveEvent.
func NewCursorMoveEvent(actorID, entityID string) CursorMoveEvent {
	return CursorMoveEvent{baseEvent: newBaseEvent(TypeCursorMove, actorID), EntityID: entityID}
}

// CursorHideEvent signals that the actor's interaction point is gone.
type CursorHideEvent struct {
	baseEvent
}

// NewCursorHideEvent creates a CursorHideEvent.
func NewCursorHideEvent(actorID string) CursorHideEvent {
	return CursorHideEvent{baseEvent: newBaseEvent(TypeCursorHide, actorID)}
}

// -----------------------------------------------------------------------------
// Presence Events
// -----------------------------------------------------------------------------

// HeartbeatEvent is the periodic liveness signal every connected actor emits.
type HeartbeatEvent struct {
	baseEvent
}

// NewHeartbeatEvent creates a HeartbeatEvent.
func NewHeartbeatEvent(actorID string) HeartbeatEvent {
	return HeartbeatEvent{baseEvent: newBaseEvent(TypeHeartbeat, actorID)}
}

// UserActiveEvent announces that an actor joined or returned from idle.
type UserActiveEvent struct {
	baseEvent
	DisplayName string
}

// NewUserActiveEvent creates a UserActiveEvent.
func NewUserActiveEvent(actorID, displayName string) UserActiveEvent {
	return UserActiveEvent{baseEvent: newBaseEvent(TypeUserActive, actorID), DisplayName: displayName}
}

// UserIdleEvent announces that an actor's heartbeats have lapsed.
type UserIdleEvent struct {
	baseEvent
}

// NewUserIdleEvent creates a UserIdleEvent.
func NewUserIdleEvent(actorID string) UserIdleEvent {
	return UserIdleEvent{baseEvent: newBaseEvent(TypeUserIdle, actorID)}
}

// UserDisconnectEvent announces that an actor left the session. Leaving
// never reverts mutations the actor already shared.
type UserDisconnectEvent struct {
	baseEvent
}

// NewUserDisconnectEvent creates a UserDisconnectEvent.
func NewUserDisconnectEvent(actorID string) UserDisconnectEvent {
	return UserDisconnectEvent{baseEvent: newBaseEvent(TypeUserDisconnect, actorID)}
}

// -----------------------------------------------------------------------------
// Coordination Events
// -----------------------------------------------------------------------------

// ConflictDetectedEvent surfaces concurrent edits to the same entity. The
// receiving actor must resolve it; nothing is auto-discarded.
type ConflictDetectedEvent struct {
	baseEvent
	ConflictID string
	EntityID   string
	Local      Operation
	Remote     Operation
}

// NewConflictDetectedEvent creates a ConflictDetectedEvent attributed to the
// actor that detected the conflict.
func NewConflictDetectedEvent(actorID, conflictID, entityID string, local, remote Operation) ConflictDetectedEvent {
	return ConflictDetectedEvent{
		baseEvent:  newBaseEvent(TypeConflictDetected, actorID),
		ConflictID: conflictID,
		EntityID:   entityID,
		Local:      local,
		Remote:     remote,
	}
}

// UndoEvent broadcasts the inverse mutation produced by a local undo.
type UndoEvent struct {
	baseEvent
	Op Operation
}

// NewUndoEvent creates an UndoEvent.
func NewUndoEvent(op Operation) UndoEvent {
	return UndoEvent{baseEvent: newBaseEvent(TypeUndo, op.Actor), Op: op}
}

// RedoEvent broadcasts the re-applied mutation produced by a local redo.
type RedoEvent struct {
	baseEvent
	Op Operation
}

// NewRedoEvent creates a RedoEvent.
func NewRedoEvent(op Operation) RedoEvent {
	return RedoEvent{baseEvent: newBaseEvent(TypeRedo, op.Actor), Op: op}
}

// Operation returns the inverse mutation carried by the undo.
func (e UndoEvent) Operation() Operation { return e.Op }

// Operation returns the re-applied mutation carried by the redo.
func (e RedoEvent) Operation() Operation { return e.Op }
