package session

import (
	"time"

	"github.com/akashvibhute/simlane-web-sub000/internal/event"
)

// State represents the connection state of a Coordinator.
type State string

const (
	// StateDisconnected means the coordinator is not attached to the
	// session bus. Edits are still accepted and queued.
	StateDisconnected State = "disconnected"

	// StateConnecting means a join is in progress.
	StateConnecting State = "connecting"

	// StateActive means the coordinator is attached and the member is
	// interacting.
	StateActive State = "active"

	// StateIdle means the coordinator is attached but the member has been
	// marked inactive. Heartbeats continue while idle.
	StateIdle State = "idle"
)

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// Connected returns whether the state is attached to the session bus.
func (s State) Connected() bool {
	return s == StateActive || s == StateIdle
}

// PresenceState describes a collaborator as seen by the local member.
type PresenceState string

const (
	// PresenceActive means heartbeats are current.
	PresenceActive PresenceState = "active"

	// PresenceIdle means heartbeats have lapsed past the idle timeout.
	PresenceIdle PresenceState = "idle"
)

// Collaborator is the local view of another session member.
type Collaborator struct {
	ActorID     string
	DisplayName string
	State       PresenceState
	LastSeen    time.Time

	// Cursor is the ID of the entity under the collaborator's cursor,
	// or "" when the cursor is hidden.
	Cursor string
}

// Resolution selects how a conflict is settled.
type Resolution string

const (
	// ResolutionKeepLocal discards the remote operation and keeps the
	// local state.
	ResolutionKeepLocal Resolution = "keep-local"

	// ResolutionAcceptRemote applies the remote operation over the local
	// state.
	ResolutionAcceptRemote Resolution = "accept-remote"

	// ResolutionMerge combines both edits field-wise. Merging fails when
	// both sides changed the same field to different values.
	ResolutionMerge Resolution = "merge"
)

// Resolutions returns all valid resolutions.
func Resolutions() []Resolution {
	return []Resolution{ResolutionKeepLocal, ResolutionAcceptRemote, ResolutionMerge}
}

// Conflict records a pair of concurrent edits to the same entity. Local is
// the operation that produced the local state of the entity; Remote is the
// incoming operation that was issued without having observed it. The
// conflict stays open, and further operations on the entity are held back,
// until the member resolves it.
type Conflict struct {
	ID         string
	EntityID   string
	Local      event.Operation
	Remote     event.Operation
	DetectedAt time.Time

	// queued holds operations on the entity that arrived while the
	// conflict was open. They are replayed in order after resolution.
	queued []event.Operation
}
