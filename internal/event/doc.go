// Package event provides the real-time message vocabulary and an in-process
// broadcast bus for collaborative plan-editing sessions.
//
// The engine does not own network transport; the [Bus] is broadcast
// semantics over whatever channel the host application provides. Every
// accepted message is delivered to all subscribed session members.
//
// # Main Types
//
//   - [Event]: Interface all messages implement, providing Type(), ActorID()
//     and Timestamp()
//   - [Bus]: Synchronous pub-sub dispatcher, safe for concurrent use
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Message Vocabulary
//
// The vocabulary is fixed (external collaborators depend on it):
//
// Plan mutations:
//   - [StintAddedEvent], [StintModifiedEvent], [StintDeletedEvent]
//
// Interaction intent:
//   - [CursorMoveEvent], [CursorHideEvent]
//
// Presence:
//   - [HeartbeatEvent], [UserActiveEvent], [UserIdleEvent],
//     [UserDisconnectEvent]
//
// Coordination:
//   - [ConflictDetectedEvent], [UndoEvent], [RedoEvent]
//
// # Thread Safety
//
// The [Bus] is safe for concurrent use. Handlers are called synchronously
// and protected against panics: a panicking handler never prevents delivery
// to the remaining handlers.
package event
