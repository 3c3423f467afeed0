// Package session implements collaborative plan editing for a single race
// event. Each connected team member runs a Coordinator that keeps a local
// replica of the shared plan document, applies its own edits optimistically,
// and broadcasts them over the session event bus. Remote edits are applied
// when they arrive in order; concurrent edits to the same entity surface as
// conflicts the receiving member must resolve explicitly.
//
// Ordering is defined by a per-actor logical clock with the actor ID as the
// tie-break, so every member sorts any two operations the same way. Presence
// is tracked through periodic heartbeats: a member whose heartbeats lapse is
// demoted to idle in every other member's view and eventually evicted.
//
// Edits made while disconnected are applied to the local replica and queued;
// rejoining the session flushes the queue in order.
package session
