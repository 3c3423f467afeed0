// Package errors provides centralized error definitions and error handling
// utilities for the simlane engine. It defines domain-specific errors,
// semantic error types, error constructors with context wrapping, and
// error classification helpers.
//
// # Error Types
//
// The package provides two categories of errors:
//
// Domain-specific errors represent errors from specific subsystems:
//   - RosterError: errors related to participant and availability data
//   - AllocationError: errors related to team partition drafts
//   - ScheduleError: errors related to stint plan generation
//   - SessionError: errors related to collaborative editing sessions
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//
// # Usage
//
// Creating errors:
//
//	// Domain-specific error
//	err := errors.NewSessionError("failed to join session", errors.ErrSessionClosed)
//
//	// Semantic error
//	err := errors.NewNotFoundError("participant", "p-17")
//
// Checking errors:
//
//	// Check for specific sentinel errors
//	if errors.Is(err, errors.ErrDraftFinalized) { ... }
//
//	// Check for error types
//	var schedErr *errors.ScheduleError
//	if errors.As(err, &schedErr) { ... }
//
//	// Use classification helpers
//	if errors.IsUserFacing(err) { ... }
//
// # Propagation Policy
//
// Computational results (validation findings, scheduling failures) are
// returned as data so callers can render them without special-casing.
// The types here exist for the boundaries where Go error values are the
// natural vehicle: constructor preconditions, I/O, and session lifecycle.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo Severity = iota
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Roster-related sentinel errors
var (
	// ErrParticipantNotFound indicates that a participant could not be found.
	ErrParticipantNotFound = New("participant not found")
	// ErrWindowOverlap indicates that two availability windows of one
	// participant overlap in time.
	ErrWindowOverlap = New("availability windows overlap")
	// ErrWindowInverted indicates a window whose end is not after its start.
	ErrWindowInverted = New("availability window end not after start")
)

// Allocation-related sentinel errors
var (
	// ErrDraftFinalized indicates a mutation attempt on a finalized draft.
	ErrDraftFinalized = New("allocation draft already finalized")
	// ErrDraftBlocked indicates that blocking validation findings prevent
	// finalization.
	ErrDraftBlocked = New("allocation draft has blocking findings")
	// ErrUnknownStrategy indicates an unrecognized suggestion strategy name.
	ErrUnknownStrategy = New("unknown allocation strategy")
	// ErrEmptyPool indicates an allocation request over an empty pool.
	ErrEmptyPool = New("participant pool is empty")
)

// Schedule-related sentinel errors
var (
	// ErrFuelBudget indicates that the race fuel requirement cannot be met
	// by the tank capacity and pit stop allowance.
	ErrFuelBudget = New("fuel budget infeasible")
	// ErrUncoveredInterval indicates a race interval with no available driver.
	ErrUncoveredInterval = New("no driver available for interval")
	// ErrInvalidCarSpec indicates a car specification with non-positive
	// capacity or consumption.
	ErrInvalidCarSpec = New("invalid car specification")
	// ErrInvalidRaceSpec indicates a race specification with non-positive
	// duration or lap time.
	ErrInvalidRaceSpec = New("invalid race specification")
)

// Session-related sentinel errors
var (
	// ErrSessionClosed indicates an operation on a disconnected session.
	ErrSessionClosed = New("session is disconnected")
	// ErrActorNotFound indicates that an actor is not a session member.
	ErrActorNotFound = New("actor not found in session")
	// ErrConflictNotFound indicates that a conflict ID is unknown or already
	// resolved.
	ErrConflictNotFound = New("conflict not found")
	// ErrEntityLocked indicates an operation on an entity with an unresolved
	// conflict pending.
	ErrEntityLocked = New("entity has unresolved conflict")
	// ErrNothingToUndo indicates an undo request on an empty history.
	ErrNothingToUndo = New("nothing to undo")
	// ErrNothingToRedo indicates a redo request on an empty redo stack.
	ErrNothingToRedo = New("nothing to redo")
	// ErrFieldCollision indicates that an automatic merge failed because
	// both sides changed the same field to different values.
	ErrFieldCollision = New("conflicting edits touch the same field")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// EngineError is the base interface for all simlane errors.
// It extends the standard error interface with additional methods for
// error handling and classification.
type EngineError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// RosterError represents errors related to participant and availability data.
type RosterError struct {
	baseError
	ParticipantID string
}

// NewRosterError creates a new RosterError.
func NewRosterError(message string, cause error) *RosterError {
	return &RosterError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithParticipant adds a participant ID to the error context.
func (e *RosterError) WithParticipant(id string) *RosterError {
	e.ParticipantID = id
	return e
}

// Error returns the formatted error message.
func (e *RosterError) Error() string {
	return formatDomainError("roster error", contextPairs{"participant": e.ParticipantID}, &e.baseError)
}

// Is checks if this error matches the target.
func (e *RosterError) Is(target error) bool {
	if _, ok := target.(*RosterError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// AllocationError represents errors related to team partition drafts.
type AllocationError struct {
	baseError
	DraftID string
	TeamID  string
}

// NewAllocationError creates a new AllocationError.
func NewAllocationError(message string, cause error) *AllocationError {
	return &AllocationError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithDraft adds a draft ID to the error context.
func (e *AllocationError) WithDraft(id string) *AllocationError {
	e.DraftID = id
	return e
}

// WithTeam adds a team ID to the error context.
func (e *AllocationError) WithTeam(id string) *AllocationError {
	e.TeamID = id
	return e
}

// Error returns the formatted error message.
func (e *AllocationError) Error() string {
	return formatDomainError("allocation error", contextPairs{"draft": e.DraftID, "team": e.TeamID}, &e.baseError)
}

// Is checks if this error matches the target.
func (e *AllocationError) Is(target error) bool {
	if _, ok := target.(*AllocationError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ScheduleError represents errors related to stint plan generation.
// The offending interval is recorded in minutes from race start so that
// callers can surface exactly which slot could not be covered or fueled.
type ScheduleError struct {
	baseError
	TeamID      string
	StartMinute int
	EndMinute   int
}

// NewScheduleError creates a new ScheduleError.
func NewScheduleError(message string, cause error) *ScheduleError {
	return &ScheduleError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithTeam adds a team ID to the error context.
func (e *ScheduleError) WithTeam(id string) *ScheduleError {
	e.TeamID = id
	return e
}

// WithInterval records the offending race interval in minutes from start.
func (e *ScheduleError) WithInterval(start, end int) *ScheduleError {
	e.StartMinute = start
	e.EndMinute = end
	return e
}

// Interval returns the offending interval in minutes from race start.
// Both values are zero when no interval was recorded.
func (e *ScheduleError) Interval() (start, end int) {
	return e.StartMinute, e.EndMinute
}

// Error returns the formatted error message.
func (e *ScheduleError) Error() string {
	pairs := contextPairs{"team": e.TeamID}
	if e.EndMinute > 0 {
		pairs["interval"] = fmt.Sprintf("%d-%dmin", e.StartMinute, e.EndMinute)
	}
	return formatDomainError("schedule error", pairs, &e.baseError)
}

// Is checks if this error matches the target.
func (e *ScheduleError) Is(target error) bool {
	if _, ok := target.(*ScheduleError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// SessionError represents errors related to collaborative editing sessions.
type SessionError struct {
	baseError
	SessionID string
	ActorID   string
}

// NewSessionError creates a new SessionError.
func NewSessionError(message string, cause error) *SessionError {
	return &SessionError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithSessionID adds a session ID to the error context.
func (e *SessionError) WithSessionID(id string) *SessionError {
	e.SessionID = id
	return e
}

// WithActor adds an actor ID to the error context.
func (e *SessionError) WithActor(id string) *SessionError {
	e.ActorID = id
	return e
}

// Error returns the formatted error message.
func (e *SessionError) Error() string {
	return formatDomainError("session error", contextPairs{"session": e.SessionID, "actor": e.ActorID}, &e.baseError)
}

// Is checks if this error matches the target.
func (e *SessionError) Is(target error) bool {
	if _, ok := target.(*SessionError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError indicates that a requested resource could not be found.
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError for the given resource.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s %q not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError indicates that input or state validation failed.
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			cause:      ErrInvalidInput,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithField records the offending field name and value.
func (e *ValidationError) WithField(field string, value any) *ValidationError {
	e.Field = field
	e.Value = value
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error [field=%s, value=%v]: %s", e.Field, e.Value, e.message)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing reports whether the error message is safe to show end users.
// Errors that do not implement EngineError are treated as internal.
func IsUserFacing(err error) bool {
	var ee EngineError
	if errors.As(err, &ee) {
		return ee.IsUserFacing()
	}
	return false
}

// SeverityOf returns the severity of an error, defaulting to SeverityError
// for plain errors.
func SeverityOf(err error) Severity {
	var ee EngineError
	if errors.As(err, &ee) {
		return ee.Severity()
	}
	return SeverityError
}

// -----------------------------------------------------------------------------
// Formatting
// -----------------------------------------------------------------------------

// contextPairs maps context labels to values; empty values are omitted.
type contextPairs map[string]string

// formatDomainError renders "prefix [k=v, ...]: message: cause" with
// deterministic key order for the small fixed key sets used above.
func formatDomainError(prefix string, pairs contextPairs, base *baseError) string {
	keys := []string{"session", "actor", "draft", "team", "participant", "interval"}
	var parts []string
	for _, k := range keys {
		if v := pairs[k]; v != "" {
			parts = append(parts, fmt.Sprintf("%s=%s", k, v))
		}
	}
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", prefix, strings.Join(parts, ", "))
	}
	if base.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, base.message, base.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, base.message)
}
