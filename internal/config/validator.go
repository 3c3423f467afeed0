package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/akashvibhute/simlane-web-sub000/internal/allocation"
	"github.com/akashvibhute/simlane-web-sub000/internal/roster"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "stint.fuel_safety_factor")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateAllocation()...)
	errors = append(errors, c.validateStint()...)
	errors = append(errors, c.validateSession()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateAllocation() []ValidationError {
	var errors []ValidationError
	a := c.Allocation

	if !allocation.ValidateStrategy(allocation.Strategy(a.Strategy)) {
		errors = append(errors, ValidationError{
			Field:   "allocation.strategy",
			Value:   a.Strategy,
			Message: fmt.Sprintf("must be one of %v", allocation.Strategies()),
		})
	}
	if a.TeamCount < 1 {
		errors = append(errors, ValidationError{
			Field:   "allocation.team_count",
			Value:   a.TeamCount,
			Message: "must be at least 1",
		})
	}
	if a.TeamSize < 0 {
		errors = append(errors, ValidationError{
			Field:   "allocation.team_size",
			Value:   a.TeamSize,
			Message: "must be 0 (auto) or positive",
		})
	}
	if a.MinTeams < 1 {
		errors = append(errors, ValidationError{
			Field:   "allocation.min_teams",
			Value:   a.MinTeams,
			Message: "must be at least 1",
		})
	}
	if a.MinTeamSize < 0 {
		errors = append(errors, ValidationError{
			Field:   "allocation.min_team_size",
			Value:   a.MinTeamSize,
			Message: "must be 0 or positive",
		})
	}
	if a.MaxTeamSize < 0 {
		errors = append(errors, ValidationError{
			Field:   "allocation.max_team_size",
			Value:   a.MaxTeamSize,
			Message: "must be 0 (no cap) or positive",
		})
	}
	if a.MaxTeamSize > 0 && a.MinTeamSize > a.MaxTeamSize {
		errors = append(errors, ValidationError{
			Field:   "allocation.min_team_size",
			Value:   a.MinTeamSize,
			Message: fmt.Sprintf("must not exceed max_team_size (%d)", a.MaxTeamSize),
		})
	}
	for _, role := range a.RequiredRoles {
		if !roster.ValidateRole(roster.Role(role)) {
			errors = append(errors, ValidationError{
				Field:   "allocation.required_roles",
				Value:   role,
				Message: "unknown role",
			})
		}
	}

	return errors
}

func (c *Config) validateStint() []ValidationError {
	var errors []ValidationError
	s := c.Stint

	if s.MaxStintMinutes < 1 {
		errors = append(errors, ValidationError{
			Field:   "stint.max_stint_minutes",
			Value:   s.MaxStintMinutes,
			Message: "must be at least 1",
		})
	}
	if s.FuelSafetyFactor <= 0 || s.FuelSafetyFactor > 1 {
		errors = append(errors, ValidationError{
			Field:   "stint.fuel_safety_factor",
			Value:   s.FuelSafetyFactor,
			Message: "must be in (0, 1]",
		})
	}
	if s.PitServiceMinutes < 0 {
		errors = append(errors, ValidationError{
			Field:   "stint.pit_service_minutes",
			Value:   s.PitServiceMinutes,
			Message: "must be 0 or positive",
		})
	}
	if s.FuelReserveLiters < 0 {
		errors = append(errors, ValidationError{
			Field:   "stint.fuel_reserve_liters",
			Value:   s.FuelReserveLiters,
			Message: "must be 0 or positive",
		})
	}

	return errors
}

func (c *Config) validateSession() []ValidationError {
	var errors []ValidationError
	s := c.Session

	if s.HeartbeatIntervalSeconds < 1 {
		errors = append(errors, ValidationError{
			Field:   "session.heartbeat_interval_seconds",
			Value:   s.HeartbeatIntervalSeconds,
			Message: "must be at least 1",
		})
	}
	if s.IdleTimeoutSeconds < 1 {
		errors = append(errors, ValidationError{
			Field:   "session.idle_timeout_seconds",
			Value:   s.IdleTimeoutSeconds,
			Message: "must be at least 1",
		})
	}
	if s.EvictTimeoutSeconds < 1 {
		errors = append(errors, ValidationError{
			Field:   "session.evict_timeout_seconds",
			Value:   s.EvictTimeoutSeconds,
			Message: "must be at least 1",
		})
	}
	// A member must lapse to idle before it can be evicted.
	if s.IdleTimeoutSeconds >= 1 && s.HeartbeatIntervalSeconds >= s.IdleTimeoutSeconds {
		errors = append(errors, ValidationError{
			Field:   "session.heartbeat_interval_seconds",
			Value:   s.HeartbeatIntervalSeconds,
			Message: fmt.Sprintf("must be less than idle_timeout_seconds (%d)", s.IdleTimeoutSeconds),
		})
	}
	if s.EvictTimeoutSeconds >= 1 && s.IdleTimeoutSeconds > s.EvictTimeoutSeconds {
		errors = append(errors, ValidationError{
			Field:   "session.idle_timeout_seconds",
			Value:   s.IdleTimeoutSeconds,
			Message: fmt.Sprintf("must not exceed evict_timeout_seconds (%d)", s.EvictTimeoutSeconds),
		})
	}
	if s.HistoryLimit < 0 {
		errors = append(errors, ValidationError{
			Field:   "session.history_limit",
			Value:   s.HistoryLimit,
			Message: "must be 0 (unlimited) or positive",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of %v", ValidLogLevels()),
		})
	}

	return errors
}
