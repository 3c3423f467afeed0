package stint

import (
	"encoding/json"
	"fmt"

	"github.com/akashvibhute/simlane-web-sub000/internal/errors"
)

// ExportJSON serializes the plan for the persistence and notification
// collaborators. The engine never writes storage itself.
func (p *Plan) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}
	return data, nil
}

// ImportJSON deserializes a previously exported plan and re-checks its
// invariants. Export followed by import reproduces an identical plan.
func ImportJSON(data []byte) (*Plan, error) {
	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("unmarshal plan: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Validate checks the plan invariants: assignments form a contiguous,
// non-overlapping partition of [0, duration] with the last stint ending
// exactly on the race duration.
func (p *Plan) Validate() error {
	if len(p.Assignments) == 0 {
		return errors.NewScheduleError("plan has no assignments", errors.ErrInvalidInput).
			WithTeam(p.TeamID)
	}

	expected := 0
	for i, a := range p.Assignments {
		if a.Sequence != i {
			return errors.NewScheduleError(
				fmt.Sprintf("assignment %d has sequence %d", i, a.Sequence), errors.ErrInvalidInput).
				WithTeam(p.TeamID)
		}
		if a.StartOffset != expected {
			return errors.NewScheduleError(
				fmt.Sprintf("gap or overlap before sequence %d", a.Sequence), errors.ErrInvalidInput).
				WithTeam(p.TeamID).
				WithInterval(expected, a.StartOffset)
		}
		if a.Duration <= 0 {
			return errors.NewScheduleError(
				fmt.Sprintf("assignment %d has non-positive duration", a.Sequence), errors.ErrInvalidInput).
				WithTeam(p.TeamID)
		}
		expected = a.EndOffset()
	}

	if expected != p.DurationMinutes {
		return errors.NewScheduleError(
			fmt.Sprintf("last stint ends at %d, race duration is %d", expected, p.DurationMinutes),
			errors.ErrInvalidInput).
			WithTeam(p.TeamID).
			WithInterval(expected, p.DurationMinutes)
	}
	return nil
}

// DriverMinutes totals seat time per driver.
func (p *Plan) DriverMinutes() map[string]int {
	out := make(map[string]int)
	for _, a := range p.Assignments {
		out[a.DriverID] += a.Duration
	}
	return out
}
