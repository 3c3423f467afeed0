// Package allocation partitions a participant pool into candidate teams and
// validates partitions against event rules. Suggestion strategies are pure
// functions of (pool, parameters, strategy): they never mutate shared state,
// so multiple candidates can be generated concurrently and compared side by
// side, and results are deterministic given a fixed seed.
package allocation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Strategy identifies a team-suggestion algorithm.
type Strategy string

const (
	// StrategySkillBalanced distributes participants via snake draft so
	// cumulative skill is as equal as possible across teams.
	StrategySkillBalanced Strategy = "skill-balanced"

	// StrategyAvailabilityOptimized greedily places each participant on the
	// team whose current members maximize overlap hours with them.
	StrategyAvailabilityOptimized Strategy = "availability-optimized"

	// StrategyPreferenceGrouped clusters participants by preferred car and
	// round-robins each cluster across teams.
	StrategyPreferenceGrouped Strategy = "preference-grouped"

	// StrategyRandom shuffles uniformly and round-robins; the baseline.
	StrategyRandom Strategy = "random"
)

// String returns the string representation of the strategy.
func (s Strategy) String() string {
	return string(s)
}

// Strategies returns every known strategy in a fixed order.
func Strategies() []Strategy {
	return []Strategy{
		StrategySkillBalanced,
		StrategyAvailabilityOptimized,
		StrategyPreferenceGrouped,
		StrategyRandom,
	}
}

// Valid strategies for validation.
var validStrategies = map[Strategy]bool{
	StrategySkillBalanced:         true,
	StrategyAvailabilityOptimized: true,
	StrategyPreferenceGrouped:     true,
	StrategyRandom:                true,
}

// ValidateStrategy returns true if the given strategy is known.
func ValidateStrategy(s Strategy) bool {
	return validStrategies[s]
}

// Draft is a candidate team partition produced during the formation phase.
// Exactly one draft is active per event; a participant appears in at most
// one team within a draft. The draft is mutable until finalized.
type Draft struct {
	ID        string              `json:"id"`
	EventID   string              `json:"event_id"`
	Strategy  Strategy            `json:"strategy"`
	Seed      int64               `json:"seed"`
	TeamOrder []string            `json:"team_order"`
	Teams     map[string][]string `json:"teams"` // team ID -> ordered participant IDs
	CreatedAt time.Time           `json:"created_at"`
	Finalized bool                `json:"finalized"`
}

// newDraft builds an empty draft with teamCount teams.
func newDraft(eventID string, strategy Strategy, seed int64, teamCount int) *Draft {
	d := &Draft{
		ID:        uuid.NewString(),
		EventID:   eventID,
		Strategy:  strategy,
		Seed:      seed,
		Teams:     make(map[string][]string, teamCount),
		CreatedAt: time.Now().UTC(),
	}
	for i := 0; i < teamCount; i++ {
		id := fmt.Sprintf("team-%d", i+1)
		d.TeamOrder = append(d.TeamOrder, id)
		d.Teams[id] = nil
	}
	return d
}

// assign appends the participant to the team at the given index.
func (d *Draft) assign(teamIndex int, participantID string) {
	id := d.TeamOrder[teamIndex]
	d.Teams[id] = append(d.Teams[id], participantID)
}

// TeamOf returns the team ID containing the participant, or "" if unassigned.
func (d *Draft) TeamOf(participantID string) string {
	for _, teamID := range d.TeamOrder {
		for _, pid := range d.Teams[teamID] {
			if pid == participantID {
				return teamID
			}
		}
	}
	return ""
}

// Size returns the total number of assigned participants.
func (d *Draft) Size() int {
	n := 0
	for _, members := range d.Teams {
		n += len(members)
	}
	return n
}

// Move reassigns a participant to the named team, removing them from their
// current team first. Moving to their current team is a no-op.
func (d *Draft) Move(participantID, teamID string) error {
	if d.Finalized {
		return errDraftFinalized(d.ID)
	}
	if _, ok := d.Teams[teamID]; !ok {
		return errTeamNotFound(teamID)
	}
	d.remove(participantID)
	d.Teams[teamID] = append(d.Teams[teamID], participantID)
	return nil
}

// Remove unassigns a participant from the draft.
func (d *Draft) Remove(participantID string) error {
	if d.Finalized {
		return errDraftFinalized(d.ID)
	}
	d.remove(participantID)
	return nil
}

func (d *Draft) remove(participantID string) {
	for teamID, members := range d.Teams {
		for i, pid := range members {
			if pid == participantID {
				d.Teams[teamID] = append(members[:i], members[i+1:]...)
				return
			}
		}
	}
}

// Clone returns a deep copy of the draft. Editing sessions keep per-actor
// copies, so drafts must be cheap to duplicate.
func (d *Draft) Clone() *Draft {
	clone := *d
	clone.TeamOrder = append([]string(nil), d.TeamOrder...)
	clone.Teams = make(map[string][]string, len(d.Teams))
	for teamID, members := range d.Teams {
		clone.Teams[teamID] = append([]string(nil), members...)
	}
	return &clone
}
