// Package roster defines the participant pool consumed by the allocation
// and scheduling engines: participants, their role capabilities, and their
// time availability windows for the signup phase of an event.
package roster

import (
	"fmt"
	"sort"
	"time"

	"github.com/akashvibhute/simlane-web-sub000/internal/errors"
)

// Role describes a capability a participant can fill during a race.
type Role string

const (
	// RoleDrive indicates the participant can drive stints.
	RoleDrive Role = "drive"

	// RoleSpot indicates the participant can spot (track awareness, radio).
	RoleSpot Role = "spot"

	// RoleStrategize indicates the participant can run pit/fuel strategy.
	RoleStrategize Role = "strategize"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Valid roles for validation.
var validRoles = map[Role]bool{
	RoleDrive:      true,
	RoleSpot:       true,
	RoleStrategize: true,
}

// ValidateRole returns true if the given role is a known role.
func ValidateRole(r Role) bool {
	return validRoles[r]
}

// ExperienceTier buckets participants by seat time.
type ExperienceTier string

const (
	// TierRookie indicates a participant in their first season.
	TierRookie ExperienceTier = "rookie"

	// TierAmateur indicates a participant with regular event experience.
	TierAmateur ExperienceTier = "amateur"

	// TierPro indicates a participant with competitive license experience.
	TierPro ExperienceTier = "pro"
)

// PreferenceLevel grades how willing a participant is to take a window.
// 1 is strongly preferred, 5 is emergency only.
type PreferenceLevel int

const (
	// PreferenceStrong marks a window the participant actively wants.
	PreferenceStrong PreferenceLevel = 1

	// PreferenceEmergency marks a window the participant covers only if
	// nobody else can.
	PreferenceEmergency PreferenceLevel = 5
)

// Valid reports whether the preference level is within the 1..5 scale.
func (p PreferenceLevel) Valid() bool {
	return p >= PreferenceStrong && p <= PreferenceEmergency
}

// AvailabilityWindow is one contiguous span of time during which a
// participant is available, together with the roles they can fill in it
// and their stint preferences.
type AvailabilityWindow struct {
	ParticipantID         string          `json:"participant_id" yaml:"participant_id"`
	Start                 time.Time       `json:"start" yaml:"start"`
	End                   time.Time       `json:"end" yaml:"end"`
	Roles                 []Role          `json:"roles" yaml:"roles"`
	Preference            PreferenceLevel `json:"preference" yaml:"preference"`
	MaxConsecutiveStints  int             `json:"max_consecutive_stints" yaml:"max_consecutive_stints"`
	PreferredStintMinutes int             `json:"preferred_stint_minutes" yaml:"preferred_stint_minutes"`
}

// Duration returns the length of the window.
func (w AvailabilityWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Covers reports whether the window fully contains [start, end).
func (w AvailabilityWindow) Covers(start, end time.Time) bool {
	return !start.Before(w.Start) && !end.After(w.End)
}

// Overlaps reports whether two windows share any time.
func (w AvailabilityWindow) Overlaps(other AvailabilityWindow) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// AllowsRole reports whether the window covers the given role.
// A window with no roles listed inherits all of the participant's
// capabilities.
func (w AvailabilityWindow) AllowsRole(role Role) bool {
	if len(w.Roles) == 0 {
		return true
	}
	for _, r := range w.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Validate checks the window's internal consistency.
func (w AvailabilityWindow) Validate() error {
	if !w.End.After(w.Start) {
		return errors.NewRosterError(
			fmt.Sprintf("window %s..%s has no duration", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339)),
			errors.ErrWindowInverted,
		).WithParticipant(w.ParticipantID)
	}
	if w.Preference != 0 && !w.Preference.Valid() {
		return errors.NewValidationError("preference level must be between 1 and 5").
			WithField("preference", int(w.Preference))
	}
	for _, r := range w.Roles {
		if !ValidateRole(r) {
			return errors.NewValidationError("unknown role in availability window").
				WithField("role", string(r))
		}
	}
	return nil
}

// Participant is a single member of the signup pool.
type Participant struct {
	ID           string               `json:"id" yaml:"id"`
	DisplayName  string               `json:"display_name" yaml:"display_name"`
	SkillRating  float64              `json:"skill_rating" yaml:"skill_rating"`
	PreferredCar string               `json:"preferred_car" yaml:"preferred_car"`
	BackupCar    string               `json:"backup_car" yaml:"backup_car"`
	Tier         ExperienceTier       `json:"tier" yaml:"tier"`
	Capabilities []Role               `json:"capabilities" yaml:"capabilities"`
	Windows      []AvailabilityWindow `json:"windows" yaml:"windows"`
}

// HasCapability reports whether the participant can fill the given role.
func (p Participant) HasCapability(role Role) bool {
	for _, r := range p.Capabilities {
		if r == role {
			return true
		}
	}
	return false
}

// WindowsForRole returns the participant's windows that allow the given role.
func (p Participant) WindowsForRole(role Role) []AvailabilityWindow {
	var out []AvailabilityWindow
	for _, w := range p.Windows {
		if w.AllowsRole(role) {
			out = append(out, w)
		}
	}
	return out
}

// HasAvailability reports whether the participant declared any windows.
// Participants without windows contribute nothing to coverage and are
// flagged as warnings downstream.
func (p Participant) HasAvailability() bool {
	return len(p.Windows) > 0
}

// Validate checks the participant's windows for internal consistency.
// Windows for one participant must never overlap in time.
func (p Participant) Validate() error {
	if p.ID == "" {
		return errors.NewValidationError("participant ID is required")
	}

	for _, w := range p.Windows {
		if err := w.Validate(); err != nil {
			return err
		}
	}

	// Sort a copy by start time so the overlap check is a single pass.
	sorted := make([]AvailabilityWindow, len(p.Windows))
	copy(sorted, p.Windows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start.Before(sorted[i-1].End) {
			return errors.NewRosterError(
				fmt.Sprintf("windows starting %s and %s overlap",
					sorted[i-1].Start.Format(time.RFC3339),
					sorted[i].Start.Format(time.RFC3339)),
				errors.ErrWindowOverlap,
			).WithParticipant(p.ID)
		}
	}
	return nil
}

// Pool is an ordered collection of participants. Order is meaningful: the
// skill-balanced strategy uses original index as a stable tie-break.
type Pool []Participant

// Validate checks every participant in the pool.
func (p Pool) Validate() error {
	seen := make(map[string]bool, len(p))
	for _, member := range p {
		if err := member.Validate(); err != nil {
			return err
		}
		if seen[member.ID] {
			return errors.NewRosterError("duplicate participant ID", nil).WithParticipant(member.ID)
		}
		seen[member.ID] = true
	}
	return nil
}

// ByID returns the participant with the given ID.
func (p Pool) ByID(id string) (Participant, error) {
	for _, member := range p {
		if member.ID == id {
			return member, nil
		}
	}
	return Participant{}, errors.NewNotFoundError("participant", id)
}

// IDs returns the participant IDs in pool order.
func (p Pool) IDs() []string {
	out := make([]string, len(p))
	for i, member := range p {
		out[i] = member.ID
	}
	return out
}
