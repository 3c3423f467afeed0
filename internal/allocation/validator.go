package allocation

import (
	"fmt"

	"github.com/akashvibhute/simlane-web-sub000/internal/errors"
	"github.com/akashvibhute/simlane-web-sub000/internal/roster"
)

// Rules configures partition validation for an event.
type Rules struct {
	// MinTeams is the minimum number of teams the event requires.
	MinTeams int `json:"min_teams" yaml:"min_teams" mapstructure:"min_teams"`

	// MinTeamSize is the ideal minimum members per team. Falling below it
	// is a warning, not an error.
	MinTeamSize int `json:"min_team_size" yaml:"min_team_size" mapstructure:"min_team_size"`

	// MaxTeamSize is the hard capacity per team. Exceeding it blocks
	// finalization.
	MaxTeamSize int `json:"max_team_size" yaml:"max_team_size" mapstructure:"max_team_size"`

	// RequiredRoles lists capabilities every team must cover at least once.
	RequiredRoles []roster.Role `json:"required_roles" yaml:"required_roles" mapstructure:"required_roles"`
}

// FindingSeverity separates blocking errors from surfaced warnings.
type FindingSeverity string

const (
	// SeverityError blocks finalization of the draft.
	SeverityError FindingSeverity = "error"

	// SeverityWarning is surfaced but does not block finalization.
	SeverityWarning FindingSeverity = "warning"
)

// FindingCode identifies the kind of validation finding.
type FindingCode string

const (
	// CodeTeamOverCapacity: a team exceeds MaxTeamSize.
	CodeTeamOverCapacity FindingCode = "team-over-capacity"

	// CodeTooFewTeams: the draft has fewer teams than MinTeams.
	CodeTooFewTeams FindingCode = "too-few-teams"

	// CodeDuplicateAssignment: a participant appears in more than one team.
	// This indicates shared-state corruption and must never occur; it is
	// checked anyway.
	CodeDuplicateAssignment FindingCode = "duplicate-assignment"

	// CodeUnknownParticipant: a team references an ID not in the pool.
	CodeUnknownParticipant FindingCode = "unknown-participant"

	// CodeTeamUnderSize: a team is below MinTeamSize.
	CodeTeamUnderSize FindingCode = "team-under-size"

	// CodeUnassigned: pool participants remain without a team.
	CodeUnassigned FindingCode = "unassigned-participants"

	// CodeRoleUncovered: no member of a team covers a required role.
	CodeRoleUncovered FindingCode = "role-uncovered"
)

// Finding is one typed validation result. Findings are data: validation
// never panics and never throws, so callers can render findings directly.
type Finding struct {
	Severity      FindingSeverity `json:"severity"`
	Code          FindingCode     `json:"code"`
	Message       string          `json:"message"`
	TeamID        string          `json:"team_id,omitempty"`
	ParticipantID string          `json:"participant_id,omitempty"`
}

// Blocking reports whether any finding has error severity.
func Blocking(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks a draft against the rules and the pool it was built from.
// It is designed to be re-run after every mutation, so invalid intermediate
// states surface immediately rather than at submission time.
func Validate(draft *Draft, pool roster.Pool, rules Rules) []Finding {
	var findings []Finding

	if rules.MinTeams > 0 && len(draft.TeamOrder) < rules.MinTeams {
		findings = append(findings, Finding{
			Severity: SeverityError,
			Code:     CodeTooFewTeams,
			Message:  fmt.Sprintf("draft has %d teams, event requires at least %d", len(draft.TeamOrder), rules.MinTeams),
		})
	}

	byID := make(map[string]roster.Participant, len(pool))
	for _, p := range pool {
		byID[p.ID] = p
	}

	assigned := make(map[string]string, draft.Size()) // participant -> team
	for _, teamID := range draft.TeamOrder {
		members := draft.Teams[teamID]

		if rules.MaxTeamSize > 0 && len(members) > rules.MaxTeamSize {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Code:     CodeTeamOverCapacity,
				Message:  fmt.Sprintf("team %s has %d members, capacity is %d", teamID, len(members), rules.MaxTeamSize),
				TeamID:   teamID,
			})
		}
		if rules.MinTeamSize > 0 && len(members) < rules.MinTeamSize {
			findings = append(findings, Finding{
				Severity: SeverityWarning,
				Code:     CodeTeamUnderSize,
				Message:  fmt.Sprintf("team %s has %d members, ideal minimum is %d", teamID, len(members), rules.MinTeamSize),
				TeamID:   teamID,
			})
		}

		for _, pid := range members {
			if prev, dup := assigned[pid]; dup {
				findings = append(findings, Finding{
					Severity:      SeverityError,
					Code:          CodeDuplicateAssignment,
					Message:       fmt.Sprintf("participant %s assigned to both %s and %s", pid, prev, teamID),
					TeamID:        teamID,
					ParticipantID: pid,
				})
				continue
			}
			assigned[pid] = teamID

			if _, known := byID[pid]; !known {
				findings = append(findings, Finding{
					Severity:      SeverityError,
					Code:          CodeUnknownParticipant,
					Message:       fmt.Sprintf("participant %s is not in the pool", pid),
					TeamID:        teamID,
					ParticipantID: pid,
				})
			}
		}

		for _, role := range rules.RequiredRoles {
			covered := false
			for _, pid := range members {
				if p, ok := byID[pid]; ok && p.HasCapability(role) {
					covered = true
					break
				}
			}
			if !covered {
				findings = append(findings, Finding{
					Severity: SeverityWarning,
					Code:     CodeRoleUncovered,
					Message:  fmt.Sprintf("no member of team %s can %s", teamID, role),
					TeamID:   teamID,
				})
			}
		}
	}

	for _, p := range pool {
		if _, ok := assigned[p.ID]; !ok {
			findings = append(findings, Finding{
				Severity:      SeverityWarning,
				Code:          CodeUnassigned,
				Message:       fmt.Sprintf("participant %s is not assigned to any team", p.ID),
				ParticipantID: p.ID,
			})
		}
	}

	return findings
}

// Finalize marks the draft as finalized if no blocking findings exist.
func Finalize(draft *Draft, pool roster.Pool, rules Rules) ([]Finding, error) {
	findings := Validate(draft, pool, rules)
	if Blocking(findings) {
		return findings, errors.NewAllocationError("finalization refused", errors.ErrDraftBlocked).
			WithDraft(draft.ID)
	}
	draft.Finalized = true
	return findings, nil
}

// ErrTeamNotFound indicates a reference to a team ID missing from the draft.
var ErrTeamNotFound = errors.New("team not found")

func errDraftFinalized(draftID string) error {
	return errors.NewAllocationError("draft is immutable", errors.ErrDraftFinalized).WithDraft(draftID)
}

func errTeamNotFound(teamID string) error {
	return errors.NewAllocationError("unknown team", ErrTeamNotFound).WithTeam(teamID)
}
