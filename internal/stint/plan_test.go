package stint

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/akashvibhute/simlane-web-sub000/internal/errors"
	"github.com/akashvibhute/simlane-web-sub000/internal/roster"
)

func generatedPlan(t *testing.T) *Plan {
	t.Helper()

	team := Team{
		ID: "team-1",
		Drivers: []roster.Participant{
			fullTimeDriver("d-1", 600),
			fullTimeDriver("d-2", 600),
			fullTimeDriver("d-3", 600),
		},
	}
	race := RaceSpec{Start: raceStart, Duration: 600 * time.Minute}

	plan, err := Optimize(team, race, testCar(), testTrack(), Options{})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	return plan
}

// Exporting a plan and re-importing it into a fresh session reproduces an
// identical sequence of assignments.
func TestPlanRoundTrip(t *testing.T) {
	plan := generatedPlan(t)

	data, err := plan.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	reimported, err := ImportJSON(data)
	if err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}

	if diff := cmp.Diff(plan, reimported); diff != "" {
		t.Errorf("round trip mismatch (-exported +reimported):\n%s", diff)
	}

	// Idempotence: a second round trip produces byte-identical output.
	data2, err := reimported.ExportJSON()
	if err != nil {
		t.Fatalf("second ExportJSON failed: %v", err)
	}
	if string(data) != string(data2) {
		t.Error("second export differs from first")
	}
}

func TestImportRejectsMalformedJSON(t *testing.T) {
	if _, err := ImportJSON([]byte("{")); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestValidateDetectsGaps(t *testing.T) {
	plan := generatedPlan(t)
	plan.Assignments[3].StartOffset += 5 // introduce a gap

	err := plan.Validate()
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestValidateDetectsShortPlan(t *testing.T) {
	plan := generatedPlan(t)
	plan.Assignments = plan.Assignments[:len(plan.Assignments)-1]

	if err := plan.Validate(); err == nil {
		t.Fatal("expected error for plan not reaching race duration")
	}
}

func TestValidateDetectsBadSequence(t *testing.T) {
	plan := generatedPlan(t)
	plan.Assignments[2].Sequence = 7

	if err := plan.Validate(); err == nil {
		t.Fatal("expected error for out-of-order sequence")
	}
}

func TestDriverMinutes(t *testing.T) {
	plan := generatedPlan(t)

	minutes := plan.DriverMinutes()
	// 7 stints round-robin over 3 drivers: d-1 gets stints 0, 3, 6.
	if minutes["d-1"] != 90+90+60 {
		t.Errorf("d-1 minutes = %d, want 240", minutes["d-1"])
	}
	if minutes["d-2"] != 180 || minutes["d-3"] != 180 {
		t.Errorf("d-2/d-3 minutes = %d/%d, want 180/180", minutes["d-2"], minutes["d-3"])
	}

	var total int
	for _, m := range minutes {
		total += m
	}
	if total != plan.DurationMinutes {
		t.Errorf("total seat time %d != race duration %d", total, plan.DurationMinutes)
	}
}
