package stint

import (
	"testing"
	"time"

	"github.com/akashvibhute/simlane-web-sub000/internal/errors"
	"github.com/akashvibhute/simlane-web-sub000/internal/roster"
)

var raceStart = time.Date(2026, time.June, 13, 14, 0, 0, 0, time.UTC)

// fullTimeDriver is available for the whole race.
func fullTimeDriver(id string, raceMinutes int) roster.Participant {
	return roster.Participant{
		ID:           id,
		DisplayName:  id,
		Capabilities: []roster.Role{roster.RoleDrive},
		Windows: []roster.AvailabilityWindow{{
			ParticipantID: id,
			Start:         raceStart,
			End:           raceStart.Add(time.Duration(raceMinutes) * time.Minute),
		}},
	}
}

func partTimeDriver(id string, fromMinute, toMinute int) roster.Participant {
	return roster.Participant{
		ID:           id,
		Capabilities: []roster.Role{roster.RoleDrive},
		Windows: []roster.AvailabilityWindow{{
			ParticipantID: id,
			Start:         raceStart.Add(time.Duration(fromMinute) * time.Minute),
			End:           raceStart.Add(time.Duration(toMinute) * time.Minute),
		}},
	}
}

// testCar yields a 90-minute fuel-limited stint after the safety margin:
// 100L / 2L per lap = 50 laps, 50 laps x 2min = 100min, x0.9 = 90min.
func testCar() CarSpec {
	return CarSpec{FuelCapacityLiters: 100, ConsumptionPerLapLiters: 2}
}

func testTrack() TrackSpec {
	return TrackSpec{AverageLapTime: 2 * time.Minute, TireDegradationRate: 0.01}
}

func TestOptimalStintMinutes(t *testing.T) {
	tests := []struct {
		name  string
		car   CarSpec
		track TrackSpec
		opts  Options
		want  int
	}{
		{
			name:  "fuel limited below ceiling",
			car:   CarSpec{FuelCapacityLiters: 60, ConsumptionPerLapLiters: 2},
			track: TrackSpec{AverageLapTime: 2 * time.Minute},
			// 30 laps x 2min x 0.9 = 54min
			want: 54,
		},
		{
			name:  "comfort ceiling caps fuel range",
			car:   CarSpec{FuelCapacityLiters: 200, ConsumptionPerLapLiters: 1},
			track: TrackSpec{AverageLapTime: 2 * time.Minute},
			// 200 laps x 2min x 0.9 = 360min, capped at 90
			want: DefaultMaxStintMinutes,
		},
		{
			name:  "efficiency factor raises consumption",
			car:   CarSpec{FuelCapacityLiters: 60, ConsumptionPerLapLiters: 2, EfficiencyFactor: 1.5},
			track: TrackSpec{AverageLapTime: 2 * time.Minute},
			// 20 laps x 2min x 0.9 = 36min
			want: 36,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OptimalStintMinutes(tt.car, tt.track, tt.opts)
			if err != nil {
				t.Fatalf("OptimalStintMinutes failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("OptimalStintMinutes = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOptimalStintMinutesInvalidSpecs(t *testing.T) {
	if _, err := OptimalStintMinutes(CarSpec{}, testTrack(), Options{}); !errors.Is(err, errors.ErrInvalidCarSpec) {
		t.Errorf("zero car spec: got %v, want ErrInvalidCarSpec", err)
	}
	if _, err := OptimalStintMinutes(testCar(), TrackSpec{}, Options{}); !errors.Is(err, errors.ErrInvalidRaceSpec) {
		t.Errorf("zero lap time: got %v, want ErrInvalidRaceSpec", err)
	}
}

// A 600-minute race with a 90-minute optimal stint and three full-time
// drivers yields exactly 7 stints: six of 90 minutes and a final 60.
func TestOptimizeRotationCoversRaceExactly(t *testing.T) {
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

	if len(plan.Assignments) != 7 {
		t.Fatalf("got %d stints, want 7", len(plan.Assignments))
	}

	offset := 0
	for i, a := range plan.Assignments {
		if a.StartOffset != offset {
			t.Errorf("stint %d starts at %d, want %d", i, a.StartOffset, offset)
		}
		wantDur := 90
		if i == 6 {
			wantDur = 60
		}
		if a.Duration != wantDur {
			t.Errorf("stint %d duration = %d, want %d", i, a.Duration, wantDur)
		}
		offset = a.EndOffset()
	}
	if offset != 600 {
		t.Errorf("last stint ends at %d, want 600", offset)
	}

	if err := plan.Validate(); err != nil {
		t.Errorf("generated plan fails its own invariants: %v", err)
	}

	// Round-robin order: d-1, d-2, d-3, d-1, ...
	wantDrivers := []string{"d-1", "d-2", "d-3", "d-1", "d-2", "d-3", "d-1"}
	for i, a := range plan.Assignments {
		if a.DriverID != wantDrivers[i] {
			t.Errorf("stint %d driver = %s, want %s", i, a.DriverID, wantDrivers[i])
		}
	}
}

// A stint requiring 90 laps on a 100L tank at 2.5L per lap needs 225L and
// must be reported as a fuel-budget failure, not an undersized stint.
func TestOptimizeFuelBudgetFailure(t *testing.T) {
	team := Team{ID: "team-1", Drivers: []roster.Participant{fullTimeDriver("d-1", 90)}}
	race := RaceSpec{Start: raceStart, Duration: 90 * time.Minute}
	car := CarSpec{FuelCapacityLiters: 100, ConsumptionPerLapLiters: 2.5}
	track := TrackSpec{AverageLapTime: time.Minute}

	// Force the 90-lap stint instead of letting the optimizer derive a
	// shorter fuel-safe one.
	_, err := Optimize(team, race, car, track, Options{StintMinutes: 90})
	if !errors.Is(err, errors.ErrFuelBudget) {
		t.Fatalf("got %v, want ErrFuelBudget", err)
	}

	var schedErr *errors.ScheduleError
	if !errors.As(err, &schedErr) {
		t.Fatalf("expected *ScheduleError, got %T", err)
	}
	start, end := schedErr.Interval()
	if start != 0 || end != 90 {
		t.Errorf("failure interval = (%d, %d), want (0, 90)", start, end)
	}
}

func TestOptimizeUncoveredIntervalFailure(t *testing.T) {
	// Both drivers are gone between minutes 180 and 270.
	team := Team{
		ID: "team-1",
		Drivers: []roster.Participant{
			partTimeDriver("d-1", 0, 180),
			partTimeDriver("d-2", 90, 180),
		},
	}
	race := RaceSpec{Start: raceStart, Duration: 360 * time.Minute}

	_, err := Optimize(team, race, testCar(), testTrack(), Options{})
	if !errors.Is(err, errors.ErrUncoveredInterval) {
		t.Fatalf("got %v, want ErrUncoveredInterval", err)
	}

	var schedErr *errors.ScheduleError
	if !errors.As(err, &schedErr) {
		t.Fatalf("expected *ScheduleError, got %T", err)
	}
	start, _ := schedErr.Interval()
	if start != 180 {
		t.Errorf("failure interval starts at %d, want 180", start)
	}
}

func TestOptimizeSkipsUnavailableDrivers(t *testing.T) {
	// d-1 only covers the first half, d-2 the second half.
	team := Team{
		ID: "team-1",
		Drivers: []roster.Participant{
			partTimeDriver("d-1", 0, 180),
			partTimeDriver("d-2", 180, 360),
		},
	}
	race := RaceSpec{Start: raceStart, Duration: 360 * time.Minute}

	plan, err := Optimize(team, race, testCar(), testTrack(), Options{})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	for _, a := range plan.Assignments {
		want := "d-1"
		if a.StartOffset >= 180 {
			want = "d-2"
		}
		if a.DriverID != want {
			t.Errorf("stint at %d driven by %s, want %s", a.StartOffset, a.DriverID, want)
		}
	}
}

func TestOptimizeFuelLoads(t *testing.T) {
	team := Team{ID: "team-1", Drivers: []roster.Participant{fullTimeDriver("d-1", 180)}}
	race := RaceSpec{Start: raceStart, Duration: 180 * time.Minute}

	plan, err := Optimize(team, race, testCar(), testTrack(), Options{})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	for _, a := range plan.Assignments {
		// 90min at 2min laps = 45 laps x 2L = 90L + 2L reserve.
		wantLaps := 45
		wantFuel := 92.0
		if a.Laps != wantLaps {
			t.Errorf("stint %d laps = %d, want %d", a.Sequence, a.Laps, wantLaps)
		}
		if a.FuelLiters != wantFuel {
			t.Errorf("stint %d fuel = %v, want %v", a.Sequence, a.FuelLiters, wantFuel)
		}
		if a.FuelLiters > testCar().FuelCapacityLiters {
			t.Errorf("stint %d fuel %vL exceeds tank", a.Sequence, a.FuelLiters)
		}
	}

	if plan.Metadata.TotalFuelLiters != 184 {
		t.Errorf("TotalFuelLiters = %v, want 184", plan.Metadata.TotalFuelLiters)
	}
	if !plan.Metadata.EstimatedFinish.Equal(raceStart.Add(180 * time.Minute)) {
		t.Errorf("EstimatedFinish = %v, want race start + duration", plan.Metadata.EstimatedFinish)
	}
}

func TestOptimizeTireCompoundBuckets(t *testing.T) {
	team := Team{ID: "team-1", Drivers: []roster.Participant{
		fullTimeDriver("d-1", 540), fullTimeDriver("d-2", 540),
	}}
	race := RaceSpec{Start: raceStart, Duration: 540 * time.Minute}

	plan, err := Optimize(team, race, testCar(), testTrack(), Options{})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	for _, a := range plan.Assignments {
		var want Compound
		switch {
		case a.StartOffset < 180:
			want = CompoundSoft
		case a.StartOffset < 360:
			want = CompoundMedium
		default:
			want = CompoundHard
		}
		if a.Compound != want {
			t.Errorf("stint at %d compound = %s, want %s", a.StartOffset, a.Compound, want)
		}
	}
}

func TestOptimizePitWindows(t *testing.T) {
	team := Team{ID: "team-1", Drivers: []roster.Participant{
		fullTimeDriver("d-1", 270), fullTimeDriver("d-2", 270),
	}}
	race := RaceSpec{Start: raceStart, Duration: 270 * time.Minute}

	plan, err := Optimize(team, race, testCar(), testTrack(), Options{PitServiceMinutes: 4})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	// 3 stints (90+90+90) means 2 interior boundaries.
	if len(plan.PitWindows) != len(plan.Assignments)-1 {
		t.Fatalf("got %d pit windows for %d stints", len(plan.PitWindows), len(plan.Assignments))
	}
	for i, pw := range plan.PitWindows {
		boundary := plan.Assignments[i+1].StartOffset
		if pw.StartOffset != boundary {
			t.Errorf("pit window %d starts at %d, want stint boundary %d", i, pw.StartOffset, boundary)
		}
		if pw.EndOffset-pw.StartOffset != 4 {
			t.Errorf("pit window %d length = %d, want 4", i, pw.EndOffset-pw.StartOffset)
		}
		if pw.AfterSequence != plan.Assignments[i].Sequence {
			t.Errorf("pit window %d after sequence %d, want %d", i, pw.AfterSequence, plan.Assignments[i].Sequence)
		}
	}
}

func TestOptimizeHonorsMaxConsecutiveStints(t *testing.T) {
	limited := fullTimeDriver("d-1", 360)
	limited.Windows[0].MaxConsecutiveStints = 1
	relief := fullTimeDriver("d-2", 360)
	relief.Windows[0].MaxConsecutiveStints = 1

	team := Team{ID: "team-1", Drivers: []roster.Participant{limited, relief}}
	race := RaceSpec{Start: raceStart, Duration: 360 * time.Minute}

	plan, err := Optimize(team, race, testCar(), testTrack(), Options{})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	for i := 1; i < len(plan.Assignments); i++ {
		if plan.Assignments[i].DriverID == plan.Assignments[i-1].DriverID {
			t.Errorf("driver %s drove stints %d and %d back to back despite a 1-stint limit",
				plan.Assignments[i].DriverID, i-1, i)
		}
	}
}

func TestOptimizeInputErrors(t *testing.T) {
	race := RaceSpec{Start: raceStart, Duration: 120 * time.Minute}

	if _, err := Optimize(Team{ID: "t"}, race, testCar(), testTrack(), Options{}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("no drivers: got %v, want ErrInvalidInput", err)
	}

	team := Team{ID: "t", Drivers: []roster.Participant{fullTimeDriver("d-1", 120)}}
	if _, err := Optimize(team, RaceSpec{Start: raceStart}, testCar(), testTrack(), Options{}); !errors.Is(err, errors.ErrInvalidRaceSpec) {
		t.Errorf("zero duration: got %v, want ErrInvalidRaceSpec", err)
	}
}
