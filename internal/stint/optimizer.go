package stint

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/akashvibhute/simlane-web-sub000/internal/errors"
	"github.com/akashvibhute/simlane-web-sub000/internal/roster"
)

// Options tunes the optimizer. Zero values fall back to the defaults below,
// which mirror the engine configuration defaults.
type Options struct {
	// MaxStintMinutes is the driver-comfort ceiling on stint length.
	MaxStintMinutes int

	// FuelSafetyFactor scales the fuel-derived stint maximum so a stint
	// never plans to run the tank dry. Must be in (0, 1].
	FuelSafetyFactor float64

	// PitServiceMinutes is the fixed refuel-and-tires service time inserted
	// at each stint boundary.
	PitServiceMinutes int

	// FuelReserveLiters is added to every stint's fuel load, capped at tank
	// capacity.
	FuelReserveLiters float64

	// StintMinutes forces a stint length instead of deriving one. Used when
	// the team mandates a rotation length; fuel feasibility is still
	// checked against it.
	StintMinutes int
}

// Defaults applied when Options fields are zero.
const (
	DefaultMaxStintMinutes   = 90
	DefaultFuelSafetyFactor  = 0.9
	DefaultPitServiceMinutes = 3
	DefaultFuelReserveLiters = 2.0
)

// normalize applies defaults.
func (o Options) normalize() Options {
	if o.MaxStintMinutes <= 0 {
		o.MaxStintMinutes = DefaultMaxStintMinutes
	}
	if o.FuelSafetyFactor <= 0 || o.FuelSafetyFactor > 1 {
		o.FuelSafetyFactor = DefaultFuelSafetyFactor
	}
	if o.PitServiceMinutes <= 0 {
		o.PitServiceMinutes = DefaultPitServiceMinutes
	}
	if o.FuelReserveLiters < 0 {
		o.FuelReserveLiters = DefaultFuelReserveLiters
	}
	return o
}

// OptimalStintMinutes derives the stint length: the fuel-limited maximum
// (laps per tank converted to minutes, scaled by the safety factor) capped
// by the driver-comfort ceiling.
func OptimalStintMinutes(car CarSpec, track TrackSpec, opts Options) (int, error) {
	opts = opts.normalize()

	if car.FuelCapacityLiters <= 0 || car.ConsumptionPerLapLiters <= 0 {
		return 0, errors.NewScheduleError("car spec must have positive capacity and consumption", errors.ErrInvalidCarSpec)
	}
	if track.AverageLapTime <= 0 {
		return 0, errors.NewScheduleError("track spec must have a positive lap time", errors.ErrInvalidRaceSpec)
	}

	lapsPerTank := car.FuelCapacityLiters / (car.ConsumptionPerLapLiters * car.efficiency())
	fuelMinutes := lapsPerTank * track.AverageLapTime.Minutes() * opts.FuelSafetyFactor

	stint := int(math.Floor(fuelMinutes))
	if stint > opts.MaxStintMinutes {
		stint = opts.MaxStintMinutes
	}
	if stint < 1 {
		return 0, errors.NewScheduleError("fuel-limited stint length is under one minute", errors.ErrFuelBudget)
	}
	return stint, nil
}

// Optimize computes a complete stint plan for the team: a contiguous,
// non-overlapping partition of [0, race duration] with the final stint
// truncated to land exactly on the boundary. If any slot has no available
// driver, or a stint's fuel requirement exceeds the tank, a ScheduleError
// naming the interval is returned and no plan is produced.
func Optimize(team Team, race RaceSpec, car CarSpec, track TrackSpec, opts Options) (*Plan, error) {
	opts = opts.normalize()

	if race.Duration <= 0 {
		return nil, errors.NewScheduleError("race duration must be positive", errors.ErrInvalidRaceSpec).
			WithTeam(team.ID)
	}
	if len(team.Drivers) == 0 {
		return nil, errors.NewScheduleError("team has no drivers", errors.ErrInvalidInput).
			WithTeam(team.ID)
	}

	stintLen := opts.StintMinutes
	if stintLen <= 0 {
		derived, err := OptimalStintMinutes(car, track, opts)
		if err != nil {
			return nil, err
		}
		stintLen = derived
	}

	lapMinutes := track.AverageLapTime.Minutes()
	if lapMinutes <= 0 {
		return nil, errors.NewScheduleError("track spec must have a positive lap time", errors.ErrInvalidRaceSpec).
			WithTeam(team.ID)
	}

	plan := &Plan{
		TeamID:          team.ID,
		RaceStart:       race.Start,
		DurationMinutes: race.DurationMinutes(),
	}

	rotation := newRotation(team.Drivers)
	totalMinutes := race.DurationMinutes()

	for offset := 0; offset < totalMinutes; {
		duration := stintLen
		if offset+duration > totalMinutes {
			duration = totalMinutes - offset
		}

		slotStart := race.Start.Add(time.Duration(offset) * time.Minute)
		slotEnd := race.Start.Add(time.Duration(offset+duration) * time.Minute)

		driver, ok := rotation.next(slotStart, slotEnd)
		if !ok {
			return nil, errors.NewScheduleError("no driver available", errors.ErrUncoveredInterval).
				WithTeam(team.ID).
				WithInterval(offset, offset+duration)
		}

		laps := int(math.Ceil(float64(duration) / lapMinutes))
		required := float64(laps) * car.ConsumptionPerLapLiters * car.efficiency()
		if required > car.FuelCapacityLiters {
			return nil, errors.NewScheduleError("stint fuel requirement exceeds tank capacity", errors.ErrFuelBudget).
				WithTeam(team.ID).
				WithInterval(offset, offset+duration)
		}

		fuel := required + opts.FuelReserveLiters
		if fuel > car.FuelCapacityLiters {
			fuel = car.FuelCapacityLiters
		}

		plan.Assignments = append(plan.Assignments, Assignment{
			ID:          uuid.NewString(),
			TeamID:      team.ID,
			DriverID:    driver.ID,
			StartOffset: offset,
			Duration:    duration,
			Laps:        laps,
			FuelLiters:  fuel,
			Compound:    compoundFor(offset, totalMinutes),
			TireWear:    track.TireDegradationRate * float64(laps),
			Sequence:    len(plan.Assignments),
		})

		offset += duration
	}

	// Pit windows are derived overlays at each interior stint boundary.
	for i := 1; i < len(plan.Assignments); i++ {
		boundary := plan.Assignments[i].StartOffset
		plan.PitWindows = append(plan.PitWindows, PitWindow{
			StartOffset:   boundary,
			EndOffset:     boundary + opts.PitServiceMinutes,
			AfterSequence: plan.Assignments[i-1].Sequence,
		})
	}

	var totalFuel float64
	for _, a := range plan.Assignments {
		totalFuel += a.FuelLiters
	}
	plan.Metadata = Metadata{
		CreatedAt:        time.Now().UTC(),
		TotalFuelLiters:  totalFuel,
		EstimatedFinish:  race.Start.Add(race.Duration),
		StintMinutes:     stintLen,
		PitServiceMinute: opts.PitServiceMinutes,
	}

	return plan, nil
}

// compoundFor looks up the tire compound by elapsed-race-time bucket.
func compoundFor(offset, totalMinutes int) Compound {
	switch {
	case offset*3 < totalMinutes:
		return CompoundSoft
	case offset*3 < totalMinutes*2:
		return CompoundMedium
	default:
		return CompoundHard
	}
}

// rotation walks team drivers in round-robin order, honoring availability
// windows and per-window consecutive-stint limits.
type rotation struct {
	drivers     []roster.Participant
	cursor      int
	lastDriver  string
	consecutive int
}

func newRotation(drivers []roster.Participant) *rotation {
	return &rotation{drivers: drivers}
}

// next returns the next driver able to cover [start, end), advancing the
// round-robin cursor. Returns false when no driver qualifies.
func (r *rotation) next(start, end time.Time) (roster.Participant, bool) {
	n := len(r.drivers)
	for i := 0; i < n; i++ {
		candidate := r.drivers[(r.cursor+i)%n]
		w, ok := coveringWindow(candidate, start, end)
		if !ok {
			continue
		}
		if candidate.ID == r.lastDriver && w.MaxConsecutiveStints > 0 && r.consecutive >= w.MaxConsecutiveStints {
			continue
		}

		if candidate.ID == r.lastDriver {
			r.consecutive++
		} else {
			r.lastDriver = candidate.ID
			r.consecutive = 1
		}
		r.cursor = (r.cursor + i + 1) % n
		return candidate, true
	}
	return roster.Participant{}, false
}

// coveringWindow returns a driving window that fully contains [start, end).
func coveringWindow(p roster.Participant, start, end time.Time) (roster.AvailabilityWindow, bool) {
	for _, w := range p.WindowsForRole(roster.RoleDrive) {
		if w.Covers(start, end) {
			return w, true
		}
	}
	return roster.AvailabilityWindow{}, false
}
