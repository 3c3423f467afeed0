// Package stint computes driver-rotation schedules for endurance races:
// an optimal stint length under fuel and comfort constraints, a gap-free
// rotation covering the whole race, per-stint fuel loads and tire
// compounds, and the pit windows between stints.
//
// The optimizer is a stateless computation. It either returns a complete
// plan or a structured failure naming the offending interval or resource;
// it never returns a silently truncated plan.
package stint

import (
	"time"

	"github.com/akashvibhute/simlane-web-sub000/internal/roster"
)

// Compound identifies a tire compound.
type Compound string

const (
	// CompoundSoft is run early while track grip is still building.
	CompoundSoft Compound = "soft"

	// CompoundMedium is the mid-race compound.
	CompoundMedium Compound = "medium"

	// CompoundHard is run in the final third of the race.
	CompoundHard Compound = "hard"
)

// String returns the string representation of the compound.
func (c Compound) String() string {
	return string(c)
}

// CarSpec describes the car's fuel characteristics, supplied by the
// catalog collaborator.
type CarSpec struct {
	// FuelCapacityLiters is the tank capacity.
	FuelCapacityLiters float64 `json:"fuel_capacity_liters" yaml:"fuel_capacity_liters"`

	// ConsumptionPerLapLiters is the average burn per lap.
	ConsumptionPerLapLiters float64 `json:"consumption_per_lap_liters" yaml:"consumption_per_lap_liters"`

	// EfficiencyFactor scales consumption for car-specific efficiency.
	// Treated as 1.0 when zero.
	EfficiencyFactor float64 `json:"efficiency_factor" yaml:"efficiency_factor"`
}

// efficiency returns the factor with the 1.0 default applied.
func (c CarSpec) efficiency() float64 {
	if c.EfficiencyFactor <= 0 {
		return 1.0
	}
	return c.EfficiencyFactor
}

// TrackSpec describes the track, supplied by the catalog collaborator.
type TrackSpec struct {
	// AverageLapTime is the expected lap time for this car and track.
	AverageLapTime time.Duration `json:"average_lap_time" yaml:"average_lap_time"`

	// TireDegradationRate is the per-lap wear fraction, used to estimate
	// tire wear per stint.
	TireDegradationRate float64 `json:"tire_degradation_rate" yaml:"tire_degradation_rate"`
}

// RaceSpec describes the event being scheduled.
type RaceSpec struct {
	// Start is the wall-clock race start; availability windows are mapped
	// against it.
	Start time.Time `json:"start" yaml:"start"`

	// Duration is the total race length.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// DurationMinutes returns the race length in whole minutes.
func (r RaceSpec) DurationMinutes() int {
	return int(r.Duration / time.Minute)
}

// Team is a finalized team handed to the optimizer. Drivers carry their
// availability windows, which restrict when they may drive.
type Team struct {
	ID      string               `json:"id"`
	Drivers []roster.Participant `json:"drivers"`
}

// Assignment is one stint: a single continuous driving segment by one
// driver. Offsets and durations are minutes from race start. Assignments
// are immutable once the race begins; that boundary is enforced by the
// persistence collaborator.
type Assignment struct {
	ID          string   `json:"id"`
	TeamID      string   `json:"team_id"`
	DriverID    string   `json:"driver_id"`
	StartOffset int      `json:"start_offset"`
	Duration    int      `json:"duration"`
	Laps        int      `json:"laps"`
	FuelLiters  float64  `json:"fuel_liters"`
	Compound    Compound `json:"compound"`
	TireWear    float64  `json:"tire_wear"`
	Sequence    int      `json:"sequence"`
}

// EndOffset returns the stint end in minutes from race start.
func (a Assignment) EndOffset() int {
	return a.StartOffset + a.Duration
}

// PitWindow is the service interval reserved at a stint boundary. It is
// derived from the rotation, never independently authored.
type PitWindow struct {
	StartOffset   int `json:"start_offset"`
	EndOffset     int `json:"end_offset"`
	AfterSequence int `json:"after_sequence"`
}

// Metadata records plan-level aggregates for export and notification.
type Metadata struct {
	CreatedAt        time.Time `json:"created_at"`
	TotalFuelLiters  float64   `json:"total_fuel_liters"`
	EstimatedFinish  time.Time `json:"estimated_finish"`
	StintMinutes     int       `json:"stint_minutes"`
	PitServiceMinute int       `json:"pit_service_minutes"`
}

// Plan is a complete stint schedule for one team.
type Plan struct {
	TeamID          string       `json:"team_id"`
	RaceStart       time.Time    `json:"race_start"`
	DurationMinutes int          `json:"duration_minutes"`
	Assignments     []Assignment `json:"assignments"`
	PitWindows      []PitWindow  `json:"pit_windows"`
	Metadata        Metadata     `json:"metadata"`
}
