package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/akashvibhute/simlane-web-sub000/internal/config"
	"github.com/akashvibhute/simlane-web-sub000/internal/planstore"
	"github.com/akashvibhute/simlane-web-sub000/internal/roster"
	"github.com/akashvibhute/simlane-web-sub000/internal/stint"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Generate a stint plan for a team",
	Long: `Generate a fuel-aware stint schedule for one team.

The event file describes the car, the track, the race window, and the
team's drivers (IDs from the roster). Stint length is derived from fuel
range scaled by the safety factor and capped at the comfort ceiling;
drivers rotate subject to their availability windows.

Examples:
  # Print the plan as JSON
  simlane schedule -r roster.yaml -e event.yaml

  # Persist the plan to the configured plan directory
  simlane schedule -r roster.yaml -e event.yaml --save`,
	RunE: runSchedule,
}

// eventSpec is the YAML shape of the event file.
type eventSpec struct {
	Team struct {
		ID      string   `yaml:"id"`
		Drivers []string `yaml:"drivers"`
	} `yaml:"team"`
	Car   stint.CarSpec `yaml:"car"`
	Track struct {
		AverageLapSeconds   int     `yaml:"average_lap_seconds"`
		TireDegradationRate float64 `yaml:"tire_degradation_rate"`
	} `yaml:"track"`
	Race struct {
		Start           time.Time `yaml:"start"`
		DurationMinutes int       `yaml:"duration_minutes"`
	} `yaml:"race"`
}

var (
	scheduleRoster   string
	scheduleEvent    string
	scheduleStintMin int
	scheduleSave     bool
)

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVarP(&scheduleRoster, "roster", "r", "", "Roster YAML file (required)")
	scheduleCmd.Flags().StringVarP(&scheduleEvent, "event", "e", "", "Event YAML file (required)")
	scheduleCmd.Flags().IntVar(&scheduleStintMin, "stint-minutes", 0, "Force a fixed stint length instead of deriving it")
	scheduleCmd.Flags().BoolVar(&scheduleSave, "save", false, "Persist the plan to the plan directory")
	_ = scheduleCmd.MarkFlagRequired("roster")
	_ = scheduleCmd.MarkFlagRequired("event")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	pool, err := roster.Load(scheduleRoster)
	if err != nil {
		return err
	}
	spec, err := loadEventSpec(scheduleEvent)
	if err != nil {
		return err
	}

	team := stint.Team{ID: spec.Team.ID}
	for _, id := range spec.Team.Drivers {
		p, err := pool.ByID(id)
		if err != nil {
			return err
		}
		team.Drivers = append(team.Drivers, p)
	}

	race := stint.RaceSpec{
		Start:    spec.Race.Start,
		Duration: time.Duration(spec.Race.DurationMinutes) * time.Minute,
	}
	track := stint.TrackSpec{
		AverageLapTime:      time.Duration(spec.Track.AverageLapSeconds) * time.Second,
		TireDegradationRate: spec.Track.TireDegradationRate,
	}
	opts := stint.Options{
		MaxStintMinutes:   cfg.Stint.MaxStintMinutes,
		FuelSafetyFactor:  cfg.Stint.FuelSafetyFactor,
		PitServiceMinutes: cfg.Stint.PitServiceMinutes,
		FuelReserveLiters: cfg.Stint.FuelReserveLiters,
		StintMinutes:      scheduleStintMin,
	}

	plan, err := stint.Optimize(team, race, spec.Car, track, opts)
	if err != nil {
		return err
	}

	if scheduleSave {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		store, err := planstore.NewStore(cfg.Paths.ResolvePlanDir(wd))
		if err != nil {
			return err
		}
		if err := store.Save(plan); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "plan saved to %s\n", store.Path())
		return nil
	}

	data, err := plan.ExportJSON()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func loadEventSpec(path string) (*eventSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event file: %w", err)
	}
	var spec eventSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("decode event file: %w", err)
	}
	if spec.Team.ID == "" {
		return nil, fmt.Errorf("event file: team.id is required")
	}
	if len(spec.Team.Drivers) == 0 {
		return nil, fmt.Errorf("event file: team.drivers is required")
	}
	return &spec, nil
}
