package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akashvibhute/simlane-web-sub000/internal/config"
	"github.com/akashvibhute/simlane-web-sub000/internal/logging"
	"github.com/akashvibhute/simlane-web-sub000/internal/planstore"
	"github.com/akashvibhute/simlane-web-sub000/internal/stint"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Inspect the persisted stint plan",
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the persisted stint plan",
	RunE:  runPlanShow,
}

var planWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the plan whenever it changes on disk",
	Long: `Watch the plan directory and print the schedule each time another
process saves an updated plan. Runs until interrupted.`,
	RunE: runPlanWatch,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planWatchCmd)
}

func openStore() (*planstore.Store, error) {
	cfg := config.Get()
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return planstore.NewStore(cfg.Paths.ResolvePlanDir(wd))
}

func runPlanShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	plan, err := store.Load()
	if err != nil {
		return err
	}
	printPlan(cmd, plan)
	return nil
}

func runPlanWatch(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	watcher, err := planstore.NewWatcher(store, func(plan *stint.Plan) {
		printPlan(cmd, plan)
	}, logging.NopLogger())
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	if store.Exists() {
		if plan, err := store.Load(); err == nil {
			printPlan(cmd, plan)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "watching %s\n", store.Path())
	<-cmd.Context().Done()
	return nil
}

func printPlan(cmd *cobra.Command, plan *stint.Plan) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "plan for %s: %d stints over %d minutes, %.1f L total\n",
		plan.TeamID, len(plan.Assignments), plan.DurationMinutes, plan.Metadata.TotalFuelLiters)
	for _, a := range plan.Assignments {
		fmt.Fprintf(out, "  #%d %4d-%4d  %-12s %3d laps  %5.1f L  %s\n",
			a.Sequence, a.StartOffset, a.EndOffset(), a.DriverID, a.Laps, a.FuelLiters, a.Compound)
	}
	for _, w := range plan.PitWindows {
		fmt.Fprintf(out, "  pit after #%d: %d-%d\n", w.AfterSequence, w.StartOffset, w.EndOffset)
	}
}
