package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akashvibhute/simlane-web-sub000/internal/availability"
	"github.com/akashvibhute/simlane-web-sub000/internal/roster"
)

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Report availability coverage for a roster",
	Long: `Report which parts of the event window the roster can cover for a
role: the covered union, the peak of simultaneous availability, and
participants with no availability at all.

Examples:
  # Driving coverage
  simlane coverage -r roster.yaml

  # Spotter coverage
  simlane coverage -r roster.yaml --role spot`,
	RunE: runCoverage,
}

var (
	coverageRoster string
	coverageRole   string
)

func init() {
	rootCmd.AddCommand(coverageCmd)

	coverageCmd.Flags().StringVarP(&coverageRoster, "roster", "r", "", "Roster YAML file (required)")
	coverageCmd.Flags().StringVar(&coverageRole, "role", string(roster.RoleDrive), "Role to report coverage for")
	_ = coverageCmd.MarkFlagRequired("roster")
}

func runCoverage(cmd *cobra.Command, args []string) error {
	pool, err := roster.Load(coverageRoster)
	if err != nil {
		return err
	}
	role := roster.Role(coverageRole)
	if !roster.ValidateRole(role) {
		return fmt.Errorf("unknown role %q", coverageRole)
	}

	report := availability.Coverage(pool, role)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "coverage for role %q\n", role)
	fmt.Fprintf(out, "  covered: %.1f hours, peak %d simultaneous\n", report.UnionHours(), report.Peak)
	for _, seg := range report.Segments {
		fmt.Fprintf(out, "  %s - %s  %d available\n",
			seg.Start.Format("2006-01-02 15:04"), seg.End.Format("15:04"), seg.Count)
	}
	if len(report.NoAvailability) > 0 {
		fmt.Fprintf(out, "  no availability: %v\n", report.NoAvailability)
	}
	return nil
}
