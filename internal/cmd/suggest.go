package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/akashvibhute/simlane-web-sub000/internal/allocation"
	"github.com/akashvibhute/simlane-web-sub000/internal/config"
	"github.com/akashvibhute/simlane-web-sub000/internal/roster"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest team partitions from a roster",
	Long: `Suggest candidate team partitions for an event.

The roster file lists participants with skill ratings, car preferences,
capabilities, and availability windows. Each strategy produces a complete
partition: every participant lands in exactly one team.

Examples:
  # Two skill-balanced teams
  simlane suggest -r roster.yaml

  # Three teams, grouping by preferred car
  simlane suggest -r roster.yaml --teams 3 --strategy preference-grouped

  # Compare all strategies side by side
  simlane suggest -r roster.yaml --all

  # Reproducible random split
  simlane suggest -r roster.yaml --strategy random --seed 7`,
	RunE: runSuggest,
}

var (
	suggestRoster   string
	suggestEventID  string
	suggestStrategy string
	suggestTeams    int
	suggestSize     int
	suggestSeed     int64
	suggestRole     string
	suggestAll      bool
	suggestJSON     bool
)

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().StringVarP(&suggestRoster, "roster", "r", "", "Roster YAML file (required)")
	suggestCmd.Flags().StringVar(&suggestEventID, "event", "", "Event ID to tag the draft with")
	suggestCmd.Flags().StringVar(&suggestStrategy, "strategy", "", "Allocation strategy (default from config)")
	suggestCmd.Flags().IntVar(&suggestTeams, "teams", 0, "Number of teams (default from config)")
	suggestCmd.Flags().IntVar(&suggestSize, "size", 0, "Target team size (0 divides the pool evenly)")
	suggestCmd.Flags().Int64Var(&suggestSeed, "seed", 0, "Seed for the random strategy")
	suggestCmd.Flags().StringVar(&suggestRole, "role", "", "Role the availability strategy optimizes for")
	suggestCmd.Flags().BoolVar(&suggestAll, "all", false, "Run every strategy and print all drafts")
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "Emit drafts as JSON")
	_ = suggestCmd.MarkFlagRequired("roster")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	pool, err := roster.Load(suggestRoster)
	if err != nil {
		return err
	}

	params := allocation.Params{
		EventID:   suggestEventID,
		TeamCount: cfg.Allocation.TeamCount,
		TeamSize:  cfg.Allocation.TeamSize,
		Role:      roster.Role(suggestRole),
		Seed:      cfg.Allocation.Seed,
	}
	if suggestTeams > 0 {
		params.TeamCount = suggestTeams
	}
	if suggestSize > 0 {
		params.TeamSize = suggestSize
	}
	if cmd.Flags().Changed("seed") {
		params.Seed = suggestSeed
	}

	if suggestAll {
		drafts, err := allocation.SuggestAll(cmd.Context(), pool, params)
		if err != nil {
			return err
		}
		if suggestJSON {
			return printJSON(cmd, drafts)
		}
		strategies := allocation.Strategies()
		for _, s := range strategies {
			printDraft(cmd, drafts[s], pool)
		}
		return nil
	}

	strategy := allocation.Strategy(cfg.Allocation.Strategy)
	if suggestStrategy != "" {
		strategy = allocation.Strategy(suggestStrategy)
	}
	draft, err := allocation.Suggest(pool, params, strategy)
	if err != nil {
		return err
	}
	if suggestJSON {
		return printJSON(cmd, draft)
	}
	printDraft(cmd, draft, pool)
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func printDraft(cmd *cobra.Command, draft *allocation.Draft, pool roster.Pool) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Draft %s (%s)\n", draft.ID, draft.Strategy)

	for _, teamID := range draft.TeamOrder {
		members := draft.Teams[teamID]
		sorted := make([]string, len(members))
		copy(sorted, members)
		sort.Strings(sorted)

		fmt.Fprintf(out, "  %s (%d):\n", teamID, len(members))
		for _, id := range sorted {
			if p, err := pool.ByID(id); err == nil {
				fmt.Fprintf(out, "    %-12s %-20s skill %.1f\n", p.ID, p.DisplayName, p.SkillRating)
			} else {
				fmt.Fprintf(out, "    %s\n", id)
			}
		}
	}
	fmt.Fprintln(out)
}
