package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akashvibhute/simlane-web-sub000/internal/allocation"
	"github.com/akashvibhute/simlane-web-sub000/internal/config"
	"github.com/akashvibhute/simlane-web-sub000/internal/roster"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a draft partition against club rules",
	Long: `Validate a team draft against the event's rules: team count, team
size limits, duplicate assignments, and required role coverage.

Errors block finalization; warnings are surfaced but do not. With
--finalize, a clean draft is marked final and written back.

Examples:
  # Check a draft
  simlane validate -r roster.yaml -d draft.json

  # Check and finalize in one step
  simlane validate -r roster.yaml -d draft.json --finalize`,
	RunE: runValidate,
}

var (
	validateRoster   string
	validateDraft    string
	validateFinalize bool
	validateJSON     bool
)

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateRoster, "roster", "r", "", "Roster YAML file (required)")
	validateCmd.Flags().StringVarP(&validateDraft, "draft", "d", "", "Draft JSON file (required)")
	validateCmd.Flags().BoolVar(&validateFinalize, "finalize", false, "Finalize the draft if nothing blocks it")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Emit findings as JSON")
	_ = validateCmd.MarkFlagRequired("roster")
	_ = validateCmd.MarkFlagRequired("draft")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	pool, err := roster.Load(validateRoster)
	if err != nil {
		return err
	}
	draft, err := loadDraft(validateDraft)
	if err != nil {
		return err
	}

	rules := allocation.Rules{
		MinTeams:    cfg.Allocation.MinTeams,
		MinTeamSize: cfg.Allocation.MinTeamSize,
		MaxTeamSize: cfg.Allocation.MaxTeamSize,
	}
	for _, r := range cfg.Allocation.RequiredRoles {
		rules.RequiredRoles = append(rules.RequiredRoles, roster.Role(r))
	}

	var findings []allocation.Finding
	if validateFinalize {
		findings, err = allocation.Finalize(draft, pool, rules)
	} else {
		findings = allocation.Validate(draft, pool, rules)
	}

	if validateJSON {
		if jerr := printJSON(cmd, findings); jerr != nil {
			return jerr
		}
	} else {
		printFindings(cmd, findings)
	}
	if err != nil {
		return err
	}

	if validateFinalize {
		if werr := saveDraft(validateDraft, draft); werr != nil {
			return werr
		}
		fmt.Fprintf(cmd.OutOrStdout(), "draft %s finalized\n", draft.ID)
	} else if allocation.Blocking(findings) {
		return fmt.Errorf("draft %s has blocking findings", draft.ID)
	}
	return nil
}

func loadDraft(path string) (*allocation.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read draft file: %w", err)
	}
	var draft allocation.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("decode draft file: %w", err)
	}
	return &draft, nil
}

func saveDraft(path string, draft *allocation.Draft) error {
	data, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write draft file: %w", err)
	}
	return nil
}

func printFindings(cmd *cobra.Command, findings []allocation.Finding) {
	out := cmd.OutOrStdout()
	if len(findings) == 0 {
		fmt.Fprintln(out, "no findings")
		return
	}
	for _, f := range findings {
		fmt.Fprintf(out, "%-7s %-24s %s\n", f.Severity, f.Code, f.Message)
	}
}
