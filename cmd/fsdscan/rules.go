package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/fsdscan/internal/constants"
	"github.com/ludo-technologies/fsdscan/internal/reporter"
	"github.com/ludo-technologies/fsdscan/service"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules [path]",
		Short: "List the architecture rules",
		Long: `List every rule in evaluation order with its category, effective priority
and whether it is enabled. Configuration overrides discovered from path (or
--config) are applied.

Examples:
  fsdscan rules
  fsdscan rules --json
  fsdscan rules --config fsdscan.yaml`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runRules,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringP("config", "c", "", "Path to config file")
	cmd.Flags().Bool("json", false, "Output the rule table as JSON")
	return cmd
}

func runRules(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	asJSON, _ := cmd.Flags().GetBool("json")
	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	cfg, err := service.NewConfigurationLoader(currentLogger()).Load(configPath, target, service.ConfigOverrides{})
	if err != nil {
		return &ExitError{Code: constants.ExitFatal, Message: err.Error()}
	}
	listing, err := service.ListRules(cfg, currentLogger())
	if err != nil {
		return &ExitError{Code: constants.ExitFatal, Message: err.Error()}
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if err := reporter.WriteJSON(out, listing); err != nil {
			return &ExitError{Code: constants.ExitFatal, Message: err.Error()}
		}
		return nil
	}
	return renderRules(out, listing)
}

func renderRules(w io.Writer, listing *service.RuleListing) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "CATEGORY", "PRIORITY", "ENABLED", "TITLE")
	for _, r := range listing.Rules {
		enabled := "yes"
		if !r.Enabled {
			enabled = "no"
		}
		priority := string(r.Priority)
		if r.Priority != r.Default {
			priority = fmt.Sprintf("%s (default %s)", r.Priority, r.Default)
		}
		t.Row(r.ID, string(r.Category), priority, enabled, r.Title)
	}

	_, err := fmt.Fprintf(w, "Rule table v%s\n%s\n", listing.Version, t.Render())
	return err
}
