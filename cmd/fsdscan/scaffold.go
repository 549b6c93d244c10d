package main

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/fsdscan/internal/constants"
	"github.com/ludo-technologies/fsdscan/internal/reporter"
	"github.com/ludo-technologies/fsdscan/internal/scaffold"
)

func scaffoldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scaffold <root> [feature...]",
		Short: "Create a feature-sliced folder skeleton",
		Long: `Create the layer folders (app, processes, pages, widgets, features, entities,
shared) with their segments under <root>/src, plus one slice with an index.ts
barrel per feature. Feature names are converted to kebab-case.

Nothing that already exists is modified.

Examples:
  # Base structure only
  fsdscan scaffold my-app

  # Base structure and two feature slices
  fsdscan scaffold my-app "User Auth" cart

  # Ask for the feature name
  fsdscan scaffold my-app -i`,
		Args:          cobra.MinimumNArgs(1),
		RunE:          runScaffold,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().String("source-root", "src", "Folder under root holding the layers")
	cmd.Flags().BoolP("interactive", "i", false, "Prompt for a feature name")
	cmd.Flags().Bool("json", false, "Output created and existing paths as JSON")
	return cmd
}

func runScaffold(cmd *cobra.Command, args []string) error {
	sourceRoot, _ := cmd.Flags().GetString("source-root")
	interactive, _ := cmd.Flags().GetBool("interactive")
	asJSON, _ := cmd.Flags().GetBool("json")

	root, features := args[0], args[1:]
	if interactive {
		prompt := promptui.Prompt{
			Label: "Feature name",
			Validate: func(s string) error {
				_, err := scaffold.FeatureSlug(s)
				return err
			},
		}
		name, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("feature name input cancelled: %w", err)
		}
		features = append(features, name)
	}

	res, err := scaffold.New(scaffold.Options{SourceRoot: sourceRoot}, currentLogger()).Run(root, features)
	if err != nil {
		return &ExitError{Code: constants.ExitFatal, Message: err.Error()}
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if err := reporter.WriteJSON(out, res); err != nil {
			return &ExitError{Code: constants.ExitFatal, Message: err.Error()}
		}
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Root: %s\n", res.Root)
	if len(res.Features) > 0 {
		fmt.Fprintf(&b, "Features: %s\n", strings.Join(res.Features, ", "))
	}
	if len(res.Created) == 0 {
		b.WriteString("\nNothing new was created.\n")
	} else {
		b.WriteString("\nCreated:\n")
		for _, p := range res.Created {
			fmt.Fprintf(&b, "  + %s\n", p)
		}
	}
	if len(res.Existing) > 0 {
		b.WriteString("\nAlready present (left unchanged):\n")
		for _, p := range res.Existing {
			fmt.Fprintf(&b, "  = %s\n", p)
		}
	}
	_, err = fmt.Fprint(out, b.String())
	return err
}
