package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/fsdscan/internal/config"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate an fsdscan configuration file",
		Long: `Generate a documented fsdscan configuration file with the default settings.

By default, creates fsdscan.yaml in the current directory. Use --interactive
for a guided setup wizard.

Examples:
  # Create fsdscan.yaml in current directory
  fsdscan init

  # Custom output path
  fsdscan init --config .fsdscan.yaml

  # Overwrite existing file
  fsdscan init --force

  # Generate smaller config with essential options only
  fsdscan init --minimal

  # Interactive setup wizard
  fsdscan init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", "fsdscan.yaml",
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")

	opts := config.DefaultTemplateOptions()
	if interactive {
		var err error
		opts, configPath, err = runInteractiveSetup(configPath)
		if err != nil {
			return err
		}
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	content := config.GetConfigTemplate(opts)
	if minimal {
		content = config.GetMinimalConfigTemplate()
	}

	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", displayPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nRun 'fsdscan audit .' to audit your project.")

	return nil
}

func runInteractiveSetup(defaultConfigPath string) (config.TemplateOptions, string, error) {
	opts := config.DefaultTemplateOptions()

	fmt.Println()
	fmt.Println("fsdscan Configuration Setup")
	fmt.Println("===========================")
	fmt.Println()

	thresholds := []struct {
		Label       string
		Description string
		Value       string
	}{
		{"P0 (recommended)", "Fail only on structural violations", "P0"},
		{"P1", "Also fail on misplaced and catch-all modules", "P1"},
		{"P2", "Fail on any finding", "P2"},
	}

	thresholdTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	thresholdPrompt := promptui.Select{
		Label:     "Which priority should fail the audit?",
		Items:     thresholds,
		Templates: thresholdTemplates,
	}

	idx, _, err := thresholdPrompt.Run()
	if err != nil {
		return opts, "", fmt.Errorf("threshold selection cancelled: %w", err)
	}
	opts.FailOn = thresholds[idx].Value

	fmt.Println()

	rootPrompt := promptui.Prompt{
		Label:   "Source root holding the layer folders",
		Default: opts.SourceRoot,
	}
	sourceRoot, err := rootPrompt.Run()
	if err != nil {
		return opts, "", fmt.Errorf("source root input cancelled: %w", err)
	}
	if sourceRoot != "" {
		opts.SourceRoot = sourceRoot
	}

	fmt.Println()

	counting := []struct {
		Label       string
		Description string
		Transitive  bool
	}{
		{"Direct (recommended)", "Count the modules importing a file directly", false},
		{"Transitive", "Follow imports through shared modules up to features", true},
	}

	countingPrompt := promptui.Select{
		Label: "How should consumers be counted?",
		Items: counting,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
			Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
			Selected: "\U00002705 {{ .Label | green }}",
		},
	}
	idx, _, err = countingPrompt.Run()
	if err != nil {
		return opts, "", fmt.Errorf("consumer counting selection cancelled: %w", err)
	}
	opts.Transitive = counting[idx].Transitive

	fmt.Println()

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}
	outputPath, err := outputPrompt.Run()
	if err != nil {
		return opts, "", fmt.Errorf("output path input cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Println()
	fmt.Printf("Creating %s... ", outputPath)

	return opts, outputPath, nil
}
