package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/constants"
	"github.com/ludo-technologies/fsdscan/internal/reporter"
	"github.com/ludo-technologies/fsdscan/service"
)

type auditOptions struct {
	configPath string
	format     string
	failOn     string
	color      string
	outputPath string
	disable    []string
	transitive bool
	noProgress bool
	workers    int
	timeout    time.Duration
}

func auditCmd() *cobra.Command {
	opts := &auditOptions{}
	cmd := &cobra.Command{
		Use:   "audit [path...]",
		Short: "Audit a project against the architecture rules",
		Long: `Audit one or more project roots against the feature-sliced architecture rules.

Exit codes:
  0 - No violation at or above the fail threshold
  1 - At least one violation at or above the fail threshold
  2 - Fatal error (missing root, invalid configuration, output failure)

Examples:
  # Audit the current directory
  fsdscan audit

  # Fail the build on P1 findings too
  fsdscan audit --fail-on P1 ./web

  # JSON report for CI
  fsdscan audit --format json --output fsdscan-report.json

  # Audit several packages of a monorepo in parallel
  fsdscan audit packages/web packages/admin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, opts, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "",
		"Path to config file (default: discovered from the audited root)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "",
		"Output format: text, json or yaml (default: output.format)")
	cmd.Flags().StringVar(&opts.failOn, "fail-on", "",
		"Least severe priority that fails the audit: P0, P1 or P2 (default: output.fail_on)")
	cmd.Flags().StringVar(&opts.color, "color", "",
		"Colorize text output: auto, always or never (default: output.color)")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "",
		"Write the report to a file instead of stdout")
	cmd.Flags().StringSliceVar(&opts.disable, "disable", nil,
		"Rule IDs to skip, in addition to rules.disabled")
	cmd.Flags().BoolVar(&opts.transitive, "transitive", false,
		"Count consumers transitively through shared modules")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false,
		"Disable progress bars")
	cmd.Flags().IntVar(&opts.workers, "workers", 0,
		"Parallel file parsers (default: number of CPUs)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0,
		"Abort the audit after this duration, e.g. 10m (default: no limit)")

	return cmd
}

func runAudit(cmd *cobra.Command, opts *auditOptions, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}
	log := currentLogger()
	start := time.Now()

	overrides := service.ConfigOverrides{
		Format:   opts.format,
		FailOn:   opts.failOn,
		Color:    opts.color,
		Disabled: opts.disable,
	}
	if cmd.Flags().Changed("transitive") {
		overrides.Transitive = &opts.transitive
	}

	loader := service.NewConfigurationLoader(log)
	// The first root's configuration decides the output settings
	cfg, err := loader.Load(opts.configPath, args[0], overrides)
	if err != nil {
		return &ExitError{Code: constants.ExitFatal, Message: err.Error()}
	}
	format, err := domain.ParseOutputFormat(cfg.Output.Format)
	if err != nil {
		return &ExitError{Code: constants.ExitFatal, Message: err.Error()}
	}

	pm := service.NewProgressManager(!opts.noProgress && !format.IsMachineReadable())
	defer pm.Close()

	// with several roots the only bar counts finished roots
	stages := pm
	if len(args) > 1 {
		stages = &service.NoOpProgressManager{}
	}
	auditor := service.NewAuditService(stages, log)
	auditor.Workers = opts.workers

	executor := service.NewParallelExecutorWithProgress(pm)
	executor.SetTimeout(opts.timeout)
	reports, err := executor.Execute(context.Background(), auditor, loader.Resolver(opts.configPath, overrides), args)
	if err != nil {
		return &ExitError{Code: constants.ExitFatal, Message: err.Error()}
	}

	out, closeOut, err := openOutput(cmd, opts.outputPath)
	if err != nil {
		return &ExitError{Code: constants.ExitFatal, Message: err.Error()}
	}
	color := useColor(cfg.Output.Color, out)
	if err := writeReports(out, format, color, reports); err != nil {
		closeOut()
		return &ExitError{Code: constants.ExitFatal, Message: err.Error()}
	}
	if err := closeOut(); err != nil {
		return &ExitError{Code: constants.ExitFatal, Message: err.Error()}
	}
	if opts.outputPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", opts.outputPath)
	}

	failed := 0
	for _, r := range reports {
		if !r.Passed() {
			failed++
		}
	}
	log.Debug("audit command finished",
		zap.Int("roots", len(reports)),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)))

	if failed > 0 {
		return &ExitError{Code: constants.ExitViolations}
	}
	return nil
}

// writeReports writes a single report as is and several reports as a list
// in machine formats
func writeReports(w io.Writer, format domain.OutputFormat, color bool, reports []*domain.AuditReport) error {
	if len(reports) > 1 {
		switch format {
		case domain.OutputFormatJSON:
			if err := reporter.WriteJSON(w, reports); err != nil {
				return domain.NewOutputError("failed to write report", err)
			}
			return nil
		case domain.OutputFormatYAML:
			if err := reporter.WriteYAML(w, reports); err != nil {
				return domain.NewOutputError("failed to write report", err)
			}
			return nil
		}
	}

	rep, err := reporter.NewReporter(w, format, reporter.Options{Color: color})
	if err != nil {
		return err
	}
	for i, r := range reports {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return domain.NewOutputError("failed to write report", err)
			}
		}
		if err := rep.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// openOutput returns stdout or the created file at path
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, domain.NewOutputError("cannot create "+path, err)
	}
	return f, f.Close, nil
}

// useColor resolves the color mode for w. auto enables color only for a
// terminal and honors NO_COLOR.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case constants.ColorAlways:
		return true
	case constants.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && service.IsTerminal(f)
}
