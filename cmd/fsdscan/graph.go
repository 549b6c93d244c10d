package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/constants"
	"github.com/ludo-technologies/fsdscan/service"
)

type graphOptions struct {
	configPath     string
	outputPath     string
	rankDir        string
	granularity    string
	violationsOnly bool
	noLegend       bool
	noClusters     bool
}

func graphCmd() *cobra.Command {
	opts := &graphOptions{}
	cmd := &cobra.Command{
		Use:   "graph [path]",
		Short: "Render the import graph as Graphviz DOT",
		Long: `Audit a project root and render its import graph in DOT format.

Nodes are grouped by layer and filled by their most severe violation.
Imports that break a rule are drawn in red with the rule IDs as label.
The command exits 0 whatever the findings; use audit to gate a build.

Examples:
  # Slice-level graph of the current directory
  fsdscan graph | dot -Tsvg > fsd.svg

  # One node per file, left to right
  fsdscan graph --granularity module --rank-dir LR ./web

  # Only the slices involved in a violation
  fsdscan graph --violations-only -o violations.dot`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, opts, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "",
		"Path to config file (default: discovered from the audited root)")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "",
		"Write the graph to a file instead of stdout")
	cmd.Flags().StringVar(&opts.rankDir, "rank-dir", "TB",
		"Layout direction: TB, LR, BT or RL")
	cmd.Flags().StringVar(&opts.granularity, "granularity", service.GranularitySlice,
		"Node granularity: slice or module")
	cmd.Flags().BoolVar(&opts.violationsOnly, "violations-only", false,
		"Keep only nodes involved in a violation")
	cmd.Flags().BoolVar(&opts.noLegend, "no-legend", false,
		"Omit the legend")
	cmd.Flags().BoolVar(&opts.noClusters, "no-clusters", false,
		"Do not group nodes by layer")

	return cmd
}

func runGraph(cmd *cobra.Command, opts *graphOptions, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	log := currentLogger()

	dotCfg := &service.DOTFormatterConfig{
		ClusterLayers:  !opts.noClusters,
		ShowLegend:     !opts.noLegend,
		Granularity:    strings.ToLower(opts.granularity),
		ViolationsOnly: opts.violationsOnly,
		RankDir:        strings.ToUpper(opts.rankDir),
	}
	if err := dotCfg.Validate(); err != nil {
		return &ExitError{Code: constants.ExitFatal, Message: domain.NewInvalidInputError("invalid graph option", err).Error()}
	}

	cfg, err := service.NewConfigurationLoader(log).Load(opts.configPath, root, service.ConfigOverrides{})
	if err != nil {
		return &ExitError{Code: constants.ExitFatal, Message: err.Error()}
	}

	report, snap, err := service.NewAuditService(nil, log).AuditWithGraph(context.Background(), root, cfg)
	if err != nil {
		return &ExitError{Code: constants.ExitFatal, Message: err.Error()}
	}

	out, closeOut, err := openOutput(cmd, opts.outputPath)
	if err != nil {
		return &ExitError{Code: constants.ExitFatal, Message: err.Error()}
	}
	if err := service.NewDOTFormatter(dotCfg).WriteGraph(snap, report, out); err != nil {
		closeOut()
		return &ExitError{Code: constants.ExitFatal, Message: domain.NewOutputError("failed to write graph", err).Error()}
	}
	if err := closeOut(); err != nil {
		return &ExitError{Code: constants.ExitFatal, Message: err.Error()}
	}
	if opts.outputPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Graph written to %s\n", opts.outputPath)
	}
	return nil
}
