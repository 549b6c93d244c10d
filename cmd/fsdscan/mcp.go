package main

import (
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/fsdscan/internal/mcpserver"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the fsdscan MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(mcpServeCmd())
	return cmd
}

func mcpServeCmd() *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the fsdscan MCP server (stdio)",
		Long: `Start the fsdscan MCP server on stdio. Tools:
  fsd_audit  audit a project root and return the report as JSON
  fsd_rules  list the rule table with configuration overrides applied`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectPath == "" {
				projectPath = "."
			}
			return mcpserver.ServeStdio(projectPath, currentLogger())
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", "", "Project path (defaults to current working directory)")

	return cmd
}
