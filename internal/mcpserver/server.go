// Package mcpserver exposes the auditor to MCP clients over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ludo-technologies/fsdscan/internal/constants"
	"github.com/ludo-technologies/fsdscan/internal/version"
	"github.com/ludo-technologies/fsdscan/service"
)

// Tool names
const (
	ToolAudit = "fsd_audit"
	ToolRules = "fsd_rules"
)

// NewServer creates an MCP server auditing projects below projectPath.
// Relative tool paths are resolved against projectPath.
func NewServer(projectPath string, logger *zap.Logger) *server.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := server.NewMCPServer(
		constants.MCPServerName,
		version.GetVersion(),
		server.WithToolCapabilities(true),
	)

	h := &handlers{projectPath: projectPath, logger: logger}
	s.AddTool(
		mcplib.NewTool(ToolAudit,
			mcplib.WithDescription("Audit a JavaScript/TypeScript project against the feature-sliced architecture rules and return the report as JSON"),
			mcplib.WithString("path", mcplib.Description("Project root, relative to the server project path (default: the project path)")),
			mcplib.WithString("config", mcplib.Description("Config file path (default: discovered from the root)")),
			mcplib.WithString("fail_on", mcplib.Description("Least severe priority that fails the audit: P0, P1 or P2")),
			mcplib.WithString("feature", mcplib.Description("Only return violations filed under this feature slug")),
		),
		h.audit,
	)
	s.AddTool(
		mcplib.NewTool(ToolRules,
			mcplib.WithDescription("List the architecture rules with their effective priority and enablement"),
			mcplib.WithString("config", mcplib.Description("Config file path (default: discovered from the project path)")),
		),
		h.rules,
	)
	return s
}

// ServeStdio runs the server on stdin and stdout until the client disconnects
func ServeStdio(projectPath string, logger *zap.Logger) error {
	return server.ServeStdio(NewServer(projectPath, logger))
}

type handlers struct {
	projectPath string
	logger      *zap.Logger
}

func (h *handlers) resolve(p string) string {
	if p == "" {
		return h.projectPath
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(h.projectPath, p)
}

func (h *handlers) audit(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	root := h.resolve(request.GetString("path", ""))
	configPath := request.GetString("config", "")
	if configPath != "" {
		configPath = h.resolve(configPath)
	}

	cfg, err := service.NewConfigurationLoader(h.logger).Load(configPath, root, service.ConfigOverrides{
		FailOn: request.GetString("fail_on", ""),
	})
	if err != nil {
		return errorResult(err.Error()), nil
	}

	report, err := service.NewAuditService(nil, h.logger).Audit(ctx, root, cfg)
	if err != nil {
		return errorResult(fmt.Sprintf("audit failed: %v", err)), nil
	}

	if feature := request.GetString("feature", ""); feature != "" {
		filtered := report.Violations[:0:0]
		for _, v := range report.Violations {
			if v.Feature == feature {
				filtered = append(filtered, v)
			}
		}
		report.Violations = filtered
	}
	return jsonResult(report)
}

func (h *handlers) rules(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	configPath := request.GetString("config", "")
	if configPath != "" {
		configPath = h.resolve(configPath)
	}
	cfg, err := service.NewConfigurationLoader(h.logger).Load(configPath, h.projectPath, service.ConfigOverrides{})
	if err != nil {
		return errorResult(err.Error()), nil
	}
	listing, err := service.ListRules(cfg, h.logger)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(listing)
}

// jsonResult marshals v into a text content result
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
