package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "fsdscan"

	// MCPServerName is the name announced by the MCP server
	MCPServerName = "fsdscan-mcp"
)

// Exit codes of the audit command
const (
	// ExitPass means no violation reached the fail threshold
	ExitPass = 0

	// ExitViolations means at least one violation reached the fail threshold
	ExitViolations = 1

	// ExitFatal means the audit could not run: bad root, bad config or output failure
	ExitFatal = 2
)

// Color modes of the text report
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)
