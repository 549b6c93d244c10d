package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/testutil"
	"github.com/ludo-technologies/fsdscan/service"
)

func callTool(name string, args map[string]any) mcplib.CallToolRequest {
	var req mcplib.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestNewServerHasTools(t *testing.T) {
	s := NewServer(".", nil)
	require.NotNil(t, s)

	tools := s.ListTools()
	for _, name := range []string{ToolAudit, ToolRules} {
		_, exists := tools[name]
		assert.True(t, exists, "tool %q should be registered", name)
	}
	assert.Len(t, tools, 2)
}

func TestAuditTool(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FSDSCAN_CONFIG", "")
	root := testutil.NewTree(t, map[string]string{
		"web/src/app/router.ts":                  "export const router = {};\n",
		"web/src/features/cart/index.ts":         "export { CartPanel } from './ui/CartPanel';\n",
		"web/src/features/cart/ui/CartPanel.tsx": "import { router } from '@/app/router';\nexport const CartPanel = () => <div>{String(router)}</div>;\n",
	})
	h := &handlers{projectPath: root, logger: zap.NewNop()}

	res, err := h.audit(context.Background(), callTool(ToolAudit, map[string]any{"path": "web", "feature": "cart"}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var report domain.AuditReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &report))
	assert.Equal(t, domain.StatusFail, report.Status)
	require.NotEmpty(t, report.Violations)
	for _, v := range report.Violations {
		assert.Equal(t, "cart", v.Feature)
	}
	assert.NotEmpty(t, testutil.FindViolations(report.Violations, "FFA4"))
}

func TestAuditTool_MissingRoot(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FSDSCAN_CONFIG", "")
	h := &handlers{projectPath: t.TempDir(), logger: zap.NewNop()}

	res, err := h.audit(context.Background(), callTool(ToolAudit, map[string]any{"path": "missing"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "SCAN_ERROR")
}

func TestRulesTool(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FSDSCAN_CONFIG", "")
	h := &handlers{projectPath: t.TempDir(), logger: zap.NewNop()}

	res, err := h.rules(context.Background(), callTool(ToolRules, nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var listing service.RuleListing
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &listing))
	assert.Len(t, listing.Rules, 17)
	assert.Equal(t, "FFA1", listing.Rules[0].ID)
}
