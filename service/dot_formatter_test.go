package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/testutil"
)

func TestEscapeDOTID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple path",
			input:    "src/index",
			expected: "src__index",
		},
		{
			name:     "path with extension",
			input:    "src/index.ts",
			expected: "src__index_ts",
		},
		{
			name:     "path with dashes",
			input:    "src/my-component",
			expected: "src__my_component",
		},
		{
			name:     "path with @",
			input:    "@scope/package",
			expected: "_at_scope__package",
		},
		{
			name:     "starts with number",
			input:    "123abc",
			expected: "_123abc",
		},
		{
			name:     "path with dots",
			input:    "src.component.ts",
			expected: "src_component_ts",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := escapeDOTID(tc.input)
			if result != tc.expected {
				t.Errorf("escapeDOTID(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestEscapeDOTLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple string",
			input:    "hello",
			expected: "hello",
		},
		{
			name:     "string with quotes",
			input:    `hello "world"`,
			expected: `hello \"world\"`,
		},
		{
			name:     "string with newline",
			input:    "hello\nworld",
			expected: `hello\nworld`,
		},
		{
			name:     "string with backslash",
			input:    `path\to\file`,
			expected: `path\\to\\file`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := escapeDOTLabel(tc.input)
			if result != tc.expected {
				t.Errorf("escapeDOTLabel(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

// auditCart audits a tree where the cart feature imports from app
func auditCart(t *testing.T) (*domain.AuditReport, *domain.Snapshot) {
	t.Helper()
	root := testutil.NewTree(t, map[string]string{
		"src/app/router.ts":                  "export const router = {};\n",
		"src/features/cart/index.ts":         "export { CartPanel } from './ui/CartPanel';\n",
		"src/features/cart/ui/CartPanel.tsx": "import { router } from '../../../app/router';\nexport function CartPanel() { return <div>{String(router)}</div>; }\n",
		"src/pages/home/index.ts":            "export const Home = () => null;\n",
	})
	report, snap, err := newTestService().AuditWithGraph(context.Background(), root, nil)
	require.NoError(t, err)
	require.NotNil(t, snap)
	return report, snap
}

func TestDOTFormatter_SliceGraph(t *testing.T) {
	report, snap := auditCart(t)

	out, err := NewDOTFormatter(nil).FormatGraph(snap, report)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "/* fsdscan import graph - slice"))
	assert.Contains(t, out, "digraph fsd {")
	assert.Contains(t, out, "rankdir=TB;")
	assert.Contains(t, out, "subgraph cluster_features {")
	assert.Contains(t, out, "subgraph cluster_app {")
	assert.Contains(t, out, "subgraph cluster_pages {")
	assert.Contains(t, out, `src__features__cart [label="src/features/cart", fillcolor="#FFCDD2"`)
	assert.Contains(t, out, "subgraph cluster_legend {")
	assert.True(t, strings.HasSuffix(out, "}\n"))

	// higher layers render first
	assert.Less(t, strings.Index(out, "cluster_app"), strings.Index(out, "cluster_pages"))
	assert.Less(t, strings.Index(out, "cluster_pages"), strings.Index(out, "cluster_features"))

	edge := lineContaining(out, "src__features__cart -> src__app")
	require.NotEmpty(t, edge, "missing cart -> app edge:\n"+out)
	assert.Contains(t, edge, `color="#C62828"`)
	assert.Contains(t, edge, "FFA4")
}

func TestDOTFormatter_ModuleGraph(t *testing.T) {
	report, snap := auditCart(t)

	out, err := NewDOTFormatter(&DOTFormatterConfig{
		Granularity: GranularityModule,
		RankDir:     "LR",
	}).FormatGraph(snap, report)
	require.NoError(t, err)

	assert.Contains(t, out, "rankdir=LR;")
	assert.NotContains(t, out, "subgraph cluster_")
	assert.Contains(t, out, `src__features__cart__index_ts [label="index.ts"`)

	edge := lineContaining(out, "src__features__cart__ui__CartPanel_tsx -> src__app__router_ts")
	require.NotEmpty(t, edge, "missing CartPanel -> router edge:\n"+out)
	assert.Contains(t, edge, "penwidth=2")

	// barrel re-export
	edge = lineContaining(out, "src__features__cart__index_ts -> src__features__cart__ui__CartPanel_tsx")
	require.NotEmpty(t, edge)
	assert.Contains(t, edge, "style=bold")
	assert.NotContains(t, edge, "#C62828")
}

func TestDOTFormatter_ViolationsOnly(t *testing.T) {
	report, snap := auditCart(t)

	cfg := DefaultDOTFormatterConfig()
	cfg.ViolationsOnly = true
	cfg.ShowLegend = false
	out, err := NewDOTFormatter(cfg).FormatGraph(snap, report)
	require.NoError(t, err)

	assert.Contains(t, out, "src__features__cart ")
	assert.Contains(t, out, "src__app ")
	assert.NotContains(t, out, "src__pages__home")
	assert.NotContains(t, out, "Legend")
}

func TestDOTFormatter_Deterministic(t *testing.T) {
	report, snap := auditCart(t)
	f := NewDOTFormatter(nil)

	first, err := f.FormatGraph(snap, report)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := f.FormatGraph(snap, report)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestDOTFormatter_InvalidConfig(t *testing.T) {
	_, snap := auditCart(t)

	var buf bytes.Buffer
	err := NewDOTFormatter(&DOTFormatterConfig{Granularity: GranularitySlice, RankDir: "XY"}).WriteGraph(snap, nil, &buf)
	assert.ErrorContains(t, err, "invalid rank direction")

	err = NewDOTFormatter(&DOTFormatterConfig{Granularity: "package", RankDir: "TB"}).WriteGraph(snap, nil, &buf)
	assert.ErrorContains(t, err, "invalid granularity")

	err = NewDOTFormatter(nil).WriteGraph(nil, nil, &buf)
	assert.Error(t, err)
}

func TestDOTFormatter_EmptyGraph(t *testing.T) {
	report, snap, err := newTestService().AuditWithGraph(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)

	out, err := NewDOTFormatter(nil).FormatGraph(snap, report)
	require.NoError(t, err)
	assert.Contains(t, out, "No modules match the filter criteria")
}

func lineContaining(s, sub string) string {
	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, sub) {
			return line
		}
	}
	return ""
}
