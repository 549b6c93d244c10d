package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/config"
	"github.com/ludo-technologies/fsdscan/internal/constants"
	"github.com/ludo-technologies/fsdscan/internal/testutil"
)

func newTestService() *AuditService {
	s := NewAuditService(nil, zap.NewNop())
	s.SkipRevision = true
	return s
}

func TestAudit_EmptyRootPasses(t *testing.T) {
	root := t.TempDir()

	report, err := newTestService().Audit(context.Background(), root, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPass, report.Status)
	assert.Empty(t, report.Violations)
	assert.NotNil(t, report.Violations)
	assert.NotNil(t, report.Warnings)
	assert.Equal(t, 0, report.Summary.FilesScanned)
	assert.Equal(t, constants.ToolName, report.Metadata.Tool)
}

func TestAudit_MissingRootIsScanError(t *testing.T) {
	_, err := newTestService().Audit(context.Background(), filepath.Join(t.TempDir(), "missing"), nil)

	require.Error(t, err)
	assert.True(t, domain.IsFatal(err))
	assert.Equal(t, domain.ErrCodeScanError, domain.ErrorCode(err))
}

func TestAudit_ConfigErrorBeforeScan(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rules.Disabled = []string{"FFA99"}

	_, err := newTestService().Audit(context.Background(), filepath.Join(t.TempDir(), "missing"), cfg)

	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeConfigError, domain.ErrorCode(err))
}

func TestAudit_FeatureImportsApp(t *testing.T) {
	root := testutil.NewTree(t, map[string]string{
		"src/app/router.ts":                  "export const router = {};\n",
		"src/features/cart/index.ts":         "export { CartPanel } from './ui/CartPanel';\n",
		"src/features/cart/ui/CartPanel.tsx": "import { router } from '../../../app/router';\nexport function CartPanel() { return <div>{String(router)}</div>; }\n",
	})

	report, err := newTestService().Audit(context.Background(), root, nil)
	require.NoError(t, err)

	found := testutil.FindViolations(report.Violations, "FFA4")
	require.Len(t, found, 1, "violations: %+v", report.Violations)
	v := found[0]
	assert.Equal(t, domain.PriorityP0, v.Priority)
	assert.Equal(t, "src/features/cart/ui/CartPanel.tsx", v.SubjectPath)
	assert.Equal(t, "src/app/router.ts", v.RelatedPath)
	assert.Equal(t, "cart", v.Feature)
	assert.Equal(t, domain.StatusFail, report.Status)
	assert.Equal(t, 1, report.Summary.FeaturesAudited)
}

func TestAudit_SingleConsumerUtility(t *testing.T) {
	root := testutil.NewTree(t, map[string]string{
		"src/utils/formatDate.ts":           "export function formatDate(d: Date) { return d.toISOString(); }\n",
		"src/features/orders/index.ts":      "export { OrderList } from './OrderList';\n",
		"src/features/orders/OrderList.tsx": "import { formatDate } from '@/utils/formatDate';\nexport function OrderList() { return <ul>{formatDate(new Date())}</ul>; }\n",
	})

	report, err := newTestService().Audit(context.Background(), root, nil)
	require.NoError(t, err)

	found := testutil.FindViolations(report.Violations, "FFA14")
	require.Len(t, found, 1, "violations: %+v", report.Violations)
	v := found[0]
	assert.Equal(t, domain.PriorityP1, v.Priority)
	assert.Equal(t, "src/utils/formatDate.ts", v.SubjectPath)
	require.NotNil(t, v.SuggestedFix)
	assert.Equal(t, "src/features/orders/domain/orders.format-date.ts", v.SuggestedFix.To)
}

func TestAudit_FailOnThreshold(t *testing.T) {
	root := testutil.NewTree(t, map[string]string{
		"src/utils/formatDate.ts":           "export const formatDate = (d: Date) => d.toISOString();\n",
		"src/features/orders/index.ts":      "export { OrderList } from './OrderList';\n",
		"src/features/orders/OrderList.tsx": "import { formatDate } from '@/utils/formatDate';\nexport const OrderList = () => <ul>{formatDate(new Date())}</ul>;\n",
	})

	cfg := config.DefaultConfig()
	cfg.Output.FailOn = "P2"
	report, err := newTestService().Audit(context.Background(), root, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, report.Violations)
	assert.Equal(t, domain.StatusFail, report.Status)
	assert.Equal(t, domain.PriorityP2, report.FailOn)

	cfg.Rules.Disabled = []string{"FFA6", "FFA14"}
	report, err = newTestService().Audit(context.Background(), root, cfg)
	require.NoError(t, err)
	assert.Empty(t, testutil.FindViolations(report.Violations, "FFA14"))
	assert.Equal(t, 15, report.Summary.RulesEvaluated)
}

func TestAudit_SyntaxErrorIsWarning(t *testing.T) {
	root := testutil.NewTree(t, map[string]string{
		"src/shared/lib/broken.ts": "import { from 'x';\nexport const = ;\n",
	})

	report, err := newTestService().Audit(context.Background(), root, nil)
	require.NoError(t, err)

	require.NotEmpty(t, report.Warnings)
	assert.Equal(t, domain.WarningParse, report.Warnings[0].Kind)
	assert.Equal(t, 1, report.Summary.FilesScanned)
}

func TestAudit_Deterministic(t *testing.T) {
	root := testutil.NewTree(t, map[string]string{
		"src/app/router.ts":                      "export const router = {};\n",
		"src/features/Cart/ui/CartPanel.tsx":     "import { router } from '@/app/router';\nimport axios from 'axios';\nexport const CartPanel = () => <div />;\n",
		"src/features/search-panel/constants.ts": "export const LIMIT = 10;\n",
		"src/helpers/a.ts":                       "export const a = 1;\n",
		"src/helpers/b.ts":                       "import { a } from './a';\nexport const b = a;\n",
		"src/misc.ts":                            "export {};\n",
	})

	first, err := newTestService().Audit(context.Background(), root, nil)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := newTestService().Audit(context.Background(), root, nil)
		require.NoError(t, err)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("reports differ between runs (-first +again):\n%s", diff)
		}
	}
}

func TestRevision_OutsideRepository(t *testing.T) {
	assert.Equal(t, "", Revision(t.TempDir()))
}
