package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/classifier"
	"github.com/ludo-technologies/fsdscan/internal/testutil"
)

func newTestScanner(opts Options) *Scanner {
	matcher := classifier.NewLayerMatcher([]string{"src"}, domain.DefaultLayerFolders, nil)
	return New(opts, classifier.New(matcher), nil)
}

func relPaths(res *Result) []string {
	out := make([]string, len(res.Records))
	for i, r := range res.Records {
		out[i] = r.RelPath
	}
	return out
}

func TestScan_CollectsSourceFiles(t *testing.T) {
	root := testutil.NewTree(t, map[string]string{
		"src/app/router.ts":                       "",
		"src/features/cart/ui/CartPanel.tsx":      "",
		"src/features/cart/ui/CartPanel.test.tsx": "",
		"src/shared/ui/Button.stories.jsx":        "",
		"src/legacy/util.js":                      "",
		"src/styles/main.css":                     "",
		"README.md":                               "",
		"node_modules/react/index.js":             "",
		"dist/bundle.js":                          "",
		"build/out.js":                            "",
	})

	res, err := newTestScanner(Options{}).Scan(context.Background(), root)
	testutil.AssertNoError(t, err)

	want := []string{
		"src/app/router.ts",
		"src/features/cart/ui/CartPanel.test.tsx",
		"src/features/cart/ui/CartPanel.tsx",
		"src/legacy/util.js",
		"src/shared/ui/Button.stories.jsx",
	}
	got := relPaths(res)
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		testutil.AssertEqual(t, want[i], got[i])
	}
	if res.IgnoredDirs != 3 {
		t.Errorf("Expected 3 ignored dirs, got %d", res.IgnoredDirs)
	}
}

func TestScan_PlacesRecords(t *testing.T) {
	root := testutil.NewTree(t, map[string]string{
		"src/features/Search_Panel/ui/Input.tsx": "",
		"src/utils/formatDate.ts":                "",
	})

	res, err := newTestScanner(Options{}).Scan(context.Background(), root)
	testutil.AssertNoError(t, err)
	if len(res.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(res.Records))
	}

	feature := res.Records[0]
	testutil.AssertEqual(t, domain.LayerFeatures, feature.Layer)
	testutil.AssertEqual(t, "Search_Panel", feature.FeatureSlug)
	testutil.AssertTrue(t, filepath.IsAbs(feature.Path), "record path should be absolute")

	util := res.Records[1]
	testutil.AssertEqual(t, domain.LayerUnknown, util.Layer)
	testutil.AssertEqual(t, domain.RoleUnknown, util.Role)
}

func TestScan_CustomIgnoreAndGitignore(t *testing.T) {
	root := testutil.NewTree(t, map[string]string{
		".gitignore":           "generated/\n",
		"src/generated/api.ts": "",
		"src/mocks/handler.ts": "",
		"src/lib/date.ts":      "",
		"node_modules/x.js":    "",
	})

	res, err := newTestScanner(Options{
		Ignore:           []string{"node_modules", "mocks"},
		RespectGitignore: true,
	}).Scan(context.Background(), root)
	testutil.AssertNoError(t, err)

	got := relPaths(res)
	if len(got) != 1 || got[0] != "src/lib/date.ts" {
		t.Errorf("Expected only src/lib/date.ts, got %v", got)
	}
}

func TestScan_EmptyRoot(t *testing.T) {
	res, err := newTestScanner(Options{}).Scan(context.Background(), t.TempDir())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, 0, len(res.Records))
}

func TestScan_MissingRootIsScanError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, err := newTestScanner(Options{}).Scan(context.Background(), missing)
	testutil.AssertError(t, err)
	testutil.AssertEqual(t, domain.ErrCodeScanError, domain.ErrorCode(err))
	testutil.AssertTrue(t, domain.IsFatal(err), "scan error must be fatal")
}

func TestScan_FileRootIsScanError(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "a.ts")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := newTestScanner(Options{}).Scan(context.Background(), file)
	testutil.AssertEqual(t, domain.ErrCodeScanError, domain.ErrorCode(err))
}

func TestScan_Cancelled(t *testing.T) {
	root := testutil.NewTree(t, map[string]string{"src/a.ts": ""})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestScanner(Options{}).Scan(ctx, root)
	testutil.AssertError(t, err)
}
