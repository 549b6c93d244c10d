package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/testutil"
)

func TestFeatureSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"User Auth", "user-auth"},
		{"user_auth", "user-auth"},
		{"searchPanel", "search-panel"},
		{"  cart  ", "cart"},
		{"orders", "orders"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FeatureSlug(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FeatureSlug(" -- ")
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeInvalidInput, domain.ErrorCode(err))
}

func TestRun_CreatesSkeleton(t *testing.T) {
	root := filepath.Join(t.TempDir(), "my-app")

	res, err := New(Options{}, nil).Run(root, []string{"User Auth"})
	require.NoError(t, err)

	assert.Equal(t, []string{"user-auth"}, res.Features)
	assert.Empty(t, res.Existing)
	for _, rel := range []string{
		".",
		"src",
		"src/app/router",
		"src/pages/model",
		"src/shared/hooks",
		"src/features",
		"src/types",
		"src/features/user-auth/ui",
		"src/features/user-auth/index.ts",
	} {
		assert.Contains(t, res.Created, rel)
		_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
		assert.NoError(t, err, rel)
	}

	content, err := os.ReadFile(filepath.Join(root, "src/features/user-auth/index.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "// Public API for feature 'user-auth'")
}

func TestRun_NonDestructive(t *testing.T) {
	root := testutil.NewTree(t, map[string]string{
		"src/features/cart/index.ts": "export { CartPanel } from './ui/CartPanel';\n",
	})

	res, err := New(Options{}, nil).Run(root, []string{"cart", "Cart"})
	require.NoError(t, err)

	assert.Equal(t, []string{"cart"}, res.Features)
	assert.Contains(t, res.Existing, "src/features/cart/index.ts")
	assert.NotContains(t, res.Created, "src/features/cart/index.ts")
	assert.Contains(t, res.Created, "src/features/cart/model")

	content, err := os.ReadFile(filepath.Join(root, "src/features/cart/index.ts"))
	require.NoError(t, err)
	assert.Equal(t, "export { CartPanel } from './ui/CartPanel';\n", string(content))

	again, err := New(Options{}, nil).Run(root, []string{"cart"})
	require.NoError(t, err)
	assert.Empty(t, again.Created)
	assert.Equal(t, len(res.Created)+len(res.Existing), len(again.Existing))
}

func TestRun_CustomSourceRoot(t *testing.T) {
	root := t.TempDir()

	res, err := New(Options{SourceRoot: "app-src"}, nil).Run(root, nil)
	require.NoError(t, err)
	assert.Contains(t, res.Created, "app-src/entities/api")
	assert.Empty(t, res.Features)
}

func TestRun_FileInTheWay(t *testing.T) {
	root := testutil.NewTree(t, map[string]string{"src/shared": "not a folder"})

	_, err := New(Options{}, nil).Run(root, nil)
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeInvalidInput, domain.ErrorCode(err))
}
