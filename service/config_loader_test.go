package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/config"
)

func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FSDSCAN_CONFIG", "")
}

func TestConfigurationLoader_LoadDiscovered(t *testing.T) {
	isolateConfig(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "fsdscan.yaml"), []byte("output:\n  fail_on: P1\n"), 0o644))

	cfg, err := NewConfigurationLoader(nil).Load("", root, ConfigOverrides{})
	require.NoError(t, err)
	assert.Equal(t, "P1", cfg.Output.FailOn)
}

func TestConfigurationLoader_OverridesWin(t *testing.T) {
	isolateConfig(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "fsdscan.yaml"), []byte("output:\n  fail_on: P1\nrules:\n  disabled: [FFA15]\n"), 0o644))

	transitive := true
	cfg, err := NewConfigurationLoader(nil).Load("", root, ConfigOverrides{
		Format:     "JSON",
		FailOn:     "p2",
		Disabled:   []string{"ffa16"},
		Transitive: &transitive,
	})
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "P2", cfg.Output.FailOn)
	assert.Equal(t, []string{"FFA15", "FFA16"}, cfg.Rules.Disabled)
	assert.True(t, cfg.Consumers.Transitive)
}

func TestConfigurationLoader_BadOverrideIsConfigError(t *testing.T) {
	_, err := NewConfigurationLoader(nil).MergeConfig(config.DefaultConfig(), ConfigOverrides{FailOn: "P5"})
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeConfigError, domain.ErrorCode(err))

	_, err = NewConfigurationLoader(nil).MergeConfig(config.DefaultConfig(), ConfigOverrides{Format: "html"})
	assert.Equal(t, domain.ErrCodeConfigError, domain.ErrorCode(err))
}

func TestConfigurationLoader_MissingFile(t *testing.T) {
	_, err := NewConfigurationLoader(nil).Load("/nonexistent/fsdscan.yaml", ".", ConfigOverrides{})
	require.Error(t, err)
	assert.True(t, domain.IsFatal(err))
}

func TestListRules(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rules.Disabled = []string{"FFA15"}
	cfg.Rules.Priorities = map[string]string{"FFA9": "P0"}

	listing, err := ListRules(cfg, nil)
	require.NoError(t, err)
	require.Len(t, listing.Rules, 17)
	assert.Equal(t, "FFA1", listing.Rules[0].ID)
	assert.Equal(t, "FFA17", listing.Rules[16].ID)

	for _, r := range listing.Rules {
		switch r.ID {
		case "FFA15":
			assert.False(t, r.Enabled)
		case "FFA9":
			assert.Equal(t, domain.PriorityP0, r.Priority)
			assert.NotEqual(t, r.Default, r.Priority)
		default:
			assert.True(t, r.Enabled, r.ID)
			assert.Equal(t, r.Default, r.Priority, r.ID)
		}
		assert.NotEmpty(t, r.Title, r.ID)
	}
}

func TestListRules_UnknownRule(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rules.Disabled = []string{"FFA42"}

	_, err := ListRules(cfg, nil)
	assert.Equal(t, domain.ErrCodeConfigError, domain.ErrorCode(err))
}
