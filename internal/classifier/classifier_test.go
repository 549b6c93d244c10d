package classifier

import (
	"testing"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/parser"
)

func defaultMatcher() *LayerMatcher {
	return NewLayerMatcher([]string{"src"}, domain.DefaultLayerFolders, nil)
}

func TestLayerMatcher_Locate(t *testing.T) {
	m := defaultMatcher()

	tests := []struct {
		rel       string
		layer     domain.Layer
		layerRoot string
		slice     string
		segments  int
	}{
		{"src/app/router.ts", domain.LayerApp, "src/app", "", 0},
		{"src/features/cart/ui/CartPanel.tsx", domain.LayerFeatures, "src/features", "cart", 1},
		{"src/features/index.ts", domain.LayerFeatures, "src/features", "", 0},
		{"src/entities/user/model/store.ts", domain.LayerEntities, "src/entities", "user", 1},
		{"src/shared/ui/Button.tsx", domain.LayerShared, "src/shared", "", 1},
		{"src/lib/date.ts", domain.LayerLib, "src/lib", "", 0},
		{"src/types/api.d.ts", domain.LayerTypes, "src/types", "", 0},
		{"features/search/index.ts", domain.LayerFeatures, "features", "search", 0},
		{"src/utils/formatDate.ts", domain.LayerUnknown, "", "", 1},
		{"scripts/build.js", domain.LayerUnknown, "", "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			loc := m.Locate(tt.rel)
			if loc.Layer != tt.layer {
				t.Errorf("Layer = %s, want %s", loc.Layer, tt.layer)
			}
			if loc.LayerRoot != tt.layerRoot {
				t.Errorf("LayerRoot = %q, want %q", loc.LayerRoot, tt.layerRoot)
			}
			if loc.Slice != tt.slice {
				t.Errorf("Slice = %q, want %q", loc.Slice, tt.slice)
			}
			if len(loc.Segments) != tt.segments {
				t.Errorf("Segments = %v, want %d entries", loc.Segments, tt.segments)
			}
		})
	}
}

func TestLayerMatcher_LongestPrefixWins(t *testing.T) {
	m := NewLayerMatcher([]string{"src"}, domain.DefaultLayerFolders, map[string][]string{
		"lib": {"src/shared/lib"},
	})
	loc := m.Locate("src/shared/lib/format.ts")
	if loc.Layer != domain.LayerLib {
		t.Errorf("Expected lib layer for nested prefix, got %s", loc.Layer)
	}
	loc = m.Locate("src/shared/ui/Button.tsx")
	if loc.Layer != domain.LayerShared {
		t.Errorf("Expected shared layer, got %s", loc.Layer)
	}
}

func TestLayerMatcher_CustomFolders(t *testing.T) {
	m := NewLayerMatcher([]string{"src"}, []string{"app", "features", "shared"}, nil)
	if loc := m.Locate("src/widgets/header/Header.tsx"); loc.Layer != domain.LayerUnknown {
		t.Errorf("widgets is not configured and should be unknown, got %s", loc.Layer)
	}
	if loc := m.Locate("src/types/global.ts"); loc.Layer != domain.LayerTypes {
		t.Errorf("types layer is always recognized, got %s", loc.Layer)
	}
}

// Each decision list entry is exercised on its own.
func TestRoleRules(t *testing.T) {
	m := defaultMatcher()

	tests := []struct {
		name     string
		rel      string
		jsx      bool
		wantRole domain.Role
		wantRule string
	}{
		{"test file", "src/features/cart/ui/CartPanel.test.tsx", true, domain.RoleTest, "test-file"},
		{"spec file", "src/lib/date.spec.ts", false, domain.RoleTest, "test-file"},
		{"story file", "src/shared/ui/Button.stories.tsx", true, domain.RoleStory, "story-file"},
		{"feature barrel", "src/features/cart/index.ts", false, domain.RoleBarrel, "barrel"},
		{"layer barrel", "src/shared/index.ts", false, domain.RoleBarrel, "barrel"},
		{"nested index is not a barrel", "src/features/cart/ui/index.ts", false, domain.RoleUnknown, ""},
		{"ui component", "src/features/cart/ui/CartPanel.tsx", true, domain.RoleUI, "jsx-export"},
		{"tsx without jsx export", "src/features/cart/model/cart.tsx", false, domain.RoleModel, "path-segment"},
		{"deepest segment wins", "src/features/cart/model/hooks/cart.ts", false, domain.RoleHooks, "path-segment"},
		{"api segment", "src/entities/user/api/getUser.ts", false, domain.RoleAPI, "path-segment"},
		{"lib layer", "src/lib/date.ts", false, domain.RoleLib, "path-segment"},
		{"filename category", "src/features/search-panel/search-panel.constants.ts", false, domain.RoleConstants, "filename-category"},
		{"hook filename", "src/features/cart/useCart.ts", false, domain.RoleHooks, "hook-filename"},
		{"unknown", "src/utils/formatDate.ts", false, domain.RoleUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, rule := ClassifyRole(RoleInput{
				RelPath:      tt.rel,
				Location:     m.Locate(tt.rel),
				HasJSXExport: tt.jsx,
			})
			if role != tt.wantRole {
				t.Errorf("role = %s, want %s", role, tt.wantRole)
			}
			if rule != tt.wantRule {
				t.Errorf("rule = %q, want %q", rule, tt.wantRule)
			}
		})
	}
}

func TestRoleRules_FirstMatchWins(t *testing.T) {
	// a test file inside a model folder is still a test
	m := defaultMatcher()
	rel := "src/features/cart/model/cart.test.ts"
	role, _ := ClassifyRole(RoleInput{RelPath: rel, Location: m.Locate(rel)})
	if role != domain.RoleTest {
		t.Errorf("Expected test role, got %s", role)
	}
}

func TestRoleRules_Order(t *testing.T) {
	want := []string{"test-file", "story-file", "barrel", "jsx-export", "path-segment", "filename-category", "hook-filename"}
	if len(RoleRules) != len(want) {
		t.Fatalf("Expected %d rules, got %d", len(want), len(RoleRules))
	}
	for i, name := range want {
		if RoleRules[i].Name != name {
			t.Errorf("Rule %d = %s, want %s", i, RoleRules[i].Name, name)
		}
	}
}

func TestClassifier_PlaceAndClassify(t *testing.T) {
	c := New(defaultMatcher())

	placed := c.Place("/p/src/features/Search_Panel/ui/Input.tsx", "src/features/Search_Panel/ui/Input.tsx")
	if placed.FeatureSlug != "Search_Panel" {
		t.Errorf("Expected literal slug Search_Panel, got %q", placed.FeatureSlug)
	}
	if placed.FeatureRoot != "src/features/Search_Panel" {
		t.Errorf("Unexpected feature root %q", placed.FeatureRoot)
	}

	rec := c.Classify(placed, &parser.ModuleFacts{Exports: []string{"Input"}, JSXExports: []string{"Input"}, HasJSX: true})
	if rec.Role != domain.RoleUI || rec.Kind != domain.KindComponent {
		t.Errorf("Expected ui component, got %s/%s", rec.Role, rec.Kind)
	}
	if placed.Role != domain.RoleUnknown {
		t.Error("Classify must not mutate the placed record")
	}

	failed := c.Classify(c.Place("/p/src/lib/x.ts", "src/lib/x.ts"), nil)
	if !failed.ParseFailed || failed.Role != domain.RoleLib {
		t.Errorf("Expected parse-failed lib module, got %+v", failed)
	}
}

func TestIsKebabCase(t *testing.T) {
	valid := []string{"search-panel", "orders", "v2-api", "a1"}
	invalid := []string{"SearchPanel", "search_panel", "search--panel", "-x", "x-", "", "search panel"}
	for _, s := range valid {
		if !IsKebabCase(s) {
			t.Errorf("%q should be kebab-case", s)
		}
	}
	for _, s := range invalid {
		if IsKebabCase(s) {
			t.Errorf("%q should not be kebab-case", s)
		}
	}
}

func TestToKebabCase(t *testing.T) {
	tests := map[string]string{
		"formatDate":   "format-date",
		"SearchPanel":  "search-panel",
		"search_panel": "search-panel",
		"HTTPClient":   "http-client",
		"orders":       "orders",
		"useV2Api":     "use-v2-api",
	}
	for in, want := range tests {
		if got := ToKebabCase(in); got != want {
			t.Errorf("ToKebabCase(%q) = %q, want %q", in, got, want)
		}
	}
}
