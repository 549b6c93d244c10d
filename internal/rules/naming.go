package rules

import (
	"path"
	"strings"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/classifier"
)

// metaCategories are the feature-scoped meta file kinds that carry the slug prefix
var metaCategories = map[string]bool{
	"constants": true,
	"config":    true,
	"schemas":   true,
	"schema":    true,
	"errors":    true,
	"types":     true,
}

func renameFeatureFix(f *Feature) *domain.SuggestedFix {
	kebab := classifier.ToKebabCase(f.Slug)
	if kebab == "" || kebab == f.Slug {
		return nil
	}
	return &domain.SuggestedFix{
		Kind: domain.FixRename,
		From: f.Root,
		To:   path.Join(path.Dir(f.Root), kebab),
	}
}

// featureFolderUpper reports feature folders with upper-case letters
func featureFolderUpper(_ *Context, f *Feature) ([]Match, error) {
	if !classifier.HasUpper(f.Slug) {
		return nil, nil
	}
	return []Match{{
		SubjectFolder: f.Root,
		Feature:       f.Slug,
		Args:          []any{f.Slug},
		Fix:           renameFeatureFix(f),
	}}, nil
}

// featureFolderNotKebab reports every other non-kebab feature folder, so a
// slug gets exactly one naming violation from FFA1 or FFA2
func featureFolderNotKebab(_ *Context, f *Feature) ([]Match, error) {
	if classifier.HasUpper(f.Slug) || classifier.IsKebabCase(f.Slug) {
		return nil, nil
	}
	return []Match{{
		SubjectFolder: f.Root,
		Feature:       f.Slug,
		Args:          []any{f.Slug},
		Fix:           renameFeatureFix(f),
	}}, nil
}

// metaFilePrefix reports constants.ts and friends inside a feature that do
// not follow <slug>.<category>.<ext>
func metaFilePrefix(_ *Context, m *domain.ModuleRecord) ([]Match, error) {
	if !m.InFeature() || m.IsAuxiliary() {
		return nil, nil
	}
	base := path.Base(m.RelPath)
	ext := path.Ext(base)
	parts := strings.Split(strings.TrimSuffix(base, ext), ".")
	category := parts[len(parts)-1]
	if !metaCategories[category] {
		return nil, nil
	}
	if len(parts) > 1 && strings.Join(parts[:len(parts)-1], ".") == m.FeatureSlug {
		return nil, nil
	}

	want := m.FeatureSlug + "." + category + ext
	return []Match{{
		SubjectPath: m.RelPath,
		Args:        []any{base, m.FeatureSlug, want},
		Fix: &domain.SuggestedFix{
			Kind: domain.FixRename,
			From: base,
			To:   want,
		},
	}}, nil
}

// unknownRole reports modules inside a layer whose role nothing could infer
func unknownRole(_ *Context, m *domain.ModuleRecord) ([]Match, error) {
	if m.Layer == domain.LayerUnknown || m.Role != domain.RoleUnknown {
		return nil, nil
	}
	return []Match{{
		SubjectPath: m.RelPath,
		Args:        []any{m.RelPath},
	}}, nil
}
