package rules

import (
	"path"

	"github.com/ludo-technologies/fsdscan/domain"
)

// featureForbiddenTargets are the layers a feature must never import
var featureForbiddenTargets = map[domain.Layer]bool{
	domain.LayerApp:     true,
	domain.LayerPages:   true,
	domain.LayerWidgets: true,
}

func edgeMatch(from, to *domain.ModuleRecord, args ...any) Match {
	return Match{
		SubjectPath: from.RelPath,
		RelatedPath: to.RelPath,
		Args:        args,
	}
}

// featureImportsUpward reports features importing app, pages or widgets. Every
// offending edge is its own violation.
func featureImportsUpward(ctx *Context, e domain.ImportEdge) ([]Match, error) {
	from, to := ctx.Source(e), ctx.Target(e)
	if from == nil || to == nil || from.Layer != domain.LayerFeatures || !featureForbiddenTargets[to.Layer] {
		return nil, nil
	}
	return []Match{edgeMatch(from, to, from.RelPath, to.RelPath, to.Layer)}, nil
}

// layerImportsUpward reports every other import against the layer order
func layerImportsUpward(ctx *Context, e domain.ImportEdge) ([]Match, error) {
	from, to := ctx.Source(e), ctx.Target(e)
	if from == nil || to == nil || from.Layer.Rank() == 0 || to.Layer.Rank() == 0 {
		return nil, nil
	}
	if to.Layer.Rank() <= from.Layer.Rank() {
		return nil, nil
	}
	// reported by the feature and lib specific rules
	if from.Layer == domain.LayerFeatures && featureForbiddenTargets[to.Layer] {
		return nil, nil
	}
	if from.Layer == domain.LayerLib && to.Layer == domain.LayerFeatures {
		return nil, nil
	}
	return []Match{edgeMatch(from, to, from.RelPath, from.Layer, to.RelPath, to.Layer)}, nil
}

// crossSliceDeepImport reports slices importing another slice of the same
// layer without going through its barrel
func crossSliceDeepImport(ctx *Context, e domain.ImportEdge) ([]Match, error) {
	from, to := ctx.Source(e), ctx.Target(e)
	if from == nil || to == nil || from.Layer != to.Layer || !from.Layer.IsSliced() {
		return nil, nil
	}
	if from.SliceRoot == "" || to.SliceRoot == "" || from.SliceRoot == to.SliceRoot {
		return nil, nil
	}
	if to.Role == domain.RoleBarrel && path.Dir(to.RelPath) == to.SliceRoot {
		return nil, nil
	}
	m := edgeMatch(from, to, from.RelPath, to.RelPath, path.Base(to.SliceRoot))
	if from.InFeature() {
		m.Feature = from.FeatureSlug
	}
	return []Match{m}, nil
}

// featureWithoutBarrel reports feature slices exposing no index file
func featureWithoutBarrel(_ *Context, f *Feature) ([]Match, error) {
	if f.Barrel != nil {
		return nil, nil
	}
	return []Match{{
		SubjectFolder: f.Root,
		Feature:       f.Slug,
		Args:          []any{f.Slug},
	}}, nil
}
