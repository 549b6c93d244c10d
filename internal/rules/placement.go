package rules

import (
	"path"
	"strings"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/consumers"
)

// libImportsDomain reports lib modules reaching into domain or feature code
func libImportsDomain(ctx *Context, e domain.ImportEdge) ([]Match, error) {
	from, to := ctx.Source(e), ctx.Target(e)
	if from == nil || to == nil || from.Layer != domain.LayerLib {
		return nil, nil
	}
	if to.Layer != domain.LayerDomain && to.Layer != domain.LayerFeatures {
		return nil, nil
	}
	m := edgeMatch(from, to, from.RelPath, to.RelPath, to.Layer)
	if to.InFeature() {
		m.Feature = to.FeatureSlug
	}
	return []Match{m}, nil
}

func consumerSet(ctx *Context, m *domain.ModuleRecord) (*consumers.Set, consumers.Verdict, bool) {
	if ctx.Consumers == nil {
		return nil, "", false
	}
	set, ok := ctx.Consumers.For(m.Path)
	if !ok {
		return nil, "", false
	}
	return set, ctx.Consumers.Verdict(set), true
}

// singleConsumer reports code outside features used by exactly one feature
// and suggests moving it into that feature
func singleConsumer(ctx *Context, m *domain.ModuleRecord) ([]Match, error) {
	set, verdict, ok := consumerSet(ctx, m)
	if !ok || verdict != consumers.VerdictSingleFeature {
		return nil, nil
	}
	root := set.Features[0]
	slug := path.Base(root)
	var others string
	if len(set.Others) > 0 {
		others = " (also imported from " + strings.Join(set.Others, ", ") + ")"
	}
	return []Match{{
		SubjectPath: m.RelPath,
		Feature:     slug,
		Args:        []any{slug, others, slug},
		Fix:         ctx.Consumers.SuggestMove(m, root),
	}}, nil
}

// unreferenced reports modules nothing imports. Files sitting directly in the
// project root or a source root are entry points and are skipped.
func unreferenced(ctx *Context, m *domain.ModuleRecord) ([]Match, error) {
	_, verdict, ok := consumerSet(ctx, m)
	if !ok || verdict != consumers.VerdictUnreferenced || isRootLevel(ctx, m) {
		return nil, nil
	}
	return []Match{{
		SubjectPath: m.RelPath,
		Args:        []any{m.RelPath},
	}}, nil
}

// fewConsumers reports modules used by more than one feature but fewer than
// the shared threshold
func fewConsumers(ctx *Context, m *domain.ModuleRecord) ([]Match, error) {
	set, verdict, ok := consumerSet(ctx, m)
	if !ok || verdict != consumers.VerdictFew {
		return nil, nil
	}
	return []Match{{
		SubjectPath: m.RelPath,
		Args:        []any{set.Count(), strings.Join(set.Slugs(), ", "), ctx.Consumers.SharedMin()},
	}}, nil
}
