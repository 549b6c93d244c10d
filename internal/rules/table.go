package rules

import "github.com/ludo-technologies/fsdscan/domain"

// Table returns the rule table in evaluation order. Each call returns a fresh
// slice the caller may modify.
func Table() []Rule {
	return []Rule{
		{
			ID:       "FFA1",
			Category: domain.CategoryNaming,
			Priority: domain.PriorityP0,
			Scope:    ScopeFeature,
			Title:    "Feature folder contains upper-case letters",
			Template: "feature folder `%s` contains upper-case letters; feature folders are kebab-case",
			Feature:  featureFolderUpper,
		},
		{
			ID:       "FFA2",
			Category: domain.CategoryNaming,
			Priority: domain.PriorityP0,
			Scope:    ScopeFeature,
			Title:    "Feature folder is not kebab-case",
			Template: "feature folder `%s` is not kebab-case",
			Feature:  featureFolderNotKebab,
		},
		{
			ID:       "FFA3",
			Category: domain.CategoryNaming,
			Priority: domain.PriorityP0,
			Scope:    ScopeModule,
			Title:    "Feature meta file lacks the slug prefix",
			Template: "meta file `%s` of feature `%s` must be named `%s`",
			Module:   metaFilePrefix,
		},
		{
			ID:       "FFA4",
			Category: domain.CategoryLayering,
			Priority: domain.PriorityP0,
			Scope:    ScopeEdge,
			Title:    "Feature imports app, pages or widgets",
			Template: "feature module `%s` imports `%s` from the %s layer",
			Edge:     featureImportsUpward,
		},
		{
			ID:       "FFA5",
			Category: domain.CategoryLayering,
			Priority: domain.PriorityP0,
			Scope:    ScopeEdge,
			Title:    "Import against the layer order",
			Template: "`%s` (%s) imports `%s` from the higher %s layer",
			Edge:     layerImportsUpward,
		},
		{
			ID:       "FFA6",
			Category: domain.CategoryAntiPattern,
			Priority: domain.PriorityP1,
			Scope:    ScopeFolder,
			Title:    "Catch-all folder",
			Template: "`%s` is a catch-all folder (%s, %d files); move the code into the features that use it or into shared segments",
			Folder:   catchAllFolder,
		},
		{
			ID:       "FFA7",
			Category: domain.CategoryAntiPattern,
			Priority: domain.PriorityP1,
			Scope:    ScopeFolder,
			Title:    "Flat folder over its file threshold",
			Template: "flat folder `%s` holds %d files directly (limit %d); group them by feature",
			Folder:   flatFolder,
		},
		{
			ID:       "FFA8",
			Category: domain.CategoryAntiPattern,
			Priority: domain.PriorityP1,
			Scope:    ScopeModule,
			Title:    "Module outside every layer",
			Template: "`%s` sits outside every layer folder",
			Module:   outsideLayers,
		},
		{
			ID:       "FFA9",
			Category: domain.CategoryNaming,
			Priority: domain.PriorityP2,
			Scope:    ScopeModule,
			Title:    "Module role cannot be inferred",
			Template: "the role of `%s` cannot be inferred from its folder or name",
			Module:   unknownRole,
		},
		{
			ID:       "FFA10",
			Category: domain.CategoryLayering,
			Priority: domain.PriorityP1,
			Scope:    ScopeEdge,
			Title:    "Cross-slice import bypasses the public API",
			Template: "`%s` reaches into `%s`; import slice `%s` through its index",
			Edge:     crossSliceDeepImport,
		},
		{
			ID:       "FFA11",
			Category: domain.CategoryResponsibility,
			Priority: domain.PriorityP1,
			Scope:    ScopeModule,
			Title:    "UI module accesses the network",
			Template: "ui module `%s` %s; keep network access in an api segment",
			Module:   uiNetworkAccess,
		},
		{
			ID:       "FFA12",
			Category: domain.CategoryResponsibility,
			Priority: domain.PriorityP0,
			Scope:    ScopeEdge,
			Title:    "Model imports UI",
			Template: "model module `%s` imports ui module `%s`",
			Edge:     modelImportsUI,
		},
		{
			ID:       "FFA13",
			Category: domain.CategoryPlacement,
			Priority: domain.PriorityP0,
			Scope:    ScopeEdge,
			Title:    "Lib imports domain or feature code",
			Template: "lib module `%s` imports `%s` from the %s layer",
			Edge:     libImportsDomain,
		},
		{
			ID:       "FFA14",
			Category: domain.CategoryPlacement,
			Priority: domain.PriorityP1,
			Scope:    ScopeModule,
			Title:    "Single-consumer module outside its feature",
			Template: "single-consumer module: only feature `%s` imports it%s; move it into feature `%s`",
			Module:   singleConsumer,
		},
		{
			ID:       "FFA15",
			Category: domain.CategoryPlacement,
			Priority: domain.PriorityP2,
			Scope:    ScopeModule,
			Title:    "Unreferenced module",
			Template: "`%s` is not imported by any module",
			Module:   unreferenced,
		},
		{
			ID:       "FFA16",
			Category: domain.CategoryPlacement,
			Priority: domain.PriorityP2,
			Scope:    ScopeModule,
			Title:    "Module with few consumers",
			Template: "only %d consumers (%s); shared code usually has at least %d",
			Module:   fewConsumers,
		},
		{
			ID:       "FFA17",
			Category: domain.CategoryLayering,
			Priority: domain.PriorityP2,
			Scope:    ScopeFeature,
			Title:    "Feature without a public API",
			Template: "feature `%s` has no index.ts public API",
			Feature:  featureWithoutBarrel,
		},
	}
}

// Lookup returns the table entry with the given ID
func Lookup(id string) (Rule, bool) {
	for _, r := range Table() {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}
