// Package classifier assigns layers and roles to the files of a
// Feature-Sliced project.
package classifier

import (
	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/parser"
)

// Classifier turns scanned paths and parsed facts into module records
type Classifier struct {
	matcher *LayerMatcher
}

// New creates a classifier over a layer matcher
func New(matcher *LayerMatcher) *Classifier {
	return &Classifier{matcher: matcher}
}

// Matcher returns the layer matcher
func (c *Classifier) Matcher() *LayerMatcher {
	return c.matcher
}

// Place creates the path-derived part of a record: layer, slice and feature.
// The role stays unknown until Classify sees the parsed facts.
func (c *Classifier) Place(absPath, relPath string) *domain.ModuleRecord {
	loc := c.matcher.Locate(relPath)
	rec := &domain.ModuleRecord{
		Path:      absPath,
		RelPath:   relPath,
		Layer:     loc.Layer,
		LayerRoot: loc.LayerRoot,
		SliceRoot: loc.SliceRoot,
		Role:      domain.RoleUnknown,
		Kind:      domain.KindModule,
	}
	if loc.Layer == domain.LayerFeatures && loc.Slice != "" {
		// the literal folder name, even when it breaks naming rules
		rec.FeatureSlug = loc.Slice
		rec.FeatureRoot = loc.SliceRoot
	}
	return rec
}

// Classify returns a copy of placed with role, kind and exports assigned.
// facts is nil for files that failed to parse; they are classified from
// their path alone.
func (c *Classifier) Classify(placed *domain.ModuleRecord, facts *parser.ModuleFacts) *domain.ModuleRecord {
	rec := *placed
	in := RoleInput{
		RelPath:  rec.RelPath,
		Location: c.matcher.Locate(rec.RelPath),
	}
	if facts != nil {
		in.HasJSXExport = facts.HasJSXExport()
		rec.Exports = append([]string(nil), facts.Exports...)
		rec.HasJSX = facts.HasJSX
		rec.CallsFetch = facts.CallsFetch
	} else {
		rec.ParseFailed = true
	}
	rec.Role, _ = ClassifyRole(in)
	rec.Kind = KindFor(rec.Role, in.HasJSXExport)
	return &rec
}
