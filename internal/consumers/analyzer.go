// Package consumers counts which features use modules that live outside
// feature slices, to tell genuinely shared code from code owned by one feature.
package consumers

import (
	"path"
	"sort"
	"strings"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/classifier"
)

// DefaultSharedMin is the consumer count from which a module is legitimately shared
const DefaultSharedMin = 3

// Options controls consumer counting
type Options struct {
	// Transitive follows importers outside features until a feature or an
	// entry point is reached. Direct importers only when false.
	Transitive bool

	// SharedMin is the number of consumers that makes a module shared
	SharedMin int
}

// Verdict classifies a consumer set
type Verdict string

const (
	VerdictUnreferenced  Verdict = "unreferenced"
	VerdictSingleFeature Verdict = "single-feature"
	VerdictNoFeature     Verdict = "no-feature"
	VerdictFew           Verdict = "few"
	VerdictShared        Verdict = "shared"
)

// Set is the consumers of one module
type Set struct {
	Module *domain.ModuleRecord

	// DirectImporters counts non-test modules importing the module directly
	DirectImporters int

	// Features are the root-relative folders of the consuming feature
	// slices, sorted. Only features count as consumers.
	Features []string

	// Others are the layers of importers outside features, sorted
	Others []string
}

// Count returns the number of distinct consuming features
func (s *Set) Count() int {
	return len(s.Features)
}

// Slugs returns the slugs of the consuming features
func (s *Set) Slugs() []string {
	out := make([]string, len(s.Features))
	for i, root := range s.Features {
		out[i] = path.Base(root)
	}
	return out
}

// Consumers returns feature slugs followed by the other importing layers
func (s *Set) Consumers() []string {
	return append(s.Slugs(), s.Others...)
}

// Analysis holds the consumer sets of every subject module
type Analysis struct {
	opts Options
	sets map[string]*Set
}

// IsSubject reports whether a module takes part in consumer analysis. Every
// module below the features layer counts, as does code outside any layer.
// Tests, stories and declaration files are skipped. So are the app, pages and
// widgets layers: they compose features, and a feature importing them is the
// inverted dependency FFA4 reports.
func IsSubject(m *domain.ModuleRecord) bool {
	if m.IsAuxiliary() || strings.HasSuffix(m.RelPath, ".d.ts") {
		return false
	}
	switch m.Layer {
	case domain.LayerFeatures, domain.LayerApp, domain.LayerPages, domain.LayerWidgets:
		return false
	}
	return true
}

// Analyze computes consumer sets for every subject module of snap
func Analyze(snap *domain.Snapshot, opts Options) *Analysis {
	if opts.SharedMin < 2 {
		opts.SharedMin = DefaultSharedMin
	}
	a := &Analysis{
		opts: opts,
		sets: make(map[string]*Set),
	}

	for _, m := range snap.Modules() {
		if !IsSubject(m) {
			continue
		}
		a.sets[m.Path] = a.collect(snap, m)
	}
	return a
}

func (a *Analysis) collect(snap *domain.Snapshot, m *domain.ModuleRecord) *Set {
	set := &Set{Module: m}
	features := make(map[string]bool)
	others := make(map[string]bool)

	importers := directImporters(snap, m.Path)
	set.DirectImporters = len(importers)

	visited := map[string]bool{m.Path: true}
	queue := importers
	for len(queue) > 0 {
		imp := queue[0]
		queue = queue[1:]
		if visited[imp.Path] {
			continue
		}
		visited[imp.Path] = true

		if imp.InFeature() {
			features[imp.FeatureRoot] = true
			continue
		}
		if !a.opts.Transitive {
			others[string(imp.Layer)] = true
			continue
		}
		next := directImporters(snap, imp.Path)
		if len(next) == 0 {
			// an entry point outside features consumes the chain
			others[string(imp.Layer)] = true
			continue
		}
		queue = append(queue, next...)
	}

	set.Features = sortedKeys(features)
	set.Others = sortedKeys(others)
	return set
}

// directImporters returns the distinct non-test modules importing path
func directImporters(snap *domain.Snapshot, target string) []*domain.ModuleRecord {
	seen := make(map[string]bool)
	var out []*domain.ModuleRecord
	for _, e := range snap.Incoming(target) {
		if e.From == target || seen[e.From] {
			continue
		}
		seen[e.From] = true
		if imp := snap.Module(e.From); imp != nil && !imp.IsAuxiliary() {
			out = append(out, imp)
		}
	}
	return out
}

// For returns the consumer set of a subject module
func (a *Analysis) For(modulePath string) (*Set, bool) {
	s, ok := a.sets[modulePath]
	return s, ok
}

// SharedMin returns the effective shared threshold
func (a *Analysis) SharedMin() int {
	return a.opts.SharedMin
}

// Verdict classifies a consumer set
func (a *Analysis) Verdict(s *Set) Verdict {
	switch {
	case s.DirectImporters == 0:
		return VerdictUnreferenced
	case s.Count() == 0:
		return VerdictNoFeature
	case s.Count() == 1:
		return VerdictSingleFeature
	case s.Count() >= a.opts.SharedMin:
		return VerdictShared
	}
	return VerdictFew
}

// SuggestMove builds the move of m into the feature slice at featureRoot: the
// segment is chosen by role and the file name is prefixed with the slug in
// kebab-case, so src/utils/formatDate.ts becomes src/features/orders/domain/orders.format-date.ts.
func (a *Analysis) SuggestMove(m *domain.ModuleRecord, featureRoot string) *domain.SuggestedFix {
	if featureRoot == "" {
		return nil
	}
	slug := path.Base(featureRoot)

	base := path.Base(m.RelPath)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "index" {
		stem = path.Base(path.Dir(m.RelPath))
	}
	name := classifier.ToKebabCase(stem)
	if name == "" {
		name = stem
	}

	return &domain.SuggestedFix{
		Kind: domain.FixMove,
		From: m.RelPath,
		To:   path.Join(featureRoot, SegmentFor(m.Role), slug+"."+name+ext),
	}
}

// SegmentFor maps a role to the feature segment folder that should hold it
func SegmentFor(role domain.Role) string {
	switch role {
	case domain.RoleUI:
		return "ui"
	case domain.RoleModel, domain.RoleStore, domain.RoleHooks:
		return "model"
	case domain.RoleAPI:
		return "api"
	case domain.RoleConfig, domain.RoleConstants:
		return "config"
	case domain.RoleLib:
		return "lib"
	}
	return "domain"
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
