// Package reporter turns rule findings into an AuditReport and renders it as
// text, JSON or YAML.
package reporter

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ludo-technologies/fsdscan/domain"
)

// Input is everything the generator aggregates
type Input struct {
	Root       string
	Snapshot   *domain.Snapshot
	Violations []domain.Violation
	Warnings   []domain.Warning

	// FailOn is the least severe priority that fails the run, P0 when empty
	FailOn domain.Priority

	FeaturesAudited int
	RulesEvaluated  int
	Metadata        domain.ReportMetadata
}

// Generate builds the report. The result depends only on its input: every
// list is sorted and every slice is non-nil.
func Generate(in Input) *domain.AuditReport {
	failOn := in.FailOn
	if failOn == "" {
		failOn = domain.PriorityP0
	}

	violations := append([]domain.Violation{}, in.Violations...)
	sort.SliceStable(violations, func(i, j int) bool {
		return severityLess(violations[i], violations[j])
	})

	warnings := append([]domain.Warning{}, in.Warnings...)
	sort.SliceStable(warnings, func(i, j int) bool {
		a, b := warnings[i], warnings[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.RuleID != b.RuleID {
			return ruleIDLess(a.RuleID, b.RuleID)
		}
		return a.Message < b.Message
	})

	report := &domain.AuditReport{
		Root:       in.Root,
		Status:     domain.StatusPass,
		FailOn:     failOn,
		Violations: violations,
		ByFeature:  groupByFeature(violations),
		ByCategory: groupByCategory(violations),
		Warnings:   warnings,
		Metadata:   in.Metadata,
	}

	s := &report.Summary
	if in.Snapshot != nil {
		s.FilesScanned = in.Snapshot.ModuleCount()
		for _, e := range in.Snapshot.Edges() {
			switch {
			case e.External:
				s.ExternalImports++
			case e.To == "":
				s.UnresolvedLocal++
			default:
				s.ImportEdges++
			}
		}
	}
	s.TotalViolations = len(violations)
	s.Warnings = len(warnings)
	s.FeaturesAudited = in.FeaturesAudited
	s.RulesEvaluated = in.RulesEvaluated
	for _, v := range violations {
		switch v.Priority {
		case domain.PriorityP0:
			s.P0++
		case domain.PriorityP1:
			s.P1++
		default:
			s.P2++
		}
		if v.Priority.AtLeast(failOn) {
			report.Status = domain.StatusFail
		}
	}
	return report
}

// severityLess orders by priority, then rule, subject and related path
func severityLess(a, b domain.Violation) bool {
	if a.Priority != b.Priority {
		return a.Priority.Level() < b.Priority.Level()
	}
	if a.RuleID != b.RuleID {
		return ruleIDLess(a.RuleID, b.RuleID)
	}
	if a.Subject() != b.Subject() {
		return a.Subject() < b.Subject()
	}
	if a.RelatedPath != b.RelatedPath {
		return a.RelatedPath < b.RelatedPath
	}
	return a.Message < b.Message
}

// ruleIDLess compares IDs such as FFA2 and FFA10 by prefix, then number
func ruleIDLess(a, b string) bool {
	pa, na := splitRuleID(a)
	pb, nb := splitRuleID(b)
	if pa != pb {
		return pa < pb
	}
	if na != nb {
		return na < nb
	}
	return a < b
}

func splitRuleID(id string) (string, int) {
	i := strings.IndexFunc(id, func(r rune) bool { return r >= '0' && r <= '9' })
	if i < 0 {
		return id, 0
	}
	n, err := strconv.Atoi(id[i:])
	if err != nil {
		return id, 0
	}
	return id[:i], n
}

func groupByFeature(violations []domain.Violation) []domain.FeatureGroup {
	byFeature := make(map[string][]domain.Violation)
	var slugs []string
	for _, v := range violations {
		if _, ok := byFeature[v.Feature]; !ok {
			slugs = append(slugs, v.Feature)
		}
		byFeature[v.Feature] = append(byFeature[v.Feature], v)
	}
	// code outside features goes last
	sort.Slice(slugs, func(i, j int) bool {
		if (slugs[i] == "") != (slugs[j] == "") {
			return slugs[j] == ""
		}
		return slugs[i] < slugs[j]
	})

	groups := make([]domain.FeatureGroup, 0, len(slugs))
	for _, slug := range slugs {
		groups = append(groups, domain.FeatureGroup{
			Feature:    slug,
			Categories: splitCategories(byFeature[slug]),
		})
	}
	return groups
}

// splitCategories groups violations by category in table order; within a
// category they are ordered by subject path
func splitCategories(violations []domain.Violation) []domain.CategoryGroup {
	byCategory := make(map[domain.Category][]domain.Violation)
	for _, v := range violations {
		byCategory[v.Category] = append(byCategory[v.Category], v)
	}
	groups := make([]domain.CategoryGroup, 0, len(byCategory))
	for _, c := range domain.Categories {
		vs := byCategory[c]
		if len(vs) == 0 {
			continue
		}
		sort.SliceStable(vs, func(i, j int) bool {
			if vs[i].Subject() != vs[j].Subject() {
				return vs[i].Subject() < vs[j].Subject()
			}
			return severityLess(vs[i], vs[j])
		})
		groups = append(groups, domain.CategoryGroup{Category: c, Violations: vs})
	}
	return groups
}

func groupByCategory(violations []domain.Violation) []domain.CategoryGroup {
	return splitCategories(violations)
}
