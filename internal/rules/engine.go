package rules

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ludo-technologies/fsdscan/domain"
)

// Overrides adjust the rule table from configuration
type Overrides struct {
	// Disabled lists rule IDs that are not evaluated
	Disabled []string

	// Priorities replaces the default priority of a rule
	Priorities map[string]domain.Priority
}

// Status is a table entry with its effective settings
type Status struct {
	Rule     Rule
	Priority domain.Priority
	Enabled  bool
}

// Engine evaluates the rule table in order
type Engine struct {
	statuses []Status
	order    map[string]int
	logger   *zap.Logger
}

// NewEngine applies overrides to table. Unknown rule IDs and invalid
// priorities are configuration errors.
func NewEngine(table []Rule, overrides Overrides, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{order: make(map[string]int, len(table)), logger: logger}
	for i, r := range table {
		e.order[r.ID] = i
		e.statuses = append(e.statuses, Status{Rule: r, Priority: r.Priority, Enabled: true})
	}

	for _, id := range overrides.Disabled {
		i, ok := e.order[strings.ToUpper(strings.TrimSpace(id))]
		if !ok {
			return nil, domain.NewConfigError(fmt.Sprintf("rules.disabled: unknown rule %q", id), nil)
		}
		e.statuses[i].Enabled = false
	}

	ids := make([]string, 0, len(overrides.Priorities))
	for id := range overrides.Priorities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		i, ok := e.order[strings.ToUpper(strings.TrimSpace(id))]
		if !ok {
			return nil, domain.NewConfigError(fmt.Sprintf("rules.priorities: unknown rule %q", id), nil)
		}
		p, err := domain.ParsePriority(string(overrides.Priorities[id]))
		if err != nil {
			return nil, domain.NewConfigError("rules.priorities."+id, err)
		}
		e.statuses[i].Priority = p
	}
	return e, nil
}

// Rules returns every table entry with its effective priority and enablement
func (e *Engine) Rules() []Status {
	return append([]Status(nil), e.statuses...)
}

// EnabledCount returns the number of rules that will be evaluated
func (e *Engine) EnabledCount() int {
	n := 0
	for _, s := range e.statuses {
		if s.Enabled {
			n++
		}
	}
	return n
}

// Evaluate runs every enabled rule over ctx. A predicate that fails or panics
// on one subject yields a rule evaluation warning and evaluation continues.
// Violations are ordered by rule, subject and related path.
func (e *Engine) Evaluate(ctx *Context) ([]domain.Violation, []domain.Warning) {
	var (
		violations []domain.Violation
		warnings   []domain.Warning
		seen       = make(map[string]bool)
	)

	for _, st := range e.statuses {
		if !st.Enabled {
			continue
		}
		rule := st.Rule
		emit := func(subject, feature string, matches []Match, err error) {
			if err != nil {
				e.logger.Warn("rule evaluation failed",
					zap.String("rule", rule.ID), zap.String("subject", subject), zap.Error(err))
				warnings = append(warnings, domain.NewRuleEvaluationWarning(rule.ID, subject, err.Error()))
				return
			}
			for _, m := range matches {
				v := e.violation(st, m, feature)
				key := v.RuleID + "\x00" + v.Subject() + "\x00" + v.RelatedPath + "\x00" + v.Message
				if seen[key] {
					continue
				}
				seen[key] = true
				violations = append(violations, v)
			}
		}

		switch rule.Scope {
		case ScopeModule:
			for _, m := range ctx.Snapshot.Modules() {
				matches, err := safeCall(func() ([]Match, error) { return rule.Module(ctx, m) })
				emit(m.RelPath, m.FeatureSlug, matches, err)
			}
		case ScopeEdge:
			for _, edge := range ctx.Snapshot.Edges() {
				from := ctx.Source(edge)
				if from == nil {
					continue
				}
				matches, err := safeCall(func() ([]Match, error) { return rule.Edge(ctx, edge) })
				emit(from.RelPath, from.FeatureSlug, matches, err)
			}
		case ScopeFolder:
			for _, f := range ctx.Folders() {
				matches, err := safeCall(func() ([]Match, error) { return rule.Folder(ctx, f) })
				emit(f.Path, folderFeature(ctx, f), matches, err)
			}
		case ScopeFeature:
			for _, f := range ctx.Features() {
				matches, err := safeCall(func() ([]Match, error) { return rule.Feature(ctx, f) })
				emit(f.Root, f.Slug, matches, err)
			}
		}
	}

	sort.SliceStable(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if oa, ob := e.order[a.RuleID], e.order[b.RuleID]; oa != ob {
			return oa < ob
		}
		if a.Subject() != b.Subject() {
			return a.Subject() < b.Subject()
		}
		if a.RelatedPath != b.RelatedPath {
			return a.RelatedPath < b.RelatedPath
		}
		return a.Message < b.Message
	})
	return violations, warnings
}

func (e *Engine) violation(st Status, m Match, feature string) domain.Violation {
	priority := st.Priority
	if m.Escalate {
		priority = priority.Escalate()
	}
	if m.Feature != "" {
		feature = m.Feature
	}
	return domain.Violation{
		RuleID:        st.Rule.ID,
		Priority:      priority,
		Category:      st.Rule.Category,
		Feature:       feature,
		SubjectPath:   m.SubjectPath,
		SubjectFolder: m.SubjectFolder,
		RelatedPath:   m.RelatedPath,
		Message:       st.Rule.Render(m),
		SuggestedFix:  m.Fix,
	}
}

// safeCall turns a predicate panic into an error
func safeCall(fn func() ([]Match, error)) (matches []Match, err error) {
	defer func() {
		if r := recover(); r != nil {
			matches = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// folderFeature returns the feature a folder belongs to, "" outside features
func folderFeature(ctx *Context, f *Folder) string {
	if ctx.Matcher == nil {
		return ""
	}
	loc := ctx.Matcher.Locate(f.Path + "/_")
	if loc.Layer != domain.LayerFeatures {
		return ""
	}
	return loc.Slice
}
