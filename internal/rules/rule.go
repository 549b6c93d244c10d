// Package rules holds the versioned rule table of the auditor and the engine
// that evaluates it against a snapshot.
package rules

import (
	"fmt"

	"github.com/ludo-technologies/fsdscan/domain"
)

// TableVersion identifies the rule table; bump it when rules change meaning
const TableVersion = "2"

// Scope is the kind of subject a rule predicate looks at
type Scope string

const (
	ScopeModule  Scope = "module"
	ScopeEdge    Scope = "edge"
	ScopeFolder  Scope = "folder"
	ScopeFeature Scope = "feature"
)

// Match is one positive predicate result. Exactly one of SubjectPath and
// SubjectFolder is set.
type Match struct {
	SubjectPath   string
	SubjectFolder string
	RelatedPath   string

	// Feature overrides the feature the violation is filed under
	Feature string

	// Args fill the rule's message template
	Args []any

	Fix *domain.SuggestedFix

	// Escalate raises the rule priority by one tier
	Escalate bool
}

// Subject returns the subject path or folder
func (m Match) Subject() string {
	if m.SubjectPath != "" {
		return m.SubjectPath
	}
	return m.SubjectFolder
}

// Rule is one entry of the rule table. Exactly one predicate matching Scope is set.
type Rule struct {
	ID       string
	Category domain.Category
	Priority domain.Priority
	Scope    Scope
	Title    string

	// Template is a fmt format string rendered with Match.Args
	Template string

	Module  func(ctx *Context, m *domain.ModuleRecord) ([]Match, error)
	Edge    func(ctx *Context, e domain.ImportEdge) ([]Match, error)
	Folder  func(ctx *Context, f *Folder) ([]Match, error)
	Feature func(ctx *Context, f *Feature) ([]Match, error)
}

// Render fills the message template
func (r Rule) Render(m Match) string {
	return fmt.Sprintf(r.Template, m.Args...)
}
