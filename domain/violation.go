package domain

import (
	"fmt"
	"strings"
)

// Priority is the fix tier of a violation
type Priority string

const (
	// PriorityP0 is structural and must be fixed
	PriorityP0 Priority = "P0"

	// PriorityP1 should be fixed; waiving it requires a rationale
	PriorityP1 Priority = "P1"

	// PriorityP2 is optional
	PriorityP2 Priority = "P2"
)

// Priorities lists every tier from most to least severe
var Priorities = []Priority{PriorityP0, PriorityP1, PriorityP2}

// ParsePriority parses "P0", "p1", ... into a Priority
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case PriorityP0, PriorityP1, PriorityP2:
		return p, nil
	}
	return "", fmt.Errorf("invalid priority %q (want P0, P1 or P2)", s)
}

// Level returns 0 for P0, 1 for P1 and 2 for P2
func (p Priority) Level() int {
	switch p {
	case PriorityP0:
		return 0
	case PriorityP1:
		return 1
	}
	return 2
}

// AtLeast reports whether p is as severe as or more severe than threshold
func (p Priority) AtLeast(threshold Priority) bool {
	return p.Level() <= threshold.Level()
}

// Escalate returns the next more severe tier
func (p Priority) Escalate() Priority {
	switch p {
	case PriorityP2:
		return PriorityP1
	default:
		return PriorityP0
	}
}

// Category groups rules by the architectural concern they check
type Category string

const (
	CategoryAntiPattern    Category = "anti-pattern"
	CategoryNaming         Category = "naming"
	CategoryLayering       Category = "layering"
	CategoryResponsibility Category = "responsibility"
	CategoryPlacement      Category = "placement"
)

// Categories lists the categories in report order
var Categories = []Category{
	CategoryAntiPattern,
	CategoryNaming,
	CategoryLayering,
	CategoryResponsibility,
	CategoryPlacement,
}

// FixKind tells whether a suggested fix renames in place or moves across folders
type FixKind string

const (
	FixRename FixKind = "rename"
	FixMove   FixKind = "move"
)

// SuggestedFix is a structured move or rename operation
type SuggestedFix struct {
	Kind FixKind `json:"kind" yaml:"kind"`
	From string  `json:"from" yaml:"from"`
	To   string  `json:"to" yaml:"to"`
}

// String renders the fix as "rename a -> b"
func (f *SuggestedFix) String() string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("%s %s -> %s", f.Kind, f.From, f.To)
}

// Violation is one rule finding
type Violation struct {
	RuleID   string   `json:"rule_id" yaml:"rule_id"`
	Priority Priority `json:"priority" yaml:"priority"`
	Category Category `json:"category" yaml:"category"`

	// Feature is the slug the finding belongs to, empty for code outside features
	Feature string `json:"feature,omitempty" yaml:"feature,omitempty"`

	// Exactly one of SubjectPath and SubjectFolder is set; both are root-relative
	SubjectPath   string `json:"subject_path,omitempty" yaml:"subject_path,omitempty"`
	SubjectFolder string `json:"subject_folder,omitempty" yaml:"subject_folder,omitempty"`

	// RelatedPath is the other end of an import edge, when the subject is an edge
	RelatedPath string `json:"related_path,omitempty" yaml:"related_path,omitempty"`

	Message      string        `json:"message" yaml:"message"`
	SuggestedFix *SuggestedFix `json:"suggested_fix" yaml:"suggested_fix"`
}

// Subject returns the subject path or folder
func (v Violation) Subject() string {
	if v.SubjectPath != "" {
		return v.SubjectPath
	}
	return v.SubjectFolder
}
