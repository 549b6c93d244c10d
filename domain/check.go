package domain

// ReportStatus is the overall outcome of an audit
type ReportStatus string

const (
	StatusPass ReportStatus = "PASS"
	StatusFail ReportStatus = "FAIL"
)

// WarningKind distinguishes recoverable problems collected during a run
type WarningKind string

const (
	// WarningParse means a file could not be parsed and contributes zero edges
	WarningParse WarningKind = "parse"

	// WarningRule means a rule predicate failed on one subject
	WarningRule WarningKind = "rule"
)

// Warning is a recoverable problem. Warnings lower confidence in part of the
// report but never abort the run.
type Warning struct {
	Kind    WarningKind `json:"kind" yaml:"kind"`
	Path    string      `json:"path" yaml:"path"`
	RuleID  string      `json:"rule_id,omitempty" yaml:"rule_id,omitempty"`
	Message string      `json:"message" yaml:"message"`
}

// NewParseWarning creates a parse warning for a root-relative path
func NewParseWarning(path, message string) Warning {
	return Warning{Kind: WarningParse, Path: path, Message: message}
}

// NewRuleEvaluationWarning creates a warning for a rule that failed on subject
func NewRuleEvaluationWarning(ruleID, subject, message string) Warning {
	return Warning{Kind: WarningRule, Path: subject, RuleID: ruleID, Message: message}
}

// AuditSummary provides aggregate statistics
type AuditSummary struct {
	FilesScanned    int `json:"files_scanned" yaml:"files_scanned"`
	ImportEdges     int `json:"import_edges" yaml:"import_edges"`
	ExternalImports int `json:"external_imports" yaml:"external_imports"`
	UnresolvedLocal int `json:"unresolved_local_imports" yaml:"unresolved_local_imports"`
	TotalViolations int `json:"total_violations" yaml:"total_violations"`
	P0              int `json:"p0" yaml:"p0"`
	P1              int `json:"p1" yaml:"p1"`
	P2              int `json:"p2" yaml:"p2"`
	Warnings        int `json:"warnings" yaml:"warnings"`
	FeaturesAudited int `json:"features_audited" yaml:"features_audited"`
	RulesEvaluated  int `json:"rules_evaluated" yaml:"rules_evaluated"`
}

// Count returns the number of violations at priority p
func (s AuditSummary) Count(p Priority) int {
	switch p {
	case PriorityP0:
		return s.P0
	case PriorityP1:
		return s.P1
	}
	return s.P2
}

// CategoryGroup is the violations of one category, ordered by subject
type CategoryGroup struct {
	Category   Category    `json:"category" yaml:"category"`
	Violations []Violation `json:"violations" yaml:"violations"`
}

// FeatureGroup is the violations attributed to one feature, grouped by category.
// Feature is empty for code outside feature slices.
type FeatureGroup struct {
	Feature    string          `json:"feature" yaml:"feature"`
	Categories []CategoryGroup `json:"categories" yaml:"categories"`
}

// ReportMetadata describes the run. It never influences findings.
type ReportMetadata struct {
	Tool     string `json:"tool" yaml:"tool"`
	Version  string `json:"version" yaml:"version"`
	Revision string `json:"revision,omitempty" yaml:"revision,omitempty"`
}

// AuditReport is the terminal artifact of one audit run
type AuditReport struct {
	Root       string          `json:"root" yaml:"root"`
	Status     ReportStatus    `json:"status" yaml:"status"`
	FailOn     Priority        `json:"fail_on" yaml:"fail_on"`
	Summary    AuditSummary    `json:"summary" yaml:"summary"`
	Violations []Violation     `json:"violations" yaml:"violations"`
	ByFeature  []FeatureGroup  `json:"by_feature" yaml:"by_feature"`
	ByCategory []CategoryGroup `json:"by_category" yaml:"by_category"`
	Warnings   []Warning       `json:"warnings" yaml:"warnings"`
	Metadata   ReportMetadata  `json:"metadata" yaml:"metadata"`
}

// Passed reports whether no violation reaches the fail threshold
func (r *AuditReport) Passed() bool {
	return r.Status == StatusPass
}
