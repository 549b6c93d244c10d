package domain

import (
	"fmt"
	"sort"
)

// EdgeKind represents the syntactic form of an import
type EdgeKind string

const (
	// EdgeKindImport represents static ES module imports
	EdgeKindImport EdgeKind = "import"

	// EdgeKindRequire represents CommonJS require('x')
	EdgeKindRequire EdgeKind = "require"

	// EdgeKindDynamic represents import('x') with a literal argument
	EdgeKindDynamic EdgeKind = "dynamic"

	// EdgeKindReExport represents export ... from 'x'
	EdgeKindReExport EdgeKind = "reexport"
)

// ImportEdge is a directed edge from a module to an import specifier
type ImportEdge struct {
	// From is the absolute path of the importing module
	From string `json:"from" yaml:"from"`

	// Specifier is the module specifier as written in source
	Specifier string `json:"specifier" yaml:"specifier"`

	// To is the absolute path of the resolved module, empty when unresolved
	To string `json:"to,omitempty" yaml:"to,omitempty"`

	Kind EdgeKind `json:"kind" yaml:"kind"`

	// External marks bare specifiers (npm packages, builtins)
	External bool `json:"external" yaml:"external"`

	// TypeOnly marks TypeScript `import type` statements
	TypeOnly bool `json:"type_only,omitempty" yaml:"type_only,omitempty"`

	// Line is the 1-based source line of the import
	Line int `json:"line" yaml:"line"`
}

// Resolved reports whether the edge points at a module of the snapshot
func (e ImportEdge) Resolved() bool {
	return e.To != ""
}

// Snapshot is the immutable arena of one audit run: every module keyed by
// absolute path plus the import graph between them.
type Snapshot struct {
	Root string

	modules  map[string]*ModuleRecord
	order    []string
	edges    []ImportEdge
	outgoing map[string][]int
	incoming map[string][]int
}

// NewSnapshot freezes modules and edges into a snapshot. Modules are ordered
// by relative path and edges by (from, line, specifier) so that every
// traversal of the snapshot is deterministic.
func NewSnapshot(root string, modules []*ModuleRecord, edges []ImportEdge) (*Snapshot, error) {
	s := &Snapshot{
		Root:     root,
		modules:  make(map[string]*ModuleRecord, len(modules)),
		order:    make([]string, 0, len(modules)),
		outgoing: make(map[string][]int),
		incoming: make(map[string][]int),
	}

	for _, m := range modules {
		if m == nil {
			continue
		}
		if _, dup := s.modules[m.Path]; dup {
			return nil, fmt.Errorf("duplicate module record %s", m.Path)
		}
		s.modules[m.Path] = m
		s.order = append(s.order, m.Path)
	}
	sort.Slice(s.order, func(i, j int) bool {
		return s.modules[s.order[i]].RelPath < s.modules[s.order[j]].RelPath
	})

	s.edges = make([]ImportEdge, 0, len(edges))
	for _, e := range edges {
		if _, ok := s.modules[e.From]; !ok {
			return nil, fmt.Errorf("import edge from unknown module %s", e.From)
		}
		if e.To != "" {
			if _, ok := s.modules[e.To]; !ok {
				return nil, fmt.Errorf("import edge %s -> %s resolves outside the snapshot", e.From, e.To)
			}
		}
		s.edges = append(s.edges, e)
	}
	sort.SliceStable(s.edges, func(i, j int) bool {
		a, b := s.edges[i], s.edges[j]
		if a.From != b.From {
			return s.modules[a.From].RelPath < s.modules[b.From].RelPath
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Specifier != b.Specifier {
			return a.Specifier < b.Specifier
		}
		return a.Kind < b.Kind
	})

	for i, e := range s.edges {
		s.outgoing[e.From] = append(s.outgoing[e.From], i)
		if e.To != "" {
			s.incoming[e.To] = append(s.incoming[e.To], i)
		}
	}
	return s, nil
}

// Module returns the record for an absolute path, or nil
func (s *Snapshot) Module(path string) *ModuleRecord {
	return s.modules[path]
}

// Has reports whether path is a module of the snapshot
func (s *Snapshot) Has(path string) bool {
	_, ok := s.modules[path]
	return ok
}

// Modules returns all records ordered by relative path
func (s *Snapshot) Modules() []*ModuleRecord {
	out := make([]*ModuleRecord, len(s.order))
	for i, p := range s.order {
		out[i] = s.modules[p]
	}
	return out
}

// ModuleCount returns the number of modules in the snapshot
func (s *Snapshot) ModuleCount() int {
	return len(s.order)
}

// Edges returns all edges in deterministic order
func (s *Snapshot) Edges() []ImportEdge {
	out := make([]ImportEdge, len(s.edges))
	copy(out, s.edges)
	return out
}

// EdgeCount returns the total number of edges
func (s *Snapshot) EdgeCount() int {
	return len(s.edges)
}

// Outgoing returns the edges leaving path (efferent)
func (s *Snapshot) Outgoing(path string) []ImportEdge {
	return s.collect(s.outgoing[path])
}

// Incoming returns the resolved edges pointing at path (afferent)
func (s *Snapshot) Incoming(path string) []ImportEdge {
	return s.collect(s.incoming[path])
}

func (s *Snapshot) collect(idx []int) []ImportEdge {
	if len(idx) == 0 {
		return nil
	}
	out := make([]ImportEdge, len(idx))
	for i, n := range idx {
		out[i] = s.edges[n]
	}
	return out
}
