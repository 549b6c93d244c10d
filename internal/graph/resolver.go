package graph

import (
	"path/filepath"
	"sort"
	"strings"
)

// SpecifierType represents the type of module specifier
type SpecifierType string

const (
	// SpecifierRelative represents ./foo and ../bar
	SpecifierRelative SpecifierType = "relative"

	// SpecifierAbsolute represents /foo, resolved against the project root
	SpecifierAbsolute SpecifierType = "absolute"

	// SpecifierAlias represents configured aliases such as @/features/x
	SpecifierAlias SpecifierType = "alias"

	// SpecifierPackage represents npm packages and builtins
	SpecifierPackage SpecifierType = "package"
)

// probeExtensions are tried in order when a specifier has no matching file
var probeExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mts", ".cts", ".mjs", ".cjs"}

// Resolution is the outcome of resolving one specifier
type Resolution struct {
	Type SpecifierType

	// To is the absolute path of the resolved module, empty when unresolved
	To string
}

// External reports whether the specifier points outside the project
func (r Resolution) External() bool {
	return r.Type == SpecifierPackage
}

type alias struct {
	prefix string
	target string
}

// Resolver maps specifiers to modules of the scanned tree. It only consults
// the known path set and never touches the filesystem.
type Resolver struct {
	root    string
	known   map[string]bool
	aliases []alias
}

// NewResolver creates a resolver. aliases maps a specifier prefix ("@/") to
// a root-relative folder ("src/").
func NewResolver(root string, known map[string]bool, aliases map[string]string) *Resolver {
	r := &Resolver{root: root, known: known}
	for prefix, target := range aliases {
		if prefix == "" {
			continue
		}
		r.aliases = append(r.aliases, alias{prefix: prefix, target: target})
	}
	// longest prefix first, so @/features/ beats @/
	sort.Slice(r.aliases, func(i, j int) bool {
		if len(r.aliases[i].prefix) != len(r.aliases[j].prefix) {
			return len(r.aliases[i].prefix) > len(r.aliases[j].prefix)
		}
		return r.aliases[i].prefix < r.aliases[j].prefix
	})
	return r
}

// Classify determines the specifier type
func (r *Resolver) Classify(spec string) SpecifierType {
	switch {
	case spec == "." || spec == ".." || strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../"):
		return SpecifierRelative
	case strings.HasPrefix(spec, "/"):
		return SpecifierAbsolute
	}
	for _, a := range r.aliases {
		if strings.HasPrefix(spec, a.prefix) {
			return SpecifierAlias
		}
	}
	return SpecifierPackage
}

// Resolve resolves spec as imported from the absolute path from
func (r *Resolver) Resolve(from, spec string) Resolution {
	typ := r.Classify(spec)
	res := Resolution{Type: typ}

	var base string
	switch typ {
	case SpecifierRelative:
		base = filepath.Join(filepath.Dir(from), filepath.FromSlash(spec))
	case SpecifierAbsolute:
		base = filepath.Join(r.root, filepath.FromSlash(spec))
	case SpecifierAlias:
		for _, a := range r.aliases {
			if strings.HasPrefix(spec, a.prefix) {
				rest := strings.TrimPrefix(spec, a.prefix)
				base = filepath.Join(r.root, filepath.FromSlash(a.target), filepath.FromSlash(rest))
				break
			}
		}
	default:
		return res
	}

	res.To = r.probe(filepath.Clean(base))
	return res
}

func (r *Resolver) probe(base string) string {
	if r.known[base] {
		return base
	}
	for _, ext := range probeExtensions {
		if r.known[base+ext] {
			return base + ext
		}
	}
	for _, ext := range probeExtensions {
		candidate := filepath.Join(base, "index"+ext)
		if r.known[candidate] {
			return candidate
		}
	}
	// TypeScript ESM sources import "./x.js" for x.ts
	if ext := filepath.Ext(base); ext == ".js" || ext == ".jsx" || ext == ".mjs" || ext == ".cjs" {
		stem := strings.TrimSuffix(base, ext)
		for _, tsExt := range []string{".ts", ".tsx", ".mts", ".cts"} {
			if r.known[stem+tsExt] {
				return stem + tsExt
			}
		}
	}
	return ""
}
