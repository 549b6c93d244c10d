package rules

import (
	"path"
	"strings"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/classifier"
)

// networkImport returns the specifier of the first network client the module
// imports, or ""
func networkImport(ctx *Context, m *domain.ModuleRecord) string {
	for _, e := range ctx.Snapshot.Outgoing(m.Path) {
		if e.TypeOnly {
			continue
		}
		for _, mod := range ctx.Settings.NetworkModules {
			if isNetworkSpecifier(ctx, e, mod) {
				return e.Specifier
			}
		}
	}
	return ""
}

func isNetworkSpecifier(ctx *Context, e domain.ImportEdge, mod string) bool {
	if e.External {
		return e.Specifier == mod || strings.HasPrefix(e.Specifier, mod+"/")
	}
	to := ctx.Target(e)
	if to == nil {
		return false
	}
	base := path.Base(to.RelPath)
	stem := strings.TrimSuffix(base, path.Ext(base))
	if stem == "index" {
		stem = path.Base(path.Dir(to.RelPath))
	}
	return classifier.ToKebabCase(stem) == classifier.ToKebabCase(mod)
}

// uiNetworkAccess reports ui modules talking to the network themselves
func uiNetworkAccess(ctx *Context, m *domain.ModuleRecord) ([]Match, error) {
	if m.Role != domain.RoleUI {
		return nil, nil
	}
	var how string
	switch spec := networkImport(ctx, m); {
	case spec != "":
		how = "imports `" + spec + "`"
	case m.CallsFetch:
		how = "calls fetch"
	default:
		return nil, nil
	}
	return []Match{{
		SubjectPath: m.RelPath,
		Args:        []any{m.RelPath, how},
	}}, nil
}

// modelImportsUI reports model modules depending on ui modules
func modelImportsUI(ctx *Context, e domain.ImportEdge) ([]Match, error) {
	from, to := ctx.Source(e), ctx.Target(e)
	if from == nil || to == nil || from.Role != domain.RoleModel || to.Role != domain.RoleUI {
		return nil, nil
	}
	return []Match{edgeMatch(from, to, from.RelPath, to.RelPath)}, nil
}
