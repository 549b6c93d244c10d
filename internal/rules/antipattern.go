package rules

import (
	"path"
	"strings"

	"github.com/ludo-technologies/fsdscan/domain"
)

// catchAllFolders accumulate unrelated code when they sit at the top level
var catchAllFolders = map[string]bool{
	"utils":    true,
	"helpers":  true,
	"services": true,
	"models":   true,
	"common":   true,
}

// sharedSegments are the folders a structured shared layer is split into
var sharedSegments = map[string]bool{
	"ui":        true,
	"lib":       true,
	"api":       true,
	"config":    true,
	"model":     true,
	"types":     true,
	"hooks":     true,
	"constants": true,
	"assets":    true,
	"styles":    true,
	"i18n":      true,
	"routes":    true,
}

// isSharedRoot reports whether f is the root folder of the shared layer
func isSharedRoot(ctx *Context, f *Folder) bool {
	if ctx.Matcher == nil {
		return false
	}
	loc := ctx.Matcher.Locate(f.Path + "/_")
	return loc.Layer == domain.LayerShared && loc.LayerRoot == f.Path
}

// catchAllReason explains why FFA6 flags a folder, "" when it does not
func catchAllReason(ctx *Context, f *Folder) string {
	if f.TopLevel && catchAllFolders[f.Name] {
		return "top-level " + f.Name + " folder"
	}
	if !isSharedRoot(ctx, f) {
		return ""
	}

	var loose []string
	for _, m := range f.Files {
		if m.Role == domain.RoleBarrel || m.IsAuxiliary() {
			continue
		}
		loose = append(loose, path.Base(m.RelPath))
	}
	var unknown []string
	for _, name := range f.Subdirs {
		if !sharedSegments[name] {
			unknown = append(unknown, name)
		}
	}

	switch {
	case len(loose) > 0 && len(unknown) > 0:
		return "loose files " + strings.Join(loose, ", ") + " and unknown segments " + strings.Join(unknown, ", ")
	case len(loose) > 0:
		return "loose files " + strings.Join(loose, ", ")
	case len(unknown) > 0:
		return "unknown segments " + strings.Join(unknown, ", ")
	}
	return ""
}

// catchAllFolder reports top-level utility dumps and an unstructured shared layer
func catchAllFolder(ctx *Context, f *Folder) ([]Match, error) {
	reason := catchAllReason(ctx, f)
	if reason == "" {
		return nil, nil
	}
	limit := ctx.Settings.Thresholds["utils"]
	return []Match{{
		SubjectFolder: f.Path,
		Args:          []any{f.Path, reason, f.Total},
		Escalate:      limit > 0 && f.Total > limit,
	}}, nil
}

// flatFolder reports hooks, components and utils folders holding too many
// files side by side
func flatFolder(ctx *Context, f *Folder) ([]Match, error) {
	limit, ok := ctx.Settings.Thresholds[f.Name]
	if !ok || limit <= 0 {
		return nil, nil
	}
	if catchAllReason(ctx, f) != "" {
		return nil, nil
	}

	direct := 0
	for _, m := range f.Files {
		if !m.IsAuxiliary() {
			direct++
		}
	}
	if direct <= limit {
		return nil, nil
	}
	return []Match{{
		SubjectFolder: f.Path,
		Args:          []any{f.Path, direct, limit},
	}}, nil
}

// outsideLayers reports modules no layer folder contains. Root-level files
// whose role is known, such as vite.config.ts, are exempt.
func outsideLayers(ctx *Context, m *domain.ModuleRecord) ([]Match, error) {
	if m.Layer != domain.LayerUnknown {
		return nil, nil
	}
	if m.Role != domain.RoleUnknown && isRootLevel(ctx, m) {
		return nil, nil
	}
	return []Match{{
		SubjectPath: m.RelPath,
		Args:        []any{m.RelPath},
	}}, nil
}

func isRootLevel(ctx *Context, m *domain.ModuleRecord) bool {
	dir := parentDir(m.RelPath)
	if dir == "" {
		return true
	}
	return ctx.Matcher != nil && dir == ctx.Matcher.SourceRoot(m.RelPath)
}
