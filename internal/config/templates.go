package config

import (
	"strconv"
	"strings"
)

// TemplateOptions are the answers the init wizard collects
type TemplateOptions struct {
	// FailOn is the least severe priority that fails the run
	FailOn string

	// SourceRoot is the folder holding the layer folders
	SourceRoot string

	// Transitive enables transitive consumer counting
	Transitive bool
}

// DefaultTemplateOptions mirror DefaultConfig
func DefaultTemplateOptions() TemplateOptions {
	return TemplateOptions{FailOn: "P0", SourceRoot: "src"}
}

// GetConfigTemplate returns the documented YAML config template
func GetConfigTemplate(opts TemplateOptions) string {
	if opts.FailOn == "" {
		opts.FailOn = "P0"
	}
	if opts.SourceRoot == "" {
		opts.SourceRoot = "src"
	}
	root := strings.Trim(opts.SourceRoot, "/")
	defaults := DefaultConfig()

	return `# fsdscan configuration
# Documentation: https://github.com/ludo-technologies/fsdscan

# ============================================================================
# SCAN
# ============================================================================
scan:
  # gitignore-style globs excluded from the audit
  ignore:
` + formatYAMLList(defaults.Scan.Ignore, 4) + `
  # Also honor the project's .gitignore
  respect_gitignore: true

  extensions: [.ts, .tsx, .js, .jsx]

  # Folders holding the layer folders; layers are also recognized at the project root
  source_roots:
    - ` + root + `

  # Files larger than this many bytes are skipped with a parse warning
  max_file_size: ` + strconv.Itoa(DefaultMaxFileSize) + `

# ============================================================================
# LAYERS
# ============================================================================
layers:
  # Highest to lowest: app > pages > widgets > features > entities > shared/domain/lib
  folders: [app, pages, widgets, features, entities, shared, domain, lib]

  # Extra folders per layer, relative to the project root
  # paths:
  #   shared: [packages/ui]

  # Import aliases resolved to project folders
  aliases:
    "@/": ` + root + `/
    "~/": ` + root + `/

# ============================================================================
# RULES
# ============================================================================
rules:
  # Rule IDs that are not evaluated (see: fsdscan rules)
  disabled: []

  # Priority overrides
  # priorities:
  #   FFA9: P1
  priorities: {}

# Maximum number of files directly inside flat folders
thresholds:
  hooks: 10
  components: 20
  utils: 5

# ============================================================================
# CONSUMERS
# ============================================================================
consumers:
  # Count consumers through intermediate non-feature modules
  transitive: ` + strconv.FormatBool(opts.Transitive) + `

  # Consumers needed for a module to count as shared
  shared_min: ` + strconv.Itoa(DefaultSharedMin) + `

responsibility:
  # Imports treated as network access when used from ui modules
  network_modules:
` + formatYAMLList(defaults.Responsibility.NetworkModules, 4) + `
# ============================================================================
# OUTPUT
# ============================================================================
output:
  # text, json or yaml
  format: text

  # Least severe priority that fails the run: P0, P1 or P2
  fail_on: ` + opts.FailOn + `

  # auto, always or never
  color: auto
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# fsdscan configuration (minimal)
# See full options: fsdscan init --full

scan:
  source_roots: [src]

output:
  fail_on: P0
`
}

// formatYAMLList formats items as a block sequence indented by indent spaces
func formatYAMLList(items []string, indent int) string {
	var b strings.Builder
	pad := strings.Repeat(" ", indent)
	for _, item := range items {
		b.WriteString(pad + "- " + item + "\n")
	}
	return b.String()
}
