package domain

import "strings"

// OutputFormat represents the supported report formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// ParseOutputFormat validates a user supplied format name
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return f, nil
	case "":
		return OutputFormatText, nil
	}
	return "", NewUnsupportedFormatError(s)
}

// IsMachineReadable reports whether the format is meant for programs
func (f OutputFormat) IsMachineReadable() bool {
	return f == OutputFormatJSON || f == OutputFormatYAML
}
