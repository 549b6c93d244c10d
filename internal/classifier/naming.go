package classifier

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/fatih/camelcase"
)

var kebabPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// IsKebabCase reports whether name is lower-case words joined by single hyphens
func IsKebabCase(name string) bool {
	return kebabPattern.MatchString(name)
}

// HasUpper reports whether name contains an upper-case letter
func HasUpper(name string) bool {
	for _, r := range name {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// ToKebabCase converts identifiers such as formatDate, HTTPClient or
// search_panel into kebab-case. Digit runs stay attached to the preceding word.
func ToKebabCase(name string) string {
	var words []string
	for _, token := range camelcase.Split(name) {
		if !isAlnum(token) {
			continue
		}
		token = strings.ToLower(token)
		if isDigits(token) && len(words) > 0 {
			words[len(words)-1] += token
			continue
		}
		words = append(words, token)
	}
	return strings.Join(words, "-")
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
