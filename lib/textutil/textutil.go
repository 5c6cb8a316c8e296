package textutil

import (
	"regexp"
	"strings"
)

// \s alone only covers ASCII whitespace, \p{Z} adds nbsp, ideographic space, etc.
var whitespaceRegex = regexp.MustCompile(`[\s\p{Z}\x{85}\x{1c}-\x{1f}]+`)

// CollapseWhitespace replaces every run of whitespace (spaces, tabs, newlines,
// unicode spaces) with a single space and trims the ends.
func CollapseWhitespace(text string) string {
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.Trim(text, " ")
}

// ContainsLabel reports whether text contains label once both are
// whitespace-collapsed.
func ContainsLabel(text, label string) bool {
	return strings.Contains(CollapseWhitespace(text), CollapseWhitespace(label))
}
