package scraper

import (
	"regexp"
	"strings"
)

var (
	// Runs of whitespace that are not line breaks.
	horizontalSpace = regexp.MustCompile(`[\t\v\f\r\p{Zs}\x{FEFF}]+`)
	// Runs of line breaks, with the single spaces left around them.
	lineBreaks = regexp.MustCompile(`(?: ?[\n\x{85}\x{2028}\x{2029}])+ ?`)
)

// Clean normalises extracted text: horizontal whitespace collapses to one
// space, any run of line breaks becomes a paragraph break ("\n\n").
func Clean(text string) string {
	cleaned := horizontalSpace.ReplaceAllString(text, " ")
	cleaned = lineBreaks.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}
