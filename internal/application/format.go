package application

import (
	"html"
	"strings"
)

// FormatSummary renders the display fragment: the title as a heading and the
// summary with line breaks preserved. Both are HTML-escaped.
func FormatSummary(title, summary string) string {
	body := html.EscapeString(strings.ReplaceAll(summary, "\r\n", "\n"))
	body = strings.ReplaceAll(body, "\n", "<br>")
	return "<h2>" + html.EscapeString(title) + "</h2><div>" + body + "</div>"
}
