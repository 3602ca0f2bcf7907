package youtube

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pagesummarizer/internal/infrastructure/scraper"
)

const (
	// Current transcript panel markup.
	primarySegmentSelector = "ytd-transcript-segment-renderer"
	primaryTextSelector    = ".segment-text"

	// Older panel markup.
	alternateRowSelector  = ".ytd-transcript-renderer"
	alternateTextSelector = ".segment-text, .cue-text"
)

var transcriptControlSelectors = []string{
	`button[aria-label="Show transcript"]`,
	"button.ytd-transcript-button-renderer",
	"ytd-video-description-transcript-section-renderer button",
	`yt-formatted-string:contains("Show transcript")`,
	`yt-formatted-string:contains("Open transcript")`,
}

// readSegments returns the transcript currently rendered in the panel, or "".
func readSegments(doc *goquery.Document) string {
	if text := joinSegments(doc.Find(primarySegmentSelector), primaryTextSelector); text != "" {
		return text
	}
	return joinSegments(doc.Find(alternateRowSelector), alternateTextSelector)
}

func joinSegments(rows *goquery.Selection, textSelector string) string {
	var segments []string
	rows.Each(func(_ int, row *goquery.Selection) {
		if text := strings.TrimSpace(row.Find(textSelector).First().Text()); text != "" {
			segments = append(segments, text)
		}
	})
	return strings.Join(segments, " ")
}

// findTranscriptControl returns a selector for the visible control that opens
// the transcript panel, or "" when the page has none.
func findTranscriptControl(doc *goquery.Document) string {
	for _, selector := range transcriptControlSelectors {
		if s := visible(doc.Find(selector)).First(); s.Length() > 0 {
			return scraper.CSSPath(s)
		}
	}

	var found string
	visible(doc.Find("button, yt-formatted-string")).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label := strings.ToLower(s.Text() + " " + s.AttrOr("aria-label", ""))
		if strings.Contains(label, "transcript") {
			found = scraper.CSSPath(s)
			return false
		}
		return true
	})
	return found
}

func visible(s *goquery.Selection) *goquery.Selection {
	return s.FilterFunction(func(_ int, el *goquery.Selection) bool {
		return !scraper.IsHidden(el)
	})
}
