package youtube

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	titleSuffix  = " - YouTube"
	defaultTitle = "YouTube Video"
)

var shortsPattern = regexp.MustCompile(`/shorts/([a-zA-Z0-9_-]{11})`)

var titleSelectors = []string{
	"h1.title yt-formatted-string",
	"h1.ytd-video-primary-info-renderer",
	"h1.title",
	"h1.watch-title",
	"yt-formatted-string.ytd-video-primary-info-renderer",
}

// IsVideoPage reports whether u is a watch or shorts page.
func IsVideoPage(u *url.URL) bool {
	if !strings.Contains(u.Hostname(), "youtube.com") {
		return false
	}
	return strings.Contains(u.Path, "/watch") || strings.Contains(u.Path, "/shorts/")
}

// VideoID resolves the video ID from the query string, the shorts path, then
// the canonical link.
func VideoID(pageURL *url.URL, doc *goquery.Document) string {
	if id := idFromURL(pageURL); id != "" {
		return id
	}

	href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href")
	if !ok {
		return ""
	}
	canonical, err := pageURL.Parse(href)
	if err != nil {
		return ""
	}
	return idFromURL(canonical)
}

func idFromURL(u *url.URL) string {
	if id := u.Query().Get("v"); id != "" {
		return id
	}
	if m := shortsPattern.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	return ""
}

// VideoTitle reads the title from the watch page heading, then the document
// title without its " - YouTube" suffix, then falls back to "YouTube Video".
func VideoTitle(doc *goquery.Document) string {
	for _, selector := range titleSelectors {
		if title := strings.TrimSpace(doc.Find(selector).First().Text()); title != "" {
			return title
		}
	}

	docTitle := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	if before, _, found := strings.Cut(docTitle, titleSuffix); found {
		return strings.TrimSpace(before)
	}
	if docTitle != "" {
		return docTitle
	}
	return defaultTitle
}
