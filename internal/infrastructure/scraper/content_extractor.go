package scraper

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"pagesummarizer/internal/domain/apperror"
	"pagesummarizer/internal/domain/entity"
	"pagesummarizer/internal/domain/repository"
)

const (
	minContainerChars = 500
	minParagraphChars = 20
	minBlockTextChars = 200

	// MaxContentChars bounds the extracted text, truncation notice included.
	MaxContentChars  = 80000
	TruncationNotice = "\n\n[Content truncated due to size limitations]"
)

// ContentExtractor pulls the readable body out of an ordinary web page.
type ContentExtractor struct {
	candidates []string
	denyList   []string
	maxChars   int
}

// NewContentExtractor returns an extractor with the default candidate and
// deny selectors and the 80,000-character cap.
func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{
		candidates: CandidateSelectors,
		denyList:   DenySelectors,
		maxChars:   MaxContentChars,
	}
}

// ExtractTab snapshots tab and extracts its content. The only failure is a
// page that cannot be read at all.
func (e *ContentExtractor) ExtractTab(ctx context.Context, tab repository.Tab) (entity.PageContent, error) {
	doc, err := tab.Snapshot(ctx)
	if err != nil {
		return entity.PageContent{}, apperror.Extraction(
			"Could not extract content. The page may still be loading or the content script is not initialized.", err)
	}
	return e.Extract(doc, tab.URL()), nil
}

// Extract never fails; a page without text yields empty content.
func (e *ContentExtractor) Extract(doc *goquery.Document, pageURL string) entity.PageContent {
	container := e.findMainContainer(doc)
	if container == nil {
		container = e.collectParagraphs(doc)
	}

	var text string
	if container != nil {
		text = e.containerText(container)
	} else {
		text = doc.Find("body").Text()
	}

	text = truncate(Clean(text), e.maxChars)
	return entity.NewPageContent(documentTitle(doc), text, pageURL)
}

func (e *ContentExtractor) findMainContainer(doc *goquery.Document) *goquery.Selection {
	for _, selector := range e.candidates {
		var best *goquery.Selection
		bestLen := 0

		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if IsHidden(s) {
				return
			}
			if n := textLength(s); n > bestLen {
				best, bestLen = s, n
			}
		})

		if best != nil && bestLen > minContainerChars {
			return best
		}
	}
	return nil
}

// collectParagraphs gathers loose paragraphs into a synthetic container.
func (e *ContentExtractor) collectParagraphs(doc *goquery.Document) *goquery.Selection {
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	container := goquery.NewDocumentFromNode(root).Selection

	count := 0
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if e.insideDenied(p) || IsHidden(p) || textLength(p) < minParagraphChars {
			return
		}
		container.AppendSelection(p.Clone())
		count++
	})

	if count == 0 {
		return nil
	}
	return container
}

func (e *ContentExtractor) insideDenied(s *goquery.Selection) bool {
	for _, selector := range e.denyList {
		if s.Closest(selector).Length() > 0 {
			return true
		}
	}
	return false
}

func (e *ContentExtractor) containerText(container *goquery.Selection) string {
	clone := container.Clone()
	for _, selector := range e.denyList {
		clone.Find(selector).Remove()
	}

	var b strings.Builder
	clone.Find(blockTextSelector).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			b.WriteString(text)
			b.WriteString("\n\n")
		}
	})

	text := b.String()
	if utf8.RuneCountInString(text) < minBlockTextChars {
		// Mostly non-paragraph markup; fall back to everything that is left.
		return clone.Text()
	}
	return text
}

func documentTitle(doc *goquery.Document) string {
	return strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
}

func textLength(s *goquery.Selection) int {
	return utf8.RuneCountInString(s.Text())
}

func truncate(text string, maxChars int) string {
	if utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	keep := maxChars - utf8.RuneCountInString(TruncationNotice)
	return string([]rune(text)[:keep]) + TruncationNotice
}
