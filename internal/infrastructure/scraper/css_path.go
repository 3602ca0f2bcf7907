package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// CSSPath builds a selector that matches exactly the first node of s, by
// walking child positions up to the root element. Live tabs use it to act on
// an element found in a snapshot.
func CSSPath(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}

	var parts []string
	for n := s.Get(0); n != nil && n.Type == html.ElementNode; n = n.Parent {
		if n.Parent == nil || n.Parent.Type != html.ElementNode {
			parts = append(parts, n.Data)
			break
		}
		parts = append(parts, fmt.Sprintf("%s:nth-child(%d)", n.Data, childPosition(n)))
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

func childPosition(n *html.Node) int {
	pos := 1
	for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type == html.ElementNode {
			pos++
		}
	}
	return pos
}
