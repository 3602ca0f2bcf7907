package scraper

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HiddenMarkerAttr is stamped by live tabs on elements whose computed style
// or layout makes them invisible. Static HTML only has inline styles to go on.
const HiddenMarkerAttr = "data-summarizer-hidden"

// IsHidden reports whether s, or one of its ancestors, is visually hidden.
func IsHidden(s *goquery.Selection) bool {
	if s.Length() == 0 {
		return true
	}
	if hiddenElement(s) {
		return true
	}
	hidden := false
	s.Parents().EachWithBreak(func(_ int, parent *goquery.Selection) bool {
		hidden = hiddenElement(parent)
		return !hidden
	})
	return hidden
}

func hiddenElement(s *goquery.Selection) bool {
	if _, ok := s.Attr("hidden"); ok {
		return true
	}
	if v, ok := s.Attr(HiddenMarkerAttr); ok && v != "false" {
		return true
	}
	style, ok := s.Attr("style")
	if !ok {
		return false
	}

	decls := parseStyle(style)
	if decls["display"] == "none" || decls["visibility"] == "hidden" {
		return true
	}
	if opacity, ok := decls["opacity"]; ok {
		if f, err := strconv.ParseFloat(opacity, 64); err == nil && f == 0 {
			return true
		}
	}
	return isZeroLength(decls["width"]) && isZeroLength(decls["height"])
}

func parseStyle(style string) map[string]string {
	decls := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
		decls[strings.ToLower(strings.TrimSpace(name))] = strings.ToLower(value)
	}
	return decls
}

func isZeroLength(value string) bool {
	if value == "" {
		return false
	}
	number := strings.TrimRight(value, "abcdefghijklmnopqrstuvwxyz%")
	f, err := strconv.ParseFloat(strings.TrimSpace(number), 64)
	return err == nil && f == 0
}
