package browser

import (
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"pagesummarizer/internal/infrastructure/scraper"
)

func TestMarkHiddenScript_MarksWhatExtractionSkips(t *testing.T) {
	if !strings.Contains(markHiddenScript, strconv.Quote(scraper.HiddenMarkerAttr)) {
		t.Fatalf("expected script to stamp %s, got:\n%s", scraper.HiddenMarkerAttr, markHiddenScript)
	}
	if !strings.Contains(markHiddenScript, strconv.Quote(hiddenMarkerValue)) {
		t.Fatalf("expected script to write %q, got:\n%s", hiddenMarkerValue, markHiddenScript)
	}

	// A snapshot taken after the script ran carries the marker as written.
	page := `<html><body>
		<div id="panel" ` + scraper.HiddenMarkerAttr + `="` + hiddenMarkerValue + `"><button id="inner">Transcript</button></div>
		<button id="shown">Share</button>
	</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		selector string
		hidden   bool
	}{
		{"#panel", true},
		{"#inner", true},
		{"#shown", false},
	}
	for _, tt := range tests {
		if got := scraper.IsHidden(doc.Find(tt.selector)); got != tt.hidden {
			t.Errorf("IsHidden(%s) = %v, want %v", tt.selector, got, tt.hidden)
		}
	}
}

func TestMarkHiddenScript_ClearsStaleMarkers(t *testing.T) {
	if !strings.Contains(markHiddenScript, "removeAttribute(attr)") {
		t.Errorf("expected markers from earlier snapshots to be cleared, got:\n%s", markHiddenScript)
	}
}

func TestClickScript_QuotesSelector(t *testing.T) {
	selector := `button[aria-label="Show transcript"]`

	script, err := clickScript(selector)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	quoted, _ := json.Marshal(selector)
	if !strings.Contains(script, "document.querySelector("+string(quoted)+")") {
		t.Errorf("expected selector to be embedded as a string literal, got:\n%s", script)
	}
	if !strings.Contains(script, "el.click()") {
		t.Errorf("expected a script click, got:\n%s", script)
	}
}

func TestNewChromeTabs_MissingBinary(t *testing.T) {
	_, err := NewChromeTabs(ChromeOptions{
		ExecPath: filepath.Join(t.TempDir(), "no-such-chrome"),
		Headless: true,
		Timeout:  5 * time.Second,
	})
	if err == nil {
		t.Fatal("expected an error for a missing chrome binary")
	}
	if !strings.Contains(err.Error(), "failed to start chrome") {
		t.Errorf("unexpected error: %v", err)
	}
}
