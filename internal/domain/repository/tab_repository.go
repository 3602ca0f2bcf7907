package repository

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// Tab is a handle to a loaded page.
type Tab interface {
	// URL returns the address the tab currently shows. It never touches the DOM.
	URL() string
	// Snapshot returns the current DOM. Repeated calls observe page changes.
	Snapshot(ctx context.Context) (*goquery.Document, error)
	// Click triggers the element matched by the CSS selector.
	Click(ctx context.Context, selector string) error
}

type TabRepository interface {
	// ActiveTab returns the tab the user is looking at, or nil if none is open.
	ActiveTab(ctx context.Context) (Tab, error)
	// Navigate points the active tab at url and waits for it to load.
	Navigate(ctx context.Context, url string) (Tab, error)
}
