package browser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"pagesummarizer/internal/domain/repository"
)

const (
	maxHTMLBytes = int64(2 * 1024 * 1024)

	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultTimeout   = 30 * time.Second
)

// ErrClickUnsupported is returned by static tabs, which have no script engine.
var ErrClickUnsupported = errors.New("static tab cannot interact with the page")

// StaticTabs keeps a single tab whose DOM is the HTML fetched over HTTP.
type StaticTabs struct {
	client    *http.Client
	userAgent string

	mu      sync.RWMutex
	current *staticTab
}

// NewStaticTabs returns a tab repository that loads pages with plain HTTP
// GETs. A zero timeout or empty user agent selects the defaults.
func NewStaticTabs(timeout time.Duration, userAgent string) *StaticTabs {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &StaticTabs{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// ActiveTab returns the last page loaded by Navigate, or nil.
func (s *StaticTabs) ActiveTab(ctx context.Context) (repository.Tab, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, nil
	}
	return s.current, nil
}

// Navigate fetches url and makes it the active tab. The tab URL is the one
// reached after redirects.
func (s *StaticTabs) Navigate(ctx context.Context, url string) (repository.Tab, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("unexpected status code: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHTMLBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	tab := &staticTab{
		url:  resp.Request.URL.String(),
		html: body,
	}

	logrus.WithFields(logrus.Fields{
		"url":   tab.url,
		"bytes": len(body),
	}).Debug("Loaded page into static tab")

	s.mu.Lock()
	s.current = tab
	s.mu.Unlock()

	return tab, nil
}

type staticTab struct {
	url  string
	html []byte
}

func (t *staticTab) URL() string {
	return t.url
}

// Snapshot parses a fresh document each time so callers may mutate it freely.
func (t *staticTab) Snapshot(ctx context.Context) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(t.html))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse html")
	}
	return doc, nil
}

func (t *staticTab) Click(ctx context.Context, selector string) error {
	return errors.Wrapf(ErrClickUnsupported, "click %q", selector)
}
