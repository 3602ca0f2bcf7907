package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"pagesummarizer/internal/domain/repository"
	"pagesummarizer/internal/infrastructure/scraper"
)

// hiddenMarkerValue is what markHiddenScript writes into the marker attribute.
const hiddenMarkerValue = "true"

// markHiddenScript stamps the hidden marker on every element the browser
// does not render, so extraction over the snapshot can see computed styles.
var markHiddenScript = fmt.Sprintf(`(() => {
	const attr = %q;
	const value = %q;
	document.querySelectorAll('[' + attr + ']').forEach(el => el.removeAttribute(attr));
	if (!document.body) {
		return 0;
	}
	let marked = 0;
	for (const el of document.body.querySelectorAll('*')) {
		const style = window.getComputedStyle(el);
		const zeroArea = el.offsetWidth === 0 && el.offsetHeight === 0 && el.getClientRects().length === 0;
		if (style.display === 'none' || style.visibility === 'hidden' || parseFloat(style.opacity) === 0 || zeroArea) {
			el.setAttribute(attr, value);
			marked++;
		}
	}
	return marked;
})()`, scraper.HiddenMarkerAttr, hiddenMarkerValue)

// ChromeOptions configures the browser started by NewChromeTabs.
type ChromeOptions struct {
	ExecPath  string
	UserAgent string
	Headless  bool
	// Timeout bounds each navigation.
	Timeout time.Duration
}

// ChromeTabs drives one tab of a headless Chrome instance.
type ChromeTabs struct {
	opts ChromeOptions

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu      sync.Mutex
	current *chromeTab
}

// NewChromeTabs starts Chrome and fails if the binary cannot be launched.
// Call Close to stop it.
func NewChromeTabs(opts ChromeOptions) (*ChromeTabs, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(opts.UserAgent),
		chromedp.WindowSize(1920, 1080),
	}
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser now so a missing binary fails at startup.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, errors.Wrap(err, "failed to start chrome")
	}

	return &ChromeTabs{
		opts:          opts,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close closes the tab and shuts the browser down.
func (c *ChromeTabs) Close() {
	c.mu.Lock()
	if c.current != nil {
		c.current.cancel()
		c.current = nil
	}
	c.mu.Unlock()

	c.browserCancel()
	c.allocCancel()
}

// ActiveTab returns the tab opened by Navigate, or nil before the first load.
func (c *ChromeTabs) ActiveTab(ctx context.Context) (repository.Tab, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil, nil
	}
	return c.current, nil
}

// Navigate loads url in the tab, opening the tab on first use.
func (c *ChromeTabs) Navigate(ctx context.Context, url string) (repository.Tab, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tab := c.current
	if tab == nil {
		tabCtx, tabCancel := chromedp.NewContext(c.browserCtx)
		// The target lives as long as the context of its first Run.
		if err := chromedp.Run(tabCtx); err != nil {
			tabCancel()
			return nil, errors.Wrap(err, "failed to open chrome tab")
		}
		tab = &chromeTab{ctx: tabCtx, cancel: tabCancel}
	}

	navCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	var location string
	err := tab.run(navCtx,
		network.SetExtraHTTPHeaders(network.Headers(map[string]interface{}{
			"Accept-Language": "en-US,en;q=0.9",
		})),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&location),
	)
	if err != nil {
		if tab != c.current {
			tab.cancel()
		}
		return nil, errors.Wrapf(err, "failed to navigate to %s", url)
	}

	tab.setURL(location)
	c.current = tab

	logrus.WithField("url", location).Debug("Loaded page into chrome tab")
	return tab, nil
}

type chromeTab struct {
	// ctx is the chromedp tab context; cancelling it closes the tab.
	ctx    context.Context
	cancel context.CancelFunc

	// actions serialises browser work on the tab.
	actions sync.Mutex

	mu  sync.Mutex
	url string
}

func (t *chromeTab) URL() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.url
}

func (t *chromeTab) setURL(u string) {
	t.mu.Lock()
	t.url = u
	t.mu.Unlock()
}

// Snapshot marks hidden elements, then returns the rendered DOM.
func (t *chromeTab) Snapshot(ctx context.Context) (*goquery.Document, error) {
	var (
		marked   int
		html     string
		location string
	)
	err := t.run(ctx,
		chromedp.Evaluate(markHiddenScript, &marked),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&location),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to snapshot tab")
	}
	t.setURL(location)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse html")
	}
	return doc, nil
}

// Click dispatches a click from script, which also reaches elements that
// are not rendered and never waits for them to appear.
func (t *chromeTab) Click(ctx context.Context, selector string) error {
	script, err := clickScript(selector)
	if err != nil {
		return err
	}

	var clicked bool
	if err := t.run(ctx, chromedp.Evaluate(script, &clicked)); err != nil {
		return errors.Wrapf(err, "failed to click %q", selector)
	}
	if !clicked {
		return errors.Errorf("no element matches %q", selector)
	}
	return nil
}

func clickScript(selector string) (string, error) {
	quoted, err := json.Marshal(selector)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode selector")
	}
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el) {
		return false;
	}
	el.click();
	return true;
})()`, quoted), nil
}

// run executes actions on the tab while honouring cancellation of ctx.
func (t *chromeTab) run(ctx context.Context, actions ...chromedp.Action) error {
	t.actions.Lock()
	defer t.actions.Unlock()

	runCtx, cancel := context.WithCancel(t.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}

	return chromedp.Run(runCtx, actions...)
}
