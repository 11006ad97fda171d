// Package browser drives a headless Chrome session against the job board.
// It owns the chromedp lifecycle, login and session persistence, and the
// page-level queries the application engine and discovery pipeline need.
// Requires Chrome/Chromium to be installed on the system.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// Options configures the browser instance.
type Options struct {
	// Headless runs Chrome without a visible window. Disable when a login
	// security challenge needs manual completion.
	Headless bool

	// UserDataDir persists cookies between runs so login survives restarts.
	// Empty means a throwaway profile.
	UserDataDir string

	// Timeout bounds each page operation. Zero means DefaultTimeout.
	Timeout time.Duration

	Verbose bool
}

// DefaultTimeout bounds a single page operation.
const DefaultTimeout = 30 * time.Second

// Browser is a live Chrome session. It is not safe for concurrent use; the
// engine drives one page at a time.
type Browser struct {
	ctx     context.Context
	cancels []context.CancelFunc
	timeout time.Duration
	verbose bool
}

// New launches Chrome and verifies it started. Close must be called to
// release the process.
func New(ctx context.Context, opts Options) (*Browser, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.UserDataDir != "" {
		if err := os.MkdirAll(opts.UserDataDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create browser profile dir: %w", err)
		}
		allocOpts = append(allocOpts, chromedp.UserDataDir(opts.UserDataDir))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Start eagerly so a missing Chrome binary surfaces here rather than on
	// the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	if opts.Verbose {
		log.Printf("[BROWSER] started (headless=%v)", opts.Headless)
	}

	return &Browser{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{cancelBrowser, cancelAlloc},
		timeout: opts.Timeout,
		verbose: opts.Verbose,
	}, nil
}

// Close shuts down the Chrome process.
func (b *Browser) Close() {
	for _, cancel := range b.cancels {
		cancel()
	}
}

// run executes chromedp actions against the browser tab with the per-op
// timeout applied. The caller's context gates entry; chromedp actions
// themselves run in the browser context.
func (b *Browser) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(b.ctx, b.timeout)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// exists reports whether at least one element matches sel, without waiting
// for one to appear.
func (b *Browser) exists(ctx context.Context, sel string) (bool, error) {
	var nodes []*cdp.Node
	err := b.run(ctx, chromedp.Nodes(sel, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return false, fmt.Errorf("failed to query %q: %w", sel, err)
	}
	return len(nodes) > 0, nil
}

// textOf returns the rendered text of the first element matching sel, or
// found=false when nothing matches.
func (b *Browser) textOf(ctx context.Context, sel string) (string, bool, error) {
	var out struct {
		Found bool   `json:"found"`
		Text  string `json:"text"`
	}
	js := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); return {found: !!el, text: el ? el.innerText : ""}; })()`,
		sel,
	)
	if err := b.run(ctx, chromedp.Evaluate(js, &out)); err != nil {
		return "", false, fmt.Errorf("failed to read text of %q: %w", sel, err)
	}
	return strings.TrimSpace(out.Text), out.Found, nil
}

// EnsureLoggedIn restores a saved session or logs in with the given
// credentials. A security challenge pauses for manual completion.
func (b *Browser) EnsureLoggedIn(ctx context.Context, email, password string) error {
	logged, err := b.loggedIn(ctx)
	if err != nil {
		return err
	}
	if logged {
		if b.verbose {
			log.Printf("[BROWSER] existing session restored")
		}
		return nil
	}

	if email == "" || password == "" {
		return errors.New("not logged in and no credentials configured")
	}
	return b.login(ctx, email, password)
}

func (b *Browser) loggedIn(ctx context.Context) (bool, error) {
	err := b.run(ctx,
		chromedp.Navigate(feedURL),
		chromedp.Sleep(2*time.Second),
	)
	if err != nil {
		return false, fmt.Errorf("failed to open feed: %w", err)
	}
	return b.exists(ctx, selLoggedInFeed)
}

func (b *Browser) login(ctx context.Context, email, password string) error {
	if b.verbose {
		log.Printf("[BROWSER] logging in as %s", email)
	}

	err := b.run(ctx,
		chromedp.Navigate(loginURL),
		chromedp.WaitVisible(selLoginEmail),
		chromedp.SendKeys(selLoginEmail, email),
		chromedp.SendKeys(selLoginPass, password),
		chromedp.Click(selLoginSubmit),
		chromedp.Sleep(5*time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to submit login form: %w", err)
	}

	var url string
	if err := b.run(ctx, chromedp.Location(&url)); err != nil {
		return fmt.Errorf("failed to read location: %w", err)
	}

	if strings.Contains(url, "checkpoint") || strings.Contains(url, "challenge") {
		log.Printf("[BROWSER] security challenge detected, waiting for manual verification")
		// Up to two minutes for the user to complete it.
		for i := 0; i < 24; i++ {
			if err := b.run(ctx, chromedp.Sleep(5*time.Second), chromedp.Location(&url)); err != nil {
				return err
			}
			if strings.Contains(url, "feed") || strings.Contains(url, "jobs") {
				break
			}
		}
	}

	logged, err := b.loggedIn(ctx)
	if err != nil {
		return err
	}
	if !logged {
		return errors.New("login failed, check credentials")
	}
	if b.verbose {
		log.Printf("[BROWSER] logged in")
	}
	return nil
}

// RenderPage navigates to url and returns the rendered HTML after the page
// has had wait to settle. The discovery pipeline parses the result offline.
func (b *Browser) RenderPage(ctx context.Context, url string, wait time.Duration) (string, error) {
	if b.verbose {
		log.Printf("[BROWSER] rendering %s", url)
	}

	var html string
	err := b.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(wait),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", url, err)
	}

	if b.verbose {
		log.Printf("[BROWSER] rendered %d bytes", len(html))
	}
	return html, nil
}

// ScrollToBottom scrolls the results list so lazy-loaded cards render.
func (b *Browser) ScrollToBottom(ctx context.Context) error {
	return b.run(ctx,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(2*time.Second),
	)
}
