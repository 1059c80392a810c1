package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"bd2mods/internal/config"
	"bd2mods/internal/services"
)

// Fetcher returns the HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPDoer describes the HTTP client used by StaticFetcher.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxPageBytes bounds how much of a static response is read.
const maxPageBytes = 16 << 20

// StaticFetcher performs a plain GET. The HTML is returned as served, so
// script-rendered pages usually come back without content.
type StaticFetcher struct {
	Client    HTTPDoer
	UserAgent string
}

// NewStaticFetcher builds a StaticFetcher from scraper settings.
func NewStaticFetcher(cfg config.Scraper) *StaticFetcher {
	return &StaticFetcher{
		Client:    &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutSeconds) * time.Second},
		UserAgent: strings.TrimSpace(cfg.UserAgent),
	}
}

// Fetch issues the GET. Transport failures and non-2xx statuses are network
// errors.
func (f *StaticFetcher) Fetch(ctx context.Context, url string) (string, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", services.Wrap(services.ErrNetwork, "scraper", "static_fetch", "build request", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrNetwork, "scraper", "static_fetch", fmt.Sprintf("GET %s", url), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", services.Wrap(services.ErrNetwork, "scraper", "static_fetch", fmt.Sprintf("read %s", url), err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", services.Wrap(services.ErrNetwork, "scraper", "static_fetch",
			fmt.Sprintf("GET %s returned %d", url, resp.StatusCode), nil)
	}
	return string(body), nil
}

// RenderFetcher loads the page in headless Chrome, waits for any of the wait
// selectors, lets the page settle, and returns the rendered document.
type RenderFetcher struct {
	ChromePath    string
	UserAgent     string
	WaitSelectors []string
	Timeout       time.Duration
	Settle        time.Duration
}

// NewRenderFetcher builds a RenderFetcher from scraper settings.
func NewRenderFetcher(cfg config.Scraper) *RenderFetcher {
	return &RenderFetcher{
		ChromePath:    strings.TrimSpace(cfg.ChromePath),
		UserAgent:     strings.TrimSpace(cfg.UserAgent),
		WaitSelectors: append([]string(nil), cfg.WaitSelectors...),
		Timeout:       time.Duration(cfg.RenderTimeoutSeconds) * time.Second,
		Settle:        time.Duration(cfg.SettleMillis) * time.Millisecond,
	}
}

// Fetch renders url. Browser launch, navigation, and wait timeouts are
// network errors.
func (f *RenderFetcher) Fetch(ctx context.Context, url string) (string, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if f.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(f.ChromePath))
	}
	if f.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(f.UserAgent))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx := browserCtx
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(browserCtx, f.Timeout)
		defer cancel()
	}

	var html string
	tasks := chromedp.Tasks{chromedp.Navigate(url)}
	if wait := strings.Join(nonEmpty(f.WaitSelectors), ", "); wait != "" {
		tasks = append(tasks, chromedp.WaitReady(wait, chromedp.ByQuery))
	}
	if f.Settle > 0 {
		tasks = append(tasks, chromedp.Sleep(f.Settle))
	}
	tasks = append(tasks, chromedp.Evaluate(`document.documentElement.outerHTML`, &html))

	if err := chromedp.Run(runCtx, tasks); err != nil {
		return "", services.Wrap(services.ErrNetwork, "scraper", "render_fetch", fmt.Sprintf("render %s", url), err)
	}
	return html, nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
