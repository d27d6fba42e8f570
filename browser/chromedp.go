package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// ChromeSession drives a headless Chrome through the DevTools
// protocol. One allocator is shared by all pages of the session; each
// page gets its own chromedp context, i.e. its own tab.
type ChromeSession struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromeSession starts the exec allocator. The browser process
// itself launches lazily with the first page.
func NewChromeSession(ctx context.Context, headless bool) (*ChromeSession, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(userAgent),
		chromedp.WindowSize(1920, 1080),
		chromedp.Flag("ignore-certificate-errors", true),
	)
	if headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	return &ChromeSession{allocCtx: allocCtx, allocCancel: allocCancel}, nil
}

// NewPage opens a fresh tab and primes it with browser-like headers.
func (s *ChromeSession) NewPage(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tabCtx, tabCancel := chromedp.NewContext(s.allocCtx)

	headers := map[string]interface{}{
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		"Accept-Language":           "es-CO,es;q=0.9,en;q=0.5",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            "none",
		"Sec-Fetch-User":            "?1",
	}
	if err := chromedp.Run(tabCtx, network.SetExtraHTTPHeaders(network.Headers(headers))); err != nil {
		tabCancel()
		return nil, fmt.Errorf("chromedp header error: %w", err)
	}

	return &chromePage{ctx: tabCtx, cancel: tabCancel}, nil
}

func (s *ChromeSession) Close() error {
	s.allocCancel()
	return nil
}

type chromePage struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// run executes actions against the tab, honoring both the caller's
// context and an optional per-operation timeout.
func (p *chromePage) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opCtx := p.ctx
	var opCancel context.CancelFunc = func() {}
	if timeout > 0 {
		opCtx, opCancel = context.WithTimeout(p.ctx, timeout)
	}
	defer opCancel()

	stop := context.AfterFunc(ctx, opCancel)
	defer stop()

	return chromedp.Run(opCtx, actions...)
}

func (p *chromePage) Navigate(ctx context.Context, url string) error {
	if err := p.run(ctx, 2*time.Minute, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("chromedp navigation error: %w", err)
	}
	return nil
}

func (p *chromePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	return p.run(ctx, timeout, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (p *chromePage) Click(ctx context.Context, selector string) error {
	return p.run(ctx, 5*time.Second, chromedp.Click(selector, chromedp.ByQuery))
}

func (p *chromePage) HTML(ctx context.Context) (string, error) {
	var htmlContent string
	if err := p.run(ctx, 30*time.Second, chromedp.OuterHTML("html", &htmlContent)); err != nil {
		return "", fmt.Errorf("chromedp snapshot error: %w", err)
	}
	return htmlContent, nil
}

const maxScrollSteps = 12

func (p *chromePage) ScrollToBottom(ctx context.Context) error {
	for i := 0; i < maxScrollSteps; i++ {
		var atBottom bool
		err := p.run(ctx, 10*time.Second,
			chromedp.Evaluate(`window.scrollBy(0, window.innerHeight); (window.innerHeight + window.scrollY) >= document.body.scrollHeight`, &atBottom),
			chromedp.Sleep(400*time.Millisecond),
		)
		if err != nil {
			return err
		}
		if atBottom {
			return nil
		}
	}
	return nil
}

func (p *chromePage) Close() error {
	p.cancel()
	return nil
}
