// Package browser abstracts the controlled rendering session the
// scraper drives. Two engines implement it: chromedp (default) and a
// selenium-backed full browser for sites that fight headless Chrome.
package browser

import (
	"context"
	"time"
)

// Session is one exclusively-owned browser instance. The invocation
// that creates it must close it on every exit path.
type Session interface {
	// NewPage opens an isolated tab. Callers close the page when the
	// unit of work that needed it is done.
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is a single controllable tab with a queryable rendered DOM.
type Page interface {
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until the selector matches a visible element
	// or the timeout expires.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	Click(ctx context.Context, selector string) error
	// HTML returns a snapshot of the current rendered document.
	HTML(ctx context.Context) (string, error)
	// ScrollToBottom steps down the document to trigger lazy-loaded
	// content. Bounded; returns once the bottom stops moving.
	ScrollToBottom(ctx context.Context) error
	Close() error
}
