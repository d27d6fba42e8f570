package browser

import (
	"context"
	"fmt"
)

// NewSession constructs the configured engine. "chromedp" is the
// default; "selenium" spins up a chromedriver-backed full browser.
func NewSession(ctx context.Context, engine, chromeDriverPath string, headless bool) (Session, error) {
	switch engine {
	case "", "chromedp":
		return NewChromeSession(ctx, headless)
	case "selenium":
		return NewSeleniumSession(chromeDriverPath, headless)
	default:
		return nil, fmt.Errorf("unknown browser engine %q", engine)
	}
}
