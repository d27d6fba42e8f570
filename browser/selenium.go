package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

const defaultChromeDriverPath = "/usr/local/bin/chromedriver"

// SeleniumSession drives a real Chrome through chromedriver. Some
// storefronts serve degraded markup to DevTools-driven browsers; this
// engine is the escape hatch for those.
type SeleniumSession struct {
	service *selenium.Service
	driver  selenium.WebDriver
	port    int
}

// NewSeleniumSession starts a chromedriver service on a pooled port
// and connects a masked, headless-capable WebDriver to it.
func NewSeleniumSession(driverPath string, headless bool) (*SeleniumSession, error) {
	if driverPath == "" {
		driverPath = defaultChromeDriverPath
	}

	port, err := driverPorts().acquire()
	if err != nil {
		return nil, fmt.Errorf("port error: %w", err)
	}

	service, err := selenium.NewChromeDriverService(driverPath, port)
	if err != nil {
		driverPorts().release(port)
		return nil, fmt.Errorf("error starting chromedriver service: %w", err)
	}

	args := []string{
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--disable-blink-features=AutomationControlled",
		"--disable-extensions",
		"--disable-gpu",
		"--window-size=1920,1080",
		fmt.Sprintf("--user-agent=%s", userAgent),
	}
	if headless {
		args = append(args, "--headless=new")
	}

	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chrome.Capabilities{
		Args:            args,
		ExcludeSwitches: []string{"enable-automation"},
		Prefs: map[string]interface{}{
			"profile.default_content_setting_values.notifications": 2,
		},
	})

	driver, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", port))
	if err != nil {
		service.Stop()
		driverPorts().release(port)
		return nil, fmt.Errorf("error creating WebDriver: %w", err)
	}
	driver.SetPageLoadTimeout(60 * time.Second)

	return &SeleniumSession{service: service, driver: driver, port: port}, nil
}

// NewPage hands out the session's window. chromedriver controls a
// single window, which fits the driver's one-page-at-a-time flow; the
// page is reset to a blank document so categories start isolated.
func (s *SeleniumSession) NewPage(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.driver.Get("about:blank"); err != nil {
		return nil, fmt.Errorf("error resetting window: %w", err)
	}
	return &seleniumPage{driver: s.driver}, nil
}

func (s *SeleniumSession) Close() error {
	err := s.driver.Quit()
	s.service.Stop()
	driverPorts().release(s.port)
	return err
}

type seleniumPage struct {
	driver selenium.WebDriver
}

const webdriverMaskScript = `
    Object.defineProperty(navigator, 'webdriver', {get: () => undefined});
    window.chrome = {runtime: {}};
    delete window.cdc_adoQpoasnfa76pfcZLmcfl_Array;
    delete window.cdc_adoQpoasnfa76pfcZLmcfl_Promise;
    delete window.cdc_adoQpoasnfa76pfcZLmcfl_Symbol;
`

func (p *seleniumPage) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.driver.Get(url); err != nil {
		return fmt.Errorf("navigation error: %w", err)
	}
	p.driver.ExecuteScript(webdriverMaskScript, nil)
	return nil
}

func (p *seleniumPage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.driver.WaitWithTimeout(func(wd selenium.WebDriver) (bool, error) {
		el, err := wd.FindElement(selenium.ByCSSSelector, selector)
		if err != nil {
			return false, nil
		}
		visible, err := el.IsDisplayed()
		if err != nil {
			return false, nil
		}
		return visible, nil
	}, timeout)
}

func (p *seleniumPage) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	el, err := p.driver.FindElement(selenium.ByCSSSelector, selector)
	if err != nil {
		return err
	}
	return el.Click()
}

func (p *seleniumPage) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	html, err := p.driver.PageSource()
	if err != nil {
		return "", fmt.Errorf("page source error: %w", err)
	}
	return html, nil
}

func (p *seleniumPage) ScrollToBottom(ctx context.Context) error {
	for i := 0; i < maxScrollSteps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := p.driver.ExecuteScript(
			`window.scrollBy(0, window.innerHeight); return (window.innerHeight + window.scrollY) >= document.body.scrollHeight;`, nil)
		if err != nil {
			return err
		}
		time.Sleep(400 * time.Millisecond)
		if atBottom, ok := res.(bool); ok && atBottom {
			return nil
		}
	}
	return nil
}

// Close is a no-op: the window belongs to the session, which quits the
// whole driver on its own Close.
func (p *seleniumPage) Close() error { return nil }
