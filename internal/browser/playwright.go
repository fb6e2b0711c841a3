package browser

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// LaunchArgs are passed to Chromium on every launch.
var LaunchArgs = []string{"--no-sandbox", "--disable-dev-shm-usage"}

type Options struct {
	Headless  bool
	UserAgent string
}

type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewPlaywright starts the driver and launches Chromium.
func NewPlaywright(opts Options) (*PlaywrightManager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     LaunchArgs,
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	return &PlaywrightManager{pw: pw, browser: browser}, nil
}

// NewPage opens a fresh page with the given user agent.
func (pm *PlaywrightManager) NewPage(userAgent string) (playwright.Page, error) {
	pageOpts := playwright.BrowserNewPageOptions{}
	if userAgent != "" {
		pageOpts.UserAgent = playwright.String(userAgent)
	}
	page, err := pm.browser.NewPage(pageOpts)
	if err != nil {
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	return page, nil
}

func (pm *PlaywrightManager) Close() error {
	var firstErr error
	if pm.browser != nil {
		if err := pm.browser.Close(); err != nil {
			firstErr = err
		}
	}
	if pm.pw != nil {
		if err := pm.pw.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Session is one page inside its own browser process. Closing it tears down both.
type Session struct {
	manager *PlaywrightManager
	page    playwright.Page
}

// Open launches a browser and a single page. The caller must Close the session.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pm, err := NewPlaywright(opts)
	if err != nil {
		return nil, err
	}
	page, err := pm.NewPage(opts.UserAgent)
	if err != nil {
		_ = pm.Close()
		return nil, err
	}
	return &Session{manager: pm, page: page}, nil
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (s *Session) ScreenHeight() (int, error) {
	return s.evalInt("() => window.screen.height")
}

func (s *Session) ScrollHeight() (int, error) {
	return s.evalInt("() => document.body.scrollHeight")
}

func (s *Session) ScrollTo(y int) error {
	_, err := s.page.Evaluate(fmt.Sprintf("() => window.scrollTo(0, %d)", y))
	return err
}

func (s *Session) Content() (string, error) {
	return s.page.Content()
}

// ClickLink clicks the first anchor whose href equals href exactly.
func (s *Session) ClickLink(href string) error {
	return s.page.Locator(fmt.Sprintf("xpath=//a[@href=%s]", xpathLiteral(href))).First().Click()
}

func (s *Session) Screenshot(path string) error {
	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (s *Session) Close() error {
	return s.manager.Close()
}

func (s *Session) evalInt(expr string) (int, error) {
	v, err := s.page.Evaluate(expr)
	if err != nil {
		return 0, err
	}
	return toInt(v)
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("unexpected numeric result %T", v)
	}
}
