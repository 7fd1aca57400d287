package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"dekcal/internal/config"
)

const (
	// UserAgent for browser requests
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	frameSelector    = `iframe`
	listViewSelector = `label.list_view[data-view="list"]`
)

// Loader drives a headless browser to render the schedule widget. The
// league page embeds the calendar as an iframe whose content only appears
// after client-side rendering, so a plain HTTP fetch is not enough.
type Loader struct {
	cfg      *config.Config
	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewLoader creates a Loader with its own chrome allocator.
func NewLoader(cfg *config.Config) *Loader {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Loader{
		cfg:      cfg,
		allocCtx: allocCtx,
		cancel:   cancel,
	}
}

// Close releases browser resources.
func (l *Loader) Close() {
	if l.cancel != nil {
		l.cancel()
	}
}

// FetchScheduleHTML loads the league page, locates the embedded calendar
// widget, switches it to its full list view and returns the rendered HTML.
// A page without the widget yields an empty string and no error; the caller
// treats that as a schedule with no games.
func (l *Loader) FetchScheduleHTML(ctx context.Context) (string, error) {
	browserCtx, cancel := chromedp.NewContext(l.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, l.cfg.BrowserTimeout)
	defer cancel()

	log.Info().Str("url", l.cfg.ScheduleURL).Msg("Loading schedule page")
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(l.cfg.ScheduleURL),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("loading schedule page: %w", err)
	}

	frameURL, ok := l.findFrameURL(browserCtx)
	if !ok {
		log.Error().Msg("No calendar iframe found on the page")
		return "", nil
	}
	log.Info().Str("url", frameURL).Msg("Found calendar iframe")

	return l.fetchFrame(browserCtx, frameURL)
}

// findFrameURL waits a bounded time for the iframe element and reads its
// source URL.
func (l *Loader) findFrameURL(ctx context.Context) (string, bool) {
	waitCtx, cancel := context.WithTimeout(ctx, l.cfg.FrameTimeout)
	defer cancel()

	var src string
	var found bool
	err := chromedp.Run(waitCtx,
		chromedp.WaitReady(frameSelector, chromedp.ByQuery),
		chromedp.AttributeValue(frameSelector, "src", &src, &found, chromedp.ByQuery),
	)
	if err != nil || !found || src == "" {
		return "", false
	}
	return src, true
}

// fetchFrame opens the frame source in its own tab, gives the widget time to
// render, attempts the list-view toggle and captures the resulting HTML.
func (l *Loader) fetchFrame(ctx context.Context, frameURL string) (string, error) {
	tabCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	err := chromedp.Run(tabCtx,
		chromedp.Navigate(frameURL),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(l.cfg.RenderDelay),
	)
	if err != nil {
		return "", fmt.Errorf("loading calendar frame: %w", err)
	}

	// Best effort: the widget defaults to a partial view, the toggle shows
	// the full list. Failure here is never fatal.
	clickCtx, cancelClick := context.WithTimeout(tabCtx, l.cfg.FrameTimeout)
	err = chromedp.Run(clickCtx,
		chromedp.Click(listViewSelector, chromedp.ByQuery, chromedp.NodeVisible),
	)
	cancelClick()
	if err != nil {
		log.Warn().Err(err).Msg("Could not switch to full calendar view, using default view")
	} else {
		log.Info().Msg("Switched to full calendar view")
		if err := chromedp.Run(tabCtx, chromedp.Sleep(l.cfg.ViewDelay)); err != nil {
			return "", fmt.Errorf("waiting for view change: %w", err)
		}
	}

	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML(`html`, &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("capturing frame HTML: %w", err)
	}
	return html, nil
}
