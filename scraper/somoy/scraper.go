package somoy

import (
	"context"
	"fmt"
	"time"

	"bd-election-analysis/config"
	"bd-election-analysis/metrics"
	"bd-election-analysis/models"
	"bd-election-analysis/utils"

	"github.com/cheggaaa/pb/v3"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/errgroup"
)

// seatPage is the raw content extracted from one seat page
type seatPage struct {
	Header string     `json:"header"`
	Stats  []seatStat `json:"stats"`
	Cards  []seatCard `json:"cards"`
}

type seatStat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type seatCard struct {
	Name       string   `json:"name"`
	Paragraphs []string `json:"paragraphs"`
}

const extractSeatJS = `
(function() {
	var header = document.querySelector('div.text-h5.px-0');

	var stats = [];
	document.querySelectorAll('.border-lightgray').forEach(function(box) {
		var label = box.querySelector('.text-subtitle-1');
		var value = box.querySelector('.text-green, .text-title-1');
		if (label && value) {
			stats.push({label: label.innerText.trim(), value: value.innerText.trim()});
		}
	});

	var cards = [];
	document.querySelectorAll('.my-4').forEach(function(card) {
		var name = card.querySelector('.text-subtitle-1-display');
		if (!name) return;
		var paragraphs = [];
		card.querySelectorAll('p').forEach(function(p) { paragraphs.push(p.innerText); });
		cards.push({name: name.innerText.trim(), paragraphs: paragraphs});
	});

	return {header: header ? header.innerText : '', stats: stats, cards: cards};
})()
`

// SomoyScraper collects candidate results from the Somoy News election site
type SomoyScraper struct {
	cfg         *config.Config
	logger      *utils.Logger
	metrics     *metrics.Recorder
	rateLimiter *utils.RateLimiter
	visited     *utils.URLTracker
}

// NewSomoyScraper creates a new SomoyScraper. rec may be nil.
func NewSomoyScraper(cfg *config.Config, logger *utils.Logger, rec *metrics.Recorder) *SomoyScraper {
	return &SomoyScraper{
		cfg:         cfg,
		logger:      logger,
		metrics:     rec,
		rateLimiter: utils.NewRateLimiter(cfg.RateLimitDelayMS),
		visited:     utils.NewURLTracker(),
	}
}

// newBrowser starts one headless browser; seats are scraped in tabs of it
func (s *SomoyScraper) newBrowser(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("log-level", "3"), // suppress Chrome logs
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		chromedp.WindowSize(1280, 900),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}
	return ctx, cancel
}

// Scrape visits seats 1..TotalSeats and returns one record per candidate.
// A seat that keeps failing after all retries is skipped.
func (s *SomoyScraper) Scrape(ctx context.Context) ([]*models.RawCandidateRecord, error) {
	s.logger.Info("Starting scrape of %d seats from %s (concurrency %d)", s.cfg.TotalSeats, s.cfg.BaseURL, s.cfg.MaxConcurrency)

	browserCtx, cancel := s.newBrowser(ctx)
	defer cancel()

	// start the browser before tabs are opened from it
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	bar := pb.StartNew(s.cfg.TotalSeats)
	defer bar.Finish()

	perSeat := make([][]*models.RawCandidateRecord, s.cfg.TotalSeats)
	g, gctx := errgroup.WithContext(browserCtx)
	g.SetLimit(s.cfg.MaxConcurrency)

	for i := 0; i < s.cfg.TotalSeats; i++ {
		seatID := i + 1
		slot := i
		g.Go(func() error {
			defer bar.Increment()
			if err := s.rateLimiter.Wait(gctx); err != nil {
				return err
			}
			records, err := s.scrapeSeat(gctx, seatID)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.metrics.SeatScraped(false)
				s.logger.Warn("Skipping seat %d: %v", seatID, err)
				return nil
			}
			s.metrics.SeatScraped(true)
			perSeat[slot] = records
			s.logger.Debug("Seat %d: %d candidates", seatID, len(records))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scrape aborted: %w", err)
	}

	var all []*models.RawCandidateRecord
	for _, records := range perSeat {
		all = append(all, records...)
	}
	MarkWinners(all)

	s.logger.Info("Scraping complete. %d candidate rows from %d seats", len(all), s.visited.Count())
	return all, nil
}

// scrapeSeat loads one seat page in its own tab, retrying on timeouts
func (s *SomoyScraper) scrapeSeat(ctx context.Context, seatID int) ([]*models.RawCandidateRecord, error) {
	url := seatURL(s.cfg.BaseURL, seatID)
	if !s.visited.Add(url) {
		return nil, fmt.Errorf("seat %d already visited", seatID)
	}

	tabCtx, cancelTab := chromedp.NewContext(ctx)
	defer cancelTab()

	timeout := time.Duration(s.cfg.PageTimeoutSec) * time.Second
	var page seatPage
	err := utils.RetryWithBackoff(ctx, s.cfg.MaxRetries, time.Second, func(context.Context) error {
		attemptCtx, cancel := context.WithTimeout(tabCtx, timeout)
		defer cancel()

		return chromedp.Run(attemptCtx,
			chromedp.Navigate(url),
			chromedp.WaitVisible(`.text-subtitle-1-display`, chromedp.ByQuery),
			chromedp.Evaluate(extractSeatJS, &page),
		)
	}, s.logger)
	if err != nil {
		s.visited.Forget(url)
		return nil, err
	}
	return parseSeatPage(seatID, page), nil
}
