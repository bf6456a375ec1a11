// Package crawler implements the discovery stage of the policy document
// pipeline: a resumable, deduplicating, domain-bounded breadth-first
// traversal that emits normalized PDF URLs.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/policycheck/policyscan/internal/config"
)

// Stores bundles the durable state and the output sink shared by every
// seed's traversal.
type Stores struct {
	Pages SeenStore // visited page URLs, raw as first encountered
	PDFs  SeenStore // discovered PDF URLs, normalized
	Sink  URLSink   // PDF output stream, discovery order
}

// Engine runs one breadth-first crawl per seed domain. Seeds share the
// seen-set stores but each owns its frontier, so independent seeds may
// run in parallel.
type Engine struct {
	cfg        *config.CrawlConfig
	fetcher    Fetcher
	extractor  LinkExtractor
	stores     Stores
	normalizer *Normalizer
	classifier *PathClassifier
	limiter    *RateLimiter
	stats      *Stats
}

// NewEngine creates a crawl engine from configuration and durable state.
// The fetch capability defaults to the HTTP fetcher; tests may swap it
// via SetFetcher.
func NewEngine(cfg *config.CrawlConfig, stores Stores, extractor LinkExtractor) *Engine {
	return &Engine{
		cfg:        cfg,
		fetcher:    NewHTTPFetcher(cfg.UserAgent, cfg.RequestTimeout),
		extractor:  extractor,
		stores:     stores,
		normalizer: NewNormalizer(cfg.TrackingParams),
		classifier: NewPathClassifier(cfg.AllowedPathKeywords, cfg.DeniedPathKeywords),
		limiter:    NewRateLimiter(cfg.RequestDelay),
		stats:      NewStats(),
	}
}

// SetFetcher replaces the HTTP fetch capability.
func (e *Engine) SetFetcher(f Fetcher) { e.fetcher = f }

// Stats returns the counters for the current run.
func (e *Engine) Stats() StatsSnapshot { return e.stats.Snapshot() }

// Run crawls every seed. With concurrency > 1, independent seed domains
// are crawled in parallel; the seen-set stores serialize internally.
// Context cancellation stops new fetches and returns cleanly: the
// persisted seen-sets remain valid for a later resume.
func (e *Engine) Run(ctx context.Context, seeds []string) error {
	slog.Info("starting crawl",
		"seeds", len(seeds),
		"seen_pages", e.stores.Pages.Len(),
		"seen_pdfs", e.stores.PDFs.Len())

	var runErr error
	if e.cfg.Concurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.cfg.Concurrency)
		for _, seed := range seeds {
			g.Go(func() error {
				return e.crawlSeed(gctx, seed)
			})
		}
		runErr = g.Wait()
	} else {
		for _, seed := range seeds {
			if runErr = e.crawlSeed(ctx, seed); runErr != nil {
				break
			}
		}
	}

	e.logSummary()

	if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
		slog.Info("crawl cancelled, seen-set state is safe to resume")
		return nil
	}
	return runErr
}

// crawlSeed runs the per-domain BFS: pop, dedup, domain check, durable
// mark-visited, fetch, route links. A page is marked visited before its
// fetch so it is never fetched twice, even across crashes.
func (e *Engine) crawlSeed(ctx context.Context, seed string) error {
	domain := ""
	if parsed, err := url.Parse(seed); err == nil {
		domain = NormalizeDomain(parsed.Hostname())
	}
	logger := slog.With("domain", domain)
	logger.Info("crawling domain", "seed", seed)

	frontier := []string{seed}
	pagesCrawled := 0

	for len(frontier) > 0 && pagesCrawled < e.cfg.MaxPagesPerDomain {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		pageURL := frontier[0]
		frontier = frontier[1:]

		if e.stores.Pages.Contains(pageURL) {
			continue
		}
		if !SameDomain(seed, pageURL) {
			logger.Debug("skipping different domain", "url", pageURL)
			continue
		}

		added, err := e.stores.Pages.Add(pageURL)
		if err != nil {
			return fmt.Errorf("failed to record visited page: %w", err)
		}
		if !added {
			// Another seed's worker got there first.
			continue
		}

		pagesCrawled++
		e.stats.RecordPage()
		logger.Info("visiting page", "n", pagesCrawled, "url", pageURL)

		if err := e.limiter.Wait(ctx, pageURL); err != nil {
			return err
		}

		links, err := e.fetchLinks(ctx, logger, pageURL)
		if err != nil {
			return err
		}

		for _, link := range links {
			if IsPDFLink(link) {
				if err := e.recordPDF(logger, link); err != nil {
					return err
				}
				continue
			}
			if e.classifier.IsAllowed(link) && !e.stores.Pages.Contains(link) {
				frontier = append(frontier, link)
			}
		}
	}

	logger.Info("domain finished", "pages", pagesCrawled)
	return nil
}

// fetchLinks fetches one page and extracts its absolute link targets.
// Every per-page failure is classified, counted, and yields zero links;
// only context cancellation propagates.
func (e *Engine) fetchLinks(ctx context.Context, logger *slog.Logger, pageURL string) ([]string, error) {
	resp, err := e.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		category := ClassifyFetchError(err)
		e.stats.RecordError(category)
		logger.Warn("fetch failed", "url", pageURL, "category", category, "error", err)
		return nil, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		category := HTTPStatusCategory(resp.StatusCode)
		e.stats.RecordError(category)
		logger.Warn("fetch failed", "url", pageURL, "category", category)
		return nil, nil
	}

	links, err := e.extractor.Extract(resp.Body, resp.FinalURL)
	if err != nil {
		e.stats.RecordError(ErrorOther)
		logger.Warn("link extraction failed", "url", pageURL, "error", err)
		return nil, nil
	}
	return links, nil
}

// recordPDF canonicalizes a PDF link, dedups it through the pdf
// seen-set, and emits newly discovered URLs to the output stream.
func (e *Engine) recordPDF(logger *slog.Logger, link string) error {
	canonical := e.normalizer.Normalize(link)

	added, err := e.stores.PDFs.Add(canonical)
	if err != nil {
		return fmt.Errorf("failed to record PDF: %w", err)
	}
	if !added {
		return nil
	}

	if err := e.stores.Sink.Emit(canonical); err != nil {
		return fmt.Errorf("failed to emit PDF URL: %w", err)
	}
	e.stats.RecordPDF()
	logger.Info("pdf found", "url", canonical)
	return nil
}

// logSummary reports the end-of-run statistics.
func (e *Engine) logSummary() {
	snapshot := e.stats.Snapshot()
	slog.Info("crawl summary",
		"pages_crawled", snapshot.PagesVisited,
		"pdfs_discovered", snapshot.PDFsFound,
		"errors", snapshot.TotalErrors)
	for _, category := range snapshot.ErrorCategories() {
		slog.Info("error breakdown", "category", category, "count", snapshot.ErrorsByCategory[category])
	}
}
