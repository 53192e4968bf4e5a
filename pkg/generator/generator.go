// Package generator runs the per-topic, per-source loop that turns the
// configured sources into RSS files.
package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"feedgen/pkg/config"
	"feedgen/pkg/content"
	"feedgen/pkg/domain"
	"feedgen/pkg/ingest"
	"feedgen/pkg/logger"
	"feedgen/pkg/rss"
	"feedgen/pkg/scrape"
	"feedgen/pkg/slug"
)

// DefaultOutputDir is the output root, relative to the working directory
const DefaultOutputDir = "feeds"

// FeedIngester parses an existing feed. Failures are reported on the result.
type FeedIngester interface {
	Ingest(ctx context.Context, feedURL string) *ingest.Result
}

// PageScraper extracts items from an HTML page
type PageScraper interface {
	Scrape(ctx context.Context, pageURL string, sel domain.Selectors) (*scrape.Result, error)
}

// ItemEnricher fills in missing content for scraped items
type ItemEnricher interface {
	Enrich(ctx context.Context, items []domain.Item) (int, error)
}

// Options configures a Generator. Nil fields get the real implementations.
type Options struct {
	OutputDir string
	Ingester  FeedIngester
	Scraper   PageScraper
	Enricher  ItemEnricher
	Logger    logger.Logger
}

// Summary counts what a run did
type Summary struct {
	Written  int
	Skipped  int
	Warnings int
}

// Generator processes sources one at a time, in configuration order
type Generator struct {
	outputDir string
	ingester  FeedIngester
	scraper   PageScraper
	enricher  ItemEnricher
	log       logger.Logger
}

// New creates a generator
func New(opts Options) *Generator {
	g := &Generator{
		outputDir: opts.OutputDir,
		ingester:  opts.Ingester,
		scraper:   opts.Scraper,
		enricher:  opts.Enricher,
		log:       opts.Logger,
	}
	if g.outputDir == "" {
		g.outputDir = DefaultOutputDir
	}
	if g.ingester == nil {
		g.ingester = ingest.NewIngester()
	}
	if g.scraper == nil {
		g.scraper = scrape.NewScraper()
	}
	if g.enricher == nil {
		g.enricher = content.NewEnricher()
	}
	if g.log == nil {
		g.log = logger.NewNop()
	}
	return g
}

// run holds per-run state
type run struct {
	summary Summary
	written map[string]string // output path -> source name
}

// Run generates one file per source. Fetch, parse and extraction failures
// are logged and contained to their source; directory and write failures
// abort the run and are returned. Cancelling ctx stops the run before the
// in-flight source is written, leaving its previous output in place.
func (g *Generator) Run(ctx context.Context, cfg *config.Config) (Summary, error) {
	r := &run{written: make(map[string]string)}

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return r.summary, &rss.WriteError{Path: g.outputDir, Err: err}
	}

	for _, topic := range cfg.Topics {
		topicDir := filepath.Join(g.outputDir, slug.Make(topic.Name))
		if err := os.MkdirAll(topicDir, 0o755); err != nil {
			return r.summary, &rss.WriteError{Path: topicDir, Err: err}
		}

		for _, src := range topic.Sources {
			if err := ctx.Err(); err != nil {
				return r.summary, err
			}

			path := filepath.Join(topicDir, slug.Make(src.Name)+".xml")
			var err error
			if src.Scrape {
				err = g.processScraped(ctx, r, src, path)
			} else {
				err = g.processParsed(ctx, r, src, path)
			}
			if err != nil {
				return r.summary, err
			}
		}
	}

	return r.summary, nil
}

func (g *Generator) processScraped(ctx context.Context, r *run, src domain.Source, path string) error {
	log := g.log.With(logger.String("url", src.URL))
	log.Info(fmt.Sprintf("Scraping %s", src.Name),
		logger.String("list", src.Selectors.List),
		logger.String("title", src.Selectors.Title),
		logger.String("link", src.Selectors.Link),
		logger.String("content", src.Selectors.Content),
		logger.String("date", src.Selectors.Date),
	)

	res, err := g.scraper.Scrape(ctx, src.URL, src.Selectors)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var fetchErr *scrape.FetchError
	switch {
	case errors.Is(err, scrape.ErrNoListSelector):
		log.Warn("No 'list' selector provided for scraping; returning no items")
		r.summary.Warnings++
	case errors.As(err, &fetchErr):
		log.Warn("Error fetching for scrape", logger.Err(err))
		r.summary.Warnings++
	case err != nil:
		log.Warn("Scrape failed", logger.Err(err))
		r.summary.Warnings++
	}

	if res == nil {
		res = &scrape.Result{}
	}
	for _, skip := range res.Skipped {
		log.Warn("Skipped list node", logger.Int("index", skip.Index), logger.Err(skip.Err))
		r.summary.Warnings++
	}

	if len(res.Items) == 0 {
		log.Info(fmt.Sprintf("No items scraped for %s; skipping", src.Name))
		r.summary.Skipped++
		return nil
	}

	if src.FullText {
		filled, err := g.enricher.Enrich(ctx, res.Items)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			log.Warn("Full text extraction failed for some items", logger.Err(err))
			r.summary.Warnings++
		}
		log.Debug("Filled item content from linked pages", logger.Int("items", filled))
	}

	return g.write(r, src, rss.FromScraped(src.Name, src.URL, res.Items), path)
}

func (g *Generator) processParsed(ctx context.Context, r *run, src domain.Source, path string) error {
	log := g.log.With(logger.String("url", src.URL))
	log.Info(fmt.Sprintf("Fetching %s", src.Name))

	res := g.ingester.Ingest(ctx, src.URL)
	if err := ctx.Err(); err != nil {
		return err
	}
	if res.Malformed != nil {
		log.Warn("Feed parser flagged a problem", logger.Err(res.Malformed))
		r.summary.Warnings++
	}

	return g.write(r, src, rss.FromParsed(src.Name, src.URL, res), path)
}

func (g *Generator) write(r *run, src domain.Source, feed domain.Feed, path string) error {
	if previous, ok := r.written[path]; ok {
		g.log.Warn("Output path already written this run; overwriting",
			logger.String("path", path),
			logger.String("previous", previous),
			logger.String("source", src.Name),
		)
		r.summary.Warnings++
	}

	if err := rss.Write(feed, path); err != nil {
		return err
	}
	r.written[path] = src.Name
	r.summary.Written++

	g.log.Info(fmt.Sprintf("Wrote %s", path), logger.Int("items", len(feed.Items)))
	return nil
}
