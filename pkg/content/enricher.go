package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"feedgen/pkg/domain"
	"feedgen/pkg/httpclient"

	"github.com/PuerkitoBio/goquery"
)

// fetchTimeout bounds each article page fetch
const fetchTimeout = 15 * time.Second

// Enricher fills in scraped items that have a link but no content by
// fetching the linked page and extracting its readable text.
type Enricher struct {
	client *httpclient.HTTPClient
	parser ArticleParser
}

// NewEnricher creates an enricher backed by go-readability
func NewEnricher() *Enricher {
	return NewEnricherWithParser(ReadabilityParser{})
}

func NewEnricherWithParser(parser ArticleParser) *Enricher {
	return &Enricher{
		client: httpclient.NewClientWithTimeout(httpclient.CloudflareClient, fetchTimeout),
		parser: parser,
	}
}

// Enrich updates items in place and returns how many were filled.
// Items that already have content, or have no link, are left alone.
// Per-item failures are joined into the returned error; they never stop the loop.
func (e *Enricher) Enrich(ctx context.Context, items []domain.Item) (int, error) {
	var (
		filled int
		errs   []error
	)

	for i := range items {
		item := &items[i]
		if item.Content != "" || item.Link == nil || *item.Link == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		if err := e.fill(ctx, item); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", *item.Link, err))
			continue
		}
		filled++
	}

	return filled, errors.Join(errs...)
}

func (e *Enricher) fill(ctx context.Context, item *domain.Item) error {
	body, err := e.fetch(ctx, *item.Link)
	if err != nil {
		return err
	}

	// a bad link only costs relative-URL fixups inside the page
	pageURL, _ := url.Parse(*item.Link)
	article, err := e.parser.Parse(bytes.NewReader(body), pageURL)
	if err != nil {
		return err
	}

	item.Content = article.Text
	if item.Title == "" {
		item.Title = article.Title
	}
	if item.Title == "" {
		item.Title = headingTitle(body)
	}
	return nil
}

func (e *Enricher) fetch(ctx context.Context, link string) ([]byte, error) {
	resp, err := e.client.Get(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return body, nil
}

// headingTitle picks a title from page markup when the parser found none:
// <title>, then the first <h1>, then og:title.
func headingTitle(page []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return ""
	}

	for _, sel := range []string{"title", "h1"} {
		if title := strings.TrimSpace(doc.Find(sel).First().Text()); title != "" {
			return title
		}
	}
	og, _ := doc.Find(`meta[property="og:title"]`).Attr("content")
	return strings.TrimSpace(og)
}
