// Package scrape extracts feed items from HTML pages using CSS selectors.
package scrape

import (
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
	"github.com/andybalholm/cascadia"
)

// Timeout bounds a single page fetch
const Timeout = 15 * time.Second

// ErrNoListSelector is returned, with an empty result, when a source has no list selector
var ErrNoListSelector = errors.New("no 'list' selector provided for scraping")

// FetchError reports a page that could not be retrieved
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Skip records a list node that was dropped during extraction
type Skip struct {
	Index int // position among the nodes matched by the list selector
	Err   error
}

// Result holds the extracted items in page order, plus the nodes that were skipped
type Result struct {
	Items   []domain.Item
	Skipped []Skip
}

// Scraper fetches pages and extracts items from them
type Scraper struct {
	client *httpclient.HTTPClient
}

// NewScraper creates a scraper with the default 15s timeout.
// Uses CloudflareClient to avoid 403s from Cloudflare-protected sites.
func NewScraper() *Scraper {
	return NewScraperWithClient(httpclient.NewClientWithTimeout(httpclient.CloudflareClient, Timeout))
}

// NewScraperWithClient creates a scraper that fetches through client
func NewScraperWithClient(client *httpclient.HTTPClient) *Scraper {
	return &Scraper{client: client}
}

// Scrape fetches pageURL and extracts one item per node matching sel.List.
// A missing list selector yields an empty result and ErrNoListSelector without
// any request being made; fetch failures are returned as *FetchError.
func (s *Scraper) Scrape(ctx context.Context, pageURL string, sel domain.Selectors) (*Result, error) {
	if sel.List == "" {
		return &Result{}, ErrNoListSelector
	}

	resp, err := s.client.Get(ctx, pageURL)
	if err != nil {
		return &Result{}, &FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &Result{}, &FetchError{URL: pageURL, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	return Extract(pageURL, resp.Body, sel)
}

// Extract parses an HTML document and extracts items using sel.
// Relative links are resolved against pageURL.
func Extract(pageURL string, r io.Reader, sel domain.Selectors) (*Result, error) {
	if sel.List == "" {
		return &Result{}, ErrNoListSelector
	}

	if err := validate(sel); err != nil {
		return &Result{}, err
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return &Result{}, fmt.Errorf("invalid page URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return &Result{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	res := &Result{}
	doc.Find(sel.List).Each(func(i int, node *goquery.Selection) {
		item, err := extractNode(base, node, sel)
		if err != nil {
			res.Skipped = append(res.Skipped, Skip{Index: i, Err: err})
			return
		}
		res.Items = append(res.Items, item)
	})

	return res, nil
}

// extractNode builds one item from a list node. Sub-selectors that are not
// configured and sub-selectors that match nothing fall back the same way.
func extractNode(base *url.URL, node *goquery.Selection, sel domain.Selectors) (item domain.Item, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extract node: %v", r)
		}
	}()

	if title, ok := find(node, sel.Title); ok {
		item.Title = text(title)
	} else {
		item.Title = text(node)
	}

	if link, ok := find(node, sel.Link); ok {
		if href, exists := link.Attr("href"); exists {
			resolved, err := resolve(base, href)
			if err != nil {
				return item, err
			}
			item.Link = domain.Present(resolved)
		} else {
			item.Link = domain.Present(text(link))
		}
	}

	if content, ok := find(node, sel.Content); ok {
		item.Content = text(content)
	}

	if date, ok := find(node, sel.Date); ok {
		item.Published = domain.Present(text(date))
	}

	return item, nil
}

// validate compiles every configured selector; goquery would otherwise
// treat a malformed one as matching nothing
func validate(sel domain.Selectors) error {
	for _, s := range []struct{ key, value string }{
		{"list", sel.List},
		{"title", sel.Title},
		{"link", sel.Link},
		{"content", sel.Content},
		{"date", sel.Date},
	} {
		if s.value == "" {
			continue
		}
		if _, err := cascadia.Compile(s.value); err != nil {
			return fmt.Errorf("invalid %s selector %q: %w", s.key, s.value, err)
		}
	}
	return nil
}

// find returns the first descendant of node matching selector
func find(node *goquery.Selection, selector string) (*goquery.Selection, bool) {
	if selector == "" {
		return nil, false
	}
	match := node.Find(selector).First()
	return match, match.Length() > 0
}

// text returns the selection's text with runs of whitespace collapsed
func text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// resolve makes href absolute against base
func resolve(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}
