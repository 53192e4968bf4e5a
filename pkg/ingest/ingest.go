// Package ingest reads existing RSS/Atom/JSON feeds into normalized items.
package ingest

import (
	"context"
	"fmt"
	"io"
	"strings"

	"feedgen/pkg/domain"
	"feedgen/pkg/httpclient"

	"github.com/mmcdole/gofeed"
)

// Result is a parsed feed. Malformed is set when fetching or parsing failed;
// Items then holds whatever could be recovered, possibly nothing.
type Result struct {
	Title       string
	Description string
	Items       []domain.Item
	Malformed   error
}

// Ingester handles RSS/Atom feed parsing operations
type Ingester struct {
	feedParser *gofeed.Parser
}

// NewIngester creates a new feed ingester. The transport has no timeout of
// its own; a fetch is bounded only by the caller's context.
func NewIngester() *Ingester {
	return NewIngesterWithClient(httpclient.NewClient(httpclient.FeedClient))
}

// NewIngesterWithClient creates an ingester that fetches through client
func NewIngesterWithClient(client *httpclient.HTTPClient) *Ingester {
	parser := gofeed.NewParser()
	parser.Client = client.Standard()
	parser.UserAgent = httpclient.UserAgent
	return &Ingester{feedParser: parser}
}

// Ingest fetches and parses the feed at feedURL. It never returns an error:
// network and parse failures are reported through Result.Malformed.
func (i *Ingester) Ingest(ctx context.Context, feedURL string) *Result {
	feed, err := i.feedParser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return &Result{Malformed: fmt.Errorf("failed to parse feed: %w", err)}
	}
	return normalize(feed)
}

// Parse reads a feed document from r, with the same error handling as Ingest
func (i *Ingester) Parse(r io.Reader) *Result {
	feed, err := i.feedParser.Parse(r)
	if err != nil {
		return &Result{Malformed: fmt.Errorf("failed to parse feed: %w", err)}
	}
	return normalize(feed)
}

func normalize(feed *gofeed.Feed) *Result {
	if feed == nil {
		return &Result{Malformed: fmt.Errorf("feed is empty")}
	}

	res := &Result{
		Title:       strings.TrimSpace(feed.Title),
		Description: strings.TrimSpace(feed.Description),
		Items:       make([]domain.Item, 0, len(feed.Items)),
	}
	for _, entry := range feed.Items {
		if entry == nil {
			continue
		}
		res.Items = append(res.Items, NormalizeItem(entry))
	}
	return res
}

// NormalizeItem converts one feed entry. Content prefers the summary, then
// the full content, then "". Identity prefers the GUID, then the link.
func NormalizeItem(entry *gofeed.Item) domain.Item {
	link := domain.Optional(strings.TrimSpace(entry.Link))

	id := domain.Optional(strings.TrimSpace(entry.GUID))
	if id == nil {
		id = link
	}

	content := entry.Description
	if content == "" {
		content = entry.Content
	}

	return domain.Item{
		ID:        id,
		Title:     strings.TrimSpace(entry.Title),
		Link:      link,
		Content:   content,
		Published: domain.Optional(strings.TrimSpace(entry.Published)),
	}
}
