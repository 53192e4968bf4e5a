// Package rss builds feed documents from normalized items and writes them as RSS 2.0.
package rss

import (
	"fmt"

	"feedgen/pkg/domain"
	"feedgen/pkg/ingest"
)

// NoTitle is used for items without a title
const NoTitle = "(no title)"

// FromParsed builds a feed for an ingested source. The source feed's own
// description is kept when it has one.
func FromParsed(name, sourceURL string, res *ingest.Result) domain.Feed {
	description := res.Description
	if description == "" {
		description = fmt.Sprintf("Feed generated for %s", name)
	}
	return build(name, sourceURL, description, res.Items)
}

// FromScraped builds a feed for a scraped source
func FromScraped(name, sourceURL string, items []domain.Item) domain.Feed {
	return build(name, sourceURL, fmt.Sprintf("Scraped feed for %s", name), items)
}

func build(name, sourceURL, description string, items []domain.Item) domain.Feed {
	feed := domain.Feed{
		Title:       name,
		Link:        sourceURL,
		ID:          sourceURL,
		Description: description,
		Items:       make([]domain.Item, 0, len(items)),
	}

	for _, item := range items {
		feed.Items = append(feed.Items, buildItem(item))
	}
	return feed
}

// buildItem fills in identity and title, and drops empty optional fields.
// Identity is the explicit id, else the link, else the title; never empty.
func buildItem(item domain.Item) domain.Item {
	out := domain.Item{
		Title:   item.Title,
		Content: item.Content,
	}
	if out.Title == "" {
		out.Title = NoTitle
	}
	if item.Link != nil && *item.Link != "" {
		out.Link = item.Link
	}
	if item.Published != nil && *item.Published != "" {
		out.Published = item.Published
	}

	switch {
	case item.ID != nil && *item.ID != "":
		out.ID = item.ID
	case out.Link != nil:
		out.ID = out.Link
	default:
		out.ID = domain.Present(out.Title)
	}
	return out
}
