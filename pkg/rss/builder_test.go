package rss

import (
	"testing"

	"feedgen/pkg/domain"
	"feedgen/pkg/ingest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromParsed(t *testing.T) {
	res := &ingest.Result{
		Items: []domain.Item{
			{ID: domain.Optional("guid-1"), Title: "Hello", Link: domain.Optional("https://example.com/1"), Content: "body"},
			{Title: "", Link: domain.Optional("https://example.com/2"), Published: domain.Optional("Mon, 02 Jan 2006 15:04:05 -0700")},
		},
	}

	feed := FromParsed("Example Blog", "https://example.com/feed", res)

	assert.Equal(t, "Example Blog", feed.Title)
	assert.Equal(t, "https://example.com/feed", feed.Link)
	assert.Equal(t, "https://example.com/feed", feed.ID)
	assert.Equal(t, "Feed generated for Example Blog", feed.Description)
	require.Len(t, feed.Items, 2)

	assert.Equal(t, "guid-1", *feed.Items[0].ID)
	assert.Equal(t, "body", feed.Items[0].Content)

	assert.Equal(t, NoTitle, feed.Items[1].Title)
	assert.Equal(t, "https://example.com/2", *feed.Items[1].ID)
	assert.Equal(t, "Mon, 02 Jan 2006 15:04:05 -0700", *feed.Items[1].Published)
}

func TestFromParsed_KeepsSourceDescription(t *testing.T) {
	feed := FromParsed("X", "https://x.example", &ingest.Result{Description: "Original"})
	assert.Equal(t, "Original", feed.Description)
	assert.Empty(t, feed.Items)
}

func TestFromScraped(t *testing.T) {
	items := []domain.Item{
		{Title: "Linked", Link: domain.Present("https://example.com/a")},
		{Title: "Unlinked", Link: domain.Present(""), Published: domain.Present("")},
		{Title: "", Content: "text only"},
	}

	feed := FromScraped("Town Hall", "https://town.example.org", items)

	assert.Equal(t, "Scraped feed for Town Hall", feed.Description)
	require.Len(t, feed.Items, 3)

	assert.Equal(t, "https://example.com/a", *feed.Items[0].ID)

	assert.Nil(t, feed.Items[1].Link, "empty link is not emitted")
	assert.Nil(t, feed.Items[1].Published, "empty date is not emitted")
	assert.Equal(t, "Unlinked", *feed.Items[1].ID, "id falls back to title")

	assert.Equal(t, NoTitle, feed.Items[2].Title)
	assert.Equal(t, NoTitle, *feed.Items[2].ID)
	assert.Equal(t, "text only", feed.Items[2].Content)
}
