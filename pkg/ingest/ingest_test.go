package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestIngester_Ingest_RSS(t *testing.T) {
	rssXML := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
	<channel>
		<title>Datadog | The Monitor blog</title>
		<description>Check out The Monitor, Datadog's main blog.</description>
		<link>https://www.datadoghq.com/blog/</link>
		<item>
			<title>Highlights from AWS re:Invent 2025</title>
			<link>https://www.datadoghq.com/blog/aws-reinvent-2025-recap/</link>
			<guid isPermaLink="false">recap-2025</guid>
			<description>Learn about the top themes.</description>
			<pubDate>Thu, 11 Dec 2025 00:00:00 GMT</pubDate>
		</item>
		<item>
			<title>Only full content</title>
			<link>https://www.datadoghq.com/blog/full/</link>
			<content:encoded><![CDATA[<p>Full body</p>]]></content:encoded>
		</item>
		<item>
			<title>Nothing at all</title>
		</item>
	</channel>
</rss>`
	server := serve(t, "application/rss+xml", rssXML)

	res := NewIngester().Ingest(context.Background(), server.URL)
	require.NoError(t, res.Malformed)
	assert.Equal(t, "Datadog | The Monitor blog", res.Title)
	assert.Equal(t, "Check out The Monitor, Datadog's main blog.", res.Description)
	require.Len(t, res.Items, 3)

	first := res.Items[0]
	assert.Equal(t, "Highlights from AWS re:Invent 2025", first.Title)
	require.NotNil(t, first.ID)
	assert.Equal(t, "recap-2025", *first.ID)
	require.NotNil(t, first.Link)
	assert.Equal(t, "https://www.datadoghq.com/blog/aws-reinvent-2025-recap/", *first.Link)
	assert.Equal(t, "Learn about the top themes.", first.Content)
	require.NotNil(t, first.Published)
	assert.Equal(t, "Thu, 11 Dec 2025 00:00:00 GMT", *first.Published)

	second := res.Items[1]
	assert.Equal(t, "<p>Full body</p>", second.Content)
	require.NotNil(t, second.ID)
	assert.Equal(t, "https://www.datadoghq.com/blog/full/", *second.ID, "id falls back to link")
	assert.Nil(t, second.Published)

	third := res.Items[2]
	assert.Equal(t, "", third.Content)
	assert.Nil(t, third.ID)
	assert.Nil(t, third.Link)
}

func TestIngester_Ingest_Atom(t *testing.T) {
	atomXML := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Test Atom Feed</title>
	<subtitle>Atom subtitle</subtitle>
	<entry>
		<title>Atom Article 1</title>
		<id>urn:uuid:1</id>
		<link href="https://example.com/atom1"/>
		<summary>Short</summary>
		<content type="html">Long</content>
		<published>2025-01-02T03:04:05Z</published>
	</entry>
	<entry>
		<title>Atom Article 2</title>
		<link href="https://example.com/atom2"/>
		<content type="text">Only content</content>
	</entry>
</feed>`
	server := serve(t, "application/atom+xml", atomXML)

	res := NewIngester().Ingest(context.Background(), server.URL)
	require.NoError(t, res.Malformed)
	require.Len(t, res.Items, 2)

	assert.Equal(t, "Short", res.Items[0].Content, "summary wins over content")
	assert.Equal(t, "urn:uuid:1", *res.Items[0].ID)
	assert.Equal(t, "2025-01-02T03:04:05Z", *res.Items[0].Published)
	assert.Equal(t, "Only content", res.Items[1].Content)
}

func TestIngester_Ingest_EmptyFeed(t *testing.T) {
	rssXML := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>Empty Feed</title>
		<link>https://example.com</link>
	</channel>
</rss>`
	server := serve(t, "application/rss+xml", rssXML)

	res := NewIngester().Ingest(context.Background(), server.URL)
	assert.NoError(t, res.Malformed)
	assert.Empty(t, res.Items)
}

func TestIngester_Ingest_NotAFeed(t *testing.T) {
	server := serve(t, "text/html", "<html><body>hello</body></html>")

	res := NewIngester().Ingest(context.Background(), server.URL)
	assert.Error(t, res.Malformed)
	assert.Empty(t, res.Items)
}

func TestIngester_Ingest_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	res := NewIngester().Ingest(context.Background(), server.URL)
	require.Error(t, res.Malformed)

	var httpErr gofeed.HTTPError
	assert.ErrorAs(t, res.Malformed, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestIngester_Ingest_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	res := NewIngester().Ingest(context.Background(), url)
	assert.Error(t, res.Malformed)
	assert.Empty(t, res.Items)
}

func TestIngester_Parse(t *testing.T) {
	res := NewIngester().Parse(strings.NewReader(`<rss version="2.0"><channel><title>T</title>
<item><title>Hello</title><link>https://example.com/1</link></item></channel></rss>`))
	require.NoError(t, res.Malformed)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Hello", res.Items[0].Title)
}

func TestNormalizeItem_ContentFallback(t *testing.T) {
	tests := []struct {
		name        string
		description string
		content     string
		want        string
	}{
		{"summary only", "summary", "", "summary"},
		{"both", "summary", "content", "summary"},
		{"content only", "", "content", "content"},
		{"neither", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := NormalizeItem(&gofeed.Item{Description: tt.description, Content: tt.content})
			assert.Equal(t, tt.want, item.Content)
		})
	}
}
