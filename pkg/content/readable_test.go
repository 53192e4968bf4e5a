package content

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func articlePage(title, body string) string {
	paragraph := "<p>" + body + " " + strings.Repeat("The council met again on Tuesday to discuss the budget, the roads and the new library. ", 8) + "</p>"
	return "<html><head><title>" + title + "</title></head><body><nav><a href='/'>Home</a></nav><article><h1>" +
		title + "</h1>" + strings.Repeat(paragraph, 4) + "</article><footer>Copyright</footer></body></html>"
}

func TestReadabilityParser_Parse(t *testing.T) {
	pageURL, _ := url.Parse("https://example.com/news/council")

	article, err := ReadabilityParser{}.Parse(strings.NewReader(articlePage("Council news", "Budget approved.")), pageURL)
	require.NoError(t, err)
	assert.Equal(t, "Council news", article.Title)
	assert.Contains(t, article.Text, "Budget approved.")
	assert.NotContains(t, article.Text, "<p>")
}

func TestReadabilityParser_Parse_Empty(t *testing.T) {
	_, err := ReadabilityParser{}.Parse(strings.NewReader("<html><body><div></div></body></html>"), nil)
	assert.Error(t, err)
}

func TestHeadingTitle(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{"title tag", "<html><head><title> Daily </title></head><body><h1>Heading</h1></body></html>", "Daily"},
		{"h1 when no title", "<html><body><h1>Heading</h1></body></html>", "Heading"},
		{"og title last", `<html><head><meta property="og:title" content="Shared"></head><body></body></html>`, "Shared"},
		{"nothing", "<html><body><div></div></body></html>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, headingTitle([]byte(tt.page)))
		})
	}
}
