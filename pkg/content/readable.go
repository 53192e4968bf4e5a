package content

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
)

var errNoReadableText = errors.New("no readable text on page")

// Article is the readable part of a linked page
type Article struct {
	Title string
	Text  string
}

// ArticleParser turns a fetched page into an Article.
// pageURL may be nil.
type ArticleParser interface {
	Parse(body io.Reader, pageURL *url.URL) (Article, error)
}

// ReadabilityParser finds the main content block with go-readability
type ReadabilityParser struct{}

func (ReadabilityParser) Parse(body io.Reader, pageURL *url.URL) (Article, error) {
	article, err := readability.FromReader(body, pageURL)
	if err != nil {
		return Article{}, fmt.Errorf("parse content: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return Article{}, errNoReadableText
	}
	return Article{Title: strings.TrimSpace(article.Title), Text: text}, nil
}
