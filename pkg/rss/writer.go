package rss

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"feedgen/pkg/domain"
)

// Generator is written to each channel's generator element
const Generator = "feedgen"

const atomNamespace = "http://www.w3.org/2005/Atom"

// WriteError reports an output file that could not be written. It is fatal for the run.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// XML structures for RSS 2.0 output

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	AtomNS  string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	AtomLink      *atomLink `xml:"atom:link,omitempty"`
	Docs          string    `xml:"docs"`
	Generator     string    `xml:"generator"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link,omitempty"`
	Description string   `xml:"description"`
	GUID        *rssGUID `xml:"guid,omitempty"`
	PubDate     string   `xml:"pubDate,omitempty"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink string `xml:"isPermaLink,attr"`
}

// Encode writes feed to w as an RSS 2.0 document
func Encode(w io.Writer, feed domain.Feed, buildDate time.Time) error {
	doc := rssDocument{
		Version: "2.0",
		AtomNS:  atomNamespace,
		Channel: rssChannel{
			Title:         feed.Title,
			Link:          feed.Link,
			Description:   feed.Description,
			Docs:          "http://www.rssboard.org/rss-specification",
			Generator:     Generator,
			LastBuildDate: buildDate.Format(time.RFC1123Z),
			Items:         make([]rssItem, 0, len(feed.Items)),
		},
	}
	if feed.Link != "" {
		doc.Channel.AtomLink = &atomLink{Href: feed.Link, Rel: "alternate"}
	}

	for _, item := range feed.Items {
		doc.Channel.Items = append(doc.Channel.Items, toRSSItem(item))
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode rss: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return nil
}

func toRSSItem(item domain.Item) rssItem {
	out := rssItem{
		Title:       item.Title,
		Description: item.Content,
	}
	if item.Link != nil {
		out.Link = *item.Link
	}
	if item.Published != nil {
		out.PubDate = *item.Published
	}
	if item.ID != nil && *item.ID != "" {
		permaLink := "false"
		if item.Link != nil && *item.Link == *item.ID {
			permaLink = "true"
		}
		out.GUID = &rssGUID{Value: *item.ID, IsPermaLink: permaLink}
	}
	return out
}

// Write serializes feed to path. The document is written to a temporary file
// in the same directory and renamed into place. The directory must exist.
func Write(feed domain.Feed, path string) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()

	if err := Encode(tmp, feed, time.Now()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
