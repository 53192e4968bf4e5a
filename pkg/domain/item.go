package domain

// Item is the common shape produced by both the feed ingester and the page
// scraper. Nil pointer fields are absent; a non-nil pointer to "" means the
// value was found but empty.
type Item struct {
	ID        *string // explicit identity from an ingested feed (optional)
	Title     string
	Link      *string
	Content   string
	Published *string // raw date text, never parsed
}

// Feed is a single output document, built per source and written once
type Feed struct {
	Title       string
	Link        string
	ID          string
	Description string
	Items       []Item
}

// Optional returns a pointer to s, or nil when s is empty
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Present returns a pointer to s, even when s is empty
func Present(s string) *string {
	return &s
}
