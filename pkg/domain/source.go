package domain

// Selectors holds the CSS selectors used to scrape a page.
// An empty string means the selector is not configured.
type Selectors struct {
	List    string `yaml:"list"`
	Title   string `yaml:"title"`
	Link    string `yaml:"link"`
	Content string `yaml:"content"`
	Date    string `yaml:"date"`
}

// Source describes one content origin: an existing feed, or a page to scrape
type Source struct {
	Name      string    `yaml:"name"`
	URL       string    `yaml:"url"`
	Scrape    bool      `yaml:"scrape"`
	FullText  bool      `yaml:"full_text"`
	Selectors Selectors `yaml:"selectors"`
}

// Topic groups sources under one output directory
type Topic struct {
	Name    string
	Sources []Source
}
