// Package config loads the topic and source list from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"feedgen/pkg/domain"

	"github.com/andybalholm/cascadia"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the source list is read from, relative to the working directory
const DefaultPath = "feeds.yaml"

// Config is the full source list, with topics in file order
type Config struct {
	Topics []domain.Topic
}

// Error reports a configuration file that is missing, unreadable or malformed.
// It is fatal for the whole run.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	sourceKeys   = []string{"name", "url", "scrape", "full_text", "selectors"}
	selectorKeys = []string{"list", "title", "link", "content", "date"}
)

// Load reads and validates the config file at path.
// Any problem is returned as *Error; there is no partial result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("read config file: %w", err)}
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return cfg, nil
}

// Parse decodes YAML config data. Topic and source order is preserved.
func Parse(data []byte) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("config is empty")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: top level must be a mapping of topic to sources", root.Line)
	}

	cfg := &Config{}
	seen := make(map[string]bool)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		name := keyNode.Value
		if seen[name] {
			return nil, fmt.Errorf("line %d: topic %q defined twice", keyNode.Line, name)
		}
		seen[name] = true

		sources, err := parseSources(valueNode)
		if err != nil {
			return nil, fmt.Errorf("topic %q: %w", name, err)
		}
		cfg.Topics = append(cfg.Topics, domain.Topic{Name: name, Sources: sources})
	}

	return cfg, nil
}

// parseSources decodes one topic's source list; a null value is an empty topic
func parseSources(node *yaml.Node) ([]domain.Source, error) {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list of sources", node.Line)
	}

	sources := make([]domain.Source, 0, len(node.Content))
	for _, item := range node.Content {
		src, err := parseSource(item)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func parseSource(node *yaml.Node) (domain.Source, error) {
	var src domain.Source
	if node.Kind != yaml.MappingNode {
		return src, fmt.Errorf("line %d: source must be a mapping", node.Line)
	}
	if err := checkKeys(node, sourceKeys); err != nil {
		return src, err
	}
	if sel := lookup(node, "selectors"); sel != nil && !(sel.Kind == yaml.ScalarNode && sel.Tag == "!!null") {
		if sel.Kind != yaml.MappingNode {
			return src, fmt.Errorf("line %d: selectors must be a mapping", sel.Line)
		}
		if err := checkKeys(sel, selectorKeys); err != nil {
			return src, err
		}
		if err := checkSelectors(sel); err != nil {
			return src, err
		}
	}

	if err := node.Decode(&src); err != nil {
		return src, fmt.Errorf("line %d: decode source: %w", node.Line, err)
	}

	src.Name = strings.TrimSpace(src.Name)
	src.URL = strings.TrimSpace(src.URL)
	if src.Name == "" {
		return src, fmt.Errorf("line %d: source name is required", node.Line)
	}
	if src.URL == "" {
		return src, fmt.Errorf("line %d: url is required for source %q", node.Line, src.Name)
	}
	return src, nil
}

// checkKeys rejects mapping keys outside allowed
func checkKeys(node *yaml.Node, allowed []string) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if !slices.Contains(allowed, key.Value) {
			return fmt.Errorf("line %d: unknown key %q (allowed: %s)", key.Line, key.Value, strings.Join(allowed, ", "))
		}
	}
	return nil
}

// checkSelectors rejects selectors that do not compile
func checkSelectors(node *yaml.Node) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode || value.Value == "" {
			continue
		}
		if _, err := cascadia.Compile(value.Value); err != nil {
			return fmt.Errorf("line %d: invalid %s selector %q: %w", value.Line, key.Value, value.Value, err)
		}
	}
	return nil
}

func lookup(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
