// Package content holds the portfolio data and the media lookups the pages
// are built from.
package content

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed portfolio.yaml
var portfolioYAML []byte

// Portfolio is the whole site content.
type Portfolio struct {
	Header   Header    `yaml:"header"`
	Sections []Section `yaml:"sections"`
	Footer   Footer    `yaml:"footer"`
}

// Header is the biography block at the top of the home page.
type Header struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Email       string `yaml:"email"`
}

// Section groups items under a category.
type Section struct {
	Category      string `yaml:"category"`
	CategoryTitle string `yaml:"category_title"`
	Items         []Item `yaml:"items"`
}

// Item is one entry of a section. Items with a RouteID have a project page.
type Item struct {
	Title         string `yaml:"title"`
	RouteID       string `yaml:"route_id,omitempty"`
	Timespan      string `yaml:"timespan,omitempty"`
	URL           string `yaml:"url,omitempty"`
	Description   string `yaml:"description"`
	Icon          string `yaml:"icon,omitempty"` // asset path, empty for none
	IsHighlighted bool   `yaml:"is_highlighted"`
	Payoff        string `yaml:"payoff,omitempty"`
	Info          string `yaml:"info,omitempty"`
}

// Footer holds the outbound links.
type Footer struct {
	Links []Link `yaml:"links"`
}

// Link is a labelled URL.
type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Load parses the embedded portfolio.
func Load() (*Portfolio, error) {
	return parse(portfolioYAML)
}

// LoadFile parses a portfolio from path, or the embedded one if path is empty.
func LoadFile(path string) (*Portfolio, error) {
	if path == "" {
		return Load()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading portfolio file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Portfolio, error) {
	var p Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing portfolio: %w", err)
	}
	return &p, nil
}

// Items returns every item of every section, in section order.
func (p *Portfolio) Items() []Item {
	var all []Item
	for _, s := range p.Sections {
		all = append(all, s.Items...)
	}
	return all
}

// Highlighted returns the items flagged for the home page.
func (p *Portfolio) Highlighted() []Item {
	var out []Item
	for _, it := range p.Items() {
		if it.IsHighlighted {
			out = append(out, it)
		}
	}
	return out
}

// Section returns the section with the given category key.
func (p *Portfolio) Section(category string) (Section, bool) {
	for _, s := range p.Sections {
		if s.Category == category {
			return s, true
		}
	}
	return Section{}, false
}
