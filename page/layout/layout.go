// Package layout flows portfolio content into positioned text blocks.
package layout

import (
	"path"
	"strings"

	"github.com/pthm-cable/folio/content"
)

// Text sizes in pixels.
const (
	sizeName    = 40
	sizeHeading = 24
	sizeTitle   = 20
	sizeBody    = 16

	margin    = 48
	lineGap   = 6
	blockGap  = 18
	maxColumn = 720
)

// RouteHome is the route of the home page.
const RouteHome = "/"

// MeasureFunc returns the pixel width of text at a font size.
type MeasureFunc func(text string, size int32) float32

// Style selects how a block is painted.
type Style uint8

const (
	StyleBody Style = iota
	StyleHeading
	StyleTitle
	StyleLink
	StyleMuted
)

// Block is one laid-out line of text in page coordinates.
type Block struct {
	Text  string
	X, Y  float32
	W, H  float32
	Size  int32
	Style Style

	// Route is the project slug a click on this block opens, URL the
	// external address it refers to. Either may be empty.
	Route string
	URL   string
}

// Contains reports whether (x, y) lies inside the block.
func (b Block) Contains(x, y float32) bool {
	return x >= b.X && x <= b.X+b.W && y >= b.Y && y <= b.Y+b.H
}

// Layout is a laid-out page: its blocks and total height.
type Layout struct {
	Blocks []Block
	Height float32
}

// HitRoute returns the route of the clickable block under (x, y).
func (l Layout) HitRoute(x, y float32) (string, bool) {
	for _, b := range l.Blocks {
		if b.Route != "" && b.Contains(x, y) {
			return b.Route, true
		}
	}
	return "", false
}

type layouter struct {
	measure MeasureFunc
	x, y    float32
	width   float32
	blocks  []Block
}

func newLayouter(screenW float32, measure MeasureFunc) *layouter {
	width := screenW - 2*margin
	if width > maxColumn {
		width = maxColumn
	}
	if width < 1 {
		width = 1
	}
	return &layouter{measure: measure, x: (screenW - width) / 2, y: margin, width: width}
}

// text wraps s to the column and appends one block per line.
func (l *layouter) text(s string, size int32, style Style, route, url string) {
	for _, line := range Wrap(s, size, l.width, l.measure) {
		l.blocks = append(l.blocks, Block{
			Text:  line,
			X:     l.x,
			Y:     l.y,
			W:     l.measure(line, size),
			H:     float32(size),
			Size:  size,
			Style: style,
			Route: route,
			URL:   url,
		})
		l.y += float32(size) + lineGap
	}
}

func (l *layouter) gap() { l.y += blockGap }

func (l *layouter) done() Layout {
	return Layout{Blocks: l.blocks, Height: l.y + margin}
}

// Home lays out the header, every section and the footer.
func Home(p *content.Portfolio, screenW float32, measure MeasureFunc) Layout {
	l := newLayouter(screenW, measure)

	l.text(p.Header.Name, sizeName, StyleHeading, "", "")
	l.text(p.Header.Title, sizeTitle, StyleMuted, "", "")
	l.gap()
	l.text(p.Header.Description, sizeBody, StyleBody, "", "")
	if p.Header.Email != "" {
		l.text(p.Header.Email, sizeBody, StyleLink, "", "mailto:"+p.Header.Email)
	}

	for _, s := range p.Sections {
		l.gap()
		l.gap()
		l.text(s.CategoryTitle, sizeHeading, StyleHeading, "", "")
		for _, it := range s.Items {
			l.gap()
			style := StyleTitle
			if it.RouteID != "" {
				style = StyleLink
			}
			l.text(itemHeading(it), sizeTitle, style, it.RouteID, it.URL)
			l.text(it.Description, sizeBody, StyleBody, "", "")
		}
	}

	l.gap()
	l.gap()
	for _, link := range p.Footer.Links {
		l.text(link.Label, sizeBody, StyleLink, "", link.URL)
	}
	return l.done()
}

// Project lays out one project page with its media list.
func Project(pr content.Project, screenW float32, measure MeasureFunc) Layout {
	l := newLayouter(screenW, measure)
	it := pr.Item

	l.text("< back", sizeBody, StyleLink, RouteHome, "")
	l.gap()
	l.text(it.Title, sizeName, StyleHeading, "", "")
	if it.Timespan != "" {
		l.text(it.Timespan, sizeTitle, StyleMuted, "", "")
	}
	if it.Payoff != "" {
		l.gap()
		l.text(it.Payoff, sizeTitle, StyleTitle, "", "")
	}
	l.gap()
	l.text(it.Description, sizeBody, StyleBody, "", "")
	if it.Info != "" {
		l.gap()
		l.text(it.Info, sizeBody, StyleBody, "", "")
	}
	if it.URL != "" {
		l.gap()
		l.text(it.URL, sizeBody, StyleLink, "", it.URL)
	}

	medias := pr.SortedMedias()
	if len(medias) > 0 {
		l.gap()
		l.gap()
		l.text("Medias", sizeHeading, StyleHeading, "", "")
		for _, m := range medias {
			l.text(path.Base(m), sizeBody, StyleMuted, "", m)
		}
	}
	return l.done()
}

// NotFound lays out the page shown for an unknown slug.
func NotFound(slug string, screenW float32, measure MeasureFunc) Layout {
	l := newLayouter(screenW, measure)
	l.text("< back", sizeBody, StyleLink, RouteHome, "")
	l.gap()
	l.text("404", sizeName, StyleHeading, "", "")
	l.text("No project called "+slug+".", sizeBody, StyleBody, "", "")
	return l.done()
}

func itemHeading(it content.Item) string {
	if it.Timespan == "" {
		return it.Title
	}
	return it.Title + "  " + it.Timespan
}

// Wrap breaks s into lines no wider than maxW. A single word wider than
// maxW gets a line of its own.
func Wrap(s string, size int32, maxW float32, measure MeasureFunc) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if measure(candidate, size) <= maxW {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = w
	}
	return append(lines, line)
}
