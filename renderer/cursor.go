package renderer

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/folio/config"
)

// ArrowOutline is the built-in pointer shape in unit coordinates, tip at the
// origin. It is scaled by the particle size when drawn.
var ArrowOutline = []Vec{
	{0, 0},
	{0.8, 0.3},
	{0.4, 0.4},
	{0.7, 0.9},
	{0.5, 1},
	{0.2, 0.5},
	{0.4, 0.4},
}

// CursorStyle holds the arrow's paint.
type CursorStyle struct {
	Fill      color.RGBA
	Stroke    color.RGBA
	LineWidth float32
}

// DefaultCursorStyle returns a semi-transparent dark arrow with a light outline.
func DefaultCursorStyle() CursorStyle {
	return CursorStyle{
		Fill:      color.RGBA{R: 0, G: 0, B: 0, A: alphaByte(0.7)},
		Stroke:    color.RGBA{R: 255, G: 255, B: 255, A: alphaByte(0.9)},
		LineWidth: 1.5,
	}
}

// NewCursorStyle builds a style from the cursor section of the config.
func NewCursorStyle(c config.CursorConfig) (CursorStyle, error) {
	fill, err := ParseColor(c.Fill, c.FillAlpha)
	if err != nil {
		return CursorStyle{}, fmt.Errorf("cursor fill: %w", err)
	}
	stroke, err := ParseColor(c.Stroke, c.StrokeAlpha)
	if err != nil {
		return CursorStyle{}, fmt.Errorf("cursor stroke: %w", err)
	}
	return CursorStyle{Fill: fill, Stroke: stroke, LineWidth: float32(c.LineWidth)}, nil
}

// ParseColor parses a "#rrggbb" hex color and applies an alpha in [0, 1].
func ParseColor(hex string, alpha float64) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: alphaByte(alpha)}, nil
}

func alphaByte(alpha float64) uint8 {
	alpha = math.Max(0, math.Min(1, alpha))
	return uint8(math.Round(alpha * 255))
}

// CursorRenderer draws swarm particles as cursors.
type CursorRenderer struct {
	Style CursorStyle
}

// NewCursorRenderer creates a cursor renderer with the given style.
func NewCursorRenderer(style CursorStyle) *CursorRenderer {
	return &CursorRenderer{Style: style}
}

// Draw renders one particle at (x, y) facing angle. A non-nil sprite is drawn
// centered at size x size; otherwise the built-in arrow is used.
func (r *CursorRenderer) Draw(c Canvas, x, y, angle, size float32, sprite Image) {
	c.Save()
	c.Translate(x, y)
	c.Rotate(angle)

	if sprite != nil {
		c.DrawImage(sprite, -size/2, -size/2, size, size)
	} else {
		r.drawArrow(c, size)
	}

	c.Restore()
}

func (r *CursorRenderer) drawArrow(c Canvas, size float32) {
	c.BeginPath()
	c.MoveTo(ArrowOutline[0].X*size, ArrowOutline[0].Y*size)
	for _, v := range ArrowOutline[1:] {
		c.LineTo(v.X*size, v.Y*size)
	}
	c.ClosePath()

	c.Fill(r.Style.Fill)
	c.Stroke(r.Style.Stroke, r.Style.LineWidth)
}
