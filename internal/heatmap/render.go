package heatmap

import (
	"image"
	"image/color"
	"image/draw"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultGridSpacing is the distance in pixels between reference grid lines.
const DefaultGridSpacing = 50

var (
	// DefaultBackground is the dark base the heat layer is painted on,
	// hsl(220 20% 12%).
	DefaultBackground = HSLA(220, 0.20, 0.12, 1)

	// DefaultGridColor is the low-contrast reference grid stroke,
	// hsl(220 15% 20% / 0.3).
	DefaultGridColor = HSLA(220, 0.15, 0.20, 0.3)
)

// HSLA builds an 8-bit color from a hue in degrees and saturation, lightness
// and alpha in [0,1].
func HSLA(h, s, l, a float64) color.NRGBA {
	r, g, b := colorful.Hsl(h, s, l).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: channel(a * 255)}
}

// Renderer paints normalized heat grids.
//
// The zero value renders heat only: no background fill and no grid. Use
// NewRenderer for the standard dark background and 50 pixel grid.
type Renderer struct {
	// Background fills the canvas before heat is painted. A fully
	// transparent background leaves the canvas transparent.
	Background color.NRGBA

	// GridColor is the stroke used for the reference grid.
	GridColor color.NRGBA

	// GridSpacing is the distance between grid lines. Zero or less disables
	// the grid.
	GridSpacing int
}

// NewRenderer returns a renderer with the default background and grid.
func NewRenderer() *Renderer {
	return &Renderer{
		Background:  DefaultBackground,
		GridColor:   DefaultGridColor,
		GridSpacing: DefaultGridSpacing,
	}
}

var defaultRenderer = NewRenderer()

// Render runs the full pipeline with the default renderer.
func Render(history []Frame, width, height int) *image.RGBA {
	return defaultRenderer.Render(history, width, height)
}

// Render accumulates history into a width×height grid, normalizes it and
// paints the result with the grid overlay on top.
//
// A history without heat produces a background-only image. Non-positive
// dimensions produce an empty image.
func (r *Renderer) Render(history []Frame, width, height int) *image.RGBA {
	g := Accumulate(history, width, height)
	n, _ := Normalize(g)
	return r.Paint(n, g.Width, g.Height)
}

// Paint renders an already normalized grid. A nil grid paints background and
// overlay only.
func (r *Renderer) Paint(n *Normalized, width, height int) *image.RGBA {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	if r.Background.A > 0 {
		draw.Draw(img, img.Bounds(), &image.Uniform{C: r.Background}, image.Point{}, draw.Src)
	}

	if n != nil && n.Width == width && n.Height == height {
		paintHeat(img, n)
	}

	if r.GridSpacing > 0 {
		GridOverlay(img, r.GridSpacing, r.GridColor)
	}
	return img
}

// paintHeat composites one pixel per cell whose value passes the cutoff.
// Cells are visited in row-major order.
func paintHeat(img *image.RGBA, n *Normalized) {
	src := &image.Uniform{}
	for y := 0; y < n.Height; y++ {
		for x := 0; x < n.Width; x++ {
			c, ok := ColorFor(n.Values[y*n.Width+x])
			if !ok {
				continue
			}
			src.C = c
			draw.Draw(img, image.Rect(x, y, x+1, y+1), src, image.Point{}, draw.Over)
		}
	}
}

// GridOverlay strokes one-pixel reference lines every spacing pixels,
// starting at the top and left edges. Every vertical line is drawn before
// the horizontal ones, so intersections are blended twice.
func GridOverlay(img *image.RGBA, spacing int, c color.Color) {
	if spacing <= 0 {
		return
	}
	bounds := img.Bounds()
	src := &image.Uniform{C: c}

	// Vertical lines
	for x := bounds.Min.X; x < bounds.Max.X; x += spacing {
		draw.Draw(img, image.Rect(x, bounds.Min.Y, x+1, bounds.Max.Y), src, image.Point{}, draw.Over)
	}

	// Horizontal lines
	for y := bounds.Min.Y; y < bounds.Max.Y; y += spacing {
		draw.Draw(img, image.Rect(bounds.Min.X, y, bounds.Max.X, y+1), src, image.Point{}, draw.Over)
	}
}
