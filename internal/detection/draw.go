package detection

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/crowd-density-mcp/internal/heatmap"
)

// DefaultLineWidth is the box outline thickness in pixels.
const DefaultLineWidth = 3

// DefaultBoxColor is the outline color, hsl(195 100% 50%).
var DefaultBoxColor = heatmap.HSLA(195, 1, 0.5, 1)

// DrawBoxes strokes the outline of every box onto dst, scaled to dst's size.
// The stroke is centered on the box edge and clipped to the image.
func DrawBoxes(dst *image.RGBA, boxes []Box, c color.Color, lineWidth int) {
	if lineWidth <= 0 {
		lineWidth = 1
	}
	bounds := dst.Bounds()
	src := &image.Uniform{C: c}
	lo := lineWidth / 2
	hi := lineWidth - lo

	for _, b := range boxes {
		r := b.Bounds(bounds.Dx(), bounds.Dy())
		x1, y1 := r.X1+bounds.Min.X, r.Y1+bounds.Min.Y
		x2, y2 := r.X2+bounds.Min.X, r.Y2+bounds.Min.Y

		// Top and bottom bands span the full width; the sides fill the gap
		// between them so no pixel is blended twice.
		bands := []image.Rectangle{
			image.Rect(x1-lo, y1-lo, x2+hi, y1+hi),
			image.Rect(x1-lo, y2-lo, x2+hi, y2+hi),
			image.Rect(x1-lo, y1+hi, x1+hi, y2-lo),
			image.Rect(x2-lo, y1+hi, x2+hi, y2-lo),
		}
		for _, band := range bands {
			if band.Empty() {
				continue
			}
			draw.Draw(dst, band.Intersect(bounds), src, image.Point{}, draw.Over)
		}
	}
}

// RenderBoxes draws boxes on a width×height canvas. The canvas is still
// resized to fit, or the heatmap background when still is nil.
func RenderBoxes(boxes []Box, width, height int, still image.Image) *image.RGBA {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	if canvas.Bounds().Empty() {
		return canvas
	}

	if still != nil {
		fitted := imaging.Resize(still, width, height, imaging.Lanczos)
		draw.Draw(canvas, canvas.Bounds(), fitted, image.Point{}, draw.Src)
	} else {
		draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: heatmap.DefaultBackground}, image.Point{}, draw.Src)
	}

	DrawBoxes(canvas, boxes, DefaultBoxColor, DefaultLineWidth)
	return canvas
}
