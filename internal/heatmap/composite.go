package heatmap

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/disintegration/imaging"
)

// DefaultOpacity is the heat layer opacity used when compositing over a
// still frame.
const DefaultOpacity = 0.85

// stillDimming darkens the still so the heat colors stay readable.
const stillDimming = -0.3

// Composite fits still to the size of layer, darkens it and overlays layer
// at the given opacity (clamped to [0,1]).
func Composite(still, layer image.Image, opacity float64) *image.NRGBA {
	bounds := layer.Bounds()
	if bounds.Empty() {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}

	base := imaging.Resize(still, bounds.Dx(), bounds.Dy(), imaging.Lanczos)
	dimmed := adjust.Brightness(base, stillDimming)
	return imaging.Overlay(dimmed, layer, image.Pt(0, 0), clampUnit(opacity))
}

// RenderOver renders history on a transparent canvas and composites it over
// still. The renderer's grid settings apply; its background is ignored.
func (r *Renderer) RenderOver(still image.Image, history []Frame, width, height int, opacity float64) *image.NRGBA {
	layer := *r
	layer.Background.A = 0
	return Composite(still, layer.Render(history, width, height), opacity)
}
