package detection

import (
	"math"

	"github.com/ironsheep/crowd-density-mcp/internal/heatmap"
)

// Box is one detected person in normalized frame coordinates.
type Box struct {
	X      float64 `json:"x"`      // Left edge (0-1)
	Y      float64 `json:"y"`      // Top edge (0-1)
	Width  float64 `json:"width"`  // Horizontal extent (0-1)
	Height float64 `json:"height"` // Vertical extent (0-1)
}

// Bounds represents a rectangular bounding box in pixel coordinates.
//
// (X1, Y1) is the top-left corner and (X2, Y2) the bottom-right corner.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Centroid returns the point this box contributes to the heatmap.
func (b Box) Centroid() heatmap.Centroid {
	return heatmap.Centroid{X: b.X, Y: b.Y}
}

// Bounds scales the box to a width×height frame, rounding each edge to the
// nearest pixel.
func (b Box) Bounds(width, height int) Bounds {
	w, h := float64(width), float64(height)
	return Bounds{
		X1: int(math.Round(b.X * w)),
		Y1: int(math.Round(b.Y * h)),
		X2: int(math.Round((b.X + b.Width) * w)),
		Y2: int(math.Round((b.Y + b.Height) * h)),
	}
}

// Centroids converts a frame's boxes to the heatmap frame they produce.
func Centroids(boxes []Box) heatmap.Frame {
	frame := make(heatmap.Frame, len(boxes))
	for i, b := range boxes {
		frame[i] = b.Centroid()
	}
	return frame
}
