package heatmap

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Radius is the reach of a single centroid's heat stamp in pixels.
const Radius = 20

const kernelSize = 2*Radius + 1

// kernel holds max(0, 1 - dist/Radius) for every offset in [-Radius, Radius]²,
// indexed by (dy+Radius)*kernelSize + (dx+Radius).
var kernel = buildKernel()

func buildKernel() []float64 {
	k := make([]float64, kernelSize*kernelSize)
	for dy := -Radius; dy <= Radius; dy++ {
		for dx := -Radius; dx <= Radius; dx++ {
			distance := math.Sqrt(float64(dx*dx + dy*dy))
			k[(dy+Radius)*kernelSize+dx+Radius] = math.Max(0, 1-distance/Radius)
		}
	}
	return k
}

// KernelWeight returns the heat a centroid adds to a cell offset by (dx, dy)
// from its rasterized position. Offsets beyond Radius on either axis weigh 0.
func KernelWeight(dx, dy int) float64 {
	if dx < -Radius || dx > Radius || dy < -Radius || dy > Radius {
		return 0
	}
	return kernel[(dy+Radius)*kernelSize+dx+Radius]
}

// Grid is a dense row-major heat accumulator.
type Grid struct {
	Width  int
	Height int
	// Cells has Width*Height entries; cell (x, y) is at y*Width + x.
	Cells []float64
}

// NewGrid allocates an all-zero grid. Negative dimensions are treated as 0.
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]float64, width*height),
	}
}

// At returns the heat at (x, y), or 0 outside the grid.
func (g *Grid) At(x, y int) float64 {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return 0
	}
	return g.Cells[y*g.Width+x]
}

// Max returns the hottest cell value, 0 for an empty grid.
func (g *Grid) Max() float64 {
	if len(g.Cells) == 0 {
		return 0
	}
	return floats.Max(g.Cells)
}

// Total returns the sum of all cells.
func (g *Grid) Total() float64 {
	return floats.Sum(g.Cells)
}

// Stamp adds one centroid's kernel to the grid.
//
// Centroids with non-finite coordinates contribute nothing. Kernel cells that
// land outside the grid are skipped; nothing wraps or clamps to an edge.
func (g *Grid) Stamp(c Centroid) {
	if g.Width == 0 || g.Height == 0 {
		return
	}
	fx := math.Floor(c.X * float64(g.Width))
	fy := math.Floor(c.Y * float64(g.Height))
	if math.IsNaN(fx) || math.IsNaN(fy) || math.IsInf(fx, 0) || math.IsInf(fy, 0) {
		return
	}
	// Anything this far out cannot reach the grid, and skipping it keeps the
	// int conversion below in range.
	if fx < -Radius-1 || fx > float64(g.Width+Radius) || fy < -Radius-1 || fy > float64(g.Height+Radius) {
		return
	}
	cx, cy := int(fx), int(fy)

	dy0, dy1 := max(-Radius, -cy), min(Radius, g.Height-1-cy)
	dx0, dx1 := max(-Radius, -cx), min(Radius, g.Width-1-cx)

	for dy := dy0; dy <= dy1; dy++ {
		row := (cy+dy)*g.Width + cx
		krow := (dy+Radius)*kernelSize + Radius
		for dx := dx0; dx <= dx1; dx++ {
			g.Cells[row+dx] += kernel[krow+dx]
		}
	}
}

// Accumulate builds a width×height heat grid from every centroid in history.
//
// The grid is rebuilt from scratch on every call and depends only on its
// arguments. An empty history or a zero-sized grid yields all zeros.
func Accumulate(history []Frame, width, height int) *Grid {
	g := NewGrid(width, height)
	for _, frame := range history {
		for _, c := range frame {
			g.Stamp(c)
		}
	}
	return g
}
