package heatmap

// Normalized is a heat grid rescaled so its hottest cell is exactly 1.0.
type Normalized struct {
	Width  int
	Height int
	Values []float64
}

// At returns the normalized value at (x, y), or 0 outside the grid.
func (n *Normalized) At(x, y int) float64 {
	if x < 0 || x >= n.Width || y < 0 || y >= n.Height {
		return 0
	}
	return n.Values[y*n.Width+x]
}

// Normalize divides every cell by the grid maximum.
//
// It returns false when the maximum is 0, meaning there is nothing to draw.
// The input grid is left untouched.
func Normalize(g *Grid) (*Normalized, bool) {
	maxHeat := g.Max()
	if maxHeat <= 0 {
		return nil, false
	}

	values := make([]float64, len(g.Cells))
	for i, v := range g.Cells {
		values[i] = v / maxHeat
	}
	return &Normalized{Width: g.Width, Height: g.Height, Values: values}, true
}
