package heatmap

import (
	"fmt"
	"math"
)

// SampleResult describes the heatmap at one pixel.
type SampleResult struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Heat       float64 `json:"heat"`       // Raw accumulated heat
	MaxHeat    float64 `json:"max_heat"`   // Hottest cell in the grid
	Normalized float64 `json:"normalized"` // Heat / MaxHeat, 0 when MaxHeat is 0
	Drawn      bool    `json:"drawn"`      // Whether the cell passes the cutoff
	Hex        string  `json:"hex"`        // Rendered pixel "#RRGGBB"
}

// Sample renders the pipeline and reports the values behind pixel (x, y).
func Sample(history []Frame, width, height, x, y int) (*SampleResult, error) {
	if x < 0 || x >= width || y < 0 || y >= height {
		return nil, fmt.Errorf("coordinates (%d,%d) outside %dx%d heatmap", x, y, width, height)
	}

	g := Accumulate(history, width, height)
	n, ok := Normalize(g)
	img := defaultRenderer.Paint(n, width, height)

	res := &SampleResult{
		X:       x,
		Y:       y,
		Heat:    round4(g.At(x, y)),
		MaxHeat: round4(g.Max()),
	}
	if ok {
		v := n.At(x, y)
		res.Normalized = round4(v)
		res.Drawn = v > Cutoff
	}

	p := img.RGBAAt(x, y)
	res.Hex = fmt.Sprintf("#%02X%02X%02X", p.R, p.G, p.B)
	return res, nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
