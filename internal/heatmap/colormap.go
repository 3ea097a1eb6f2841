package heatmap

import (
	"image/color"
	"math"
)

// Cutoff is the normalized value at or below which a cell stays background.
const Cutoff = 0.1

// Shade is an unquantized heat color: R, G, B in [0,255] and A in [0,1].
type Shade struct {
	R, G, B float64
	A       float64
}

// ShadeFor maps a normalized heat value to its color.
//
// Values at or below Cutoff return false. Below 0.5 the color runs from
// yellow toward orange, from 0.5 up it runs from orange to pure red. Alpha is
// 0.8 times the value in both segments. Inputs above 1 are treated as 1 and
// every channel is clamped to its valid range.
func ShadeFor(v float64) (Shade, bool) {
	if math.IsNaN(v) || v <= Cutoff {
		return Shade{}, false
	}
	if v > 1 {
		v = 1
	}

	var g float64
	if v < 0.5 {
		t := clampUnit(v * 2)
		g = 255 - t*100
	} else {
		t := clampUnit((v - 0.5) * 2)
		g = 155 - t*155
	}

	return Shade{
		R: 255,
		G: clampRange(g, 0, 255),
		B: 0,
		A: clampUnit(v * 0.8),
	}, true
}

// NRGBA quantizes the shade to 8-bit non-premultiplied channels.
func (s Shade) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: channel(s.R),
		G: channel(s.G),
		B: channel(s.B),
		A: channel(s.A * 255),
	}
}

// ColorFor is ShadeFor quantized to an 8-bit color.
func ColorFor(v float64) (color.NRGBA, bool) {
	s, ok := ShadeFor(v)
	if !ok {
		return color.NRGBA{}, false
	}
	return s.NRGBA(), true
}

func clampUnit(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// channel rounds to the nearest valid 8-bit value.
func channel(v float64) uint8 {
	return uint8(math.Round(clampRange(v, 0, 255)))
}
