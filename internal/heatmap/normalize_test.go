package heatmap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize_Empty(t *testing.T) {
	for _, g := range []*Grid{NewGrid(0, 0), NewGrid(30, 20)} {
		if n, ok := Normalize(g); ok || n != nil {
			t.Errorf("Normalize(%dx%d zero grid): got (%v, %v), want (nil, false)", g.Width, g.Height, n, ok)
		}
	}
}

func TestNormalize_MaxIsOne(t *testing.T) {
	history := []Frame{
		{{X: 0.2, Y: 0.2}, {X: 0.21, Y: 0.22}, {X: 0.8, Y: 0.6}},
		{{X: 0.2, Y: 0.25}, {X: 0.5, Y: 0.5}},
	}
	g := Accumulate(history, 160, 90)
	n, ok := Normalize(g)
	if !ok {
		t.Fatal("Normalize: nothing to draw")
	}

	var peak float64
	for _, v := range n.Values {
		if v < 0 || v > 1 {
			t.Fatalf("normalized value %v outside [0,1]", v)
		}
		if v > peak {
			peak = v
		}
	}
	if peak != 1.0 {
		t.Errorf("normalized max: got %v, want exactly 1.0", peak)
	}
	if n.Width != 160 || n.Height != 90 {
		t.Errorf("dimensions: got %dx%d, want 160x90", n.Width, n.Height)
	}
}

func TestNormalize_DoesNotModifyInput(t *testing.T) {
	g := Accumulate([]Frame{{{X: 0.5, Y: 0.5}}, {{X: 0.5, Y: 0.5}}}, 40, 40)
	before := append([]float64(nil), g.Cells...)
	_, _ = Normalize(g)
	if diff := cmp.Diff(before, g.Cells); diff != "" {
		t.Errorf("input grid changed (-before +after):\n%s", diff)
	}
}

func TestNormalize_ScaleInvariant(t *testing.T) {
	g := Accumulate([]Frame{
		{{X: 0.3, Y: 0.3}, {X: 0.33, Y: 0.35}},
		{{X: 0.7, Y: 0.5}},
	}, 100, 60)
	want, _ := Normalize(g)

	for _, k := range []float64{0.25, 4, 1024} {
		scaled := NewGrid(g.Width, g.Height)
		for i, v := range g.Cells {
			scaled.Cells[i] = v * k
		}
		got, ok := Normalize(scaled)
		if !ok {
			t.Fatalf("k=%v: nothing to draw", k)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("k=%v: normalized grid changed (-want +got):\n%s", k, diff)
		}
	}
}
