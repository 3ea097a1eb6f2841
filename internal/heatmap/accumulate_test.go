package heatmap

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAccumulate_Empty(t *testing.T) {
	tests := []struct {
		name          string
		history       []Frame
		width, height int
		wantCells     int
	}{
		{"nil history", nil, 64, 36, 64 * 36},
		{"empty frames", []Frame{{}, {}, {}}, 10, 20, 200},
		{"zero width", []Frame{{{X: 0.5, Y: 0.5}}}, 0, 20, 0},
		{"zero height", []Frame{{{X: 0.5, Y: 0.5}}}, 20, 0, 0},
		{"negative size", []Frame{{{X: 0.5, Y: 0.5}}}, -5, -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Accumulate(tt.history, tt.width, tt.height)
			if len(g.Cells) != tt.wantCells {
				t.Fatalf("cells: got %d, want %d", len(g.Cells), tt.wantCells)
			}
			for i, v := range g.Cells {
				if v != 0 {
					t.Fatalf("cell %d: got %v, want 0", i, v)
				}
			}
			if g.Max() != 0 {
				t.Errorf("Max: got %v, want 0", g.Max())
			}
		})
	}
}

func TestAccumulate_Dimensions(t *testing.T) {
	g := Accumulate([]Frame{{{X: 0.2, Y: 0.7}}}, 640, 360)
	if g.Width != 640 || g.Height != 360 {
		t.Errorf("dimensions: got %dx%d, want 640x360", g.Width, g.Height)
	}
	if len(g.Cells) != 640*360 {
		t.Errorf("cells: got %d, want %d", len(g.Cells), 640*360)
	}
}

func TestAccumulate_SingleCentroid(t *testing.T) {
	g := Accumulate([]Frame{{{X: 0.5, Y: 0.5}}}, 100, 100)
	cx, cy := 50, 50

	if got := g.At(cx, cy); got != 1.0 {
		t.Errorf("center heat: got %v, want 1.0", got)
	}
	if got := g.Max(); got != 1.0 {
		t.Errorf("max heat: got %v, want 1.0", got)
	}

	// Strictly decreasing along each axis until the radius is reached.
	for d := 1; d <= Radius; d++ {
		for _, p := range [][2]int{{cx + d, cy}, {cx - d, cy}, {cx, cy + d}, {cx, cy - d}} {
			prevX := cx + (p[0]-cx)*(d-1)/d
			prevY := cy + (p[1]-cy)*(d-1)/d
			if g.At(p[0], p[1]) >= g.At(prevX, prevY) {
				t.Errorf("heat at distance %d (%d,%d)=%v not below (%d,%d)=%v",
					d, p[0], p[1], g.At(p[0], p[1]), prevX, prevY, g.At(prevX, prevY))
			}
		}
	}

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			dx, dy := float64(x-cx), float64(y-cy)
			dist := math.Sqrt(dx*dx + dy*dy)
			v := g.At(x, y)
			if dist >= Radius && v != 0 {
				t.Fatalf("cell (%d,%d) at distance %.2f: got %v, want 0", x, y, dist, v)
			}
			if dist < Radius && v <= 0 {
				t.Fatalf("cell (%d,%d) at distance %.2f: got %v, want > 0", x, y, dist, v)
			}
			if want := 1 - dist/Radius; dist < Radius && math.Abs(v-want) > 1e-12 {
				t.Fatalf("cell (%d,%d): got %v, want %v", x, y, v, want)
			}
		}
	}
}

func TestAccumulate_BoundaryClipping(t *testing.T) {
	tests := []struct {
		name   string
		c      Centroid
		cx, cy int
		w, h   int
	}{
		{"top-left corner", Centroid{X: 0, Y: 0}, 0, 0, 100, 80},
		{"left edge", Centroid{X: 0, Y: 0.5}, 0, 40, 100, 80},
		{"bottom-right outside", Centroid{X: 1, Y: 1}, 100, 80, 100, 80},
		{"near right edge", Centroid{X: 0.95, Y: 0.5}, 95, 40, 100, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Accumulate([]Frame{{tt.c}}, tt.w, tt.h)
			if len(g.Cells) != tt.w*tt.h {
				t.Fatalf("cells: got %d, want %d", len(g.Cells), tt.w*tt.h)
			}

			var want float64
			for dy := -Radius; dy <= Radius; dy++ {
				for dx := -Radius; dx <= Radius; dx++ {
					x, y := tt.cx+dx, tt.cy+dy
					if x < 0 || x >= tt.w || y < 0 || y >= tt.h {
						continue
					}
					dist := math.Sqrt(float64(dx*dx + dy*dy))
					want += math.Max(0, 1-dist/Radius)
				}
			}

			if got := g.Total(); math.Abs(got-want) > 1e-9 {
				t.Errorf("total heat: got %v, want %v", got, want)
			}
		})
	}
}

func TestAccumulate_FarOutsideIgnored(t *testing.T) {
	history := []Frame{{
		{X: -3, Y: 0.5},
		{X: 0.5, Y: 9},
		{X: math.NaN(), Y: 0.5},
		{X: math.Inf(1), Y: 0.5},
		{X: 1e300, Y: -1e300},
	}}
	g := Accumulate(history, 50, 50)
	if g.Total() != 0 {
		t.Errorf("total heat: got %v, want 0", g.Total())
	}
}

func TestAccumulate_Additive(t *testing.T) {
	one := Accumulate([]Frame{{{X: 0.3, Y: 0.4}}}, 60, 60)
	two := Accumulate([]Frame{{{X: 0.3, Y: 0.4}}, {{X: 0.3, Y: 0.4}}}, 60, 60)

	for i := range one.Cells {
		if two.Cells[i] != 2*one.Cells[i] {
			t.Fatalf("cell %d: got %v, want %v", i, two.Cells[i], 2*one.Cells[i])
		}
	}
}

func TestAccumulate_MatchesBruteForce(t *testing.T) {
	history := []Frame{
		{{X: 0.1, Y: 0.1}, {X: 0.12, Y: 0.11}, {X: 0.9, Y: 0.85}},
		{{X: 0.5, Y: 0.5}},
		{{X: 0.0, Y: 0.99}, {X: 0.51, Y: 0.49}},
	}
	w, h := 80, 45

	want := make([]float64, w*h)
	for _, frame := range history {
		for _, c := range frame {
			x := int(math.Floor(c.X * float64(w)))
			y := int(math.Floor(c.Y * float64(h)))
			for dy := -20; dy <= 20; dy++ {
				for dx := -20; dx <= 20; dx++ {
					nx, ny := x+dx, y+dy
					if nx >= 0 && nx < w && ny >= 0 && ny < h {
						distance := math.Sqrt(float64(dx*dx + dy*dy))
						want[ny*w+nx] += math.Max(0, 1-distance/20)
					}
				}
			}
		}
	}

	got := Accumulate(history, w, h)
	if diff := cmp.Diff(want, got.Cells); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestKernelWeight(t *testing.T) {
	if KernelWeight(0, 0) != 1 {
		t.Errorf("KernelWeight(0,0): got %v, want 1", KernelWeight(0, 0))
	}
	if KernelWeight(Radius, 0) != 0 {
		t.Errorf("KernelWeight(%d,0): got %v, want 0", Radius, KernelWeight(Radius, 0))
	}
	if KernelWeight(Radius+1, 0) != 0 {
		t.Errorf("KernelWeight outside kernel: got %v, want 0", KernelWeight(Radius+1, 0))
	}
	for dy := -Radius; dy <= Radius; dy++ {
		for dx := -Radius; dx <= Radius; dx++ {
			if KernelWeight(dx, dy) != KernelWeight(-dx, dy) || KernelWeight(dx, dy) != KernelWeight(dy, dx) {
				t.Fatalf("kernel not symmetric at (%d,%d)", dx, dy)
			}
		}
	}
}

func TestGrid_At_OutOfBounds(t *testing.T) {
	g := NewGrid(4, 4)
	g.Cells[0] = 3
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
		if v := g.At(p[0], p[1]); v != 0 {
			t.Errorf("At(%d,%d): got %v, want 0", p[0], p[1], v)
		}
	}
	if g.At(0, 0) != 3 {
		t.Errorf("At(0,0): got %v, want 3", g.At(0, 0))
	}
}
