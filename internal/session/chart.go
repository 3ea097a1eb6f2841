package session

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var countLineColor = color.NRGBA{R: 0, G: 191, B: 255, A: 255}

// CountChart renders the per-frame detection counts as a PNG line chart of
// width x height pixels.
func (s *Session) CountChart(width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid chart size %dx%d", width, height)
	}
	snap := s.Snapshot()
	return countChart(snap.Counts, snap.Stats, width, height)
}

func countChart(counts []int, st Stats, width, height int) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Detections per frame"
	if st.VideoName != "" {
		p.Title.Text = fmt.Sprintf("Detections per frame: %s", st.VideoName)
	}
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Count"
	p.Y.Min = 0
	p.X.Min = 0
	p.X.Max = float64(max(st.TotalFrames, len(counts), 1))
	p.Add(plotter.NewGrid())

	if len(counts) > 0 {
		pts := make(plotter.XYs, len(counts))
		for i, c := range counts {
			pts[i] = plotter.XY{X: float64(i + 1), Y: float64(c)}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to build count line: %w", err)
		}
		line.Color = countLineColor
		line.Width = vg.Points(1.5)
		p.Add(line)
	}
	if p.Y.Max < 1 {
		p.Y.Max = 1
	}

	// Size the canvas in pixels at the default resolution.
	w := vg.Length(width) * vg.Inch / vgimg.DefaultDPI
	h := vg.Length(height) * vg.Inch / vgimg.DefaultDPI
	c := vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(vgimg.DefaultDPI))}
	p.Draw(draw.New(c))

	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
