package detection

import (
	"math"
	"math/rand"
	"sync"
)

// Source produces the detections for one frame.
//
// Implementations must be safe to call from a single goroutine at a time;
// callers serialize access.
type Source interface {
	NextFrame(frameIndex int) []Box
}

// Crowd size and box geometry of the simulated detector.
const (
	mockMinCount     = 5
	mockCountSpread  = 15
	mockMargin       = 0.1
	mockSpan         = 0.8
	mockMinWidth     = 0.05
	mockWidthSpread  = 0.05
	mockMinHeight    = 0.08
	mockHeightSpread = 0.08
	mockPeriodFrames = 30
)

// MockSource fabricates a crowd whose density oscillates with the frame
// index. Boxes stay inside the central 80% of the frame.
//
// MockSource is safe for concurrent use.
type MockSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockSource creates a simulated detector. The same seed yields the same
// sequence of frames.
func NewMockSource(seed int64) *MockSource {
	return &MockSource{rng: rand.New(rand.NewSource(seed))}
}

// Intensity is the crowd density factor at a frame, in [0,1].
func Intensity(frameIndex int) float64 {
	return 0.5 + math.Sin(float64(frameIndex)/mockPeriodFrames)*0.5
}

// NextFrame returns between 5 and 19 boxes depending on Intensity.
func (m *MockSource) NextFrame(frameIndex int) []Box {
	m.mu.Lock()
	defer m.mu.Unlock()

	intensity := Intensity(frameIndex)
	count := int(math.Floor(m.rng.Float64()*mockCountSpread*intensity)) + mockMinCount

	boxes := make([]Box, count)
	for i := range boxes {
		boxes[i] = Box{
			X:      m.rng.Float64()*mockSpan + mockMargin,
			Y:      m.rng.Float64()*mockSpan + mockMargin,
			Width:  mockMinWidth + m.rng.Float64()*mockWidthSpread,
			Height: mockMinHeight + m.rng.Float64()*mockHeightSpread,
		}
	}
	return boxes
}

// ReplaySource plays back a fixed list of frames, wrapping around at the end.
type ReplaySource struct {
	frames [][]Box
}

// NewReplaySource copies frames for playback.
func NewReplaySource(frames [][]Box) *ReplaySource {
	c := make([][]Box, len(frames))
	for i, f := range frames {
		c[i] = append([]Box(nil), f...)
	}
	return &ReplaySource{frames: c}
}

// NextFrame returns a copy of frame frameIndex modulo the list length, or no
// boxes when the list is empty.
func (r *ReplaySource) NextFrame(frameIndex int) []Box {
	if len(r.frames) == 0 {
		return nil
	}
	i := frameIndex % len(r.frames)
	if i < 0 {
		i += len(r.frames)
	}
	return append([]Box(nil), r.frames[i]...)
}
