package heatmap

import "sync"

// DefaultCapacity is the number of frames kept for the heatmap.
const DefaultCapacity = 100

// Centroid is the normalized position of one detected entity.
// Both coordinates are expected in [0,1].
type Centroid struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Frame is the ordered set of centroids produced for one processed frame.
type Frame []Centroid

// History is a bounded FIFO of frames. When full, appending a frame evicts
// the oldest one.
//
// History is safe for concurrent use by multiple goroutines.
type History struct {
	mu       sync.RWMutex
	frames   []Frame
	capacity int
}

// NewHistory creates an empty history holding at most capacity frames.
// A capacity of zero or less selects DefaultCapacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{
		frames:   make([]Frame, 0, capacity),
		capacity: capacity,
	}
}

// Append stores a copy of f as the newest frame.
func (h *History) Append(f Frame) {
	c := make(Frame, len(f))
	copy(c, f)

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.frames) == h.capacity {
		copy(h.frames, h.frames[1:])
		h.frames[len(h.frames)-1] = c
		return
	}
	h.frames = append(h.frames, c)
}

// Snapshot returns a deep copy of the frames, oldest first. The result is
// not affected by later Append or Clear calls.
func (h *History) Snapshot() []Frame {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Frame, len(h.frames))
	for i, f := range h.frames {
		c := make(Frame, len(f))
		copy(c, f)
		out[i] = c
	}
	return out
}

// Len returns the number of frames currently held.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.frames)
}

// Cap returns the maximum number of frames held.
func (h *History) Cap() int {
	return h.capacity
}

// Clear drops every frame.
func (h *History) Clear() {
	h.mu.Lock()
	h.frames = h.frames[:0]
	h.mu.Unlock()
}
