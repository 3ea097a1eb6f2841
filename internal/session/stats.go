package session

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DensityLevel buckets a detection count.
type DensityLevel string

const (
	DensityNone   DensityLevel = "none"
	DensityLow    DensityLevel = "low"
	DensityMedium DensityLevel = "medium"
	DensityHigh   DensityLevel = "high"
)

// Density returns the level for a detection count.
func Density(count int) DensityLevel {
	switch {
	case count <= 0:
		return DensityNone
	case count <= 5:
		return DensityLow
	case count <= 15:
		return DensityMedium
	default:
		return DensityHigh
	}
}

// Stats summarizes a session.
type Stats struct {
	State        State        `json:"state"`
	VideoID      string       `json:"video_id,omitempty"`
	VideoName    string       `json:"video_name,omitempty"`
	CurrentCount int          `json:"current_count"`
	PeakCount    int          `json:"peak_count"`
	MeanCount    float64      `json:"mean_count"`
	Frame        int          `json:"frame"`
	TotalFrames  int          `json:"total_frames"`
	Progress     float64      `json:"progress"`
	FPS          int          `json:"fps"`
	Density      DensityLevel `json:"density"`
	HistoryLen   int          `json:"history_frames"`
}

// statsLocked builds Stats. Callers hold s.mu.
func (s *Session) statsLocked() Stats {
	st := Stats{
		State:        s.state,
		CurrentCount: s.current,
		PeakCount:    s.peak,
		MeanCount:    meanCount(s.counts),
		Frame:        s.frame,
		TotalFrames:  s.cfg.TotalFrames,
		FPS:          s.cfg.FPS,
		Density:      Density(s.current),
		HistoryLen:   s.history.Len(),
	}
	if s.video != nil {
		st.VideoID = s.video.ID
		st.VideoName = s.video.Name
	}
	if s.cfg.TotalFrames > 0 {
		st.Progress = math.Round(float64(s.frame)/float64(s.cfg.TotalFrames)*1000) / 10
	}
	return st
}

func meanCount(counts []int) float64 {
	if len(counts) == 0 {
		return 0
	}
	xs := make([]float64, len(counts))
	for i, c := range counts {
		xs[i] = float64(c)
	}
	return math.Round(stat.Mean(xs, nil)*100) / 100
}
