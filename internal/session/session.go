package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/crowd-density-mcp/internal/detection"
	"github.com/ironsheep/crowd-density-mcp/internal/heatmap"
)

// State is the lifecycle position of a session.
type State string

const (
	StateIdle      State = "idle"
	StateReady     State = "ready"
	StateAnalyzing State = "analyzing"
	StatePaused    State = "paused"
	StateComplete  State = "complete"
)

var (
	// ErrNoVideo is returned by operations that need a registered video.
	ErrNoVideo = errors.New("no video loaded")

	// ErrNotVideo is returned when a file does not look like a video.
	ErrNotVideo = errors.New("not a video file")

	// ErrComplete is returned when every frame has already been analyzed.
	ErrComplete = errors.New("analysis complete")
)

// Defaults match the reference analyzer.
const (
	DefaultFPS         = 25
	DefaultTotalFrames = 300
)

// Config controls the simulated playback.
type Config struct {
	FPS             int // Frames analyzed per second while running
	TotalFrames     int // Frames in the simulated video
	HistoryCapacity int // Frames kept for the heatmap
}

func (c Config) withDefaults() Config {
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	if c.TotalFrames <= 0 {
		c.TotalFrames = DefaultTotalFrames
	}
	if c.HistoryCapacity <= 0 {
		c.HistoryCapacity = heatmap.DefaultCapacity
	}
	return c
}

// Session is one analysis run over one video.
type Session struct {
	mu     sync.Mutex
	cfg    Config
	source detection.Source
	log    logrus.FieldLogger

	state   State
	video   *Video
	frame   int
	boxes   []detection.Box
	history *heatmap.History
	current int
	peak    int
	counts  []int

	// gen identifies the active playback loop; a loop whose generation no
	// longer matches exits without touching state.
	gen    uint64
	cancel context.CancelFunc
}

// New creates an idle session drawing detections from source.
func New(cfg Config, source detection.Source, log logrus.FieldLogger) *Session {
	cfg = cfg.withDefaults()
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Session{
		cfg:     cfg,
		source:  source,
		log:     log,
		state:   StateIdle,
		history: heatmap.NewHistory(cfg.HistoryCapacity),
	}
}

// Config returns the effective configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LoadVideo registers a new video and clears all previous results.
func (s *Session) LoadVideo(path string) (*Video, error) {
	v, err := probeVideo(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLoop()
	s.clearResults()
	s.video = v
	s.state = StateReady

	s.log.WithFields(logrus.Fields{
		"session_id": v.ID,
		"video":      v.Name,
		"size_bytes": v.SizeBytes,
	}).Info("video loaded")

	cp := *v
	return &cp, nil
}

// Start begins or resumes playback. Frames advance on a background loop
// until the last frame, a Pause/Stop/Reset, or ctx is cancelled.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateIdle:
		return ErrNoVideo
	case StateComplete:
		return fmt.Errorf("%w: stop or reset before starting again", ErrComplete)
	case StateAnalyzing:
		return nil
	}

	s.state = StateAnalyzing
	s.stopLoop()
	s.gen++
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.run(loopCtx, s.gen)

	s.log.WithFields(logrus.Fields{
		"session_id": s.video.ID,
		"frame":      s.frame,
		"fps":        s.cfg.FPS,
	}).Info("analysis started")
	return nil
}

// Pause halts playback, keeping the frame position.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.video == nil {
		return ErrNoVideo
	}
	if s.state != StateAnalyzing {
		return nil
	}
	s.stopLoop()
	s.state = StatePaused
	s.log.WithField("frame", s.frame).Info("analysis paused")
	return nil
}

// Stop halts playback and rewinds to the first frame. The current
// detections are cleared; heatmap history and counts are kept.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.video == nil {
		return ErrNoVideo
	}
	s.stopLoop()
	s.state = StateReady
	s.frame = 0
	s.boxes = nil
	s.current = 0
	s.log.Info("analysis stopped")
	return nil
}

// Reset drops the video and every result.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLoop()
	s.clearResults()
	s.video = nil
	s.state = StateIdle
	s.log.Info("session reset")
}

// Step synchronously analyzes up to n frames and returns how many were
// processed. A session that is ready moves to paused.
func (s *Session) Step(n int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateIdle:
		return 0, ErrNoVideo
	case StateComplete:
		return 0, ErrComplete
	case StateReady:
		s.state = StatePaused
	}

	done := 0
	for done < n && s.advance() {
		done++
	}
	return done, nil
}

// run ticks once per frame interval until ctx ends or playback stops.
func (s *Session) run(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.tick(gen) {
				return
			}
		}
	}
}

func (s *Session) tick(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen || s.state != StateAnalyzing {
		return false
	}
	return s.advance() && s.state == StateAnalyzing
}

// advance analyzes the next frame. It reports false once the video is
// exhausted. Callers hold s.mu.
func (s *Session) advance() bool {
	if s.frame >= s.cfg.TotalFrames {
		s.complete()
		return false
	}

	boxes := s.source.NextFrame(s.frame)
	s.boxes = boxes
	s.current = len(boxes)
	s.peak = max(s.peak, s.current)
	s.history.Append(detection.Centroids(boxes))
	s.counts = append(s.counts, s.current)
	s.frame++

	s.log.WithFields(logrus.Fields{
		"frame": s.frame,
		"count": s.current,
	}).Debug("frame analyzed")

	if s.frame >= s.cfg.TotalFrames {
		s.complete()
	}
	return true
}

func (s *Session) complete() {
	if s.state == StateComplete {
		return
	}
	s.stopLoop()
	s.state = StateComplete
	s.log.WithFields(logrus.Fields{
		"frames": s.frame,
		"peak":   s.peak,
	}).Info("analysis complete")
}

// stopLoop cancels the playback loop, if any. Callers hold s.mu.
func (s *Session) stopLoop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}

func (s *Session) clearResults() {
	s.frame = 0
	s.boxes = nil
	s.history.Clear()
	s.current = 0
	s.peak = 0
	s.counts = nil
}

// Snapshot is a consistent copy of everything a render needs.
type Snapshot struct {
	History []heatmap.Frame
	Boxes   []detection.Box
	Counts  []int
	Stats   Stats
}

// Snapshot copies the session state under one lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		History: s.history.Snapshot(),
		Boxes:   append([]detection.Box(nil), s.boxes...),
		Counts:  append([]int(nil), s.counts...),
		Stats:   s.statsLocked(),
	}
}

// Stats returns the current statistics.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsLocked()
}
