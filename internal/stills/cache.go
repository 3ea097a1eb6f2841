package stills

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
)

// DefaultCapacity is the number of stills kept when NewCache is given zero.
const DefaultCapacity = 16

// Cache holds decoded still frames keyed by absolute path.
//
// An entry is reused only while the file's size and modification time are
// unchanged, so replacing a still on disk is picked up on the next Load.
// When the cache is full the oldest entry is dropped.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*entry
	order    []string
}

type entry struct {
	img     image.Image
	size    int64
	modTime time.Time
}

// NewCache creates a cache holding at most capacity stills.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]*entry),
	}
}

// Load returns the decoded still at path, reading it from disk when it is
// not cached or has changed. JPEG EXIF orientation is applied.
func (c *Cache) Load(path string) (image.Image, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve still path: %w", err)
	}
	stat, err := os.Stat(key)
	if err != nil {
		return nil, fmt.Errorf("failed to open still: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("failed to open still: %s is a directory", path)
	}

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.size == stat.Size() && e.modTime.Equal(stat.ModTime()) {
		c.mu.Unlock()
		return e.img, nil
	}
	c.mu.Unlock()

	img, err := imaging.Open(key, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode still: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = &entry{img: img, size: stat.Size(), modTime: stat.ModTime()}
	for len(c.order) > c.capacity {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
	return img, nil
}

// Evict drops path from the cache.
func (c *Cache) Evict(path string) {
	key, err := filepath.Abs(path)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.order = nil
	c.mu.Unlock()
}

// Len returns the number of cached stills.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Info describes a still frame.
type Info struct {
	Path      string `json:"path"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"` // from the file extension, "unknown" if unrecognized
	SizeBytes int64  `json:"size_bytes"`
}

// LoadInfo loads path through the cache and reports its metadata.
func (c *Cache) LoadInfo(path string) (*Info, error) {
	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat still: %w", err)
	}

	format := "unknown"
	if f, err := imaging.FormatFromFilename(path); err == nil {
		format = strings.ToLower(f.String())
	}
	b := img.Bounds()
	return &Info{
		Path:      path,
		Width:     b.Dx(),
		Height:    b.Dy(),
		Format:    format,
		SizeBytes: stat.Size(),
	}, nil
}
