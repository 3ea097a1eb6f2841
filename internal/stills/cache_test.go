package stills

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// writeStill writes a solid PNG (or JPEG for .jpg names) and returns its path.
func writeStill(t *testing.T, dir, name string, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create still: %v", err)
	}
	defer f.Close()

	if filepath.Ext(name) == ".jpg" {
		err = jpeg.Encode(f, img, nil)
	} else {
		err = png.Encode(f, img)
	}
	if err != nil {
		t.Fatalf("failed to encode still: %v", err)
	}
	return path
}

func TestCache_Load(t *testing.T) {
	dir := t.TempDir()
	path := writeStill(t, dir, "frame.png", 40, 30, color.RGBA{255, 0, 0, 255})
	cache := NewCache(0)

	img1, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := img1.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("unexpected dimensions: got %dx%d, want 40x30", b.Dx(), b.Dy())
	}

	img2, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestCache_Load_Errors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	cache := NewCache(0)
	for _, path := range []string{filepath.Join(dir, "missing.png"), garbage, dir} {
		if _, err := cache.Load(path); err == nil {
			t.Errorf("Load(%s) should fail", path)
		}
	}
	if cache.Len() != 0 {
		t.Errorf("failed loads should not be cached, Len=%d", cache.Len())
	}
}

func TestCache_Load_ReloadsChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeStill(t, dir, "frame.png", 10, 10, color.RGBA{255, 0, 0, 255})
	cache := NewCache(0)

	if _, err := cache.Load(path); err != nil {
		t.Fatal(err)
	}
	writeStill(t, dir, "frame.png", 20, 10, color.RGBA{0, 255, 0, 255})
	// Make sure the modification time moves even on coarse filesystems.
	later := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	img, err := cache.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 20 {
		t.Errorf("expected reloaded still of width 20, got %d", img.Bounds().Dx())
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestCache_Capacity(t *testing.T) {
	dir := t.TempDir()
	cache := NewCache(2)
	a := writeStill(t, dir, "a.png", 4, 4, color.White)
	b := writeStill(t, dir, "b.png", 4, 4, color.White)
	c := writeStill(t, dir, "c.png", 4, 4, color.White)

	first, _ := cache.Load(a)
	cache.Load(b)
	cache.Load(c)
	if cache.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", cache.Len())
	}

	again, err := cache.Load(a)
	if err != nil {
		t.Fatal(err)
	}
	if first == again {
		t.Error("oldest entry should have been evicted")
	}
}

func TestCache_EvictAndClear(t *testing.T) {
	dir := t.TempDir()
	cache := NewCache(0)
	a := writeStill(t, dir, "a.png", 4, 4, color.White)
	b := writeStill(t, dir, "b.png", 4, 4, color.White)
	cache.Load(a)
	cache.Load(b)

	cache.Evict(a)
	cache.Evict(filepath.Join(dir, "never-loaded.png"))
	if cache.Len() != 1 {
		t.Errorf("after Evict: Len=%d, want 1", cache.Len())
	}
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("after Clear: Len=%d, want 0", cache.Len())
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	path := writeStill(t, dir, "frame.png", 50, 50, color.RGBA{0, 0, 255, 255})
	cache := NewCache(0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				t.Errorf("concurrent Load failed: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestCache_LoadInfo(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		format string
	}{
		{"frame.png", "png"},
		{"frame.jpg", "jpeg"},
	}
	cache := NewCache(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeStill(t, dir, tt.name, 64, 48, color.Gray{Y: 128})
			info, err := cache.LoadInfo(path)
			if err != nil {
				t.Fatalf("LoadInfo: %v", err)
			}
			if info.Width != 64 || info.Height != 48 {
				t.Errorf("dimensions: got %dx%d, want 64x48", info.Width, info.Height)
			}
			if info.Format != tt.format {
				t.Errorf("format: got %s, want %s", info.Format, tt.format)
			}
			if info.SizeBytes <= 0 {
				t.Errorf("size: got %d", info.SizeBytes)
			}
		})
	}
}
