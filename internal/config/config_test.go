package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func lookupMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(lookupMap(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults (-want +got):\n%s", diff)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(lookupMap(map[string]string{
		EnvLogLevel:      "debug",
		EnvLogFile:       "/tmp/crowd.log",
		EnvHeatmapWidth:  "320",
		EnvHeatmapHeight: "180",
		EnvFPS:           "10",
		EnvTotalFrames:   "60",
		EnvHistory:       "50",
		EnvSeed:          "42",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	want := Config{
		LogLevel:        "debug",
		LogFile:         "/tmp/crowd.log",
		HeatmapWidth:    320,
		HeatmapHeight:   180,
		FPS:             10,
		TotalFrames:     60,
		HistoryCapacity: 50,
		Seed:            42,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"not a number", map[string]string{EnvFPS: "fast"}, EnvFPS},
		{"bad seed", map[string]string{EnvSeed: "x"}, EnvSeed},
		{"zero width", map[string]string{EnvHeatmapWidth: "0"}, "HeatmapWidth"},
		{"huge height", map[string]string{EnvHeatmapHeight: "5000"}, "HeatmapHeight"},
		{"bad level", map[string]string{EnvLogLevel: "loud"}, "LogLevel"},
		{"zero history", map[string]string{EnvHistory: "0"}, "HistoryCapacity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(lookupMap(tt.env))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(EnvTotalFrames+"=77\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvTotalFrames, "")
	os.Unsetenv(EnvTotalFrames)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TotalFrames != 77 {
		t.Errorf("TotalFrames: got %d, want 77", cfg.TotalFrames)
	}
}

func TestLoad_MissingDotEnv(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}
