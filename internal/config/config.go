// Package config reads server settings from the environment.
//
// A .env file in the working directory is loaded first when present;
// variables already set in the environment take precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Environment keys.
const (
	EnvLogLevel      = "CROWD_MCP_LOG_LEVEL"
	EnvLogFile       = "CROWD_MCP_LOG_FILE"
	EnvHeatmapWidth  = "CROWD_MCP_HEATMAP_WIDTH"
	EnvHeatmapHeight = "CROWD_MCP_HEATMAP_HEIGHT"
	EnvFPS           = "CROWD_MCP_FPS"
	EnvTotalFrames   = "CROWD_MCP_TOTAL_FRAMES"
	EnvHistory       = "CROWD_MCP_HISTORY"
	EnvSeed          = "CROWD_MCP_SEED"
)

// Config holds the server settings.
type Config struct {
	LogLevel        string `validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	LogFile         string
	HeatmapWidth    int   `validate:"min=1,max=4096"`
	HeatmapHeight   int   `validate:"min=1,max=4096"`
	FPS             int   `validate:"min=1,max=240"`
	TotalFrames     int   `validate:"min=1"`
	HistoryCapacity int   `validate:"min=1,max=10000"`
	Seed            int64 // 0 picks a time-based seed
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:        "info",
		HeatmapWidth:    640,
		HeatmapHeight:   360,
		FPS:             25,
		TotalFrames:     300,
		HistoryCapacity: 100,
	}
}

// Load reads an optional .env file from dotenvPath (".env" when empty) and
// then the environment.
func Load(dotenvPath string) (Config, error) {
	if dotenvPath == "" {
		dotenvPath = ".env"
	}
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", dotenvPath, err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, starting from Default.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvLogFile); ok {
		cfg.LogFile = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvHeatmapWidth, &cfg.HeatmapWidth},
		{EnvHeatmapHeight, &cfg.HeatmapHeight},
		{EnvFPS, &cfg.FPS},
		{EnvTotalFrames, &cfg.TotalFrames},
		{EnvHistory, &cfg.HistoryCapacity},
	}
	for _, f := range ints {
		v, ok := lookup(f.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = n
	}

	if v, ok := lookup(EnvSeed); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Seed = n
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks the settings against their allowed ranges.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
