// Package config loads renderer settings from a JSON file with CLI-flag
// overrides and sensible defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

// Config holds paths and render settings for the batch tools.
type Config struct {
	// Paths
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`
	Texture   string `json:"texture"` // optional texture applied to UV-mapped meshes

	// Render settings
	RenderSize  int     `json:"render_size"`
	Supersample int     `json:"supersample"`
	YawDeg      float64 `json:"yaw_deg"`
	PitchDeg    float64 `json:"pitch_deg"`
	Workers     int     `json:"workers"`

	// Parse settings
	MaxInputMB int `json:"max_input_mb"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir  string
	OutputDir string
	Texture   string
	Size      int
	Workers   int
}

// Resolve applies CLI overrides and fills remaining empty fields
// with defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Texture != "" {
		c.Texture = flags.Texture
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.OutputDir == "" && c.InputDir != "" {
		c.OutputDir = c.InputDir + "-previews"
	}
	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.YawDeg == 0 && c.PitchDeg == 0 {
		c.YawDeg = 45
		c.PitchDeg = -30
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.MaxInputMB <= 0 {
		c.MaxInputMB = 64
	}
}
