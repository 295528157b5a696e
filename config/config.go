// Package config loads the YAML configuration of inknote.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/benoitkugler/inknote/canvas"
	"github.com/benoitkugler/inknote/eraser"
	"github.com/benoitkugler/inknote/svgnote"
	"github.com/benoitkugler/inknote/svgpath"
)

// Config holds the full configuration.
type Config struct {
	DataDir       string       `yaml:"data_dir"`
	Canvas        CanvasConfig `yaml:"canvas"`
	Eraser        EraserConfig `yaml:"eraser"`
	CurveSegments int          `yaml:"curve_segments"` // 0 or 1: only the end points of curves
	Render        RenderConfig `yaml:"render"`
	LogLevel      string       `yaml:"log_level"` // debug | info | warn | error
}

// CanvasConfig sets the dimensions written in the documents.
type CanvasConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// EraserConfig configures the eraser and the re-sampling step.
type EraserConfig struct {
	Radius float64 `yaml:"radius"`
	Step   float64 `yaml:"step"`
}

// RenderConfig configures the PNG and PDF exports.
type RenderConfig struct {
	LineWidth float64 `yaml:"line_width"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir:  defaultDataDir(),
		Canvas:   CanvasConfig{Width: 1080, Height: 1920},
		Eraser:   EraserConfig{Radius: 100, Step: 1},
		Render:   RenderConfig{LineWidth: 10},
		LogLevel: "info",
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "inknote")
	}
	return "inknote"
}

// LoadConfig reads and parses a YAML config file. Returns DefaultConfig merged with the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas: width and height must be > 0")
	}
	if c.Eraser.Radius < 0 {
		return fmt.Errorf("eraser: radius must be >= 0")
	}
	if c.Eraser.Step <= 0 {
		return fmt.Errorf("eraser: step must be > 0")
	}
	if c.CurveSegments < 0 {
		return fmt.Errorf("curve_segments must be >= 0")
	}
	if c.Render.LineWidth <= 0 {
		return fmt.Errorf("render: line_width must be > 0")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("unsupported log_level %q (use debug, info, warn or error)", c.LogLevel)
	}
	return level, nil
}

// Codec returns the document codec.
func (c *Config) Codec() svgnote.Codec {
	return svgnote.Codec{
		Step:      c.Eraser.Step,
		Curves:    svgpath.Tessellate(c.CurveSegments),
		ErrorMode: svgpath.IgnoreErrorMode, // diagnostics are logged by the canvas
	}
}

// CanvasOptions returns the options for a canvas.
func (c *Config) CanvasOptions(logger *slog.Logger) canvas.Options {
	return canvas.Options{
		Width:  c.Canvas.Width,
		Height: c.Canvas.Height,
		Eraser: eraser.Eraser{Radius: c.Eraser.Radius, Step: c.Eraser.Step},
		Codec:  c.Codec(),
		Logger: logger,
	}
}
