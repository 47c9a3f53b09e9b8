// Package config loads sapling runtime settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for a sapling application.
type Config struct {
	Debug  bool   `yaml:"debug"`
	IK     IK     `yaml:"ik"`
	Draw   Draw   `yaml:"draw"`
	Window Window `yaml:"window"`
}

// IK tunes the inverse-kinematics solver.
type IK struct {
	Iterations int     `yaml:"iterations"`
	Tolerance  float64 `yaml:"tolerance"`
}

// Draw styles the built-in drawable nodes.
type Draw struct {
	BoneRadius float64 `yaml:"bone_radius"`
	AxesLength float64 `yaml:"axes_length"`
	LineWidth  float64 `yaml:"line_width"`
}

// Window configures the ebiten window.
type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	TPS    int    `yaml:"tps"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		IK: IK{
			Iterations: 1,
			Tolerance:  1e-9,
		},
		Draw: Draw{
			BoneRadius: 6,
			AxesLength: 20,
			LineWidth:  2,
		},
		Window: Window{
			Title:  "sapling",
			Width:  640,
			Height: 480,
			TPS:    60,
		},
	}
}

// Parse decodes YAML over Default, so omitted keys keep their defaults,
// and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	return cfg, nil
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	switch {
	case c.IK.Iterations < 1:
		return fmt.Errorf("%w: ik.iterations must be positive, got %d", ErrInvalid, c.IK.Iterations)
	case c.IK.Tolerance < 0:
		return fmt.Errorf("%w: ik.tolerance must not be negative, got %g", ErrInvalid, c.IK.Tolerance)
	case c.Draw.BoneRadius <= 0 || c.Draw.AxesLength <= 0 || c.Draw.LineWidth <= 0:
		return fmt.Errorf("%w: draw sizes must be positive", ErrInvalid)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size must be positive, got %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Window.TPS < 0:
		return fmt.Errorf("%w: window.tps must not be negative, got %d", ErrInvalid, c.Window.TPS)
	}
	return nil
}
