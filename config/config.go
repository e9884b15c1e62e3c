package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Loop    LoopConfig    `toml:"loop" yaml:"loop"`
	Camera  CameraConfig  `toml:"camera" yaml:"camera"`
	Pools   []PoolConfig  `toml:"pools" yaml:"pools"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"` // "debug", "info", "warn" or "error"
	Prefix string `toml:"prefix" yaml:"prefix"`
}

type LoopConfig struct {
	FixedStep time.Duration `toml:"fixed_step" yaml:"fixed_step"`
	Frames    int           `toml:"frames" yaml:"frames"`         // 0 runs until interrupted
	OnFailure string        `toml:"on_failure" yaml:"on_failure"` // "skip", "stop" or "halt"
}

type CameraConfig struct {
	Position   [3]float32 `toml:"position" yaml:"position"`
	Target     [3]float32 `toml:"target" yaml:"target"`
	FovY       float32    `toml:"fov_y" yaml:"fov_y"`             // degrees
	OrbitSpeed float32    `toml:"orbit_speed" yaml:"orbit_speed"` // radians per second, 0 keeps the camera still
}

type PoolConfig struct {
	Name       string             `toml:"name" yaml:"name"`
	Simulation string             `toml:"simulation" yaml:"simulation"` // scatter, fountain, orbit, wave
	Shape      string             `toml:"shape" yaml:"shape"`
	ShapeSize  float32            `toml:"shape_size" yaml:"shape_size"`
	Count      int                `toml:"count" yaml:"count"`
	Windowed   bool               `toml:"windowed" yaml:"windowed"`
	Window     int                `toml:"window" yaml:"window"`
	DepthSort  bool               `toml:"depth_sort" yaml:"depth_sort"`
	Color      string             `toml:"color" yaml:"color"`
	Seed       int64              `toml:"seed" yaml:"seed"`
	ClockStep  float32            `toml:"clock_step" yaml:"clock_step"`
	Params     map[string]float64 `toml:"params" yaml:"params"`
}

// Param returns the named simulation parameter, or def when unset.
func (p PoolConfig) Param(name string, def float32) float32 {
	if v, ok := p.Params[name]; ok {
		return float32(v)
	}
	return def
}

// Load reads a scene file. The format follows the extension: .toml, or
// .yaml/.yml. Values missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the format named by ext and validates the result.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Defaults()
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalid, ext)
	}
	for i := range cfg.Pools {
		cfg.Pools[i].applyDefaults(i)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Prefix: "sps",
		},
		Loop: LoopConfig{
			FixedStep: time.Second / 60,
			Frames:    600,
			OnFailure: "skip",
		},
		Camera: CameraConfig{
			Position: [3]float32{0, 4, 24},
			Target:   [3]float32{0, 2, 0},
			FovY:     60,
		},
	}
}

func (p *PoolConfig) applyDefaults(i int) {
	if p.Name == "" {
		p.Name = fmt.Sprintf("%s-%d", p.Simulation, i)
	}
	if p.Shape == "" {
		p.Shape = "point"
	}
	if p.ShapeSize == 0 {
		p.ShapeSize = 1
	}
	if p.Color == "" {
		p.Color = "white"
	}
	if p.ClockStep == 0 {
		p.ClockStep = 0.1
	}
}

func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging level %q", ErrInvalid, c.Logging.Level)
	}
	switch c.Loop.OnFailure {
	case "skip", "stop", "halt":
	default:
		return fmt.Errorf("%w: on_failure %q", ErrInvalid, c.Loop.OnFailure)
	}
	if c.Loop.FixedStep < 0 || c.Loop.Frames < 0 {
		return fmt.Errorf("%w: negative loop setting", ErrInvalid)
	}
	if c.Camera.FovY <= 0 || c.Camera.FovY >= 180 {
		return fmt.Errorf("%w: camera fov_y %v", ErrInvalid, c.Camera.FovY)
	}
	if len(c.Pools) == 0 {
		return fmt.Errorf("%w: no pools", ErrInvalid)
	}
	seen := make(map[string]bool, len(c.Pools))
	for i, p := range c.Pools {
		if seen[p.Name] {
			return fmt.Errorf("%w: pool %d: duplicate name %q", ErrInvalid, i, p.Name)
		}
		seen[p.Name] = true
		if p.Simulation == "" {
			return fmt.Errorf("%w: pool %q: missing simulation", ErrInvalid, p.Name)
		}
		if p.Count <= 0 {
			return fmt.Errorf("%w: pool %q: count %d", ErrInvalid, p.Name, p.Count)
		}
		if p.Windowed && p.Window < 0 {
			return fmt.Errorf("%w: pool %q: window %d", ErrInvalid, p.Name, p.Window)
		}
		if _, err := ParseColor(p.Color); err != nil {
			return fmt.Errorf("pool %q: %w", p.Name, err)
		}
	}
	return nil
}
