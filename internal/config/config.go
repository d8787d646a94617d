package config

import (
	"fmt"
	"os"

	"github.com/san-kum/spherelab/internal/control"
	"github.com/san-kum/spherelab/internal/dynamo"
	"github.com/san-kum/spherelab/internal/physics"
	"github.com/san-kum/spherelab/internal/scene"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth   = 1280
	DefaultHeight  = 720
	DefaultTitle   = "spherelab"
	DefaultFPS     = 60
	DefaultFrames  = 600
	DefaultDataDir = ".spherelab"
)

type Config struct {
	Seed         int64         `yaml:"seed"`
	Count        int           `yaml:"count"`
	Frames       int           `yaml:"frames"`
	Window       WindowConfig  `yaml:"window"`
	EnvMap       string        `yaml:"env_map"`
	Audio        bool          `yaml:"audio"`
	Physics      PhysicsConfig `yaml:"physics"`
	ImpulseScale float64       `yaml:"impulse_scale"`
	DataDir      string        `yaml:"data_dir"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	FPS    int    `yaml:"fps"`
}

type PhysicsConfig struct {
	Restitution   float64 `yaml:"restitution"`
	Friction      float64 `yaml:"friction"`
	LinearDamping float64 `yaml:"linear_damping"`
}

func DefaultConfig() *Config {
	p := physics.DefaultParams()
	return &Config{
		Seed:   1,
		Count:  scene.Count,
		Frames: DefaultFrames,
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  DefaultTitle,
			FPS:    DefaultFPS,
		},
		Physics: PhysicsConfig{
			Restitution:   p.Restitution,
			Friction:      p.Friction,
			LinearDamping: p.LinearDamping,
		},
		ImpulseScale: control.DefaultScale,
		DataDir:      DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the physics section into world parameters. Gravity is
// always zero.
func (c *Config) Params() physics.Params {
	p := physics.DefaultParams()
	p.Restitution = c.Physics.Restitution
	p.Friction = c.Physics.Friction
	p.LinearDamping = c.Physics.LinearDamping
	return p
}

// Validate rejects settings the scene cannot start with. The sphere count
// is compiled into the shader, so any other value is a config mismatch.
func (c *Config) Validate() error {
	if c.Count != scene.Count {
		return fmt.Errorf("count %d, shader is built for %d: %w", c.Count, scene.Count, dynamo.ErrConfigMismatch)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.Window.FPS)
	}
	if c.Frames < 0 {
		return fmt.Errorf("frames must be non-negative, got %d", c.Frames)
	}
	if c.ImpulseScale < 0 {
		return fmt.Errorf("impulse scale must be non-negative, got %f", c.ImpulseScale)
	}
	return c.Params().Validate()
}
