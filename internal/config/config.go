// Package config loads startup settings from a YAML file, environment
// variables and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/guidoenr/sortlights/internal/params"
	"github.com/guidoenr/sortlights/internal/render"
	"github.com/guidoenr/sortlights/internal/sorting"
)

const (
	configName = ".sortlights"
	configType = "yaml"
	envPrefix  = "SORTLIGHTS"
)

// Defaults used when no config file is present.
const (
	DefaultLEDCount   = 50
	DefaultColorOrder = "GRB"
	DefaultAlgorithm  = "bubble"
	DefaultDriver     = "terminal"
)

var (
	ErrInvalidLEDCount   = errors.New("led_count must be positive")
	ErrInvalidBrightness = errors.New("brightness must be within [0, 1]")
	ErrInvalidStepDelay  = errors.New("step_delay must be positive")
	ErrInvalidColorOrder = errors.New("unknown color_order")
	ErrUnknownAlgorithm  = errors.New("unknown algorithm")
	ErrUnknownDriver     = errors.New("unknown driver")
)

// Config is the startup configuration.
type Config struct {
	LEDCount    int     `mapstructure:"led_count" yaml:"led_count"`
	Brightness  float64 `mapstructure:"brightness" yaml:"brightness"`
	StepDelay   float64 `mapstructure:"step_delay" yaml:"step_delay"`
	ColorOrder  string  `mapstructure:"color_order" yaml:"color_order"`
	Algorithm   string  `mapstructure:"algorithm" yaml:"algorithm"`
	Driver      string  `mapstructure:"driver" yaml:"driver"`
	Listen      string  `mapstructure:"listen" yaml:"listen"`
	Sound       bool    `mapstructure:"sound" yaml:"sound"`
	AudioDevice string  `mapstructure:"audio_device" yaml:"audio_device"`
	Seed        int64   `mapstructure:"seed" yaml:"seed"`

	// FileUsed is the config file that was read, empty when defaults applied.
	FileUsed string `mapstructure:"-" yaml:"-"`
}

// Load reads configuration from path, or from .sortlights.yaml in the
// working directory or $HOME when path is empty. A missing file is not an
// error; defaults are used and FileUsed stays empty.
func Load(path string) (*Config, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		found = false
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if found {
		cfg.FileUsed = v.ConfigFileUsed()
		if err := checkNullDriver(cfg.FileUsed); err != nil {
			return nil, fmt.Errorf("validate config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// checkNullDriver rejects `driver: null`. YAML reads a bare null as no value,
// so viper would silently fall back to the default driver.
func checkNullDriver(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	for key, value := range raw {
		if strings.EqualFold(key, "driver") && value == nil {
			return fmt.Errorf("%w: driver is empty (use none for no output)", ErrUnknownDriver)
		}
	}
	return nil
}

// Default returns the configuration used when nothing is provided.
func Default() Config {
	return Config{
		LEDCount:   DefaultLEDCount,
		Brightness: params.DefaultBrightness,
		StepDelay:  params.DefaultDelay,
		ColorOrder: DefaultColorOrder,
		Algorithm:  DefaultAlgorithm,
		Driver:     DefaultDriver,
	}
}

func applyDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("led_count", d.LEDCount)
	v.SetDefault("brightness", d.Brightness)
	v.SetDefault("step_delay", d.StepDelay)
	v.SetDefault("color_order", d.ColorOrder)
	v.SetDefault("algorithm", d.Algorithm)
	v.SetDefault("driver", d.Driver)
	v.SetDefault("listen", d.Listen)
	v.SetDefault("sound", d.Sound)
	v.SetDefault("audio_device", d.AudioDevice)
	v.SetDefault("seed", d.Seed)
}

// Validate checks every field. A step delay outside [0.01, 1] is accepted
// and clamped by the runtime settings.
func (c *Config) Validate() error {
	if c.LEDCount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLEDCount, c.LEDCount)
	}
	if c.Brightness < 0 || c.Brightness > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidBrightness, c.Brightness)
	}
	if c.StepDelay <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidStepDelay, c.StepDelay)
	}
	if _, err := render.ParseColorOrder(c.ColorOrder); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidColorOrder, c.ColorOrder)
	}
	if _, err := sorting.ParseKind(c.Algorithm); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, c.Algorithm)
	}
	if !render.ValidDriver(c.Driver) {
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
	}
	return nil
}

// Order returns the parsed color order. Call after Validate.
func (c *Config) Order() render.ColorOrder {
	o, _ := render.ParseColorOrder(c.ColorOrder)
	return o
}

// Kind returns the parsed initial algorithm. Call after Validate.
func (c *Config) Kind() sorting.Kind {
	k, _ := sorting.ParseKind(c.Algorithm)
	return k
}
