// Package config loads server and CLI settings from defaults, an optional
// color-wheel.yaml file and COLOR_WHEEL_* environment variables, in
// increasing order of precedence. Command-line flags bound to the same keys
// override all three.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/viper"

	"github.com/ironsheep/color-wheel-mcp/internal/chart"
)

const (
	// EnvPrefix is prepended to upper-cased keys: COLOR_WHEEL_LOG_LEVEL.
	EnvPrefix = "COLOR_WHEEL"

	// FileName is the config file base name searched for without extension.
	FileName = "color-wheel"
)

// Keys.
const (
	KeyLogLevel       = "log_level"
	KeyChartSize      = "chart_size"
	KeyBorderWidth    = "border_width"
	KeyBorderColor    = "border_color"
	KeyHistogramLimit = "histogram_limit"
)

// Config holds the resolved settings.
type Config struct {
	LogLevel       string  `mapstructure:"log_level"`       // debug, info, warn or error
	ChartSize      int     `mapstructure:"chart_size"`      // Rendered chart width and height in pixels
	BorderWidth    float64 `mapstructure:"border_width"`    // Circle border width; 0 disables it
	BorderColor    string  `mapstructure:"border_color"`    // Border color as #RRGGBB
	HistogramLimit int     `mapstructure:"histogram_limit"` // Default entry limit for reports; 0 means all
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Config {
	return Config{
		LogLevel:       "info",
		ChartSize:      512,
		BorderWidth:    2,
		BorderColor:    "#FF0000",
		HistogramLimit: 50,
	}
}

// New returns a viper instance with defaults registered and environment
// lookup enabled. Flags can be bound to it before Load.
func New() *viper.Viper {
	v := viper.New()

	d := Defaults()
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyChartSize, d.ChartSize)
	v.SetDefault(KeyBorderWidth, d.BorderWidth)
	v.SetDefault(KeyBorderColor, d.BorderColor)
	v.SetDefault(KeyHistogramLimit, d.HistogramLimit)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file into v and returns the resolved settings.
//
// If file is empty, color-wheel.{yaml,json,toml} is searched for in the
// working directory, the user config directory and the home directory; not
// finding one is not an error. An explicit file must exist.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, FileName))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks ranges and formats.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.ChartSize < 16 || c.ChartSize > 8192 {
		return fmt.Errorf("chart_size %d out of range [16, 8192]", c.ChartSize)
	}
	if c.BorderWidth < 0 || c.BorderWidth*2 >= float64(c.ChartSize) {
		return fmt.Errorf("border_width %g out of range for chart_size %d", c.BorderWidth, c.ChartSize)
	}
	if c.HistogramLimit < 0 {
		return fmt.Errorf("histogram_limit must not be negative: %d", c.HistogramLimit)
	}
	if _, err := c.Style(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// Style returns the chart chrome described by the border settings.
func (c Config) Style() (chart.Style, error) {
	col, err := colorful.Hex(c.BorderColor)
	if err != nil {
		return chart.Style{}, fmt.Errorf("invalid border_color %q: %w", c.BorderColor, err)
	}
	r, g, b := col.RGB255()
	return chart.Style{
		BorderWidth: c.BorderWidth,
		BorderColor: color.NRGBA{R: r, G: g, B: b, A: 255},
	}, nil
}

// Logger returns a text logger writing to w at the configured level.
// Invalid levels fall back to info.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
