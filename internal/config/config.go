// Package config holds the settings of the board: the canvas surface,
// the base image and the submission host.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"StrokeBoard/internal/canvas"
	"StrokeBoard/internal/render"

	"github.com/BurntSushi/toml"
)

type Canvas struct {
	ImageSrc        string   `toml:"image_src"`
	Width           int      `toml:"width"`
	Height          int      `toml:"height"`
	LineWidth       float64  `toml:"line_width"`
	SampleDistance  float64  `toml:"sample_distance"`
	ComplexityLimit int      `toml:"complexity_limit"`
	InitialColor    string   `toml:"initial_color"`
	Palette         []string `toml:"palette"`
}

type Host struct {
	Port      int  `toml:"port"`
	Advertise bool `toml:"advertise"`
}

type Config struct {
	Canvas   Canvas `toml:"canvas"`
	Host     Host   `toml:"host"`
	Memories string `toml:"memories"`
}

func Default() Config {
	return Config{
		Canvas: Canvas{
			Width:           684,
			Height:          684,
			LineWidth:       4,
			SampleDistance:  20,
			ComplexityLimit: 500,
			InitialColor:    "black",
			Palette:         []string{"black", "#ff0000", "#00ff00", "#0000ff", "#ffff00", "white"},
		},
		Host: Host{
			Port:      8888,
			Advertise: true,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("load config %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads a config from r over the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

func Save(w io.Writer, cfg Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// SaveFile writes cfg to path, replacing any existing file.
func SaveFile(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer f.Close()
	return Save(f, cfg)
}

func (c Config) Validate() error {
	var problems []string
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		problems = append(problems, fmt.Sprintf("canvas size %dx%d", c.Canvas.Width, c.Canvas.Height))
	}
	if c.Canvas.LineWidth <= 0 {
		problems = append(problems, fmt.Sprintf("line width %g", c.Canvas.LineWidth))
	}
	if c.Canvas.SampleDistance < 0 {
		problems = append(problems, fmt.Sprintf("sample distance %g", c.Canvas.SampleDistance))
	}
	if c.Canvas.ComplexityLimit < 0 {
		problems = append(problems, fmt.Sprintf("complexity limit %d", c.Canvas.ComplexityLimit))
	}
	for _, p := range c.Canvas.Palette {
		if _, ok := render.ParseColor(p); !ok {
			problems = append(problems, fmt.Sprintf("palette color %q", p))
		}
	}
	if c.Host.Port < 0 || c.Host.Port > 65535 {
		problems = append(problems, fmt.Sprintf("port %d", c.Host.Port))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid %s", strings.Join(problems, ", "))
	}
	return nil
}

// CanvasOptions converts the canvas section for the canvas package.
func (c Config) CanvasOptions() canvas.Options {
	return canvas.Options{
		ImageSrc:        c.Canvas.ImageSrc,
		Width:           c.Canvas.Width,
		Height:          c.Canvas.Height,
		SampleDistance:  c.Canvas.SampleDistance,
		ComplexityLimit: c.Canvas.ComplexityLimit,
	}
}

// RenderOptions converts the canvas section for the render package.
func (c Config) RenderOptions() render.Options {
	return render.Options{
		Width:     c.Canvas.Width,
		Height:    c.Canvas.Height,
		LineWidth: c.Canvas.LineWidth,
	}
}
