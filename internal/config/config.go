// Package config resolves runtime settings from defaults, a .env file and
// SLIDESMITH_* environment variables. Command-line flags are applied on top
// by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/VantageDataChat/slidesmith"
	"github.com/VantageDataChat/slidesmith/internal/envfile"
)

type Config struct {
	// RasterizerPath is the SVG-to-PNG binary, inkscape by default.
	RasterizerPath string
	DPI            int
	RenderTimeout  time.Duration
	// TempDir holds transient render files; empty means os.TempDir().
	TempDir          string
	ImageSearchDirs  []string
	WatermarkMarkers []string
	FontDirs         []string
	EmbedFonts       bool
	LogDir           string
	Debug            bool
	// SaveDir is where saves without an absolute path land.
	SaveDir string
}

func Default() Config {
	return Config{
		RasterizerPath:   "inkscape",
		DPI:              300,
		RenderTimeout:    60 * time.Second,
		ImageSearchDirs:  []string{".", "./images", "./assets", "./resources"},
		WatermarkMarkers: []string{"Aspose", slidesmith.ProvenanceMark},
		EmbedFonts:       true,
		LogDir:           "logs",
		SaveDir:          ".",
	}
}

// Load reads the .env file, then overlays the environment on the defaults.
func Load() (Config, envfile.Result, error) {
	res := envfile.Load()
	cfg, err := FromEnv(Default(), os.LookupEnv)
	return cfg, res, err
}

// FromEnv overlays SLIDESMITH_* variables found through lookup onto base.
func FromEnv(base Config, lookup func(string) (string, bool)) (Config, error) {
	cfg := base
	get := func(key string) (string, bool) {
		v, ok := lookup("SLIDESMITH_" + key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	if v, ok := get("RASTERIZER"); ok {
		cfg.RasterizerPath = v
	}
	if v, ok := get("DPI"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("SLIDESMITH_DPI: %w", err)
		}
		cfg.DPI = n
	}
	if v, ok := get("RENDER_TIMEOUT"); ok {
		d, err := parseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("SLIDESMITH_RENDER_TIMEOUT: %w", err)
		}
		cfg.RenderTimeout = d
	}
	if v, ok := get("TEMP_DIR"); ok {
		cfg.TempDir = v
	}
	if v, ok := get("IMAGE_DIRS"); ok {
		cfg.ImageSearchDirs = filepath.SplitList(v)
	}
	if v, ok := get("WATERMARK_MARKERS"); ok {
		cfg.WatermarkMarkers = splitComma(v)
	}
	if v, ok := get("FONT_DIRS"); ok {
		cfg.FontDirs = filepath.SplitList(v)
	}
	if v, ok := get("EMBED_FONTS"); ok {
		cfg.EmbedFonts = envfile.ParseBool(v)
	}
	if v, ok := get("LOG_DIR"); ok {
		cfg.LogDir = v
	}
	if v, ok := get("DEBUG"); ok {
		cfg.Debug = envfile.ParseBool(v)
	}
	if v, ok := get("SAVE_DIR"); ok {
		cfg.SaveDir = v
	}
	return cfg, nil
}

// parseDuration accepts Go durations ("90s") and bare seconds ("90").
func parseDuration(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func splitComma(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) Validate() error {
	var errs []error
	if c.DPI <= 0 {
		errs = append(errs, fmt.Errorf("dpi must be positive, got %d", c.DPI))
	}
	if c.RenderTimeout <= 0 {
		errs = append(errs, fmt.Errorf("render timeout must be positive, got %s", c.RenderTimeout))
	}
	if strings.TrimSpace(c.RasterizerPath) == "" {
		errs = append(errs, errors.New("rasterizer path is empty"))
	}
	return errors.Join(errs...)
}
