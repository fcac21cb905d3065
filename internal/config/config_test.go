package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.RasterizerPath != "inkscape" || cfg.DPI != 300 || cfg.RenderTimeout != time.Minute {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if len(cfg.WatermarkMarkers) != 2 || cfg.WatermarkMarkers[0] != "Aspose" {
		t.Errorf("unexpected markers %v", cfg.WatermarkMarkers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	dirs := strings.Join([]string{"/a", "/b"}, string(filepath.ListSeparator))
	cfg, err := FromEnv(Default(), envMap(map[string]string{
		"SLIDESMITH_RASTERIZER":        "/usr/bin/rsvg",
		"SLIDESMITH_DPI":               "150",
		"SLIDESMITH_RENDER_TIMEOUT":    "90",
		"SLIDESMITH_IMAGE_DIRS":        dirs,
		"SLIDESMITH_WATERMARK_MARKERS": "Aspose, Evaluation ,",
		"SLIDESMITH_EMBED_FONTS":       "no",
		"SLIDESMITH_DEBUG":             "yes",
		"SLIDESMITH_SAVE_DIR":          "  ",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.RasterizerPath != "/usr/bin/rsvg" || cfg.DPI != 150 || cfg.RenderTimeout != 90*time.Second {
		t.Errorf("unexpected config %+v", cfg)
	}
	if len(cfg.ImageSearchDirs) != 2 || cfg.ImageSearchDirs[1] != "/b" {
		t.Errorf("unexpected image dirs %v", cfg.ImageSearchDirs)
	}
	if strings.Join(cfg.WatermarkMarkers, "|") != "Aspose|Evaluation" {
		t.Errorf("unexpected markers %v", cfg.WatermarkMarkers)
	}
	if cfg.EmbedFonts || !cfg.Debug {
		t.Error("expected booleans parsed")
	}
	if cfg.SaveDir != "." {
		t.Errorf("expected blank value ignored, got %q", cfg.SaveDir)
	}

	cfg, err = FromEnv(Default(), envMap(map[string]string{"SLIDESMITH_RENDER_TIMEOUT": "2m30s"}))
	if err != nil || cfg.RenderTimeout != 150*time.Second {
		t.Errorf("expected 2m30s, got %s %v", cfg.RenderTimeout, err)
	}
}

func TestFromEnvErrors(t *testing.T) {
	if _, err := FromEnv(Default(), envMap(map[string]string{"SLIDESMITH_DPI": "high"})); err == nil {
		t.Error("expected error for non-numeric dpi")
	}
	if _, err := FromEnv(Default(), envMap(map[string]string{"SLIDESMITH_RENDER_TIMEOUT": "soon"})); err == nil {
		t.Error("expected error for bad timeout")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.DPI = 0
	cfg.RenderTimeout = -time.Second
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "dpi must be positive") || !strings.Contains(err.Error(), "render timeout must be positive") {
		t.Errorf("expected both problems reported, got %v", err)
	}
}
