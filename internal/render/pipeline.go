// Package render turns a slide into a PNG: export to SVG, strip provenance
// text, then rasterize with an external tool.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/VantageDataChat/slidesmith"
	"github.com/VantageDataChat/slidesmith/internal/logging"
)

type Stage string

const (
	StageExporting          Stage = "exporting"
	StageWatermarkStripping Stage = "watermark_stripping"
	StageRasterizing        Stage = "rasterizing"
	StageDone               Stage = "done"
	StageFailed             Stage = "failed"
)

// StageError records which pipeline stage failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("render %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Exporter serializes one slide to SVG.
type Exporter interface {
	ExportSVG(p *slidesmith.Presentation, slideIndex int) ([]byte, error)
}

// EngineExporter uses the document engine's SVG writer with a shared font cache.
type EngineExporter struct {
	opts slidesmith.SVGOptions
}

func NewEngineExporter(fontDirs []string, embedFonts bool) *EngineExporter {
	opts := *slidesmith.DefaultSVGOptions()
	opts.EmbedFonts = embedFonts
	opts.FontDirs = fontDirs
	opts.FontCache = slidesmith.NewFontCache(fontDirs...)
	return &EngineExporter{opts: opts}
}

func (e *EngineExporter) ExportSVG(p *slidesmith.Presentation, slideIndex int) ([]byte, error) {
	opts := e.opts
	return p.SlideToSVG(slideIndex, &opts)
}

type Pipeline struct {
	exporter   Exporter
	rasterizer Rasterizer
	markers    []string
	dpi        int
	logger     *slog.Logger
}

type Option func(*Pipeline)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithExporter(e Exporter) Option {
	return func(p *Pipeline) { p.exporter = e }
}

func WithRasterizer(r Rasterizer) Option {
	return func(p *Pipeline) { p.rasterizer = r }
}

// WithMarkers replaces the provenance markers searched for in text nodes.
func WithMarkers(markers ...string) Option {
	return func(p *Pipeline) { p.markers = append([]string(nil), markers...) }
}

// WithDPI sets the default rasterization density.
func WithDPI(dpi int) Option {
	return func(p *Pipeline) {
		if dpi > 0 {
			p.dpi = dpi
		}
	}
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		markers: []string{"Aspose", slidesmith.ProvenanceMark},
		dpi:     300,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.exporter == nil {
		p.exporter = NewEngineExporter(nil, true)
	}
	if p.rasterizer == nil {
		p.rasterizer = &CommandRasterizer{Binary: "inkscape", Timeout: 60 * time.Second}
	}
	return p
}

func (p *Pipeline) DPI() int { return p.dpi }

// SVG exports the slide and strips provenance text.
func (p *Pipeline) SVG(pres *slidesmith.Presentation, slideIndex int) ([]byte, error) {
	log := p.logger.With("slide_index", slideIndex)

	log.Debug("render.state", "state", StageExporting)
	raw, err := p.exporter.ExportSVG(pres, slideIndex)
	if err != nil {
		return nil, p.fail(log, StageExporting, err)
	}

	log.Debug("render.state", "state", StageWatermarkStripping, "svg_bytes", len(raw))
	clean, removed, err := StripWatermarks(raw, p.markers)
	if err != nil {
		return nil, p.fail(log, StageWatermarkStripping, err)
	}
	log.Debug("render.watermarks_removed", "count", removed)
	return clean, nil
}

// PNG runs the full pipeline. dpi <= 0 uses the pipeline default.
func (p *Pipeline) PNG(ctx context.Context, pres *slidesmith.Presentation, slideIndex, dpi int) ([]byte, error) {
	if dpi <= 0 {
		dpi = p.dpi
	}
	clean, err := p.SVG(pres, slideIndex)
	if err != nil {
		return nil, err
	}
	return p.rasterize(ctx, clean, slideIndex, dpi)
}

// RasterizeSVG strips and rasterizes an SVG that did not come from the engine.
func (p *Pipeline) RasterizeSVG(ctx context.Context, svg []byte, dpi int) ([]byte, error) {
	if dpi <= 0 {
		dpi = p.dpi
	}
	log := p.logger.With("slide_index", -1)
	log.Debug("render.state", "state", StageWatermarkStripping, "svg_bytes", len(svg))
	clean, _, err := StripWatermarks(svg, p.markers)
	if err != nil {
		return nil, p.fail(log, StageWatermarkStripping, err)
	}
	return p.rasterize(ctx, clean, -1, dpi)
}

func (p *Pipeline) rasterize(ctx context.Context, svg []byte, slideIndex, dpi int) ([]byte, error) {
	log := p.logger.With("slide_index", slideIndex)
	log.Debug("render.state", "state", StageRasterizing, "rasterizer", p.rasterizer.Name(), "dpi", dpi)
	start := time.Now()
	png, err := p.rasterizer.Rasterize(ctx, svg, dpi)
	if err != nil {
		return nil, p.fail(log, StageRasterizing, err)
	}
	log.Info("render.state", "state", StageDone, "png_bytes", len(png), "elapsed", time.Since(start))
	return png, nil
}

func (p *Pipeline) fail(log *slog.Logger, stage Stage, err error) error {
	log.Warn("render.state", "state", StageFailed, "stage", stage, "error", err.Error())
	return &StageError{Stage: stage, Err: err}
}
