package session

import (
	"context"

	"github.com/VantageDataChat/slidesmith/internal/validate"
)

// SlideImage renders a slide to PNG. A nil dpi uses the renderer default.
func (s *Session) SlideImage(ctx context.Context, slideIndex int, dpi *int) (*ImageData, error) {
	if _, err := s.slideAt(slideIndex); err != nil {
		return nil, err
	}
	if err := validate.Check(validate.P("dpi", dpi, validate.InRange(1, 2400, "must be between 1 and 2400"))); err != nil {
		return nil, classify(err, "")
	}
	want := s.renderer.DPI()
	if dpi != nil {
		want = *dpi
	}
	png, err := s.renderer.PNG(ctx, s.pres, slideIndex, want)
	if err != nil {
		s.logger.Warn("session.render_failed", "slide_index", slideIndex, "error", err.Error())
		return nil, classify(err, "Failed to render slide")
	}
	return &ImageData{SlideIndex: slideIndex, DPI: want, MimeType: "image/png", Data: png}, nil
}

// SlideSVG returns the slide as SVG with provenance text removed.
func (s *Session) SlideSVG(slideIndex int) (*SVGResult, error) {
	if _, err := s.slideAt(slideIndex); err != nil {
		return nil, err
	}
	svg, err := s.renderer.SVG(s.pres, slideIndex)
	if err != nil {
		return nil, classify(err, "Failed to export slide")
	}
	return &SVGResult{SlideIndex: slideIndex, SVG: string(svg)}, nil
}
