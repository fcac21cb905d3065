// Package slidesmith provides an in-memory PowerPoint (.pptx) document model
// with an OOXML writer, a reader, and an SVG exporter for single slides.
//
// A Presentation owns its layouts and slides. Slides are created from a
// layout, which stamps placeholder shapes onto them; further shapes are
// appended with the Slide.Create* methods.
package slidesmith

import (
	"errors"
	"fmt"
)

// Presentation represents an in-memory PowerPoint presentation.
type Presentation struct {
	properties *DocumentProperties
	layout     *DocumentLayout
	layouts    []*SlideLayout
	slides     []*Slide
}

// New creates an empty 4:3 presentation carrying the built-in layouts.
func New() *Presentation {
	layout := NewDocumentLayout()
	return &Presentation{
		properties: NewDocumentProperties(),
		layout:     layout,
		layouts:    DefaultLayouts(layout.CX, layout.CY),
		slides:     make([]*Slide, 0),
	}
}

// GetDocumentProperties returns the document properties.
func (p *Presentation) GetDocumentProperties() *DocumentProperties {
	return p.properties
}

// GetLayout returns the document layout (slide size).
func (p *Presentation) GetLayout() *DocumentLayout {
	return p.layout
}

// SetSlideSize changes the slide size and rescales the built-in layouts.
// It fails once slides exist, since their geometry was derived from the old size.
func (p *Presentation) SetSlideSize(name string) error {
	if len(p.slides) > 0 {
		return errors.New("cannot change slide size after slides were added")
	}
	if err := p.layout.SetLayout(name); err != nil {
		return err
	}
	p.layouts = DefaultLayouts(p.layout.CX, p.layout.CY)
	return nil
}

// GetSlideLayouts returns the layouts in file order.
func (p *Presentation) GetSlideLayouts() []*SlideLayout {
	return p.layouts
}

// GetSlideLayout returns the layout at index.
func (p *Presentation) GetSlideLayout(index int) (*SlideLayout, error) {
	if index < 0 || index >= len(p.layouts) {
		return nil, fmt.Errorf("layout %d: %w", index, ErrOutOfRange)
	}
	return p.layouts[index], nil
}

// CreateSlide appends a slide built from the layout at layoutIndex.
func (p *Presentation) CreateSlide(layoutIndex int) (*Slide, error) {
	layout, err := p.GetSlideLayout(layoutIndex)
	if err != nil {
		return nil, err
	}
	slide := newSlide(layoutIndex, layout)
	p.slides = append(p.slides, slide)
	return slide, nil
}

// GetSlide returns a slide by index.
func (p *Presentation) GetSlide(index int) (*Slide, error) {
	if index < 0 || index >= len(p.slides) {
		return nil, fmt.Errorf("slide %d: %w", index, ErrOutOfRange)
	}
	return p.slides[index], nil
}

// GetSlideCount returns the number of slides.
func (p *Presentation) GetSlideCount() int {
	return len(p.slides)
}

// RemoveSlideByIndex removes a slide by index.
func (p *Presentation) RemoveSlideByIndex(index int) error {
	if index < 0 || index >= len(p.slides) {
		return fmt.Errorf("slide %d: %w", index, ErrOutOfRange)
	}
	p.slides = append(p.slides[:index], p.slides[index+1:]...)
	return nil
}
