package slidesmith

import (
	"fmt"
	"io"
	"strings"
)

// Open reads a PPTX file from disk and returns a Presentation.
// This is a convenience wrapper around NewReader + Read.
func Open(path string) (*Presentation, error) {
	reader, err := NewReader(ReaderPowerPoint2007)
	if err != nil {
		return nil, err
	}
	return reader.Read(path)
}

// ReadFrom reads a PPTX from an io.ReaderAt with the given size.
func ReadFrom(r io.ReaderAt, size int64) (*Presentation, error) {
	reader, err := NewReader(ReaderPowerPoint2007)
	if err != nil {
		return nil, err
	}
	return reader.ReadFromReader(r, size)
}

// OpenTemplate opens a PPTX file and drops its slides, keeping its layouts
// and slide size for new slides.
func OpenTemplate(path string) (*Presentation, error) {
	pres, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	pres.slides = make([]*Slide, 0)
	return pres, nil
}

// Save writes the presentation to a PPTX file.
// This is a convenience wrapper around NewWriter + Save.
func (p *Presentation) Save(path string) error {
	writer, err := NewWriter(p, WriterPowerPoint2007)
	if err != nil {
		return err
	}
	return writer.Save(path)
}

// WriteTo writes the presentation to a writer in PPTX format.
func (p *Presentation) WriteTo(w io.Writer) error {
	writer, err := NewWriter(p, WriterPowerPoint2007)
	if err != nil {
		return err
	}
	return writer.WriteTo(w)
}

// Close releases the slides and layouts held by the presentation.
func (p *Presentation) Close() error {
	p.slides = nil
	p.layouts = nil
	p.properties = nil
	p.layout = nil
	return nil
}

// ExtractText returns the text of one slide: shape text in order, then notes.
func (s *Slide) ExtractText() string {
	var parts []string
	for _, shape := range s.shapes {
		switch sh := shape.(type) {
		case *PlaceholderShape:
			parts = append(parts, paragraphsText(sh.paragraphs)...)
		case *RichTextShape:
			parts = append(parts, paragraphsText(sh.paragraphs)...)
		case *AutoShape:
			parts = append(parts, sh.text)
		case *TableShape:
			for _, row := range sh.rows {
				for _, cell := range row {
					if !cell.IsMergeContinuation() {
						parts = append(parts, cell.Text())
					}
				}
			}
		case *ChartShape:
			if sh.title.Visible {
				parts = append(parts, sh.title.Text)
			}
		}
	}
	return joinNonEmpty(parts, "\n")
}

// ExtractText returns all text content from the presentation as a single string.
func (p *Presentation) ExtractText() string {
	var parts []string
	for _, slide := range p.slides {
		parts = append(parts, slide.ExtractText())
		parts = append(parts, slide.notes)
	}
	return joinNonEmpty(parts, "\n")
}

func joinNonEmpty(parts []string, sep string) string {
	var result []string
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return strings.Join(result, sep)
}
