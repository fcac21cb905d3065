package slidesmith

import (
	"fmt"
	"strings"
)

// Validate checks the presentation for structural issues and returns an error
// describing all problems found, or nil if the presentation can be written.
func (p *Presentation) Validate() error {
	var errs []string

	if p.properties == nil {
		errs = append(errs, "document properties are nil")
	}
	if p.layout == nil {
		errs = append(errs, "document layout is nil")
	} else {
		if p.layout.CX <= 0 {
			errs = append(errs, "layout width (CX) must be positive")
		}
		if p.layout.CY <= 0 {
			errs = append(errs, "layout height (CY) must be positive")
		}
	}
	if len(p.layouts) == 0 {
		errs = append(errs, "presentation must have at least one slide layout")
	}
	if len(p.slides) == 0 {
		errs = append(errs, "presentation must have at least one slide")
	}

	for i, slide := range p.slides {
		prefix := fmt.Sprintf("slide %d", i+1)
		if slide.layoutIndex < 0 || slide.layoutIndex >= len(p.layouts) {
			errs = append(errs, fmt.Sprintf("%s: layout index %d out of range", prefix, slide.layoutIndex))
		}
		for _, e := range validateSlide(slide) {
			errs = append(errs, prefix+": "+e)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func validateSlide(s *Slide) []string {
	var errs []string
	ids := make(map[int]bool, len(s.shapes))
	for j, shape := range s.shapes {
		prefix := fmt.Sprintf("shape %d", j)
		if shape == nil {
			errs = append(errs, prefix+": shape is nil")
			continue
		}
		if ids[shape.GetID()] {
			errs = append(errs, fmt.Sprintf("%s: duplicate shape id %d", prefix, shape.GetID()))
		}
		ids[shape.GetID()] = true
		if shape.GetWidth() < 0 {
			errs = append(errs, prefix+": width is negative")
		}
		if shape.GetHeight() < 0 {
			errs = append(errs, prefix+": height is negative")
		}

		switch sh := shape.(type) {
		case *DrawingShape:
			if len(sh.data) == 0 {
				errs = append(errs, prefix+": picture has no image data")
			}
			if sh.mimeType != "" && !isValidImageMime(sh.mimeType) {
				errs = append(errs, prefix+": unsupported image MIME type: "+sh.mimeType)
			}
		case *TableShape:
			if sh.numRows <= 0 || sh.numCols <= 0 {
				errs = append(errs, prefix+": table must have at least 1 row and 1 column")
			}
			if sh.numRows > 0 && sh.numCols > 0 && len(sh.rows) != sh.numRows {
				errs = append(errs, prefix+": table row count mismatch")
			}
		case *ChartShape:
			errs = append(errs, validateChart(sh, prefix)...)
		case *RichTextShape:
			if len(sh.paragraphs) == 0 {
				errs = append(errs, prefix+": text box has no paragraphs")
			}
			errs = append(errs, validateParagraphs(sh.paragraphs, prefix)...)
		case *PlaceholderShape:
			if len(sh.paragraphs) == 0 {
				errs = append(errs, prefix+": placeholder shape has no paragraphs")
			}
			if sh.phType == "" {
				errs = append(errs, prefix+": placeholder type is empty")
			}
			errs = append(errs, validateParagraphs(sh.paragraphs, prefix)...)
		case *AutoShape:
			if sh.shapeType == "" {
				errs = append(errs, prefix+": auto shape has no geometry")
			}
		}
	}
	return errs
}

func validateChart(c *ChartShape, prefix string) []string {
	ct := c.plotArea.chartType
	if ct == nil {
		return []string{prefix + ": chart shape has no chart type set"}
	}
	series := getChartSeries(ct)
	if len(series) == 0 {
		return []string{prefix + ": chart has no series"}
	}
	var errs []string
	cats := getCategories(series)
	for i, s := range series {
		if len(s.Values) != len(cats) {
			errs = append(errs, fmt.Sprintf("%s: series %d has %d values for %d categories", prefix, i, len(s.Values), len(cats)))
		}
	}
	return errs
}

// validateParagraphs checks paragraph elements for common issues.
func validateParagraphs(paragraphs []*Paragraph, prefix string) []string {
	var errs []string
	for i, para := range paragraphs {
		if para == nil {
			errs = append(errs, fmt.Sprintf("%s: paragraph %d is nil", prefix, i+1))
			continue
		}
		for k, elem := range para.elements {
			if elem == nil {
				errs = append(errs, fmt.Sprintf("%s: paragraph %d element %d is nil", prefix, i+1, k+1))
			}
		}
	}
	return errs
}
