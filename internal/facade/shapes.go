package facade

import (
	"slices"
	"strings"

	"github.com/VantageDataChat/slidesmith"
)

// shapeCodes maps tool-facing shape names to MSO AutoShape codes. The
// engine resolves the code to DrawingML preset geometry.
var shapeCodes = map[string]int{
	"rectangle":          slidesmith.MSORectangle,
	"rounded_rectangle":  slidesmith.MSORoundedRectangle,
	"oval":               slidesmith.MSOOval,
	"diamond":            slidesmith.MSODiamond,
	"triangle":           slidesmith.MSOIsoscelesTriangle,
	"right_triangle":     slidesmith.MSORightTriangle,
	"pentagon":           slidesmith.MSORegularPentagon,
	"hexagon":            slidesmith.MSOHexagon,
	"heptagon":           slidesmith.MSOHeptagon,
	"octagon":            slidesmith.MSOOctagon,
	"star":               slidesmith.MSOStar5Point,
	"arrow":              slidesmith.MSORightArrow,
	"cloud":              slidesmith.MSOCloud,
	"heart":              slidesmith.MSOHeart,
	"lightning_bolt":     slidesmith.MSOLightningBolt,
	"sun":                slidesmith.MSOSun,
	"moon":               slidesmith.MSOMoon,
	"smiley_face":        slidesmith.MSOSmileyFace,
	"no_symbol":          slidesmith.MSONoSymbol,
	"flowchart_process":  slidesmith.MSOFlowchartProcess,
	"flowchart_decision": slidesmith.MSOFlowchartDecision,
	"flowchart_data":     slidesmith.MSOFlowchartData,
	"flowchart_document": slidesmith.MSOFlowchartDocument,
}

// ShapeTypeNames returns the accepted shape names, sorted.
func ShapeTypeNames() []string {
	names := make([]string, 0, len(shapeCodes))
	for n := range shapeCodes {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// ShapeCode resolves a shape name, case-insensitively, to its MSO code.
func ShapeCode(name string) (int, error) {
	code, ok := shapeCodes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, argErrorf("Unsupported shape type: '%s'. Available shape types: %s", name, strings.Join(ShapeTypeNames(), ", "))
	}
	return code, nil
}

// ShapeStyle carries optional paint for a new auto shape.
type ShapeStyle struct {
	Fill      *slidesmith.Color
	Line      *slidesmith.Color
	LineWidth *float64 // points
}

// IsEmpty reports whether no paint was requested.
func (s ShapeStyle) IsEmpty() bool {
	return s.Fill == nil && s.Line == nil && s.LineWidth == nil
}

// AddShape places a preset-geometry shape on slide. Nothing is added when the
// name does not resolve.
func AddShape(slide *slidesmith.Slide, name string, r Rect, style ShapeStyle) (*slidesmith.AutoShape, error) {
	code, err := ShapeCode(name)
	if err != nil {
		return nil, err
	}
	preset, err := slidesmith.AutoShapeTypeFromMSO(code)
	if err != nil {
		return nil, err
	}
	s := slide.CreateAutoShape()
	s.SetAutoShapeType(preset)
	place(s, r)
	FormatShape(s, style)
	return s, nil
}

// FormatShape applies fill and outline. A width without a colour keeps the
// current outline colour, or black when there is none.
func FormatShape(s *slidesmith.AutoShape, style ShapeStyle) {
	if style.Fill != nil {
		s.SetSolidFill(*style.Fill)
	}
	if style.Line == nil && style.LineWidth == nil {
		return
	}
	border := s.GetBorder()
	color := border.Color
	if style.Line != nil {
		color = *style.Line
	}
	if color.IsZero() {
		color = slidesmith.ColorBlack
	}
	width := border.Width
	if style.LineWidth != nil {
		width = slidesmith.Point(*style.LineWidth)
	}
	if width == 0 {
		width = slidesmith.Point(1)
	}
	border.SetSolid(color, width)
}
