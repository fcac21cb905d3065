package facade

import (
	"fmt"

	"github.com/VantageDataChat/slidesmith"
)

// Rect is a shape frame in inches.
type Rect struct {
	Left, Top, Width, Height float64
}

type placeable interface {
	SetPosition(x, y int64) *slidesmith.BaseShape
	SetSize(w, h int64) *slidesmith.BaseShape
}

func place(s placeable, r Rect) {
	s.SetPosition(slidesmith.Inch(r.Left), slidesmith.Inch(r.Top))
	s.SetSize(slidesmith.Inch(r.Width), slidesmith.Inch(r.Height))
}

// Frame reports a shape's geometry in inches.
func Frame(s slidesmith.Shape) Rect {
	return Rect{
		Left:   slidesmith.EMUToInch(s.GetOffsetX()),
		Top:    slidesmith.EMUToInch(s.GetOffsetY()),
		Width:  slidesmith.EMUToInch(s.GetWidth()),
		Height: slidesmith.EMUToInch(s.GetHeight()),
	}
}

// MoveShape repositions a shape and returns where it actually landed after
// EMU rounding.
func MoveShape(slide *slidesmith.Slide, index int, left, top float64) (float64, float64, error) {
	sh, err := slide.GetShape(index)
	if err != nil {
		return 0, 0, err
	}
	p, ok := sh.(placeable)
	if !ok {
		return 0, 0, fmt.Errorf("shape %d cannot be moved", index)
	}
	p.SetPosition(slidesmith.Inch(left), slidesmith.Inch(top))
	f := Frame(sh)
	return f.Left, f.Top, nil
}

// ArgumentError is a caller mistake detected before the document changes.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string { return e.Msg }

func argErrorf(format string, args ...any) error {
	return &ArgumentError{Msg: fmt.Sprintf(format, args...)}
}

// RGB converts a validated colour triple to an engine colour.
func RGB(c []int) slidesmith.Color {
	return slidesmith.NewColorRGB(uint8(c[0]), uint8(c[1]), uint8(c[2]))
}
