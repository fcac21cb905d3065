package session

import (
	"fmt"

	"github.com/VantageDataChat/slidesmith/internal/facade"
)

// MoveElement repositions a shape on the current slide, or on slideIndex
// when given, and reports where it landed after EMU rounding.
func (s *Session) MoveElement(shapeIndex int, left, top float64, slideIndex *int) (*MoveResult, error) {
	if err := s.requireDoc(); err != nil {
		return nil, err
	}
	idx := s.current
	if slideIndex != nil {
		idx = *slideIndex
	}
	slide, err := s.slideAt(idx)
	if err != nil {
		return nil, err
	}
	if _, err := shapeAt(slide, shapeIndex); err != nil {
		return nil, err
	}
	newLeft, newTop, err := facade.MoveShape(slide, shapeIndex, left, top)
	if err != nil {
		return nil, classify(err, "Failed to move shape")
	}
	return &MoveResult{
		Message: fmt.Sprintf("Moved shape %d → (%g\", %g\")", shapeIndex, left, top),
		NewLeft: newLeft,
		NewTop:  newTop,
	}, nil
}

// RemoveElement deletes a shape. Later shapes move down one index.
func (s *Session) RemoveElement(slideIndex, shapeIndex int) (*RemoveResult, error) {
	slide, err := s.slideAt(slideIndex)
	if err != nil {
		return nil, err
	}
	if _, err := shapeAt(slide, shapeIndex); err != nil {
		return nil, err
	}
	if err := slide.RemoveShape(shapeIndex); err != nil {
		return nil, classify(err, "Failed to remove shape")
	}
	s.logger.Info("session.remove_element", "slide_index", slideIndex, "shape_index", shapeIndex)
	return &RemoveResult{
		Message:    fmt.Sprintf("Removed shape %d from slide %d", shapeIndex, slideIndex),
		ShapeCount: slide.GetShapeCount(),
	}, nil
}
