package slidesmith

import "errors"

var (
	// ErrOutOfRange is returned for slide, shape, row or column indices outside their collection.
	ErrOutOfRange = errors.New("index out of range")
	// ErrShapeNotFound is returned when a shape id or placeholder idx is absent from a slide.
	ErrShapeNotFound = errors.New("shape not found")
	// ErrMergedCell is returned when text formatting targets a cell covered by a merge.
	ErrMergedCell = errors.New("cell is covered by a merge")
	// ErrNoImageData is returned for pictures without bytes.
	ErrNoImageData = errors.New("image has no data")
)
