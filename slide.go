package slidesmith

import "fmt"

// Slide represents a single slide in a presentation.
type Slide struct {
	name        string
	layout      *SlideLayout
	layoutIndex int
	shapes      []Shape
	background  *Fill
	notes       string
	nextID      int
}

// firstShapeID is the first cNvPr id handed to shapes; id 1 belongs to the spTree group.
const firstShapeID = 2

func newSlide(layoutIndex int, layout *SlideLayout) *Slide {
	s := &Slide{
		layout:      layout,
		layoutIndex: layoutIndex,
		nextID:      firstShapeID,
	}
	if layout != nil {
		for _, lp := range layout.Placeholders {
			s.addShape(lp.newPlaceholderShape())
		}
	}
	return s
}

// addShape appends sh and assigns it the next free id.
func (s *Slide) addShape(sh Shape) {
	b := sh.base()
	if b.id == 0 || s.idTaken(b.id) {
		b.id = s.nextID
	}
	if b.id >= s.nextID {
		s.nextID = b.id + 1
	}
	s.shapes = append(s.shapes, sh)
}

func (s *Slide) idTaken(id int) bool {
	for _, sh := range s.shapes {
		if sh.GetID() == id {
			return true
		}
	}
	return false
}

// GetName returns the slide name.
func (s *Slide) GetName() string { return s.name }

// SetName sets the slide name.
func (s *Slide) SetName(name string) { s.name = name }

// GetLayout returns the layout the slide was created from.
func (s *Slide) GetLayout() *SlideLayout { return s.layout }

// GetLayoutIndex returns the index of the slide's layout within the presentation.
func (s *Slide) GetLayoutIndex() int { return s.layoutIndex }

// GetShapes returns all shapes on the slide in z-order.
func (s *Slide) GetShapes() []Shape { return s.shapes }

// GetShapeCount returns the number of shapes.
func (s *Slide) GetShapeCount() int { return len(s.shapes) }

// GetShape returns the shape at a positional index.
func (s *Slide) GetShape(index int) (Shape, error) {
	if index < 0 || index >= len(s.shapes) {
		return nil, fmt.Errorf("shape %d: %w", index, ErrOutOfRange)
	}
	return s.shapes[index], nil
}

// ShapeByID returns the shape with the given cNvPr id and its current index.
func (s *Slide) ShapeByID(id int) (Shape, int, error) {
	for i, sh := range s.shapes {
		if sh.GetID() == id {
			return sh, i, nil
		}
	}
	return nil, -1, fmt.Errorf("shape id %d: %w", id, ErrShapeNotFound)
}

// RemoveShape deletes the shape at index. Later shapes shift down by one.
func (s *Slide) RemoveShape(index int) error {
	if index < 0 || index >= len(s.shapes) {
		return fmt.Errorf("shape %d: %w", index, ErrOutOfRange)
	}
	s.shapes = append(s.shapes[:index], s.shapes[index+1:]...)
	return nil
}

// AddShape appends an existing shape.
func (s *Slide) AddShape(sh Shape) Shape {
	s.addShape(sh)
	return sh
}

// CreateRichTextShape adds a text box.
func (s *Slide) CreateRichTextShape() *RichTextShape {
	shape := NewRichTextShape()
	s.addShape(shape)
	shape.name = fmt.Sprintf("TextBox %d", shape.id-1)
	return shape
}

// CreateDrawingShape adds a picture.
func (s *Slide) CreateDrawingShape() *DrawingShape {
	shape := NewDrawingShape()
	s.addShape(shape)
	shape.name = fmt.Sprintf("Picture %d", shape.id-1)
	return shape
}

// CreateTableShape adds a rows x cols table.
func (s *Slide) CreateTableShape(rows, cols int) *TableShape {
	shape := NewTableShape(rows, cols)
	s.addShape(shape)
	shape.name = fmt.Sprintf("Table %d", shape.id-1)
	return shape
}

// CreateAutoShape adds a preset-geometry shape.
func (s *Slide) CreateAutoShape() *AutoShape {
	shape := NewAutoShape()
	s.addShape(shape)
	shape.name = fmt.Sprintf("Shape %d", shape.id-1)
	return shape
}

// CreateChartShape adds a chart frame.
func (s *Slide) CreateChartShape() *ChartShape {
	shape := NewChartShape()
	s.addShape(shape)
	shape.name = fmt.Sprintf("Chart %d", shape.id-1)
	return shape
}

// Placeholders returns the slide's placeholder shapes in z-order.
func (s *Slide) Placeholders() []*PlaceholderShape {
	var out []*PlaceholderShape
	for _, sh := range s.shapes {
		if ph, ok := sh.(*PlaceholderShape); ok {
			out = append(out, ph)
		}
	}
	return out
}

// Placeholder returns the placeholder with the layout-assigned idx.
func (s *Slide) Placeholder(idx int) (*PlaceholderShape, error) {
	for _, ph := range s.Placeholders() {
		if ph.phIdx == idx {
			return ph, nil
		}
	}
	return nil, fmt.Errorf("placeholder idx %d: %w", idx, ErrShapeNotFound)
}

// TitlePlaceholder returns the slide's title placeholder, if any.
func (s *Slide) TitlePlaceholder() *PlaceholderShape {
	for _, ph := range s.Placeholders() {
		if ph.phType.IsTitle() {
			return ph
		}
	}
	return nil
}

// Title returns the text of the title placeholder.
func (s *Slide) Title() string {
	if ph := s.TitlePlaceholder(); ph != nil {
		return ph.Text()
	}
	return ""
}

// SetBackground sets a slide background fill.
func (s *Slide) SetBackground(f *Fill) { s.background = f }

// GetNotes returns the speaker notes.
func (s *Slide) GetNotes() string { return s.notes }

// SetNotes sets the speaker notes.
func (s *Slide) SetNotes(notes string) { s.notes = notes }
