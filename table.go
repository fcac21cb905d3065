package slidesmith

import (
	"errors"
	"fmt"
	"strings"
)

// TableShape represents a table shape.
type TableShape struct {
	BaseShape
	rows      [][]*TableCell
	numRows   int
	numCols   int
	colWidths []int64 // explicit gridCol widths in EMU; nil means evenly split
	firstRow  bool
	bandRow   bool
}

func (t *TableShape) GetType() ShapeType { return ShapeTypeTable }

// NewTableShape creates a new table shape.
func NewTableShape(rows, cols int) *TableShape {
	table := &TableShape{
		numRows:  rows,
		numCols:  cols,
		rows:     make([][]*TableCell, rows),
		firstRow: true,
		bandRow:  true,
	}
	for i := 0; i < rows; i++ {
		table.rows[i] = make([]*TableCell, cols)
		for j := 0; j < cols; j++ {
			table.rows[i][j] = NewTableCell()
		}
	}
	return table
}

// GetCell returns a cell at the given row and column, or nil when out of range.
func (t *TableShape) GetCell(row, col int) *TableCell {
	if row < 0 || row >= t.numRows || col < 0 || col >= t.numCols {
		return nil
	}
	return t.rows[row][col]
}

// Cell is GetCell with an error describing which index is out of range.
func (t *TableShape) Cell(row, col int) (*TableCell, error) {
	if row < 0 || row >= t.numRows {
		return nil, fmt.Errorf("row %d: %w (0-%d)", row, ErrOutOfRange, t.numRows-1)
	}
	if col < 0 || col >= t.numCols {
		return nil, fmt.Errorf("column %d: %w (0-%d)", col, ErrOutOfRange, t.numCols-1)
	}
	return t.rows[row][col], nil
}

// GetNumRows returns the number of rows.
func (t *TableShape) GetNumRows() int { return t.numRows }

// GetNumCols returns the number of columns.
func (t *TableShape) GetNumCols() int { return t.numCols }

// SetColumnWidths sets explicit column widths in EMU. The slice length must match the column count.
func (t *TableShape) SetColumnWidths(widths []int64) error {
	if len(widths) != t.numCols {
		return fmt.Errorf("got %d column widths for %d columns", len(widths), t.numCols)
	}
	t.colWidths = append([]int64(nil), widths...)
	return nil
}

// ColumnWidths returns the effective width of every column in EMU.
func (t *TableShape) ColumnWidths() []int64 {
	if len(t.colWidths) == t.numCols {
		return t.colWidths
	}
	out := make([]int64, t.numCols)
	if t.numCols == 0 {
		return out
	}
	w := t.width / int64(t.numCols)
	for i := range out {
		out[i] = w
	}
	out[t.numCols-1] += t.width - w*int64(t.numCols)
	return out
}

// RowHeight returns the height of every row in EMU.
func (t *TableShape) RowHeight() int64 {
	if t.numRows == 0 {
		return 0
	}
	return t.height / int64(t.numRows)
}

// MergeCells merges the inclusive rectangle into its top-left cell.
func (t *TableShape) MergeCells(row1, col1, row2, col2 int) error {
	if _, err := t.Cell(row1, col1); err != nil {
		return err
	}
	if _, err := t.Cell(row2, col2); err != nil {
		return err
	}
	if row2 < row1 || col2 < col1 {
		return errors.New("merge range must run from top-left to bottom-right")
	}
	origin := t.rows[row1][col1]
	origin.gridSpan = col2 - col1 + 1
	origin.rowSpan = row2 - row1 + 1
	for r := row1; r <= row2; r++ {
		for c := col1; c <= col2; c++ {
			if r == row1 && c == col1 {
				continue
			}
			cell := t.rows[r][c]
			cell.hMerge = c > col1
			cell.vMerge = r > row1
		}
	}
	return nil
}

// TableCell represents a table cell.
type TableCell struct {
	paragraphs []*Paragraph
	fill       *Fill
	anchor     TextAnchorType
	gridSpan   int
	rowSpan    int
	hMerge     bool // covered by a horizontal merge
	vMerge     bool // covered by a vertical merge
}

// NewTableCell creates a new table cell.
func NewTableCell() *TableCell {
	return &TableCell{
		paragraphs: []*Paragraph{NewParagraph()},
		fill:       NewFill(),
		gridSpan:   1,
		rowSpan:    1,
	}
}

// SetText replaces the cell text with a single run.
func (tc *TableCell) SetText(text string) *TableCell {
	tc.paragraphs = []*Paragraph{NewParagraph()}
	tc.paragraphs[0].CreateTextRun(text).font = inheritedFont()
	return tc
}

// Text returns the plain cell text.
func (tc *TableCell) Text() string {
	return strings.Join(paragraphsText(tc.paragraphs), "\n")
}

// GetParagraphs returns the cell paragraphs.
func (tc *TableCell) GetParagraphs() []*Paragraph { return tc.paragraphs }

// GetFill returns the cell fill.
func (tc *TableCell) GetFill() *Fill { return tc.fill }

// GetAnchor returns the vertical text anchor.
func (tc *TableCell) GetAnchor() TextAnchorType { return tc.anchor }

// IsMergeContinuation reports whether the cell is hidden under another cell's merge.
func (tc *TableCell) IsMergeContinuation() bool { return tc.hMerge || tc.vMerge }

// CellStyle is a set of optional formatting changes for a cell. Nil fields are left untouched.
type CellStyle struct {
	FontSize       *int
	FontName       *string
	Bold           *bool
	Italic         *bool
	Color          *Color
	Background     *Color
	Alignment      *HorizontalAlignment
	VerticalAnchor *TextAnchorType
}

// HasTextFormat reports whether the style touches runs or paragraph alignment.
func (s CellStyle) HasTextFormat() bool {
	return s.FontSize != nil || s.FontName != nil || s.Bold != nil || s.Italic != nil ||
		s.Color != nil || s.Alignment != nil
}

// IsEmpty reports whether the style changes nothing.
func (s CellStyle) IsEmpty() bool {
	return !s.HasTextFormat() && s.Background == nil && s.VerticalAnchor == nil
}

func (s CellStyle) check() error {
	if s.FontSize != nil && *s.FontSize <= 0 {
		return fmt.Errorf("font size must be positive, got %d", *s.FontSize)
	}
	if s.Color != nil && !isValidARGB(s.Color.ARGB) {
		return fmt.Errorf("invalid font color %q", s.Color.ARGB)
	}
	if s.Background != nil && !isValidARGB(s.Background.ARGB) {
		return fmt.Errorf("invalid background color %q", s.Background.ARGB)
	}
	return nil
}

// ApplyStyle applies every aspect of s or none of them.
func (tc *TableCell) ApplyStyle(s CellStyle) error {
	if err := s.check(); err != nil {
		return err
	}
	if s.HasTextFormat() && tc.IsMergeContinuation() {
		return ErrMergedCell
	}
	if s.HasTextFormat() {
		tc.applyTextFormat(s)
	}
	if s.Background != nil {
		tc.fill = NewFill().SetSolid(*s.Background)
	}
	if s.VerticalAnchor != nil {
		tc.anchor = *s.VerticalAnchor
	}
	return nil
}

// ApplyTextFormat applies only the font and alignment fields of s.
func (tc *TableCell) ApplyTextFormat(s CellStyle) error {
	if err := s.check(); err != nil {
		return err
	}
	if tc.IsMergeContinuation() {
		return ErrMergedCell
	}
	tc.applyTextFormat(s)
	return nil
}

// SetBackground fills the cell with a solid color.
func (tc *TableCell) SetBackground(c Color) error {
	if !isValidARGB(c.ARGB) {
		return fmt.Errorf("invalid background color %q", c.ARGB)
	}
	tc.fill = NewFill().SetSolid(c)
	return nil
}

// SetVerticalAnchor sets where text sits inside the cell.
func (tc *TableCell) SetVerticalAnchor(a TextAnchorType) error {
	switch a {
	case TextAnchorTop, TextAnchorMiddle, TextAnchorBottom:
		tc.anchor = a
		return nil
	}
	return fmt.Errorf("invalid vertical anchor %q", a)
}

func (tc *TableCell) applyTextFormat(s CellStyle) {
	if len(tc.paragraphs) == 0 {
		tc.paragraphs = []*Paragraph{NewParagraph()}
	}
	for _, para := range tc.paragraphs {
		if s.Alignment != nil {
			para.alignment.SetHorizontal(*s.Alignment)
		}
		runs := para.TextRuns()
		if len(runs) == 0 {
			tr := para.CreateTextRun("")
			tr.font = inheritedFont()
			runs = []*TextRun{tr}
		}
		for _, tr := range runs {
			f := tr.font
			if s.FontSize != nil {
				f.SetSize(*s.FontSize)
			}
			if s.FontName != nil {
				f.SetName(*s.FontName)
			}
			if s.Bold != nil {
				f.SetBold(*s.Bold)
			}
			if s.Italic != nil {
				f.SetItalic(*s.Italic)
			}
			if s.Color != nil {
				f.SetColor(*s.Color)
			}
		}
	}
}
