package session

import (
	"fmt"

	"github.com/VantageDataChat/slidesmith"
	"github.com/VantageDataChat/slidesmith/internal/facade"
	"github.com/VantageDataChat/slidesmith/internal/validate"
)

type TableRequest struct {
	SlideIndex int        `json:"slide_index"`
	Rows       int        `json:"rows"`
	Cols       int        `json:"cols"`
	Left       float64    `json:"left"`
	Top        float64    `json:"top"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Data       [][]string `json:"data,omitempty"`
}

func (s *Session) AddTable(r TableRequest) (*ShapeResult, error) {
	if err := s.requireDoc(); err != nil {
		return nil, err
	}
	if err := validate.Check(
		validate.P("rows", r.Rows, validate.Positive("must be a positive integer")),
		validate.P("cols", r.Cols, validate.Positive("must be a positive integer")),
		validate.P("left", r.Left, validate.NonNegative("must be non-negative")),
		validate.P("top", r.Top, validate.NonNegative("must be non-negative")),
		validate.P("width", r.Width, validate.Positive("must be positive")),
		validate.P("height", r.Height, validate.Positive("must be positive")),
	); err != nil {
		return nil, classify(err, "")
	}
	slide, err := s.slideAt(r.SlideIndex)
	if err != nil {
		return nil, err
	}
	table := facade.AddTable(slide, r.Rows, r.Cols, facade.Rect{Left: r.Left, Top: r.Top, Width: r.Width, Height: r.Height})
	res := shapeResult(slide, table, fmt.Sprintf("Added %dx%d table to slide %d", r.Rows, r.Cols, r.SlideIndex))
	if len(r.Data) > 0 {
		res.Warnings = facade.FillTable(table, r.Data)
	}
	return &res, nil
}

// CellFormatRequest styles one table cell. Nil fields are left unchanged.
type CellFormatRequest struct {
	SlideIndex        int     `json:"slide_index"`
	ShapeIndex        int     `json:"shape_index"`
	Row               int     `json:"row"`
	Col               int     `json:"col"`
	FontSize          *int    `json:"font_size,omitempty"`
	FontName          *string `json:"font_name,omitempty"`
	Bold              *bool   `json:"bold,omitempty"`
	Italic            *bool   `json:"italic,omitempty"`
	Color             []int   `json:"color,omitempty"`
	BgColor           []int   `json:"bg_color,omitempty"`
	Alignment         *string `json:"alignment,omitempty"`
	VerticalAlignment *string `json:"vertical_alignment,omitempty"`
}

func (r CellFormatRequest) format() (facade.CellFormat, error) {
	if err := validate.Check(
		validate.P("font_size", r.FontSize, fontSizeRule),
		validate.P("alignment", r.Alignment, validate.InList(horizontalAlignments, "")),
		validate.P("vertical_alignment", r.VerticalAlignment, validate.InList(verticalAlignments, "")),
		validate.P("color", optRGB(r.Color), validate.ValidRGB()),
		validate.P("bg_color", optRGB(r.BgColor), validate.ValidRGB()),
	); err != nil {
		return facade.CellFormat{}, err
	}
	align, err := alignmentOf(r.Alignment)
	if err != nil {
		return facade.CellFormat{}, err
	}
	f := facade.CellFormat{
		Text: facade.TextFormat{
			FontSize:  r.FontSize,
			FontName:  r.FontName,
			Bold:      r.Bold,
			Italic:    r.Italic,
			Color:     colorOf(r.Color),
			Alignment: align,
		},
		Background: colorOf(r.BgColor),
	}
	if r.VerticalAlignment != nil {
		anchor, err := slidesmith.ParseTextAnchor(*r.VerticalAlignment)
		if err != nil {
			return facade.CellFormat{}, &validate.FieldError{Param: "vertical_alignment", Message: "must be one of top, middle, bottom"}
		}
		f.Vertical = &anchor
	}
	return f, nil
}

func (s *Session) tableAt(slide *slidesmith.Slide, shapeIndex int) (*slidesmith.TableShape, error) {
	sh, err := shapeAt(slide, shapeIndex)
	if err != nil {
		return nil, err
	}
	table, ok := sh.(*slidesmith.TableShape)
	if !ok {
		return nil, errorf(KindInvalidArgument, "Shape at index %d is not a table", shapeIndex)
	}
	return table, nil
}

func shapeAt(slide *slidesmith.Slide, index int) (slidesmith.Shape, error) {
	n := slide.GetShapeCount()
	if index < 0 || index >= n {
		return nil, errorf(KindOutOfRange, "Invalid shape index: %d. Available shapes: 0-%d", index, n-1)
	}
	sh, err := slide.GetShape(index)
	if err != nil {
		return nil, classify(err, "")
	}
	return sh, nil
}

// FormatTableCell applies every requested aspect at once and falls back to
// applying them one by one. Aspects that still fail become warnings.
func (s *Session) FormatTableCell(r CellFormatRequest) (*Outcome, error) {
	slide, err := s.slideAt(r.SlideIndex)
	if err != nil {
		return nil, err
	}
	if _, err := shapeAt(slide, r.ShapeIndex); err != nil {
		return nil, err
	}
	format, err := r.format()
	if err != nil {
		return nil, classify(err, "")
	}
	table, err := s.tableAt(slide, r.ShapeIndex)
	if err != nil {
		return nil, err
	}
	if r.Row < 0 || r.Row >= table.GetNumRows() {
		return nil, errorf(KindOutOfRange, "Invalid row index: %d. Available rows: 0-%d", r.Row, table.GetNumRows()-1)
	}
	if r.Col < 0 || r.Col >= table.GetNumCols() {
		return nil, errorf(KindOutOfRange, "Invalid column index: %d. Available columns: 0-%d", r.Col, table.GetNumCols()-1)
	}
	cell, err := table.Cell(r.Row, r.Col)
	if err != nil {
		return nil, classify(err, "")
	}
	warnings, err := facade.FormatCell(cell, format)
	if err != nil {
		s.logger.Warn("session.format_cell_failed", "row", r.Row, "col", r.Col, "error", err.Error())
		return nil, &Error{Kind: KindInternal, Msg: err.Error(), Err: err}
	}
	return &Outcome{
		Message: fmt.Sprintf("Formatted cell at row %d, column %d in table at shape index %d on slide %d",
			r.Row, r.Col, r.ShapeIndex, r.SlideIndex),
		Warnings: warnings,
	}, nil
}
