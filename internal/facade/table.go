package facade

import (
	"fmt"

	"github.com/VantageDataChat/slidesmith"
)

// AddTable places a rows x cols table on slide.
func AddTable(slide *slidesmith.Slide, rows, cols int, r Rect) *slidesmith.TableShape {
	t := slide.CreateTableShape(rows, cols)
	place(t, r)
	return t
}

// FillTable writes data row by row. Rows and cells beyond the table are
// skipped and reported as warnings.
func FillTable(t *slidesmith.TableShape, data [][]string) []string {
	var warnings []string
	rows, cols := t.GetNumRows(), t.GetNumCols()
	for r, row := range data {
		if r >= rows {
			warnings = append(warnings, fmt.Sprintf("Ignored excess data: table has only %d rows but data has %d rows", rows, len(data)))
			break
		}
		for c, text := range row {
			if c >= cols {
				warnings = append(warnings, fmt.Sprintf("Ignored excess data in row %d: table has only %d columns", r, cols))
				break
			}
			cell, err := t.Cell(r, c)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("set_cell_text(row=%d, col=%d): %v", r, c, err))
				continue
			}
			cell.SetText(text)
		}
	}
	return warnings
}

// CellFormat is every optional styling aspect of a table cell.
type CellFormat struct {
	Text       TextFormat
	Background *slidesmith.Color
	Vertical   *slidesmith.TextAnchorType
}

// FormatCell applies f to cell in one step. If that fails it retries text
// formatting, background and vertical anchor one by one, returning a warning
// per aspect that still fails. It errors only when every requested aspect
// failed.
func FormatCell(cell *slidesmith.TableCell, f CellFormat) ([]string, error) {
	style := f.Text.CellStyle()
	style.Background = f.Background
	style.VerticalAnchor = f.Vertical
	err := cell.ApplyStyle(style)
	if err == nil || style.IsEmpty() {
		return nil, err
	}

	type aspect struct {
		name string
		run  func() error
	}
	var aspects []aspect
	if style.HasTextFormat() {
		aspects = append(aspects, aspect{"text formatting", func() error { return cell.ApplyTextFormat(style) }})
	}
	if f.Background != nil {
		aspects = append(aspects, aspect{"background color", func() error { return cell.SetBackground(*f.Background) }})
	}
	if f.Vertical != nil {
		aspects = append(aspects, aspect{"vertical alignment", func() error { return cell.SetVerticalAnchor(*f.Vertical) }})
	}

	var warnings []string
	for _, a := range aspects {
		if aerr := a.run(); aerr != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to apply %s: %v", a.name, aerr))
		}
	}
	if len(warnings) == len(aspects) {
		return warnings, fmt.Errorf("Failed to format table cell: %w", err)
	}
	return warnings, nil
}
