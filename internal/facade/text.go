package facade

import (
	"strings"

	"github.com/VantageDataChat/slidesmith"
)

// TextFormat is an optional set of font and paragraph settings. Nil fields
// are left as they are.
type TextFormat struct {
	FontSize  *int
	FontName  *string
	Bold      *bool
	Italic    *bool
	Color     *slidesmith.Color
	Alignment *slidesmith.HorizontalAlignment
}

// IsEmpty reports whether no setting was requested.
func (f TextFormat) IsEmpty() bool {
	return f.FontSize == nil && f.FontName == nil && f.Bold == nil && f.Italic == nil &&
		f.Color == nil && f.Alignment == nil
}

// Apply formats every run of every paragraph.
func (f TextFormat) Apply(paragraphs []*slidesmith.Paragraph) {
	for _, para := range paragraphs {
		if f.Alignment != nil {
			para.GetAlignment().SetHorizontal(*f.Alignment)
		}
		for _, tr := range para.TextRuns() {
			font := tr.GetFont()
			if font == nil {
				font = slidesmith.NewFont()
				tr.SetFont(font)
			}
			if f.FontSize != nil {
				font.SetSize(*f.FontSize)
			}
			if f.FontName != nil {
				font.SetName(*f.FontName)
			}
			if f.Bold != nil {
				font.SetBold(*f.Bold)
			}
			if f.Italic != nil {
				font.SetItalic(*f.Italic)
			}
			if f.Color != nil {
				font.SetColor(*f.Color)
			}
		}
	}
}

// CellStyle converts the text settings to an engine cell style.
func (f TextFormat) CellStyle() slidesmith.CellStyle {
	return slidesmith.CellStyle{
		FontSize:  f.FontSize,
		FontName:  f.FontName,
		Bold:      f.Bold,
		Italic:    f.Italic,
		Color:     f.Color,
		Alignment: f.Alignment,
	}
}

// AddTextbox places a text box holding text, one paragraph per line.
func AddTextbox(slide *slidesmith.Slide, r Rect, text string, format TextFormat) *slidesmith.RichTextShape {
	tb := slide.CreateRichTextShape()
	place(tb, r)
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			tb.CreateParagraph()
		}
		tb.CreateTextRun(line)
	}
	if !format.IsEmpty() {
		format.Apply(tb.GetParagraphs())
	}
	return tb
}

// PopulatePlaceholder replaces the text of the placeholder with layout idx.
func PopulatePlaceholder(slide *slidesmith.Slide, idx int, text string) error {
	ph, err := slide.Placeholder(idx)
	if err != nil {
		return err
	}
	ph.SetText(text)
	return nil
}

// AddBulletPoints appends one paragraph per bullet to the placeholder with
// layout idx, keeping order.
func AddBulletPoints(slide *slidesmith.Slide, idx int, bullets []string) error {
	ph, err := slide.Placeholder(idx)
	if err != nil {
		return err
	}
	for _, b := range bullets {
		ph.AppendParagraph(b)
	}
	return nil
}

// PlaceholderInfo describes a placeholder for tool output.
type PlaceholderInfo struct {
	Idx  int    `json:"idx"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// Placeholders lists the slide's placeholders in z-order.
func Placeholders(slide *slidesmith.Slide) []PlaceholderInfo {
	phs := slide.Placeholders()
	out := make([]PlaceholderInfo, 0, len(phs))
	for _, ph := range phs {
		out = append(out, PlaceholderInfo{
			Idx:  ph.GetPlaceholderIndex(),
			Type: string(ph.GetPlaceholderType()),
			Name: ph.GetName(),
		})
	}
	return out
}

// SetTitle writes the slide title. It reports false when the layout has no
// title placeholder.
func SetTitle(slide *slidesmith.Slide, title string) bool {
	ph := slide.TitlePlaceholder()
	if ph == nil {
		return false
	}
	ph.SetText(title)
	return true
}
