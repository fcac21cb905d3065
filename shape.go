package slidesmith

import (
	"bytes"
	"fmt"
	"image"
	"strings"
)

// Shape is the interface that all shapes implement.
type Shape interface {
	GetType() ShapeType
	GetID() int
	GetOffsetX() int64
	GetOffsetY() int64
	GetWidth() int64
	GetHeight() int64
	GetName() string
	// base returns the underlying BaseShape (unexported, internal use only).
	base() *BaseShape
}

// ShapeType represents the type of shape.
type ShapeType int

const (
	ShapeTypeTextBox ShapeType = iota
	ShapeTypePlaceholder
	ShapeTypePicture
	ShapeTypeTable
	ShapeTypeChart
	ShapeTypeAutoShape
)

// String returns the upper-case tag reported to clients (TEXT_BOX, PICTURE, ...).
func (t ShapeType) String() string {
	switch t {
	case ShapeTypeTextBox:
		return "TEXT_BOX"
	case ShapeTypePlaceholder:
		return "PLACEHOLDER"
	case ShapeTypePicture:
		return "PICTURE"
	case ShapeTypeTable:
		return "TABLE"
	case ShapeTypeChart:
		return "CHART"
	case ShapeTypeAutoShape:
		return "AUTO_SHAPE"
	}
	return fmt.Sprintf("ShapeType(%d)", int(t))
}

// BaseShape contains common shape properties.
type BaseShape struct {
	id          int
	name        string
	description string
	offsetX     int64 // in EMU
	offsetY     int64 // in EMU
	width       int64 // in EMU
	height      int64 // in EMU
	rotation    int   // in degrees
	fill        *Fill
	border      *Border
}

func (b *BaseShape) GetID() int        { return b.id }
func (b *BaseShape) GetOffsetX() int64 { return b.offsetX }
func (b *BaseShape) GetOffsetY() int64 { return b.offsetY }
func (b *BaseShape) GetWidth() int64   { return b.width }
func (b *BaseShape) GetHeight() int64  { return b.height }
func (b *BaseShape) GetName() string   { return b.name }
func (b *BaseShape) GetRotation() int  { return b.rotation }
func (b *BaseShape) base() *BaseShape  { return b }

func (b *BaseShape) SetName(n string) *BaseShape  { b.name = n; return b }
func (b *BaseShape) SetRotation(r int) *BaseShape { b.rotation = ((r % 360) + 360) % 360; return b }

// SetPosition sets both offset X and Y in EMU.
func (b *BaseShape) SetPosition(x, y int64) *BaseShape {
	b.offsetX = x
	b.offsetY = y
	return b
}

// SetSize sets both width and height in EMU.
func (b *BaseShape) SetSize(w, h int64) *BaseShape {
	b.width = w
	b.height = h
	return b
}

func (b *BaseShape) GetDescription() string  { return b.description }
func (b *BaseShape) SetDescription(d string) { b.description = d }

func (b *BaseShape) GetFill() *Fill {
	if b.fill == nil {
		b.fill = NewFill()
	}
	return b.fill
}

func (b *BaseShape) GetBorder() *Border {
	if b.border == nil {
		b.border = NewBorder()
	}
	return b.border
}

func (b *BaseShape) SetBorder(border *Border) { b.border = border }

// RichTextShape represents a text box.
type RichTextShape struct {
	BaseShape
	paragraphs      []*Paragraph
	activeParagraph int
	wordWrap        bool
	textAnchor      TextAnchorType
	autoFit         bool
}

// TextAnchorType represents the text anchoring type within a shape.
type TextAnchorType string

const (
	TextAnchorTop    TextAnchorType = "t"
	TextAnchorMiddle TextAnchorType = "ctr"
	TextAnchorBottom TextAnchorType = "b"
	TextAnchorNone   TextAnchorType = ""
)

// ParseTextAnchor maps top, middle and bottom to their DrawingML anchors.
func ParseTextAnchor(name string) (TextAnchorType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "top":
		return TextAnchorTop, nil
	case "middle", "center":
		return TextAnchorMiddle, nil
	case "bottom":
		return TextAnchorBottom, nil
	}
	return TextAnchorNone, fmt.Errorf("unknown vertical alignment %q", name)
}

func (r *RichTextShape) GetType() ShapeType { return ShapeTypeTextBox }

// NewRichTextShape creates a new rich text shape.
func NewRichTextShape() *RichTextShape {
	return &RichTextShape{
		paragraphs: []*Paragraph{NewParagraph()},
		wordWrap:   true,
	}
}

// GetActiveParagraph returns the active paragraph.
func (r *RichTextShape) GetActiveParagraph() *Paragraph {
	if len(r.paragraphs) == 0 {
		r.paragraphs = append(r.paragraphs, NewParagraph())
		r.activeParagraph = 0
	}
	return r.paragraphs[r.activeParagraph]
}

// CreateParagraph creates a new paragraph and makes it active.
func (r *RichTextShape) CreateParagraph() *Paragraph {
	p := NewParagraph()
	r.paragraphs = append(r.paragraphs, p)
	r.activeParagraph = len(r.paragraphs) - 1
	return p
}

// GetParagraphs returns all paragraphs.
func (r *RichTextShape) GetParagraphs() []*Paragraph {
	return r.paragraphs
}

// CreateTextRun creates a text run in the active paragraph.
func (r *RichTextShape) CreateTextRun(text string) *TextRun {
	return r.GetActiveParagraph().CreateTextRun(text)
}

// CreateBreak creates a line break in the active paragraph.
func (r *RichTextShape) CreateBreak() *BreakElement {
	return r.GetActiveParagraph().CreateBreak()
}

// SetText replaces all content with a single paragraph holding text.
func (r *RichTextShape) SetText(text string) *TextRun {
	r.paragraphs = []*Paragraph{NewParagraph()}
	r.activeParagraph = 0
	return r.paragraphs[0].CreateTextRun(text)
}

// Text returns the plain text, one line per paragraph.
func (r *RichTextShape) Text() string {
	return strings.Join(paragraphsText(r.paragraphs), "\n")
}

// HasText reports whether any paragraph carries a text run.
func (r *RichTextShape) HasText() bool {
	for _, p := range r.paragraphs {
		for _, e := range p.elements {
			if tr, ok := e.(*TextRun); ok && tr.text != "" {
				return true
			}
		}
	}
	return false
}

// SetWordWrap sets word wrap.
func (r *RichTextShape) SetWordWrap(wrap bool) { r.wordWrap = wrap }

// GetWordWrap returns word wrap setting.
func (r *RichTextShape) GetWordWrap() bool { return r.wordWrap }

// SetTextAnchor sets the vertical position of text within the shape.
func (r *RichTextShape) SetTextAnchor(anchor TextAnchorType) { r.textAnchor = anchor }

// GetTextAnchor returns the text anchoring type.
func (r *RichTextShape) GetTextAnchor() TextAnchorType { return r.textAnchor }

// Paragraph represents a text paragraph.
type Paragraph struct {
	elements  []ParagraphElement
	alignment *Alignment
	bullet    *Bullet
}

// ParagraphElement is the interface for paragraph content.
type ParagraphElement interface {
	GetElementType() string
}

// NewParagraph creates a new paragraph.
func NewParagraph() *Paragraph {
	return &Paragraph{
		elements:  make([]ParagraphElement, 0),
		alignment: NewAlignment(),
	}
}

// GetAlignment returns the paragraph alignment.
func (p *Paragraph) GetAlignment() *Alignment { return p.alignment }

// TextRuns returns the paragraph's runs in order.
func (p *Paragraph) TextRuns() []*TextRun {
	var runs []*TextRun
	for _, e := range p.elements {
		if tr, ok := e.(*TextRun); ok {
			runs = append(runs, tr)
		}
	}
	return runs
}

// CreateTextRun creates a new text run.
func (p *Paragraph) CreateTextRun(text string) *TextRun {
	tr := &TextRun{
		text: text,
		font: NewFont(),
	}
	p.elements = append(p.elements, tr)
	return tr
}

// CreateBreak creates a line break element.
func (p *Paragraph) CreateBreak() *BreakElement {
	br := &BreakElement{}
	p.elements = append(p.elements, br)
	return br
}

// TextRun represents a run of text with formatting.
type TextRun struct {
	text string
	font *Font
}

func (tr *TextRun) GetElementType() string { return "textrun" }

// GetText returns the text content.
func (tr *TextRun) GetText() string { return tr.text }

// SetText sets the text content.
func (tr *TextRun) SetText(text string) { tr.text = text }

// GetFont returns the font properties.
func (tr *TextRun) GetFont() *Font { return tr.font }

// SetFont sets the font properties.
func (tr *TextRun) SetFont(f *Font) { tr.font = f }

// BreakElement represents a line break.
type BreakElement struct{}

func (br *BreakElement) GetElementType() string { return "break" }

func paragraphsText(paragraphs []*Paragraph) []string {
	lines := make([]string, 0, len(paragraphs))
	for _, para := range paragraphs {
		var sb strings.Builder
		for _, elem := range para.elements {
			switch e := elem.(type) {
			case *TextRun:
				sb.WriteString(e.text)
			case *BreakElement:
				sb.WriteString("\n")
			}
		}
		lines = append(lines, sb.String())
	}
	return lines
}

// DrawingShape represents a picture.
type DrawingShape struct {
	BaseShape
	data     []byte
	mimeType string
}

func (d *DrawingShape) GetType() ShapeType { return ShapeTypePicture }

// NewDrawingShape creates a new drawing shape.
func NewDrawingShape() *DrawingShape {
	return &DrawingShape{}
}

// SetImageData sets the raw image data. An empty mimeType is sniffed from data.
func (d *DrawingShape) SetImageData(data []byte, mimeType string) *DrawingShape {
	if mimeType == "" {
		mimeType = sniffImageMime(data)
	}
	d.data = data
	d.mimeType = mimeType
	return d
}

// GetImageData returns the raw image data.
func (d *DrawingShape) GetImageData() []byte { return d.data }

// GetMimeType returns the image MIME type.
func (d *DrawingShape) GetMimeType() string { return d.mimeType }

// NativeSize returns the pixel dimensions of the image data. Only formats
// registered with the standard image package are understood.
func (d *DrawingShape) NativeSize() (int, int, error) {
	if len(d.data) == 0 {
		return 0, 0, ErrNoImageData
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(d.data))
	if err != nil {
		return 0, 0, fmt.Errorf("read image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("image has empty dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, nil
}

// AutoShape represents a preset-geometry shape (rectangle, ellipse, etc.).
type AutoShape struct {
	BaseShape
	shapeType AutoShapeType
	text      string
}

func (a *AutoShape) GetType() ShapeType { return ShapeTypeAutoShape }

// NewAutoShape creates a new auto shape.
func NewAutoShape() *AutoShape {
	return &AutoShape{shapeType: AutoShapeRectangle}
}

// SetAutoShapeType sets the preset geometry.
func (a *AutoShape) SetAutoShapeType(t AutoShapeType) *AutoShape {
	a.shapeType = t
	return a
}

// GetAutoShapeType returns the preset geometry.
func (a *AutoShape) GetAutoShapeType() AutoShapeType { return a.shapeType }

// SetSolidFill sets a solid fill on the auto shape.
func (a *AutoShape) SetSolidFill(c Color) *AutoShape {
	a.GetFill().SetSolid(c)
	return a
}

// SetText sets the text content.
func (a *AutoShape) SetText(text string) *AutoShape {
	a.text = text
	return a
}

// GetText returns the text content.
func (a *AutoShape) GetText() string { return a.text }
