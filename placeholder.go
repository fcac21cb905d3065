package slidesmith

// PlaceholderShape represents a placeholder shape (title, body, etc.) inherited from a layout.
type PlaceholderShape struct {
	RichTextShape
	phType   PlaceholderType
	phIdx    int
	vertical bool
}

func (p *PlaceholderShape) GetType() ShapeType { return ShapeTypePlaceholder }

// PlaceholderType represents the type of placeholder.
type PlaceholderType string

const (
	PlaceholderTitle    PlaceholderType = "title"
	PlaceholderBody     PlaceholderType = "body"
	PlaceholderCtrTitle PlaceholderType = "ctrTitle"
	PlaceholderSubTitle PlaceholderType = "subTitle"
	PlaceholderPicture  PlaceholderType = "pic"
	PlaceholderObject   PlaceholderType = "obj"
	PlaceholderDate     PlaceholderType = "dt"
	PlaceholderFooter   PlaceholderType = "ftr"
	PlaceholderSlideNum PlaceholderType = "sldNum"
)

// IsTitle reports whether the placeholder holds a slide title.
func (t PlaceholderType) IsTitle() bool {
	return t == PlaceholderTitle || t == PlaceholderCtrTitle
}

// NewPlaceholderShape creates a new placeholder shape.
func NewPlaceholderShape(phType PlaceholderType, idx int) *PlaceholderShape {
	return &PlaceholderShape{
		RichTextShape: *NewRichTextShape(),
		phType:        phType,
		phIdx:         idx,
	}
}

// GetPlaceholderType returns the placeholder type.
func (p *PlaceholderShape) GetPlaceholderType() PlaceholderType { return p.phType }

// GetPlaceholderIndex returns the layout-assigned idx.
func (p *PlaceholderShape) GetPlaceholderIndex() int { return p.phIdx }

// AppendParagraph adds a paragraph holding text. The first call on an empty
// placeholder reuses its blank paragraph.
func (p *PlaceholderShape) AppendParagraph(text string) *Paragraph {
	var para *Paragraph
	if !p.HasText() && len(p.paragraphs) == 1 && len(p.paragraphs[0].elements) == 0 {
		para = p.paragraphs[0]
	} else {
		para = p.CreateParagraph()
	}
	para.CreateTextRun(text).font = inheritedFont()
	return para
}

// SetText replaces the content with one paragraph whose run inherits the layout's font.
func (p *PlaceholderShape) SetText(text string) *TextRun {
	tr := p.RichTextShape.SetText(text)
	tr.font = inheritedFont()
	return tr
}

// inheritedFont leaves every property unset so the master's text styles apply.
func inheritedFont() *Font {
	return &Font{}
}
